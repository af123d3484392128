/*
 * pdb.go, part of gopocket.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package pocket

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//Column ranges (0-based, end excluded) of the legacy fixed-column structure format.
const (
	tagEnd  = 6
	xStart  = 30
	yStart  = 38
	zStart  = 46
	zEnd    = 54
	endMark = "END"
)

//DefaultTags are the record tags ExtractCoords looks for when none are given.
var DefaultTags = []string{"ATOM", "HETATM"}

//recordTag returns the trimmed record tag of a structure-file line.
func recordTag(line string) string {
	if len(line) > tagEnd {
		return strings.TrimSpace(line[:tagEnd])
	}
	return strings.TrimSpace(line)
}

//parseCoordLine reads the coordinate triplet from the fixed columns of a record line.
func parseCoordLine(line string, linenu int) (Point3D, error) {
	if len(line) < zEnd {
		return Point3D{}, newParseError(linenu, line, ErrShortLine, "parseCoordLine")
	}
	var c [3]float64
	var err error
	for i, start := range [3]int{xStart, yStart, zStart} {
		c[i], err = strconv.ParseFloat(strings.TrimSpace(line[start:start+8]), 64)
		if err != nil {
			return Point3D{}, newParseError(linenu, line, ErrNotNumeric, "parseCoordLine")
		}
	}
	return Point3D{c[0], c[1], c[2]}, nil
}

//ExtractCoords reads the coordinates of every line in r whose record tag
//is one of tags (DefaultTags if none given). Lines with other tags are skipped.
//A malformed qualifying line fails the whole read with a *ParseError.
//If no line qualifies, an *EmptyInputError is returned.
func ExtractCoords(r io.Reader, tags ...string) ([]Point3D, error) {
	if len(tags) == 0 {
		tags = DefaultTags
	}
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[strings.TrimSpace(t)] = true
	}
	points := make([]Point3D, 0, 64)
	scanner := bufio.NewScanner(r)
	linenu := 0
	for scanner.Scan() {
		linenu++
		line := strings.TrimRight(scanner.Text(), "\r")
		if !want[recordTag(line)] {
			continue
		}
		p, err := parseCoordLine(line, linenu)
		if err != nil {
			return nil, errDecorate(err, "ExtractCoords")
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, newEmptyInputError(ErrNoRecords, "ExtractCoords")
	}
	return points, nil
}

//ExtractCoordsFile is like ExtractCoords but reads the named file, which
//can be compressed (see OpenFile).
func ExtractCoordsFile(name string, tags ...string) ([]Point3D, error) {
	f, err := OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	points, err := ExtractCoords(f, tags...)
	if err != nil {
		return nil, errSetFile(errDecorate(err, "ExtractCoordsFile"), name)
	}
	return points, nil
}

//PocketRecord is one line of a structure file describing a sampled point.
type PocketRecord struct {
	Tag       string //ATOM or HETATM
	Serial    int
	Name      string //atom name
	ResName   string
	Chain     string
	ResSeq    int
	Coord     Point3D
	Occupancy float64
	TempFac   float64
	Element   string
}

//String renders the record in the fixed-column layout, without line ending.
func (R PocketRecord) String() string {
	name := R.Name
	if len(name) < 4 {
		name = " " + name //the PDB convention for names shorter than 4 characters
	}
	chain := R.Chain
	if chain == "" {
		chain = " "
	}
	return fmt.Sprintf("%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s",
		R.Tag, R.Serial, name, R.ResName, chain, R.ResSeq,
		R.Coord.X, R.Coord.Y, R.Coord.Z, R.Occupancy, R.TempFac, R.Element)
}

//check verifies that the numeric fields fit their columns.
func (R PocketRecord) check() error {
	for _, v := range [3]float64{R.Coord.X, R.Coord.Y, R.Coord.Z} {
		if len(strconv.FormatFloat(v, 'f', 3, 64)) > 8 {
			return &FormatError{message: fmt.Sprintf("%s: coordinate %.3f", ErrFieldOverflow, v), deco: []string{"check"}}
		}
	}
	if R.Serial < 0 || R.Serial > 99999 {
		return &FormatError{message: fmt.Sprintf("%s: serial %d", ErrFieldOverflow, R.Serial), deco: []string{"check"}}
	}
	if len(R.Name) > 4 || len(R.ResName) > 3 || len(R.Chain) > 1 || R.ResSeq > 9999 || R.ResSeq < -999 {
		return &FormatError{message: fmt.Sprintf("%s: record %d naming fields", ErrFieldOverflow, R.Serial), deco: []string{"check"}}
	}
	return nil
}

//PocketRecords returns one HETATM record for each point of c, with 1-based
//serials. The cluster identifier id is used as the residue number.
func PocketRecords(c Cluster, id int) []PocketRecord {
	ret := make([]PocketRecord, 0, len(c))
	for i, p := range c {
		ret = append(ret, PocketRecord{
			Tag:       "HETATM",
			Serial:    i + 1,
			Name:      "APOL",
			ResName:   "STP",
			Chain:     "C",
			ResSeq:    id,
			Coord:     p,
			Occupancy: 1.0,
			TempFac:   0.0,
			Element:   "Ve",
		})
	}
	return ret
}

//WriteRecords writes the records to w, one per line, followed by an END line.
func WriteRecords(w io.Writer, records []PocketRecord) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if err := r.check(); err != nil {
			return errDecorate(err, "WriteRecords")
		}
		if _, err := bw.WriteString(r.String() + "\n"); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString(endMark + "\n"); err != nil {
		return err
	}
	return bw.Flush()
}

//WritePocket writes the cluster c, with identifier id, to w as a pocket file
//that ExtractCoords can read back.
func WritePocket(w io.Writer, c Cluster, id int) error {
	return errDecorate(WriteRecords(w, PocketRecords(c, id)), "WritePocket")
}

//WritePocketFile writes the cluster c to a new file with the given name, compressed
//if the name asks for it (see CreateFile).
func WritePocketFile(name string, c Cluster, id int) error {
	f, err := CreateFile(name)
	if err != nil {
		return err
	}
	if err := WritePocket(f, c, id); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//PathRecords converts records to the form mdpocket expects for a selected
//pocket: ATOM records of carbon atoms of a PTH residue.
func PathRecords(records []PocketRecord) []PocketRecord {
	ret := make([]PocketRecord, len(records))
	for i, r := range records {
		r.Tag = "ATOM"
		r.Name = "C"
		r.ResName = "PTH"
		r.Element = "C"
		ret[i] = r
	}
	return ret
}

//ReadRecords reads the ATOM and HETATM records in r. Only the fields used by
//gopocket's writers are read.
func ReadRecords(r io.Reader) ([]PocketRecord, error) {
	ret := make([]PocketRecord, 0, 64)
	scanner := bufio.NewScanner(r)
	linenu := 0
	for scanner.Scan() {
		linenu++
		line := strings.TrimRight(scanner.Text(), "\r")
		tag := recordTag(line)
		if tag != "ATOM" && tag != "HETATM" {
			continue
		}
		p, err := parseCoordLine(line, linenu)
		if err != nil {
			return nil, errDecorate(err, "ReadRecords")
		}
		rec := PocketRecord{Tag: tag, Coord: p}
		var errs [2]error
		rec.Serial, errs[0] = strconv.Atoi(strings.TrimSpace(line[6:11]))
		rec.Name = strings.TrimSpace(line[12:16])
		rec.ResName = strings.TrimSpace(line[17:20])
		rec.Chain = strings.TrimSpace(line[21:22])
		rec.ResSeq, errs[1] = strconv.Atoi(strings.TrimSpace(line[22:26]))
		for _, e := range errs {
			if e != nil {
				return nil, newParseError(linenu, line, ErrNotNumeric, "ReadRecords")
			}
		}
		//Optional columns. Missing or malformed ones are left at zero.
		if len(line) >= 60 {
			rec.Occupancy, _ = strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64)
		}
		if len(line) >= 66 {
			rec.TempFac, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
		}
		if len(line) >= 78 {
			rec.Element = strings.TrimSpace(line[76:78])
		}
		ret = append(ret, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(ret) == 0 {
		return nil, newEmptyInputError(ErrNoRecords, "ReadRecords")
	}
	return ret, nil
}

//HasHetero returns true if r contains at least one HETATM record.
func HasHetero(r io.Reader) (bool, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "HETATM") {
			return true, nil
		}
	}
	return false, scanner.Err()
}
