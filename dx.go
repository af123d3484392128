/*
 * dx.go, part of gopocket.
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

package pocket

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

//MaxGridNodes is the largest number of nodes ReadDX accepts in a grid.
const MaxGridNodes = 1 << 28

//Grid is a scalar field sampled on a regular 3D grid, as found in the OpenDX
//files mdpocket writes (mdpout_dens_grid.dx, mdpout_freq_grid.dx).
type Grid struct {
	Counts [3]int
	Origin Point3D
	Delta  [3]r3.Vec
	Values []float64 //z index varies fastest, then y, then x
}

//ReadDX reads an OpenDX scalar grid.
func ReadDX(r io.Reader) (*Grid, error) {
	G := new(Grid)
	deltas := 0
	var haveCounts, haveOrigin bool
	var countsLine string
	var countsLinenu int
	scanner := bufio.NewScanner(r)
	linenu := 0
	//header
	for scanner.Scan() {
		linenu++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch {
		case strings.Contains(line, "gridpositions") && len(fields) >= 4 && fields[len(fields)-4] == "counts":
			for i := 0; i < 3; i++ {
				n, err := strconv.Atoi(fields[len(fields)-3+i])
				if err != nil || n <= 0 {
					return nil, newParseError(linenu, line, ErrNotNumeric, "ReadDX")
				}
				G.Counts[i] = n
			}
			haveCounts = true
			countsLine, countsLinenu = line, linenu
		case fields[0] == "origin":
			v, err := parseFloatFields(fields[1:])
			if err != nil {
				return nil, newParseError(linenu, line, ErrNotNumeric, "ReadDX")
			}
			G.Origin = Point3D{v[0], v[1], v[2]}
			haveOrigin = true
		case fields[0] == "delta":
			if deltas >= 3 {
				return nil, newParseError(linenu, line, "too many delta lines", "ReadDX")
			}
			v, err := parseFloatFields(fields[1:])
			if err != nil {
				return nil, newParseError(linenu, line, ErrNotNumeric, "ReadDX")
			}
			G.Delta[deltas] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
			deltas++
		}
		if strings.HasSuffix(line, "data follows") {
			break
		}
	}
	if !haveCounts || !haveOrigin || deltas != 3 {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, newParseError(linenu, "", ErrGridHeader, "ReadDX")
	}
	total := 1
	for _, n := range G.Counts {
		if n > MaxGridNodes/total {
			return nil, newParseError(countsLinenu, countsLine, ErrGridTooLarge, "ReadDX")
		}
		total *= n
	}
	G.Values = make([]float64, 0, min(total, 1<<16))
	//values, until the next keyword line or the end of the file
	for scanner.Scan() {
		linenu++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if c := line[0]; (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			break
		}
		for _, tok := range strings.Fields(line) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, newParseError(linenu, line, ErrNotNumeric, "ReadDX")
			}
			G.Values = append(G.Values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(G.Values) != total {
		return nil, newSchemaError(linenu, total, len(G.Values), ErrGridSize, "ReadDX")
	}
	return G, nil
}

//ReadDXFile reads the named, possibly compressed, OpenDX file.
func ReadDXFile(name string) (*Grid, error) {
	f, err := OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	G, err := ReadDX(f)
	if err != nil {
		return nil, errSetFile(errDecorate(err, "ReadDXFile"), name)
	}
	return G, nil
}

func parseFloatFields(fields []string) ([3]float64, error) {
	var ret [3]float64
	if len(fields) < 3 {
		return ret, strconv.ErrSyntax
	}
	var err error
	for i := range ret {
		ret[i], err = strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return ret, err
		}
	}
	return ret, nil
}

//Point returns the position of the grid node with indexes i, j, k.
func (G *Grid) Point(i, j, k int) Point3D {
	v := G.Origin.Vec()
	v = r3.Add(v, r3.Scale(float64(i), G.Delta[0]))
	v = r3.Add(v, r3.Scale(float64(j), G.Delta[1]))
	v = r3.Add(v, r3.Scale(float64(k), G.Delta[2]))
	return fromVec(v)
}

//Value returns the field value at node i, j, k.
func (G *Grid) Value(i, j, k int) float64 {
	return G.Values[(i*G.Counts[1]+j)*G.Counts[2]+k]
}

//IsoPoints returns the nodes whose value is at least iso, together with
//their values, in file order.
func (G *Grid) IsoPoints(iso float64) ([]Point3D, []float64) {
	points := make([]Point3D, 0, 64)
	values := make([]float64, 0, 64)
	for i := 0; i < G.Counts[0]; i++ {
		for j := 0; j < G.Counts[1]; j++ {
			for k := 0; k < G.Counts[2]; k++ {
				v := G.Value(i, j, k)
				if v >= iso {
					points = append(points, G.Point(i, j, k))
					values = append(values, v)
				}
			}
		}
	}
	return points, values
}

//IsoRecords turns iso points into ATOM records of a PTH residue, with the
//grid value in the temperature factor column. values can be nil.
func IsoRecords(points []Point3D, values []float64) []PocketRecord {
	ret := make([]PocketRecord, len(points))
	for i, p := range points {
		var v float64
		if values != nil {
			v = values[i]
		}
		ret[i] = PocketRecord{
			Tag:     "ATOM",
			Serial:  i + 1,
			Name:    "C",
			ResName: "PTH",
			ResSeq:  1,
			Coord:   p,
			TempFac: v,
			Element: "C",
		}
	}
	return ret
}

//WriteIsoPDB writes the grid nodes with values of at least iso to w, in a form that
//ExtractCoords can read. It returns the number of points written.
func (G *Grid) WriteIsoPDB(w io.Writer, iso float64) (int, error) {
	points, values := G.IsoPoints(iso)
	if err := WriteRecords(w, IsoRecords(points, values)); err != nil {
		return 0, errDecorate(err, "WriteIsoPDB")
	}
	return len(points), nil
}
