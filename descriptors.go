/*
 * descriptors.go, part of gopocket.
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
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//DescriptorTable holds per-snapshot pocket descriptors, as written by
//mdpocket when characterizing a pocket. The first column holds the snapshot
//labels, which are kept as strings. All the other columns are numeric.
//The table is not modified after it is read.
type DescriptorTable struct {
	names  []string
	labels []string
	values map[string][]float64
}

//ReadDescriptors reads a whitespace-delimited table with a header line of column
//names. Blank lines are ignored. A row with a different number of tokens than the
//header gives a *SchemaError, a non-numeric value outside the first column a
//*ParseError, and an input without header an *EmptyInputError.
func ReadDescriptors(r io.Reader) (*DescriptorTable, error) {
	D := new(DescriptorTable)
	scanner := bufio.NewScanner(r)
	linenu := 0
	for scanner.Scan() {
		linenu++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if D.names == nil {
			D.names = fields
			D.values = make(map[string][]float64, len(fields)-1)
			for _, name := range fields[1:] {
				D.values[name] = make([]float64, 0, 64)
			}
			if len(D.values) != len(fields)-1 {
				return nil, newParseError(linenu, scanner.Text(), "repeated column name", "ReadDescriptors")
			}
			continue
		}
		if len(fields) != len(D.names) {
			return nil, newSchemaError(linenu, len(D.names), len(fields), ErrTokenCount, "ReadDescriptors")
		}
		for i, tok := range fields[1:] {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, newParseError(linenu, scanner.Text(), ErrNotNumeric, "ReadDescriptors")
			}
			name := D.names[i+1]
			D.values[name] = append(D.values[name], v)
		}
		D.labels = append(D.labels, fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if D.names == nil {
		return nil, newEmptyInputError(ErrNoHeader, "ReadDescriptors")
	}
	return D, nil
}

//ReadDescriptorsFile reads a descriptor table from the named, possibly compressed, file.
func ReadDescriptorsFile(name string) (*DescriptorTable, error) {
	f, err := OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	D, err := ReadDescriptors(f)
	if err != nil {
		return nil, errSetFile(errDecorate(err, "ReadDescriptorsFile"), name)
	}
	return D, nil
}

//Len returns the number of snapshots in the table.
func (D *DescriptorTable) Len() int {
	return len(D.labels)
}

//Names returns a copy of the column names, in file order. The first one
//names the label column.
func (D *DescriptorTable) Names() []string {
	return append([]string(nil), D.names...)
}

//Labels returns a copy of the snapshot labels.
func (D *DescriptorTable) Labels() []string {
	return append([]string(nil), D.labels...)
}

//Column returns a copy of the values of the named numeric column.
func (D *DescriptorTable) Column(name string) ([]float64, error) {
	v, ok := D.values[name]
	if !ok {
		return nil, fmt.Errorf("gopocket: no numeric column %q in descriptor table", name)
	}
	return append([]float64(nil), v...), nil
}

//ColumnAt returns the name and a copy of the values of the i-th column, counting
//from 1 (0 is the label column).
func (D *DescriptorTable) ColumnAt(i int) (string, []float64, error) {
	if i < 1 || i >= len(D.names) {
		return "", nil, fmt.Errorf("gopocket: column %d out of range [1,%d)", i, len(D.names))
	}
	v, err := D.Column(D.names[i])
	return D.names[i], v, err
}

//Summary holds simple statistics for a descriptor over all snapshots.
type Summary struct {
	Mean, StdDev float64
	Min, Max     float64
}

func (S Summary) String() string {
	return fmt.Sprintf("mean %.3f sd %.3f min %.3f max %.3f", S.Mean, S.StdDev, S.Min, S.Max)
}

//Summary returns the mean, standard deviation, minimum and maximum of the named column.
//The standard deviation of a single value is 0.
func (D *DescriptorTable) Summary(name string) (Summary, error) {
	v, ok := D.values[name]
	if !ok {
		return Summary{}, fmt.Errorf("gopocket: no numeric column %q in descriptor table", name)
	}
	if len(v) == 0 {
		return Summary{}, newEmptyInputError("no snapshots for "+name, "Summary")
	}
	var S Summary
	if len(v) == 1 {
		S.Mean = v[0]
	} else {
		S.Mean, S.StdDev = stat.MeanStdDev(v, nil)
	}
	S.Min = floats.Min(v)
	S.Max = floats.Max(v)
	return S, nil
}

//descriptorDescriptions maps the column names in mdpocket descriptor files
//to readable descriptions.
var descriptorDescriptions = map[string]string{
	"snapshot":             "Snapshot",
	"pock_volume":          "Pocket volume",
	"pock_asa":             "Solvent accessible surface area",
	"pock_pol_asa":         "Polar solvent accessible surface area",
	"pock_apol_asa":        "Apolar solvent accessible surface area",
	"pock_asa22":           "Accessible surface area (probe of 2.2A)",
	"pock_pol_asa22":       "Polar solvent accessible surface area (probe of 2.2A)",
	"pock_apol_asa22":      "Apolar solvent accessible surface area (probe of 2.2A)",
	"nb_AS":                "Number of alpha spheres",
	"mean_as_ray":          "Mean alpha sphere radius",
	"mean_as_solv_acc":     "Mean alpha sphere solvent accessibility",
	"apol_as_prop":         "Proportion of apolar alpha spheres",
	"mean_loc_hyd_dens":    "Mean local hydrophobic density",
	"hydrophobicity_score": "Hydrophobicity score",
	"volume_score":         "Volume score",
	"polarity_score":       "Polarity score",
	"charge_score":         "Charge score",
	"prop_polar_atm":       "Proportion of polar atoms",
	"as_density":           "Alpha sphere density",
	"as_max_dst":           "Max distance between mass center and alpha spheres",
}

//DescriptorDescription returns a readable description of an mdpocket
//descriptor column, or the name itself if the column is not known.
func DescriptorDescription(name string) string {
	if d, ok := descriptorDescriptions[name]; ok {
		return d
	}
	return name
}
