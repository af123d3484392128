/*
 * pqr.go, part of gopocket.
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
)

//Sphere is an alpha sphere from an fpocket pocketN_vert.pqr file.
type Sphere struct {
	Center Point3D
	Charge float64
	Radius float64
}

//ReadSpheres reads the ATOM records of a PQR file. PQR columns are not fixed,
//so the last five whitespace-separated fields of each record are taken as
//x, y, z, charge and radius.
func ReadSpheres(r io.Reader) ([]Sphere, error) {
	ret := make([]Sphere, 0, 32)
	scanner := bufio.NewScanner(r)
	linenu := 0
	for scanner.Scan() {
		linenu++
		line := scanner.Text()
		tag := recordTag(line)
		if tag != "ATOM" && tag != "HETATM" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 7 {
			return nil, newParseError(linenu, line, ErrShortLine, "ReadSpheres")
		}
		var v [5]float64
		var err error
		for i, f := range fields[len(fields)-5:] {
			v[i], err = strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, newParseError(linenu, line, ErrNotNumeric, "ReadSpheres")
			}
		}
		ret = append(ret, Sphere{Center: Point3D{v[0], v[1], v[2]}, Charge: v[3], Radius: v[4]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

//ReadSpheresFile reads the alpha spheres from the named, possibly compressed, PQR file.
func ReadSpheresFile(name string) ([]Sphere, error) {
	f, err := OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ReadSpheres(f)
	if err != nil {
		return nil, errSetFile(errDecorate(err, "ReadSpheresFile"), name)
	}
	return s, nil
}

//Centers returns the centers of the spheres.
func Centers(spheres []Sphere) []Point3D {
	ret := make([]Point3D, len(spheres))
	for i, s := range spheres {
		ret[i] = s.Center
	}
	return ret
}
