/*
 * info.go, part of gopocket.
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

package fpocket

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	pocket "github.com/rmera/gopocket"
)

//Info holds the descriptors fpocket reports for one pocket in its
//<structure>_info.txt file.
type Info struct {
	ID           int
	Score        float64
	Druggability float64
	Spheres      int
	Volume       float64
	Values       map[string]float64 //every key in the block, including the above
}

//The keys fpocket uses for the descriptors that get their own Info field.
const (
	keyScore        = "Score"
	keyDruggability = "Druggability Score"
	keySpheres      = "Number of Alpha Spheres"
	keyVolume       = "Volume"
)

//ParseInfo reads an fpocket info file. The pockets are returned in file order,
//which is fpocket's ranking.
func ParseInfo(r io.Reader) ([]*Info, error) {
	ret := make([]*Info, 0, 16)
	var current *Info
	scanner := bufio.NewScanner(r)
	linenu := 0
	for scanner.Scan() {
		linenu++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Pocket") && strings.HasSuffix(line, ":") {
			fields := strings.Fields(strings.TrimSuffix(line, ":"))
			if len(fields) != 2 {
				return nil, infoError(linenu, line)
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, infoError(linenu, line)
			}
			current = &Info{ID: id, Values: make(map[string]float64, 20)}
			ret = append(ret, current)
			continue
		}
		colon := strings.LastIndex(line, ":")
		if current == nil || colon < 0 {
			return nil, infoError(linenu, line)
		}
		key := strings.TrimSpace(line[:colon])
		v, err := strconv.ParseFloat(strings.TrimSpace(line[colon+1:]), 64)
		if err != nil {
			return nil, infoError(linenu, line)
		}
		current.Values[key] = v
		switch key {
		case keyScore:
			current.Score = v
		case keyDruggability:
			current.Druggability = v
		case keySpheres:
			current.Spheres = int(v)
		case keyVolume:
			current.Volume = v
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

//ParseInfoFile reads the named, possibly compressed, fpocket info file.
func ParseInfoFile(name string) ([]*Info, error) {
	f, err := pocket.OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := ParseInfo(f)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			e.Decorate("ParseInfoFile")
			return nil, e
		}
		return nil, err
	}
	return info, nil
}

func infoError(linenu int, line string) error {
	return Error{fmt.Sprintf("malformed info line %d: %q", linenu, line), FPocket, "", []string{"ParseInfo"}, true}
}
