/*
 * options.go, part of gopocket.
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
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//Options are the pocket-detection parameters passed to fpocket.
//The yaml tags are the keys used in gopocket configuration files.
type Options struct {
	MinAlpha           float64 `yaml:"min_alpha"`            //minimum alpha sphere radius (A)
	MaxAlpha           float64 `yaml:"max_alpha"`            //maximum alpha sphere radius (A)
	MinSpheres         int     `yaml:"min_spheres"`          //minimum number of alpha spheres per pocket
	ApolarRatio        float64 `yaml:"apolar_ratio"`         //minimum proportion of apolar spheres in a pocket
	MinApolarNeighbors int     `yaml:"min_apolar_neighbors"` //for a sphere to be considered apolar
	Linkage            string  `yaml:"linkage"`              //single, complete, average or centroid
	Distance           string  `yaml:"distance"`             //euclidean or manhattan
	ClusterDistance    float64 `yaml:"cluster_distance"`
	VolumeIterations   int     `yaml:"volume_iterations"` //Monte-Carlo iterations for each pocket volume
}

var linkageCodes = map[string]string{
	"single":   "s",
	"complete": "m",
	"average":  "a",
	"centroid": "c",
}

var distanceCodes = map[string]string{
	"euclidean": "e",
	"manhattan": "b",
}

//DefaultOptions returns the options fpocket uses when none are given.
func DefaultOptions() *Options {
	return &Options{
		MinAlpha:           3.4,
		MaxAlpha:           6.2,
		MinSpheres:         15,
		ApolarRatio:        0.0,
		MinApolarNeighbors: 3,
		Linkage:            "single",
		Distance:           "euclidean",
		ClusterDistance:    2.4,
		VolumeIterations:   300,
	}
}

func (O *Options) invalid(format string, a ...interface{}) error {
	return Error{fmt.Sprintf("%s: %s", ErrInvalidOption, fmt.Sprintf(format, a...)), FPocket, "", []string{"Validate"}, true}
}

//Validate returns an error if any of the options makes no sense.
func (O *Options) Validate() error {
	switch {
	case O.MinAlpha <= 0:
		return O.invalid("minimum alpha sphere radius %.2f", O.MinAlpha)
	case O.MaxAlpha <= O.MinAlpha:
		return O.invalid("maximum alpha sphere radius %.2f not larger than the minimum %.2f", O.MaxAlpha, O.MinAlpha)
	case O.MinSpheres < 1:
		return O.invalid("minimum spheres per pocket %d", O.MinSpheres)
	case O.ApolarRatio < 0 || O.ApolarRatio > 1:
		return O.invalid("apolar sphere ratio %.2f", O.ApolarRatio)
	case O.MinApolarNeighbors < 0:
		return O.invalid("minimum apolar neighbors %d", O.MinApolarNeighbors)
	case O.ClusterDistance <= 0:
		return O.invalid("clustering distance %.2f", O.ClusterDistance)
	case O.VolumeIterations < 1:
		return O.invalid("volume iterations %d", O.VolumeIterations)
	}
	if _, ok := linkageCodes[strings.ToLower(O.Linkage)]; !ok {
		return O.invalid("linkage %q", O.Linkage)
	}
	if _, ok := distanceCodes[strings.ToLower(O.Distance)]; !ok {
		return O.invalid("distance %q", O.Distance)
	}
	return nil
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

//Args returns the fpocket command line arguments for the given input file.
//The options should be validated first.
func (O *Options) Args(input string) []string {
	return []string{
		"-f", input,
		"-m", ftoa(O.MinAlpha),
		"-M", ftoa(O.MaxAlpha),
		"-i", strconv.Itoa(O.MinSpheres),
		"-p", ftoa(O.ApolarRatio),
		"-A", strconv.Itoa(O.MinApolarNeighbors),
		"-C", linkageCodes[strings.ToLower(O.Linkage)],
		"-e", distanceCodes[strings.ToLower(O.Distance)],
		"-D", ftoa(O.ClusterDistance),
		"-v", strconv.Itoa(O.VolumeIterations),
	}
}

//PocketType selects one of mdpocket's parameter presets.
type PocketType int

const (
	DefaultPockets PocketType = iota
	DruggablePockets
	ChannelPockets //channels and small cavities
	WaterPockets   //water binding sites
	BigPockets     //big external pockets
)

var pocketTypeNames = [...]string{"default", "druggable", "channels", "water", "big"}

func (P PocketType) String() string {
	if P < 0 || int(P) >= len(pocketTypeNames) {
		return fmt.Sprintf("PocketType(%d)", int(P))
	}
	return pocketTypeNames[P]
}

//Args returns the mdpocket arguments for the preset, each flag and value
//as a separate argument.
func (P PocketType) Args() []string {
	switch P {
	case DruggablePockets:
		return []string{"-S"}
	case ChannelPockets:
		return []string{"-m", "2.8", "-M", "5.5", "-i", "3"}
	case WaterPockets:
		return []string{"-m", "3.5", "-M", "5.5", "-i", "3"}
	case BigPockets:
		return []string{"-m", "3.5", "-M", "10.0", "-i", "3"}
	}
	return nil
}

//ParsePocketType returns the preset with the given name (see PocketType.String).
func ParsePocketType(name string) (PocketType, error) {
	for i, n := range pocketTypeNames {
		if strings.EqualFold(n, name) {
			return PocketType(i), nil
		}
	}
	return DefaultPockets, Error{fmt.Sprintf("%s: pocket type %q", ErrInvalidOption, name), MDPocket, "", []string{"ParsePocketType"}, true}
}

//UnmarshalYAML lets configuration files use the preset names.
func (P *PocketType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	t, err := ParsePocketType(s)
	if err != nil {
		return err
	}
	*P = t
	return nil
}
