/*
 * config.go, part of gopocket.
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

package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rmera/gopocket/fpocket"
	"gopkg.in/yaml.v3"
)

//MDConfig holds the mdpocket settings.
type MDConfig struct {
	Type             fpocket.PocketType `yaml:"pocket_type"`
	IsoValue         float64            `yaml:"iso_value"`
	MaxIntraDistance float64            `yaml:"max_intra_distance"`
	Workers          int                `yaml:"workers"`
}

//Config is the content of a gopocket configuration file. Everything in it
//can be overridden by command line flags.
type Config struct {
	FPocket  string           `yaml:"fpocket"`  //fpocket executable
	MDPocket string           `yaml:"mdpocket"` //mdpocket executable
	WorkDir  string           `yaml:"workdir"`  //where the temporary directories go
	Retries  uint64           `yaml:"retries"`
	Verbose  bool             `yaml:"verbose"`
	Options  *fpocket.Options `yaml:"fpocket_options"`
	MD       MDConfig         `yaml:"mdpocket_options"`
}

//DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	M := fpocket.NewMDHandle()
	return &Config{
		FPocket:  fpocket.NewHandle().Command(),
		MDPocket: M.Command(),
		Options:  fpocket.DefaultOptions(),
		MD: MDConfig{
			Type:             M.Type,
			IsoValue:         M.IsoValue,
			MaxIntraDistance: M.MaxIntraDistance,
			Workers:          M.Workers,
		},
	}
}

//LoadConfig reads the named YAML file over the default configuration. Unknown
//keys are an error. An empty name gives the defaults.
func LoadConfig(name string) (*Config, error) {
	C := DefaultConfig()
	if name == "" {
		return C, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(C); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "config %s", name)
	}
	if err := C.Options.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "config %s", name)
	}
	return C, nil
}

//Handle returns an fpocket handle set as C says.
func (C *Config) Handle() *fpocket.Handle {
	H := fpocket.NewHandle()
	H.SetCommand(C.FPocket)
	H.SetWorkDir(C.WorkDir)
	opts := *C.Options
	H.Options = &opts
	H.Retries = C.Retries
	H.Verbose = C.Verbose
	return H
}

//MDHandle returns an mdpocket handle set as C says.
func (C *Config) MDHandle() *fpocket.MDHandle {
	M := fpocket.NewMDHandle()
	M.SetCommand(C.MDPocket)
	M.SetWorkDir(C.WorkDir)
	M.Type = C.MD.Type
	M.IsoValue = C.MD.IsoValue
	M.MaxIntraDistance = C.MD.MaxIntraDistance
	M.Workers = C.MD.Workers
	M.Retries = C.Retries
	M.Verbose = C.Verbose
	return M
}
