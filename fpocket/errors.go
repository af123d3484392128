/*
 * errors.go, part of gopocket.
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

import "fmt"

//Error is the error type for the fpocket package. It fulfills pocket.Error.
type Error struct {
	message  string
	program  string //fpocket or mdpocket
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename != "" {
		return fmt.Sprintf("%s with input %s: %s", err.program, err.filename, err.message)
	}
	return fmt.Sprintf("%s: %s", err.program, err.message)
}

//Decorate adds dec to the error's trail, if not empty, and returns the trail.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//FileName returns the input file that caused the error, if any.
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	ErrInvalidOption   = "invalid option"
	ErrUnsupportedType = "unsupported structure format, convert it to PDB first"
	ErrNoPocketsDir    = "no pockets directory in the output"
	ErrNoTrajectory    = "a trajectory and a topology are needed"
	ErrNoPockets       = "no pocket files given"
	ErrMissingOutput   = "expected output missing"
)
