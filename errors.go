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

package pocket

import (
	"fmt"
	"strings"
)

//Error is the interface fulfilled by all the errors returned by gopocket packages.
//Decorate adds the name of a calling function to the error's trail and returns the trail.
type Error interface {
	Error() string
	Decorate(string) []string
	Critical() bool
	FileName() string
}

//Messages used by the errors in this package.
const (
	ErrNotNumeric    = "non-numeric field"
	ErrShortLine     = "line too short for a coordinate record"
	ErrNoRecords     = "no qualifying records"
	ErrNoHeader      = "no header line"
	ErrTokenCount    = "token count differs from header"
	ErrGridHeader    = "incomplete grid header"
	ErrGridSize      = "number of grid values differs from header"
	ErrGridTooLarge  = "grid has too many nodes"
	ErrFieldOverflow = "value does not fit in its fixed-width field"
)

//ParseError is returned when a line can't be parsed. No partial results
//accompany it.
type ParseError struct {
	Line    int    //1-based line number
	Content string //the offending line, without line ending
	message string
	file    string
	deco    []string
}

func newParseError(line int, content, message, caller string) *ParseError {
	return &ParseError{Line: line, Content: content, message: message, deco: []string{caller}}
}

func (err *ParseError) Error() string {
	if err.file != "" {
		return fmt.Sprintf("%s: line %d: %s: %q", err.file, err.Line, err.message, err.Content)
	}
	return fmt.Sprintf("line %d: %s: %q", err.Line, err.message, err.Content)
}

//Decorate adds dec to the error's trail, if dec is not empty, and returns the trail.
func (err *ParseError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical is always true for parse errors.
func (err *ParseError) Critical() bool { return true }

//FileName returns the name of the file being parsed, or an empty string if unknown.
func (err *ParseError) FileName() string { return err.file }

func (err *ParseError) setFileName(name string) { err.file = name }

//SchemaError is returned when a row, or a block of values, doesn't have the
//number of elements announced by its header.
type SchemaError struct {
	Line    int
	Want    int
	Got     int
	message string
	file    string
	deco    []string
}

func newSchemaError(line, want, got int, message, caller string) *SchemaError {
	return &SchemaError{Line: line, Want: want, Got: got, message: message, deco: []string{caller}}
}

func (err *SchemaError) Error() string {
	s := fmt.Sprintf("line %d: %s: want %d, got %d", err.Line, err.message, err.Want, err.Got)
	if err.file != "" {
		s = err.file + ": " + s
	}
	return s
}

func (err *SchemaError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *SchemaError) Critical() bool { return true }

func (err *SchemaError) FileName() string { return err.file }

func (err *SchemaError) setFileName(name string) { err.file = name }

//EmptyInputError means that the input had nothing to process. Whether
//that is a failure is up to the caller: a run that found no pockets
//returns it too. Critical returns false.
type EmptyInputError struct {
	message string
	file    string
	deco    []string
}

func newEmptyInputError(message, caller string) *EmptyInputError {
	return &EmptyInputError{message: message, deco: []string{caller}}
}

func (err *EmptyInputError) Error() string {
	if err.file != "" {
		return err.file + ": " + err.message
	}
	return err.message
}

func (err *EmptyInputError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *EmptyInputError) Critical() bool { return false }

func (err *EmptyInputError) FileName() string { return err.file }

func (err *EmptyInputError) setFileName(name string) { err.file = name }

//FormatError is returned by the writers when a value can't be represented
//in the fixed-column layout.
type FormatError struct {
	message string
	deco    []string
}

func (err *FormatError) Error() string { return err.message }

func (err *FormatError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *FormatError) Critical() bool { return true }

func (err *FormatError) FileName() string { return "" }

//Trail returns the chain of functions an error went through, outermost last,
//or an empty string if err is not a gopocket error.
func Trail(err error) string {
	e, ok := err.(Error)
	if !ok {
		return ""
	}
	return strings.Join(e.Decorate(""), " <- ")
}

//errDecorate decorates err with caller if it is a gopocket error, and returns it.
//Other errors are returned untouched.
func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
	}
	return err
}

//errSetFile records the file name in errors that carry one.
func errSetFile(err error, name string) error {
	if e, ok := err.(interface{ setFileName(string) }); ok {
		e.setFileName(name)
	}
	return err
}
