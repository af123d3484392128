/*
 * workdir.go, part of gopocket.
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

//Package workdir runs external programs inside isolated, temporary directories.
//Inputs are copied in, outputs are moved out, and the directory is removed
//when the Dir is closed, whatever happened in between.
package workdir

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

//Dir is a scoped working directory. The zero value is not usable, use New.
type Dir struct {
	//Retries is the number of times a failed Run is repeated, waiting
	//exponentially longer between attempts, starting from RetryWait.
	Retries   uint64
	RetryWait time.Duration
	//When Verbose is true, the output of the programs is also copied to os.Stderr.
	Verbose bool

	path   string
	id     xid.ID
	closed bool
}

//New creates a new directory under parent (the system's temporary directory if parent
//is empty). Its name starts with prefix and contains a unique run id.
func New(parent, prefix string) (*Dir, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, errors.Wrapf(err, "workdir: can't create parent %s", parent)
	}
	D := &Dir{id: xid.New(), RetryWait: 500 * time.Millisecond}
	if prefix == "" {
		prefix = "gopocket"
	}
	path, err := os.MkdirTemp(parent, fmt.Sprintf("%s_%s_", prefix, D.id))
	if err != nil {
		return nil, errors.Wrap(err, "workdir: can't create directory")
	}
	D.path, err = filepath.Abs(path)
	if err != nil {
		os.RemoveAll(path)
		return nil, errors.Wrap(err, "workdir")
	}
	return D, nil
}

//Path returns the absolute path of the directory.
func (D *Dir) Path() string { return D.path }

//ID returns the run id embedded in the directory name.
func (D *Dir) ID() string { return D.id.String() }

//Join returns the path of name inside the directory.
func (D *Dir) Join(name ...string) string {
	return filepath.Join(append([]string{D.path}, name...)...)
}

//Stage copies the file src into the directory, with the given name, or with
//src's base name if name is empty. It returns the path of the copy.
func (D *Dir) Stage(src, name string) (string, error) {
	if D.closed {
		return "", Error{ErrClosed, D.path, []string{"Stage"}, true}
	}
	if name == "" {
		name = filepath.Base(src)
	}
	dest := D.Join(name)
	if err := copyFile(src, dest); err != nil {
		return "", errors.Wrapf(err, "workdir: staging %s", src)
	}
	return dest, nil
}

//Run executes exe with args, with the directory as working directory. Standard
//output and error go to a log file in the directory, named after the program.
//A program exiting with a non-zero status gives an error that carries the
//last lines of that log. Failed runs are retried as set by D.Retries.
func (D *Dir) Run(ctx context.Context, exe string, args ...string) error {
	if D.closed {
		return Error{ErrClosed, D.path, []string{"Run"}, true}
	}
	logname := D.Join(filepath.Base(exe) + ".log")
	attempt := 0
	op := func() error {
		attempt++
		if attempt > 1 {
			log.Printf("workdir: retrying %s (attempt %d)", filepath.Base(exe), attempt)
		}
		err := D.run(ctx, logname, exe, args)
		if err == nil {
			return nil
		}
		//there is no point in retrying these.
		if ctx.Err() != nil || errors.Is(err, exec.ErrNotFound) || os.IsNotExist(errors.Cause(err)) {
			return backoff.Permanent(err)
		}
		return err
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = D.RetryWait
	exp.MaxElapsedTime = 0
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(exp, D.Retries), ctx))
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, "Run")
		return e
	} else if err != nil {
		return errors.Wrapf(err, "workdir: running %s", filepath.Base(exe))
	}
	return nil
}

func (D *Dir) run(ctx context.Context, logname, exe string, args []string) error {
	out, err := os.OpenFile(logname, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	var w io.Writer = out
	if D.Verbose {
		w = io.MultiWriter(out, os.Stderr)
	}
	command := exec.CommandContext(ctx, exe, args...)
	command.Dir = D.path
	command.Stdout = w
	command.Stderr = w
	if D.Verbose {
		log.Printf("workdir: %s (in %s)", command.String(), D.path)
	}
	if err := command.Run(); err != nil {
		out.Sync()
		if _, ok := err.(*exec.ExitError); ok {
			return Error{fmt.Sprintf("%s: %s\n%s", ErrExit, err.Error(), tail(logname, 10)), D.path, []string{"run"}, true}
		}
		return err
	}
	return nil
}

//Collect moves the file or directory name, relative to the directory, to dest.
//If dest is an existing directory, the output is placed inside it.
func (D *Dir) Collect(name, dest string) (string, error) {
	if D.closed {
		return "", Error{ErrClosed, D.path, []string{"Collect"}, true}
	}
	src := D.Join(name)
	info, err := os.Stat(src)
	if err != nil {
		return "", Error{fmt.Sprintf("%s: %s", ErrNoOutput, name), D.path, []string{"Collect"}, true}
	}
	if dinfo, err := os.Stat(dest); err == nil && dinfo.IsDir() {
		dest = filepath.Join(dest, filepath.Base(name))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", errors.Wrap(err, "workdir: collecting "+name)
	}
	if err := os.Rename(src, dest); err == nil {
		return dest, nil
	}
	//probably a different device
	if info.IsDir() {
		err = copyTree(src, dest)
	} else {
		err = copyFile(src, dest)
	}
	if err != nil {
		return "", errors.Wrap(err, "workdir: collecting "+name)
	}
	return dest, os.RemoveAll(src)
}

//Exists returns true if name exists inside the directory.
func (D *Dir) Exists(name string) bool {
	_, err := os.Stat(D.Join(name))
	return err == nil
}

//Close removes the directory and all it still contains. It can be called more than once.
func (D *Dir) Close() error {
	if D == nil || D.closed {
		return nil
	}
	D.closed = true
	return os.RemoveAll(D.path)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyTree(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		}
		return copyFile(path, target)
	})
}

//tail returns the last n lines of the named file.
func tail(name string, n int) string {
	f, err := os.Open(name)
	if err != nil {
		return ""
	}
	defer f.Close()
	lines := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(lines) == n {
			lines = lines[1:]
		}
		lines = append(lines, scanner.Text())
	}
	return strings.Join(lines, "\n")
}

//Error is the error type for this package. It fulfills pocket.Error.
type Error struct {
	message  string
	dir      string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("workdir %s: %s", err.dir, err.message)
}

//Decorate adds dec to the error's trail, if not empty, and returns the trail.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//FileName returns the directory the error happened in.
func (err Error) FileName() string { return err.dir }

func (err Error) Critical() bool { return err.critical }

const (
	ErrClosed   = "directory already closed"
	ErrExit     = "program failed"
	ErrNoOutput = "expected output not found"
)
