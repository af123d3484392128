/*
 * files.go, part of gopocket.
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
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

//readCloser closes both the decompressor and the file under it.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

//writeCloser flushes and closes the compressor, then the file.
type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error {
	var err error
	for _, c := range w.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

//compression returns the compression format implied by the file extension:
//"zst", "gz" or "" for none.
func compression(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst", ".zstd":
		return "zst"
	case ".gz":
		return "gz"
	}
	return ""
}

//TrimCompression returns name without a compression extension, if it has one.
func TrimCompression(name string) string {
	if compression(name) == "" {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

//OpenFile opens the named file for reading. Files ending in .zst or .zstd
//are decompressed with zstd, files ending in .gz with gzip.
func OpenFile(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewReader(f)
	switch compression(name) {
	case "zst":
		d, err := zstd.NewReader(buf)
		if err != nil {
			f.Close()
			return nil, err
		}
		dc := d.IOReadCloser()
		return &readCloser{Reader: dc, closers: []io.Closer{dc, f}}, nil
	case "gz":
		g, err := gzip.NewReader(buf)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{Reader: g, closers: []io.Closer{g, f}}, nil
	}
	return &readCloser{Reader: buf, closers: []io.Closer{f}}, nil
}

//CreateFile creates the named file for writing, compressing the output as OpenFile
//expects from the extension. The returned writer must be closed to flush all data.
func CreateFile(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	switch compression(name) {
	case "zst":
		e, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return nil, err
		}
		return &writeCloser{Writer: e, closers: []io.Closer{e, f}}, nil
	case "gz":
		g := gzip.NewWriter(f)
		return &writeCloser{Writer: g, closers: []io.Closer{g, f}}, nil
	}
	return &writeCloser{Writer: f, closers: []io.Closer{f}}, nil
}
