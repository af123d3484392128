/*
 * plot_test.go, part of gopocket.
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

package pocketplot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	pocket "github.com/rmera/gopocket"
)

const table = `snapshot pock_volume pock_asa nb_AS
0 100.0 50.0 10
1 120.0 55.0 12
2 90.0 48.0 9
3 130.5 60.1 14
`

func readTable(Te *testing.T, text string) *pocket.DescriptorTable {
	D, err := pocket.ReadDescriptors(strings.NewReader(text))
	if err != nil {
		Te.Fatal(err)
	}
	return D
}

func TestDescriptorPlot(Te *testing.T) {
	D := readTable(Te, table)
	dir := Te.TempDir()
	for _, name := range []string{"volume.png", "volume.svg"} {
		name = filepath.Join(dir, name)
		if err := DescriptorPlot(D, "pock_volume", "Pocket 1", name); err != nil {
			Te.Fatal(err)
		}
		if info, err := os.Stat(name); err != nil || info.Size() == 0 {
			Te.Errorf("plot %s not written: %v", name, err)
		}
	}
	if err := DescriptorsPlot(D, []string{"pock_volume", "pock_asa"}, "Pocket 1", filepath.Join(dir, "both.png")); err != nil {
		Te.Error(err)
	}
	if err := DescriptorPlot(D, "nothere", "Pocket 1", filepath.Join(dir, "no.png")); err == nil {
		Te.Error("plotting a missing descriptor should fail")
	}
	if err := DescriptorHistogram(D, "nb_AS", 0, "Pocket 1", filepath.Join(dir, "hist.png")); err != nil {
		Te.Error(err)
	}
}

func TestSnapshots(Te *testing.T) {
	x := snapshots(readTable(Te, table))
	if len(x) != 4 || x[3] != 3 {
		Te.Errorf("wrong snapshot numbers %v", x)
	}
	x = snapshots(readTable(Te, "snapshot v\nfirst 1\nsecond 2\n"))
	if len(x) != 2 || x[0] != 0 || x[1] != 1 {
		Te.Errorf("non-numeric labels should give row indexes: %v", x)
	}
}

func TestColors(Te *testing.T) {
	seen := make(map[[3]uint8]bool)
	for i := 0; i < 5; i++ {
		r, g, b := colors(i, 5)
		seen[[3]uint8{r, g, b}] = true
	}
	if len(seen) != 5 {
		Te.Errorf("expected 5 different colors, got %d", len(seen))
	}
}
