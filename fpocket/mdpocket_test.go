/*
 * mdpocket_test.go, part of gopocket.
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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pocket "github.com/rmera/gopocket"
)

//fakeMDpocket writes a density grid with 4 nodes along x, 1.5 A apart, or
//the outputs of a pocket characterization if a pocket is selected.
const fakeMDpocket = `#!/bin/sh
case "$*" in
*--selected_pocket*)
	for last; do true; done
	cp "$last" selected_copy.pdb
	echo "$@" > mdpout_mdpocket.pdb
	echo "ATOM      1  CA  ALA A   1      10.000  11.000  12.000  1.00  0.00           C" > mdpout_mdpocket_atoms.pdb
	cat > mdpout_descriptors.txt <<'X'
snapshot pock_volume nb_AS
0 100.0 10
1 120.0 12
X
	;;
*)
	echo "$@" > mdpout_args.txt
	cat > mdpout_dens_grid.dx <<'X'
# density
object 1 class gridpositions counts 4 1 1
origin 0.0 0.0 0.0
delta 1.5 0.0 0.0
delta 0.0 1.0 0.0
delta 0.0 0.0 1.0
object 2 class gridconnections counts 4 1 1
object 3 class array type double rank 0 items 4 data follows
2.0 2.0 0.0
2.0
attribute "dep" string "positions"
object "density" class field
X
	cp mdpout_dens_grid.dx mdpout_freq_grid.dx
	;;
esac
`

func trajectory(Te *testing.T, dir string) Trajectory {
	T := Trajectory{File: filepath.Join(dir, "md.dcd"), Topology: filepath.Join(dir, "top.pdb")}
	for _, f := range []string{T.File, T.Topology} {
		if err := os.WriteFile(f, []byte("x\n"), 0o644); err != nil {
			Te.Fatal(err)
		}
	}
	return T
}

func TestAnalyze(Te *testing.T) {
	needSh(Te)
	dir := Te.TempDir()
	M := NewMDHandle()
	M.SetCommand(writeScript(Te, dir, "mdpocket", fakeMDpocket))
	M.SetWorkDir(filepath.Join(dir, "work"))
	M.Type = DruggablePockets
	outDir := filepath.Join(dir, "out")
	A, err := M.Analyze(context.Background(), trajectory(Te, dir), outDir)
	if err != nil {
		Te.Fatal(err)
	}
	args, err := os.ReadFile(filepath.Join(outDir, "mdpout_args.txt"))
	if err != nil {
		Te.Fatal(err)
	}
	a := strings.TrimSpace(string(args))
	if !strings.Contains(a, "--trajectory_format dcd -f ") || !strings.HasSuffix(a, "-S -C") {
		Te.Errorf("mdpocket got the wrong arguments: %q", a)
	}
	if filepath.Base(A.IsoFile) != "mdpoutput-1.0.pdb" {
		Te.Errorf("unexpected iso file name %s", A.IsoFile)
	}
	//points at x=0, 1.5 and 4.5
	if len(A.Clusters) != 2 || len(A.PocketFiles) != 2 {
		Te.Fatalf("expected 2 pockets, got %d", len(A.Clusters))
	}
	if A.Clusters[0].Len() != 2 || A.Clusters[1].Len() != 1 || A.Clusters[1][0].X != 4.5 {
		Te.Errorf("wrong clusters: %v", A.Clusters)
	}
	records, err := readRecordsFile(A.PocketFiles[1])
	if err != nil {
		Te.Fatal(err)
	}
	if filepath.Base(A.PocketFiles[1]) != "pocketFile_2.pdb" || records[0].ResSeq != 2 || records[0].ResName != "STP" {
		Te.Errorf("wrong pocket file %s: %+v", A.PocketFiles[1], records)
	}
	for _, f := range []string{A.DensGrid, A.FreqGrid} {
		if _, err := os.Stat(f); err != nil {
			Te.Errorf("grid not collected: %v", err)
		}
	}
	left, _ := os.ReadDir(filepath.Join(dir, "work"))
	if len(left) != 0 {
		Te.Errorf("working directories left behind: %v", left)
	}
}

func TestAnalyzeNoPockets(Te *testing.T) {
	needSh(Te)
	dir := Te.TempDir()
	M := NewMDHandle()
	M.SetCommand(writeScript(Te, dir, "mdpocket", fakeMDpocket))
	M.IsoValue = 5
	A, err := M.Analyze(context.Background(), trajectory(Te, dir), filepath.Join(dir, "out"))
	if err != nil {
		Te.Fatalf("an empty pocket set is not an error: %v", err)
	}
	if len(A.Clusters) != 0 || len(A.PocketFiles) != 0 {
		Te.Errorf("expected no pockets, got %d", len(A.Clusters))
	}
	if _, err := os.Stat(A.DensGrid); err != nil {
		Te.Errorf("the grid should be reported even without pockets: %v", err)
	}
}

func TestAnalyzeBadInput(Te *testing.T) {
	M := NewMDHandle()
	M.SetCommand("surely-not-mdpocket")
	if _, err := M.Analyze(context.Background(), Trajectory{File: "md.dcd"}, Te.TempDir()); err == nil {
		Te.Error("a trajectory without topology was accepted")
	}
	dir := Te.TempDir()
	if _, err := M.Analyze(context.Background(), Trajectory{File: filepath.Join(dir, "nothere.xtc"), Topology: filepath.Join(dir, "top.pdb")}, dir); err == nil {
		Te.Error("missing trajectory accepted")
	}
	M.MaxIntraDistance = 0
	if _, err := M.Analyze(context.Background(), trajectory(Te, dir), dir); err == nil {
		Te.Error("zero linkage distance accepted")
	}
}

func TestCharacterize(Te *testing.T) {
	needSh(Te)
	dir := Te.TempDir()
	M := NewMDHandle()
	M.SetCommand(writeScript(Te, dir, "mdpocket", fakeMDpocket))
	M.Workers = 2
	pockets := make([]string, 3)
	for i := range pockets {
		pockets[i] = filepath.Join(dir, PocketFileName(i+1))
		c := pocket.Cluster{{X: float64(i), Y: 1, Z: 2}, {X: float64(i), Y: 2, Z: 2}}
		if err := pocket.WritePocketFile(pockets[i], c, i+1); err != nil {
			Te.Fatal(err)
		}
	}
	outDir := filepath.Join(dir, "out")
	C, err := M.Characterize(context.Background(), trajectory(Te, dir), pockets, []int{4, 5, 6}, outDir)
	if err != nil {
		Te.Fatal(err)
	}
	if len(C) != 3 {
		Te.Fatalf("expected 3 characterizations, got %d", len(C))
	}
	for i, c := range C {
		if c.ID != i+4 {
			Te.Errorf("characterization %d has id %d", i, c.ID)
		}
		if c.Dir != filepath.Join(outDir, "pocketFolder_"+string(rune('4'+i))) {
			Te.Errorf("unexpected folder %s", c.Dir)
		}
		if c.Descriptors.Len() != 2 {
			Te.Errorf("expected 2 snapshots, got %d", c.Descriptors.Len())
		}
		vol, err := c.Descriptors.Column("pock_volume")
		if err != nil || vol[1] != 120 {
			Te.Errorf("wrong volumes %v %v", vol, err)
		}
		records, err := readRecordsFile(c.PocketFile)
		if err != nil {
			Te.Fatal(err)
		}
		if len(records) != 2 || records[0].Tag != "ATOM" || records[0].ResName != "PTH" || records[0].Coord.X != float64(i) {
			Te.Errorf("pocket not converted for mdpocket: %+v", records)
		}
		sel, err := os.ReadFile(c.PocketPDB)
		if err != nil || !strings.Contains(string(sel), "--selected_pocket pocketFile_Modified_") {
			Te.Errorf("mdpocket didn't get the selected pocket: %q %v", sel, err)
		}
		for _, f := range []string{c.AtomsPDB, c.DescriptorsFile} {
			if _, err := os.Stat(f); err != nil {
				Te.Error(err)
			}
		}
	}
	if _, err := M.Characterize(context.Background(), trajectory(Te, dir), pockets, []int{1}, outDir); err == nil {
		Te.Error("mismatched ids accepted")
	}
	_, err = M.Characterize(context.Background(), trajectory(Te, dir), pockets, []int{7, 8, 7}, outDir)
	if err == nil || !strings.Contains(err.Error(), ErrInvalidOption) {
		Te.Errorf("repeated ids accepted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "pocketFolder_7")); !os.IsNotExist(err) {
		Te.Error("pockets with repeated ids were characterized")
	}
	if _, err := M.Characterize(context.Background(), trajectory(Te, dir), nil, nil, outDir); err == nil {
		Te.Error("no pockets accepted")
	}
}

func TestCharacterizeFailure(Te *testing.T) {
	needSh(Te)
	dir := Te.TempDir()
	M := NewMDHandle()
	M.SetCommand(writeScript(Te, dir, "mdpocket", "#!/bin/sh\necho broken trajectory\nexit 1\n"))
	p := filepath.Join(dir, "p.pdb")
	if err := pocket.WritePocketFile(p, pocket.Cluster{{X: 1, Y: 1, Z: 1}}, 1); err != nil {
		Te.Fatal(err)
	}
	_, err := M.Characterize(context.Background(), trajectory(Te, dir), []string{p, p}, nil, filepath.Join(dir, "out"))
	if err == nil || !strings.Contains(err.Error(), "broken trajectory") {
		Te.Errorf("expected the failure of mdpocket, got %v", err)
	}
}

func readRecordsFile(name string) ([]pocket.PocketRecord, error) {
	f, err := pocket.OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return pocket.ReadRecords(f)
}

func TestIsoFileName(Te *testing.T) {
	for iso, want := range map[float64]string{1: "mdpoutput-1.0.pdb", 0.5: "mdpoutput-0.5.pdb", 2.25: "mdpoutput-2.25.pdb"} {
		if got := IsoFileName(iso); got != want {
			Te.Errorf("IsoFileName(%v) = %s, want %s", iso, got, want)
		}
	}
}
