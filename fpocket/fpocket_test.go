/*
 * fpocket_test.go, part of gopocket.
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
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	pocket "github.com/rmera/gopocket"
	"gopkg.in/yaml.v3"
)

//fakeFpocket writes, from the -f argument, an output directory like fpocket's.
const fakeFpocket = `#!/bin/sh
in=$2
base=${in%.pdb}
mkdir -p ${base}_out/pockets
echo "$@" > ${base}_out/args.txt
for i in 1 2 10; do
cat > ${base}_out/pockets/pocket${i}_atm.pdb <<'X'
ATOM      1  CA  ALA A   1      10.000  11.000  12.000  1.00  0.00           C
X
done
cat > ${base}_out/pockets/pocket1_vert.pqr <<'X'
ATOM      1    C STP     1      10.000  11.000  12.000    0.00     3.50
ATOM      2    O STP     1      11.000  11.000  12.000    0.00     3.75
X
cat > ${base}_out/pockets/pocket10_vert.pqr <<'X'
ATOM      1    C STP    10      -1.000   1.000   2.000    0.00     4.00
X
cat > ${base}_out/${base}_info.txt <<'X'
Pocket 1 :
	Score : 	0.523
	Druggability Score : 	0.015
	Number of Alpha Spheres : 	38
	Volume : 	512.365

Pocket 2 :
	Score : 	0.400
	Druggability Score : 	0.900
	Number of Alpha Spheres : 	20
	Volume : 	300.000
X
`

const structure = `HEADER    TEST
ATOM      1  CA  ALA A   1      10.000  11.000  12.000  1.00  0.00           C
HETATM    2  O   HOH A   2      13.000  11.000  12.000  1.00  0.00           O
END
`

func needSh(Te *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		Te.Skip("no sh in PATH")
	}
}

func writeScript(Te *testing.T, dir, name, body string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		Te.Fatal(err)
	}
	return path
}

func TestArgs(Te *testing.T) {
	O := DefaultOptions()
	if err := O.Validate(); err != nil {
		Te.Fatal(err)
	}
	want := "-f in.pdb -m 3.4 -M 6.2 -i 15 -p 0 -A 3 -C s -e e -D 2.4 -v 300"
	if got := strings.Join(O.Args("in.pdb"), " "); got != want {
		Te.Errorf("got %q, want %q", got, want)
	}
	O.Linkage = "Average"
	O.Distance = "manhattan"
	args := strings.Join(O.Args("in.pdb"), " ")
	if !strings.Contains(args, "-C a -e b") {
		Te.Errorf("wrong clustering codes in %q", args)
	}
	bad := []func(*Options){
		func(O *Options) { O.MinAlpha = 0 },
		func(O *Options) { O.MaxAlpha = 3.0 },
		func(O *Options) { O.MinSpheres = 0 },
		func(O *Options) { O.ApolarRatio = 1.5 },
		func(O *Options) { O.Linkage = "ward" },
		func(O *Options) { O.Distance = "cosine" },
		func(O *Options) { O.ClusterDistance = -1 },
		func(O *Options) { O.VolumeIterations = 0 },
	}
	for i, f := range bad {
		O := DefaultOptions()
		f(O)
		if err := O.Validate(); err == nil {
			Te.Errorf("invalid options %d passed validation", i)
		}
	}
}

func TestPocketTypes(Te *testing.T) {
	if got := strings.Join(ChannelPockets.Args(), " "); got != "-m 2.8 -M 5.5 -i 3" {
		Te.Errorf("channels preset: %q", got)
	}
	if args := BigPockets.Args(); len(args) != 6 || args[3] != "10.0" {
		Te.Errorf("big pockets preset: %v", args)
	}
	if DefaultPockets.Args() != nil {
		Te.Error("the default preset should add no arguments")
	}
	for _, P := range []PocketType{DefaultPockets, DruggablePockets, ChannelPockets, WaterPockets, BigPockets} {
		Q, err := ParsePocketType(strings.ToUpper(P.String()))
		if err != nil || Q != P {
			Te.Errorf("preset %v parsed as %v, %v", P, Q, err)
		}
	}
	if _, err := ParsePocketType("tunnels"); err == nil {
		Te.Error("unknown preset accepted")
	}
	var conf struct {
		Type PocketType `yaml:"type"`
	}
	if err := yaml.Unmarshal([]byte("type: water\n"), &conf); err != nil || conf.Type != WaterPockets {
		Te.Errorf("yaml preset: %v %v", conf.Type, err)
	}
	if err := yaml.Unmarshal([]byte("type: tunnels\n"), &conf); err == nil {
		Te.Error("unknown preset accepted from yaml")
	}
}

func TestParseInfo(Te *testing.T) {
	text := `Pocket 1 :
	Score : 	0.523
	Druggability Score : 	0.015
	Number of Alpha Spheres : 	38
	Total SASA : 	103.568
	Proportion of polar atoms: 	40.000
	Volume : 	512.365

Pocket 2 :
	Score : 	0.1
	Volume : 	80
`
	info, err := ParseInfo(strings.NewReader(text))
	if err != nil {
		Te.Fatal(err)
	}
	if len(info) != 2 {
		Te.Fatalf("expected 2 pockets, got %d", len(info))
	}
	p := info[0]
	if p.ID != 1 || p.Score != 0.523 || p.Druggability != 0.015 || p.Spheres != 38 || p.Volume != 512.365 {
		Te.Errorf("wrong pocket 1: %+v", p)
	}
	if p.Values["Total SASA"] != 103.568 || p.Values["Proportion of polar atoms"] != 40 {
		Te.Errorf("wrong extra values: %v", p.Values)
	}
	if info[1].ID != 2 || info[1].Volume != 80 {
		Te.Errorf("wrong pocket 2: %+v", info[1])
	}
	if _, err := ParseInfo(strings.NewReader("\tScore : 1.0\n")); err == nil {
		Te.Error("values outside a pocket block accepted")
	}
	if _, err := ParseInfo(strings.NewReader("Pocket 1 :\n\tScore : high\n")); err == nil {
		Te.Error("non-numeric value accepted")
	}
}

func TestFind(Te *testing.T) {
	needSh(Te)
	dir := Te.TempDir()
	H := NewHandle()
	H.SetCommand(writeScript(Te, dir, "fpocket", fakeFpocket))
	H.SetWorkDir(filepath.Join(dir, "work"))
	input := filepath.Join(dir, "prot.pdb")
	if err := os.WriteFile(input, []byte(structure), 0o644); err != nil {
		Te.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")
	R, err := H.Find(context.Background(), input, outDir)
	if err != nil {
		Te.Fatal(err)
	}
	if !R.Hetero {
		Te.Error("HETATM records not detected")
	}
	if R.Dir != filepath.Join(outDir, "prot_out") {
		Te.Errorf("unexpected output directory %s", R.Dir)
	}
	args, err := os.ReadFile(filepath.Join(R.Dir, "args.txt"))
	if err != nil || !strings.HasPrefix(string(args), "-f prot.pdb -m 3.4") {
		Te.Errorf("fpocket got the wrong arguments: %q %v", args, err)
	}
	if len(R.Pockets) != 3 {
		Te.Fatalf("expected 3 pockets, got %d", len(R.Pockets))
	}
	for i, id := range []int{1, 2, 10} {
		if R.Pockets[i].ID != id {
			Te.Errorf("pocket %d has id %d, want %d", i, R.Pockets[i].ID, id)
		}
	}
	p1 := R.Pockets[0]
	if len(p1.Spheres) != 2 || p1.Spheres[1].Radius != 3.75 || p1.Spheres[0].Center.X != 10 {
		Te.Errorf("wrong alpha spheres for pocket 1: %v", p1.Spheres)
	}
	if p1.Info == nil || p1.Info.Score != 0.523 {
		Te.Errorf("wrong info for pocket 1: %+v", p1.Info)
	}
	if R.Pockets[1].VertFile != "" || R.Pockets[1].Info == nil {
		Te.Errorf("pocket 2 should have info but no sphere file: %+v", R.Pockets[1])
	}
	if R.Pockets[2].Info != nil || len(R.Pockets[2].Spheres) != 1 {
		Te.Errorf("pocket 10 should have a sphere but no info: %+v", R.Pockets[2])
	}
	if _, err := os.Stat(R.Structure); err != nil {
		Te.Errorf("structure not collected: %v", err)
	}
	//the scoped directories must be gone
	left, _ := os.ReadDir(filepath.Join(dir, "work"))
	if len(left) != 0 {
		Te.Errorf("working directories left behind: %v", left)
	}
}

func TestFindCompressedEnt(Te *testing.T) {
	needSh(Te)
	dir := Te.TempDir()
	H := NewHandle()
	H.SetCommand(writeScript(Te, dir, "fpocket", fakeFpocket))
	input := filepath.Join(dir, "pdb1abc.ent.gz")
	f, err := pocket.CreateFile(input)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Fprint(f, strings.Replace(structure, "HETATM", "ATOM  ", 1))
	if err := f.Close(); err != nil {
		Te.Fatal(err)
	}
	R, err := H.Find(context.Background(), input, filepath.Join(dir, "out"))
	if err != nil {
		Te.Fatal(err)
	}
	if R.Hetero {
		Te.Error("no HETATM records, but Hetero is set")
	}
	if filepath.Base(R.Structure) != "pdb1abc.pdb" || filepath.Base(R.Dir) != "pdb1abc_out" {
		Te.Errorf("ent file not staged as pdb: %s %s", R.Structure, R.Dir)
	}
}

func TestFindRejects(Te *testing.T) {
	H := NewHandle()
	H.SetCommand("surely-not-fpocket")
	if _, err := H.Find(context.Background(), "structure.cif", Te.TempDir()); err == nil {
		Te.Error("mmCIF input accepted")
	}
	H.Options.MaxAlpha = 1
	if _, err := H.Find(context.Background(), "structure.pdb", Te.TempDir()); err == nil {
		Te.Error("invalid options accepted")
	}
}

func TestDefaultCommand(Te *testing.T) {
	Te.Setenv(HomeVar, "/opt/fpocket")
	if c := NewHandle().Command(); c != "/opt/fpocket/bin/fpocket" {
		Te.Errorf("wrong command from %s: %s", HomeVar, c)
	}
	Te.Setenv(HomeVar, "")
	if c := NewMDHandle().Command(); c != "mdpocket" {
		Te.Errorf("wrong default command %s", c)
	}
}
