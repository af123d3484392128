/*
 * fpocket.go, part of gopocket.
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
//In order to use this package you need the fpocket suite (fpocket and mdpocket),
//available from https://github.com/Discngine/fpocket. Please cite the fpocket
//references if you use it.

//Package fpocket runs fpocket and mdpocket, each run in its own scoped working
//directory, and collects and reads their results.
package fpocket

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	pocket "github.com/rmera/gopocket"
	"github.com/rmera/gopocket/workdir"
)

//Names of the programs, also used in errors.
const (
	FPocket  = "fpocket"
	MDPocket = "mdpocket"
)

//HomeVar is the environment variable pointing to the fpocket installation.
//If set, the programs are looked for in its bin directory.
const HomeVar = "FPOCKET_HOME"

//defaultCommand returns the path to program given the environment.
func defaultCommand(program string) string {
	if home := os.Getenv(HomeVar); home != "" {
		return filepath.Join(home, "bin", program)
	}
	return program
}

//Handle runs fpocket pocket searches on single structures.
type Handle struct {
	Options *Options
	//Retries is the number of times a failed run is repeated.
	Retries uint64
	Verbose bool
	command string
	workdir string //parent of the scoped working directories
}

//NewHandle returns a Handle with default options.
func NewHandle() *Handle {
	H := new(Handle)
	H.SetDefaults()
	return H
}

//SetDefaults sets the default options, and the command from the environment.
func (H *Handle) SetDefaults() {
	H.Options = DefaultOptions()
	H.command = defaultCommand(FPocket)
	H.workdir = ""
}

//SetCommand sets the fpocket executable.
func (H *Handle) SetCommand(name string) { H.command = name }

func (H *Handle) Command() string { return H.command }

//SetWorkDir sets the directory under which the temporary working directories are created.
//The default is the system's temporary directory.
func (H *Handle) SetWorkDir(dir string) { H.workdir = dir }

//Pocket is one of the pockets found by fpocket.
type Pocket struct {
	ID       int
	AtomFile string //pocketN_atm.pdb, the atoms lining the pocket
	VertFile string //pocketN_vert.pqr, the alpha sphere centers
	Spheres  []pocket.Sphere
	Info     *Info //nil if fpocket's info file didn't mention the pocket
}

//Result is the outcome of an fpocket run.
type Result struct {
	Dir       string //the <structure>_out directory
	Structure string //the structure fpocket was run on, as staged
	InfoFile  string
	Hetero    bool //the structure had HETATM records
	Pockets   []*Pocket
}

var pocketAtmRegexp = regexp.MustCompile(`^pocket(\d+)_atm\.pdb$`)

//stageStructure copies the structure into D, decompressing it if needed, and
//returns its name inside D.
func stageStructure(D *workdir.Dir, structure string) (string, error) {
	name := filepath.Base(pocket.TrimCompression(structure))
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	switch ext {
	case ".cif", ".mmcif":
		return "", Error{ErrUnsupportedType, FPocket, structure, []string{"stageStructure"}, true}
	case ".ent":
		name = base + ".pdb"
	}
	if name == filepath.Base(structure) {
		_, err := D.Stage(structure, name)
		return name, err
	}
	in, err := pocket.OpenFile(structure)
	if err != nil {
		return "", err
	}
	defer in.Close()
	out, err := os.Create(D.Join(name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", errors.Wrap(err, "decompressing "+structure)
	}
	return name, out.Close()
}

//Find runs fpocket on the structure file and moves its output directory
//into outDir. The structure can be compressed. mmCIF files are not accepted.
func (H *Handle) Find(ctx context.Context, structure, outDir string) (*Result, error) {
	if err := H.Options.Validate(); err != nil {
		return nil, err
	}
	D, err := workdir.New(H.workdir, FPocket)
	if err != nil {
		return nil, err
	}
	defer D.Close()
	D.Retries = H.Retries
	D.Verbose = H.Verbose
	name, err := stageStructure(D, structure)
	if err != nil {
		return nil, errors.WithMessage(err, "fpocket: staging input")
	}
	R := &Result{}
	if f, err := os.Open(D.Join(name)); err == nil {
		R.Hetero, _ = pocket.HasHetero(f)
		f.Close()
	}
	if R.Hetero {
		log.Printf("fpocket: %s has HETATM records (ligands?). Their volume will be taken as target too", structure)
	}
	if err := D.Run(ctx, H.command, H.Options.Args(name)...); err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "fpocket")
	}
	R.Dir, err = D.Collect(base+"_out", outDir)
	if err != nil {
		return nil, err
	}
	R.Structure = filepath.Join(outDir, name)
	if _, err := D.Collect(name, R.Structure); err != nil {
		return nil, err
	}
	R.Pockets, err = readPockets(filepath.Join(R.Dir, "pockets"))
	if err != nil {
		return nil, err
	}
	R.InfoFile = filepath.Join(R.Dir, base+"_info.txt")
	info, err := ParseInfoFile(R.InfoFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		log.Printf("fpocket: no info file in %s", R.Dir)
		R.InfoFile = ""
	}
	byID := make(map[int]*Info, len(info))
	for _, v := range info {
		byID[v.ID] = v
	}
	for _, p := range R.Pockets {
		p.Info = byID[p.ID]
	}
	if H.Verbose {
		log.Printf("fpocket: %d pockets found in %s", len(R.Pockets), structure)
	}
	return R, nil
}

//readPockets reads the pockets in an fpocket "pockets" directory, sorted by id.
func readPockets(dir string) ([]*Pocket, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, Error{ErrNoPocketsDir, FPocket, dir, []string{"readPockets"}, true}
	}
	ret := make([]*Pocket, 0, len(entries))
	for _, e := range entries {
		m := pocketAtmRegexp.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, _ := strconv.Atoi(m[1])
		p := &Pocket{ID: id, AtomFile: filepath.Join(dir, e.Name())}
		p.VertFile = filepath.Join(dir, strings.Replace(e.Name(), "atm.pdb", "vert.pqr", 1))
		p.Spheres, err = pocket.ReadSpheresFile(p.VertFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			log.Printf("fpocket: pocket %d has no alpha sphere file", id)
			p.VertFile = ""
		}
		ret = append(ret, p)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret, nil
}
