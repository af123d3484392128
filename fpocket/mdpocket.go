/*
 * mdpocket.go, part of gopocket.
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
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	pocket "github.com/rmera/gopocket"
	"github.com/rmera/gopocket/workdir"
	"golang.org/x/sync/errgroup"
)

//mdpocket output names
const (
	DensGridFile    = "mdpout_dens_grid.dx"
	FreqGridFile    = "mdpout_freq_grid.dx"
	outPrefix       = "mdpout"
	selPocketPDB    = "mdpout_mdpocket.pdb"
	selAtomsPDB     = "mdpout_mdpocket_atoms.pdb"
	selDescriptors  = "mdpout_descriptors.txt"
	DefaultIsoValue = 1.0
	DefaultMaxDist  = 2.0
)

//MDHandle runs mdpocket on molecular dynamics trajectories.
type MDHandle struct {
	Type PocketType
	//IsoValue is the minimum density for a grid point to be part of a pocket.
	IsoValue float64
	//MaxIntraDistance is the linkage distance used to group the points into pockets.
	MaxIntraDistance float64
	//Workers is the maximum number of pockets characterized at the same time.
	Workers int
	Retries uint64
	Verbose bool
	command string
	workdir string
}

//NewMDHandle returns an MDHandle with default options.
func NewMDHandle() *MDHandle {
	M := new(MDHandle)
	M.SetDefaults()
	return M
}

//SetDefaults sets the default options, and the command from the environment.
func (M *MDHandle) SetDefaults() {
	M.Type = DefaultPockets
	M.IsoValue = DefaultIsoValue
	M.MaxIntraDistance = DefaultMaxDist
	M.Workers = 1
	M.command = defaultCommand(MDPocket)
}

//SetCommand sets the mdpocket executable.
func (M *MDHandle) SetCommand(name string) { M.command = name }

func (M *MDHandle) Command() string { return M.command }

//SetWorkDir sets the directory under which the temporary working directories are created.
func (M *MDHandle) SetWorkDir(dir string) { M.workdir = dir }

//Trajectory is a molecular dynamics trajectory and the topology (a PDB file) it goes with.
type Trajectory struct {
	File     string
	Topology string
}

//format returns the trajectory format as mdpocket expects it: the extension without the dot.
func (T Trajectory) format() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(T.File)), ".")
}

//args returns the arguments mdpocket needs to read the trajectory, with absolute paths.
func (T Trajectory) args() ([]string, error) {
	if T.File == "" || T.Topology == "" {
		return nil, Error{ErrNoTrajectory, MDPocket, "", []string{"args"}, true}
	}
	traj, err := filepath.Abs(T.File)
	if err != nil {
		return nil, err
	}
	top, err := filepath.Abs(T.Topology)
	if err != nil {
		return nil, err
	}
	for _, f := range [2]string{traj, top} {
		if _, err := os.Stat(f); err != nil {
			return nil, Error{err.Error(), MDPocket, f, []string{"args"}, true}
		}
	}
	return []string{"--trajectory_file", traj, "--trajectory_format", T.format(), "-f", top}, nil
}

//Analysis is the outcome of an mdpocket pocket search.
type Analysis struct {
	Dir         string
	DensGrid    string //mdpout_dens_grid.dx
	FreqGrid    string //mdpout_freq_grid.dx
	IsoFile     string //the grid points above the isovalue, as a PDB file
	Clusters    []pocket.Cluster
	PocketFiles []string //pocketFile_N.pdb, one per element of Clusters
}

//IsoFileName returns the name of the file for the points of a density grid above iso.
func IsoFileName(iso float64) string {
	s := strconv.FormatFloat(iso, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return fmt.Sprintf("mdpoutput-%s.pdb", s)
}

//PocketFileName returns the name of the pocket file with the given id.
func PocketFileName(id int) string {
	return fmt.Sprintf("pocketFile_%d.pdb", id)
}

//Analyze runs an mdpocket pocket search on the trajectory, and collects all its outputs in
//outDir. The density grid points above M.IsoValue are then grouped into pockets, each written
//to its own pocket file. Finding no points above the isovalue is not an error: the Analysis
//will have no pockets, but the grid files can still be inspected.
func (M *MDHandle) Analyze(ctx context.Context, T Trajectory, outDir string) (*Analysis, error) {
	if M.MaxIntraDistance <= 0 {
		return nil, Error{fmt.Sprintf("%s: maximum intra-pocket distance %.2f", ErrInvalidOption, M.MaxIntraDistance), MDPocket, "", []string{"Analyze"}, true}
	}
	args, err := T.args()
	if err != nil {
		return nil, err
	}
	args = append(args, M.Type.Args()...)
	args = append(args, "-C")
	D, err := workdir.New(M.workdir, MDPocket)
	if err != nil {
		return nil, err
	}
	defer D.Close()
	D.Retries = M.Retries
	D.Verbose = M.Verbose
	if err := D.Run(ctx, M.command, args...); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "mdpocket")
	}
	entries, err := os.ReadDir(D.Path())
	if err != nil {
		return nil, errors.Wrap(err, "mdpocket")
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), outPrefix) {
			if _, err := D.Collect(e.Name(), outDir); err != nil {
				return nil, err
			}
		}
	}
	A := &Analysis{
		Dir:      outDir,
		DensGrid: filepath.Join(outDir, DensGridFile),
		FreqGrid: filepath.Join(outDir, FreqGridFile),
		IsoFile:  filepath.Join(outDir, IsoFileName(M.IsoValue)),
	}
	grid, err := pocket.ReadDXFile(A.DensGrid)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Error{ErrMissingOutput, MDPocket, A.DensGrid, []string{"Analyze"}, true}
		}
		return nil, err
	}
	if err := writeIso(grid, M.IsoValue, A.IsoFile); err != nil {
		return nil, err
	}
	points, err := pocket.ExtractCoordsFile(A.IsoFile)
	var empty *pocket.EmptyInputError
	if errors.As(err, &empty) {
		log.Printf("mdpocket: no density points above %.2f, no pockets", M.IsoValue)
		return A, nil
	} else if err != nil {
		return nil, err
	}
	A.Clusters = pocket.ClusterPoints(points, M.MaxIntraDistance)
	A.PocketFiles = make([]string, len(A.Clusters))
	for i, c := range A.Clusters {
		A.PocketFiles[i] = filepath.Join(outDir, PocketFileName(i+1))
		if err := pocket.WritePocketFile(A.PocketFiles[i], c, i+1); err != nil {
			return nil, err
		}
	}
	if M.Verbose {
		log.Printf("mdpocket: %d points above %.2f grouped in %d pockets", len(points), M.IsoValue, len(A.Clusters))
	}
	return A, nil
}

func writeIso(grid *pocket.Grid, iso float64, name string) error {
	f, err := pocket.CreateFile(name)
	if err != nil {
		return err
	}
	if _, err := grid.WriteIsoPDB(f, iso); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//Characterization holds the mdpocket characterization of one pocket along a trajectory.
type Characterization struct {
	ID              int
	Dir             string //pocketFolder_N
	PocketFile      string //the pocket, as given to mdpocket
	PocketPDB       string //mdpout_mdpocket_N.pdb
	AtomsPDB        string //mdpout_mdpocket_atoms_N.pdb
	DescriptorsFile string //mdpout_descriptors_N.txt
	Descriptors     *pocket.DescriptorTable
}

//Characterize runs mdpocket on the trajectory for each of the given pocket files, up to
//M.Workers at the time. The pocket with index i gets the id ids[i], or i+1 if ids is nil.
//Each characterization is stored in its own pocketFolder_<id> directory under outDir.
//The results are in the same order as pockets. The first failure cancels the runs not yet finished.
func (M *MDHandle) Characterize(ctx context.Context, T Trajectory, pockets []string, ids []int, outDir string) ([]*Characterization, error) {
	if len(pockets) == 0 {
		return nil, Error{ErrNoPockets, MDPocket, "", []string{"Characterize"}, true}
	}
	if ids != nil && len(ids) != len(pockets) {
		return nil, Error{fmt.Sprintf("%s: %d ids for %d pockets", ErrInvalidOption, len(ids), len(pockets)), MDPocket, "", []string{"Characterize"}, true}
	}
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, Error{fmt.Sprintf("%s: pocket id %d repeated", ErrInvalidOption, id), MDPocket, "", []string{"Characterize"}, true}
		}
		seen[id] = true
	}
	args, err := T.args()
	if err != nil {
		return nil, err
	}
	ret := make([]*Characterization, len(pockets))
	g, gctx := errgroup.WithContext(ctx)
	if M.Workers > 0 {
		g.SetLimit(M.Workers)
	}
	for i, p := range pockets {
		i, p := i, p
		id := i + 1
		if ids != nil {
			id = ids[i]
		}
		g.Go(func() error {
			C, err := M.characterize(gctx, args, p, id, outDir)
			if err != nil {
				return errors.WithMessagef(err, "pocket %d", id)
			}
			ret[i] = C
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (M *MDHandle) characterize(ctx context.Context, trajArgs []string, pocketFile string, id int, outDir string) (*Characterization, error) {
	C := &Characterization{ID: id, Dir: filepath.Join(outDir, fmt.Sprintf("pocketFolder_%d", id))}
	if err := os.MkdirAll(C.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "mdpocket")
	}
	D, err := workdir.New(M.workdir, fmt.Sprintf("%s_%d", MDPocket, id))
	if err != nil {
		return nil, err
	}
	defer D.Close()
	D.Retries = M.Retries
	D.Verbose = M.Verbose
	in, err := pocket.OpenFile(pocketFile)
	if err != nil {
		return nil, err
	}
	records, err := pocket.ReadRecords(in)
	in.Close()
	if err != nil {
		return nil, err
	}
	modified := fmt.Sprintf("pocketFile_Modified_%d.pdb", id)
	out, err := os.Create(D.Join(modified))
	if err != nil {
		return nil, err
	}
	if err := pocket.WriteRecords(out, pocket.PathRecords(records)); err != nil {
		out.Close()
		return nil, err
	}
	if err := out.Close(); err != nil {
		return nil, err
	}
	args := append(append([]string(nil), trajArgs...), "--selected_pocket", modified)
	if err := D.Run(ctx, M.command, args...); err != nil {
		return nil, err
	}
	outputs := []struct {
		from string
		to   *string
		name string
	}{
		{modified, &C.PocketFile, modified},
		{selPocketPDB, &C.PocketPDB, fmt.Sprintf("mdpout_mdpocket_%d.pdb", id)},
		{selAtomsPDB, &C.AtomsPDB, fmt.Sprintf("mdpout_mdpocket_atoms_%d.pdb", id)},
		{selDescriptors, &C.DescriptorsFile, fmt.Sprintf("mdpout_descriptors_%d.txt", id)},
	}
	for _, o := range outputs {
		*o.to, err = D.Collect(o.from, filepath.Join(C.Dir, o.name))
		if err != nil {
			return nil, err
		}
	}
	C.Descriptors, err = pocket.ReadDescriptorsFile(C.DescriptorsFile)
	if err != nil {
		return nil, err
	}
	if M.Verbose {
		log.Printf("mdpocket: pocket %d characterized over %d snapshots", id, C.Descriptors.Len())
	}
	return C, nil
}
