/*
 * main.go, part of gopocket.
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

//gopocket runs fpocket and mdpocket and processes their results.
//Run gopocket <command> -h for the options of each command.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	pocket "github.com/rmera/gopocket"
	"github.com/rmera/gopocket/fpocket"
	"github.com/rmera/gopocket/pocketplot"
	"github.com/rmera/gopocket/viz"
)

type command struct {
	run   func(ctx context.Context, args []string) error
	usage string
}

var commands map[string]command

func init() {
	log.SetFlags(0)
	commands = map[string]command{
		"find":         {find, "find [flags] structure.pdb: search pockets with fpocket"},
		"analyze":      {analyze, "analyze [flags] -traj md.xtc -top top.pdb: search pockets along a trajectory with mdpocket"},
		"characterize": {characterize, "characterize [flags] -traj md.xtc -top top.pdb pocket.pdb...: per-snapshot descriptors of pockets"},
		"cluster":      {cluster, "cluster [flags] points.pdb: group the points in a structure file into pocket files"},
		"iso":          {iso, "iso [flags] grid.dx: write the grid points above an isovalue as a PDB file"},
		"plot":         {plotDescriptors, "plot [flags] descriptors.txt: plot descriptors against snapshots"},
		"summary":      {summary, "summary descriptors.txt: print statistics for each descriptor"},
		"script":       {script, "script [flags] pymol-md|vmd-md|vmd-vol|pymol-pockets [pocket files]: write a viewer script"},
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: gopocket command [flags] [arguments]\n\nCommands:\n")
	for _, name := range []string{"find", "analyze", "characterize", "cluster", "iso", "plot", "summary", "script"} {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	c, ok := commands[os.Args[1]]
	if !ok {
		usage()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := c.run(ctx, os.Args[2:]); err != nil {
		stop()
		log.Fatalf("gopocket %s: %s", os.Args[1], err)
	}
}

//common holds the flags shared by the commands that run external programs.
type common struct {
	config  string
	verbose bool
	out     string
}

func (c *common) set(fs *flag.FlagSet, out string) {
	fs.StringVar(&c.config, "config", "", "YAML configuration file.")
	fs.BoolVar(&c.verbose, "v", false, "Verbose output.")
	fs.StringVar(&c.out, "out", out, "Output directory.")
}

func (c *common) load() (*Config, error) {
	C, err := LoadConfig(c.config)
	if err != nil {
		return nil, err
	}
	C.Verbose = C.Verbose || c.verbose
	return C, nil
}

//visited returns the names of the flags that were set in the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	ret := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { ret[f.Name] = true })
	return ret
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: gopocket %s\n", commands[name].usage)
		fs.PrintDefaults()
	}
	return fs
}

func find(ctx context.Context, args []string) error {
	fs := newFlagSet("find")
	var c common
	c.set(fs, ".")
	def := fpocket.DefaultOptions()
	minAlpha := fs.Float64("min-alpha", def.MinAlpha, "Minimum alpha sphere radius.")
	maxAlpha := fs.Float64("max-alpha", def.MaxAlpha, "Maximum alpha sphere radius.")
	minSpheres := fs.Int("min-spheres", def.MinSpheres, "Minimum number of alpha spheres per pocket.")
	linkage := fs.String("linkage", def.Linkage, "Clustering linkage: single, complete, average or centroid.")
	distance := fs.String("distance", def.Distance, "Clustering distance: euclidean or manhattan.")
	clustDist := fs.Float64("cluster-dist", def.ClusterDistance, "Clustering distance threshold.")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	C, err := c.load()
	if err != nil {
		return err
	}
	set := visited(fs)
	O := C.Options
	if set["min-alpha"] {
		O.MinAlpha = *minAlpha
	}
	if set["max-alpha"] {
		O.MaxAlpha = *maxAlpha
	}
	if set["min-spheres"] {
		O.MinSpheres = *minSpheres
	}
	if set["linkage"] {
		O.Linkage = *linkage
	}
	if set["distance"] {
		O.Distance = *distance
	}
	if set["cluster-dist"] {
		O.ClusterDistance = *clustDist
	}
	R, err := C.Handle().Find(ctx, fs.Arg(0), c.out)
	if err != nil {
		return err
	}
	fmt.Printf("%d pockets in %s\n", len(R.Pockets), R.Dir)
	for _, p := range R.Pockets {
		if p.Info != nil {
			fmt.Printf("pocket %3d score %6.3f druggability %6.3f volume %9.3f spheres %d\n", p.ID, p.Info.Score, p.Info.Druggability, p.Info.Volume, len(p.Spheres))
		} else {
			fmt.Printf("pocket %3d spheres %d\n", p.ID, len(p.Spheres))
		}
	}
	return nil
}

func trajFlags(fs *flag.FlagSet) (traj, top *string) {
	traj = fs.String("traj", "", "Trajectory file. The format is taken from the extension.")
	top = fs.String("top", "", "Topology (PDB) file for the trajectory.")
	return
}

//characterizeFlags registers the flags of the characterize command.
//Pocket type presets apply only to analyze.
func characterizeFlags(fs *flag.FlagSet, c *common) (traj, top *string, workers *int) {
	c.set(fs, ".")
	traj, top = trajFlags(fs)
	workers = fs.Int("workers", 0, "Maximum number of pockets characterized at the same time.")
	return
}

func analyze(ctx context.Context, args []string) error {
	fs := newFlagSet("analyze")
	var c common
	c.set(fs, ".")
	traj, top := trajFlags(fs)
	ptype := fs.String("type", "", "Pocket type preset: default, druggable, channels, water or big.")
	isoValue := fs.Float64("iso", fpocket.DefaultIsoValue, "Minimum density for a grid point to belong to a pocket.")
	maxDist := fs.Float64("maxdist", fpocket.DefaultMaxDist, "Maximum distance between neighboring points of a pocket.")
	fs.Parse(args)
	C, err := c.load()
	if err != nil {
		return err
	}
	M := C.MDHandle()
	if *ptype != "" {
		if M.Type, err = fpocket.ParsePocketType(*ptype); err != nil {
			return err
		}
	}
	set := visited(fs)
	if set["iso"] {
		M.IsoValue = *isoValue
	}
	if set["maxdist"] {
		M.MaxIntraDistance = *maxDist
	}
	A, err := M.Analyze(ctx, fpocket.Trajectory{File: *traj, Topology: *top}, c.out)
	if err != nil {
		return err
	}
	fmt.Printf("density grid: %s\nfrequency grid: %s\n", A.DensGrid, A.FreqGrid)
	for i, f := range A.PocketFiles {
		fmt.Printf("pocket %3d: %4d points, %s\n", i+1, A.Clusters[i].Len(), f)
	}
	if len(A.PocketFiles) == 0 {
		fmt.Printf("no pockets at isovalue %.2f\n", M.IsoValue)
	}
	return nil
}

func characterize(ctx context.Context, args []string) error {
	fs := newFlagSet("characterize")
	var c common
	traj, top, workers := characterizeFlags(fs, &c)
	fs.Parse(args)
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	C, err := c.load()
	if err != nil {
		return err
	}
	M := C.MDHandle()
	if *workers > 0 {
		M.Workers = *workers
	}
	res, err := M.Characterize(ctx, fpocket.Trajectory{File: *traj, Topology: *top}, fs.Args(), nil, c.out)
	if err != nil {
		return err
	}
	for _, r := range res {
		fmt.Printf("pocket %3d: %d snapshots, %s\n", r.ID, r.Descriptors.Len(), r.DescriptorsFile)
	}
	return nil
}

func cluster(ctx context.Context, args []string) error {
	fs := newFlagSet("cluster")
	out := fs.String("out", ".", "Output directory.")
	maxDist := fs.Float64("maxdist", fpocket.DefaultMaxDist, "Maximum distance between neighboring points of a pocket.")
	tags := fs.String("tags", strings.Join(pocket.DefaultTags, ","), "Comma-separated record tags to read.")
	ext := fs.String("ext", "", "Extra extension for the pocket files, gz or zst, to compress them.")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	points, err := pocket.ExtractCoordsFile(fs.Arg(0), strings.Split(*tags, ",")...)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}
	clusters := pocket.ClusterPoints(points, *maxDist)
	for i, cl := range clusters {
		name := filepath.Join(*out, fpocket.PocketFileName(i+1))
		if *ext != "" {
			name += "." + strings.TrimPrefix(*ext, ".")
		}
		if err := pocket.WritePocketFile(name, cl, i+1); err != nil {
			return err
		}
		fmt.Printf("pocket %3d: %4d points, centroid %s\n", i+1, cl.Len(), cl.Centroid())
	}
	return nil
}

func iso(ctx context.Context, args []string) error {
	fs := newFlagSet("iso")
	isoValue := fs.Float64("iso", fpocket.DefaultIsoValue, "Isovalue.")
	out := fs.String("out", "", "Output file. By default, mdpoutput-<iso>.pdb next to the grid.")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	G, err := pocket.ReadDXFile(fs.Arg(0))
	if err != nil {
		return err
	}
	name := *out
	if name == "" {
		name = filepath.Join(filepath.Dir(fs.Arg(0)), fpocket.IsoFileName(*isoValue))
	}
	f, err := pocket.CreateFile(name)
	if err != nil {
		return err
	}
	n, err := G.WriteIsoPDB(f, *isoValue)
	if err != nil {
		f.Close()
		return err
	}
	fmt.Printf("%d points written to %s\n", n, name)
	return f.Close()
}

func plotDescriptors(ctx context.Context, args []string) error {
	fs := newFlagSet("plot")
	columns := fs.String("columns", "pock_volume", "Comma-separated descriptors to plot.")
	title := fs.String("title", "Pocket descriptors", "Plot title.")
	out := fs.String("out", "descriptors.png", "Output file. The extension gives the format.")
	bins := fs.Int("hist", -1, "Plot a histogram of the first descriptor with this many bins instead (0 chooses).")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	D, err := pocket.ReadDescriptorsFile(fs.Arg(0))
	if err != nil {
		return err
	}
	cols := strings.Split(*columns, ",")
	if *bins >= 0 {
		return pocketplot.DescriptorHistogram(D, cols[0], *bins, *title, *out)
	}
	return pocketplot.DescriptorsPlot(D, cols, *title, *out)
}

func summary(ctx context.Context, args []string) error {
	fs := newFlagSet("summary")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	D, err := pocket.ReadDescriptorsFile(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("%d snapshots\n", D.Len())
	for _, name := range D.Names()[1:] {
		S, err := D.Summary(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-22s %s (%s)\n", name, S, pocket.DescriptorDescription(name))
	}
	return nil
}

func script(ctx context.Context, args []string) error {
	fs := newFlagSet("script")
	structure := fs.String("top", "", "Structure or topology file.")
	traj := fs.String("traj", "", "Trajectory file (pymol-md, vmd-md).")
	dynPocket := fs.String("pocket", "", "mdpout_mdpocket_N.pdb file (pymol-md).")
	atoms := fs.String("atoms", "", "mdpout_mdpocket_atoms_N.pdb file (pymol-md, vmd-md).")
	grid := fs.String("grid", "", "Density or frequency grid (vmd-vol).")
	isoValue := fs.Float64("iso", 0.5, "Isovalue for the grid surface (vmd-vol).")
	out := fs.String("out", "", "Output file. By default, the standard output.")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch fs.Arg(0) {
	case "pymol-md":
		return viz.MDPyMOL(w, *structure, *traj, *dynPocket, *atoms)
	case "vmd-md":
		return viz.MDVMD(w, *structure, *traj, *atoms)
	case "vmd-vol":
		return viz.VolumeVMD(w, *grid, *structure, *isoValue)
	case "pymol-pockets":
		pockets := make([]viz.Pocket, 0, fs.NArg()-1)
		for i, f := range fs.Args()[1:] {
			pockets = append(pockets, viz.Pocket{ID: i + 1, File: f})
		}
		return viz.PocketsPyMOL(w, *structure, pockets)
	}
	return fmt.Errorf("unknown script kind %q", fs.Arg(0))
}
