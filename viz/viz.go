/*
 * viz.go, part of gopocket.
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

//Package viz writes PyMOL and VMD scripts to look at the results of fpocket and mdpocket.
//All paths are written as absolute paths, so the scripts can be run from anywhere.
package viz

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

var mdPyMOL = template.Must(template.New("mdpymol").Parse(`load {{.Structure}}
load_traj {{.Trajectory}}
set movie_fps, 15
load {{.Pocket}}
load {{.Atoms}}
`))

var mdVMD = template.Must(template.New("mdvmd").Parse(`mol addrep 0
mol new {{"{"}}{{.Structure}}{{"}"}} type {pdb} first 0 last -1 step 1 waitfor 1
mol addfile {{"{"}}{{.Trajectory}}{{"}"}} type {{"{"}}{{.Format}}{{"}"}} first 0 last -1 step 1 waitfor 1 0

mol color Name
mol representation NewCartoon 0.300000 10.000000 4.100000 0
mol selection protein
mol material Opaque
mol modrep 0 0

mol addrep 0
mol color Name
mol representation Points 1.000000
mol selection hetero within 3 of protein
mol material Opaque
mol modrep 1 0

display resetview
mol new {{"{"}}{{.Atoms}}{{"}"}} type {pdb} first 0 last -1 step 1 waitfor 1 0
mol modstyle 0 1 Licorice 0.300000 12.000000 12.000000
`))

var volumeVMD = template.Must(template.New("volvmd").Parse(`mol representation Isosurface
mol addrep 0
mol new {{"{"}}{{.Grid}}{{"}"}} type {dx} first 0 last -1 step 1 waitfor 1 volsets {0 }
animate style Loop
display resetview
mol addrep 1
mol new {{"{"}}{{.Structure}}{{"}"}} type {pdb} first 0 last -1 step 1 waitfor 1
animate style Loop
mol modstyle 0 0 Isosurface {{.Iso}} 0 2 1 1 1
mol modstyle 0 1 NewCartoon 0.300000 10.000000 4.100000 0
`))

var pocketsPyMOL = template.Must(template.New("pockets").Parse(`load {{.Structure}}, protein
hide everything, protein
show cartoon, protein
color grey80, protein
{{range .Pockets}}load {{.File}}, pocket{{.ID}}
show spheres, pocket{{.ID}}
set sphere_scale, 0.3, pocket{{.ID}}
util.color_deep("{{.Color}}", "pocket{{.ID}}")
{{end}}zoom
`))

//colors cycled over the pockets
var colors = []string{"red", "blue", "green", "yellow", "magenta", "cyan", "orange", "purple", "salmon", "teal"}

func abs(paths ...*string) error {
	for _, p := range paths {
		a, err := filepath.Abs(*p)
		if err != nil {
			return errors.Wrap(err, "viz")
		}
		*p = a
	}
	return nil
}

//MDPyMOL writes a PyMOL script that loads the structure with its trajectory, and
//the dynamic pocket and pocket atoms files from an mdpocket characterization.
func MDPyMOL(w io.Writer, structure, trajectory, pocket, atoms string) error {
	if err := abs(&structure, &trajectory, &pocket, &atoms); err != nil {
		return err
	}
	data := struct{ Structure, Trajectory, Pocket, Atoms string }{structure, trajectory, pocket, atoms}
	return errors.Wrap(mdPyMOL.Execute(w, data), "viz: MDPyMOL")
}

//MDVMD writes a VMD script that shows the structure, as cartoon, with the trajectory, and the
//atoms lining a pocket along it. The trajectory format is taken from its extension.
func MDVMD(w io.Writer, structure, trajectory, atoms string) error {
	if err := abs(&structure, &trajectory, &atoms); err != nil {
		return err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(trajectory)), ".")
	data := struct{ Structure, Trajectory, Format, Atoms string }{structure, trajectory, format, atoms}
	return errors.Wrap(mdVMD.Execute(w, data), "viz: MDVMD")
}

//VolumeVMD writes a VMD script that shows a density or frequency grid as an
//isosurface at iso, over the structure.
func VolumeVMD(w io.Writer, grid, structure string, iso float64) error {
	if err := abs(&grid, &structure); err != nil {
		return err
	}
	data := struct {
		Grid, Structure string
		Iso             string
	}{grid, structure, formatIso(iso)}
	return errors.Wrap(volumeVMD.Execute(w, data), "viz: VolumeVMD")
}

//Pocket is a pocket file to be shown, and its id.
type Pocket struct {
	ID   int
	File string
}

//PocketsPyMOL writes a PyMOL script that shows the pockets, as spheres in different colors,
//over the structure.
func PocketsPyMOL(w io.Writer, structure string, pockets []Pocket) error {
	if err := abs(&structure); err != nil {
		return err
	}
	type colored struct {
		Pocket
		Color string
	}
	p := make([]colored, len(pockets))
	for i, v := range pockets {
		if err := abs(&v.File); err != nil {
			return err
		}
		p[i] = colored{v, colors[i%len(colors)]}
	}
	data := struct {
		Structure string
		Pockets   []colored
	}{structure, p}
	return errors.Wrap(pocketsPyMOL.Execute(w, data), "viz: PocketsPyMOL")
}

func formatIso(iso float64) string {
	return fmt.Sprintf("%f", iso)
}
