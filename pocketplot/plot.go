/*
 * plot.go, part of gopocket.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package pocketplot plots the per-snapshot descriptors mdpocket computes for a pocket.
//The format of the plot files is given by the extension of their names (png, svg, pdf, eps...).
package pocketplot

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	pocket "github.com/rmera/gopocket"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//Size of the saved plots
var (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//snapshots returns the x values for the table: the snapshot labels if all
//of them are numbers, the 0-based row indexes otherwise.
func snapshots(D *pocket.DescriptorTable) []float64 {
	labels := D.Labels()
	ret := make([]float64, len(labels))
	for i, l := range labels {
		v, err := strconv.ParseFloat(l, 64)
		if err != nil {
			for j := range ret {
				ret[j] = float64(j)
			}
			return ret
		}
		ret[i] = v
	}
	return ret
}

func xys(x, y []float64) plotter.XYs {
	ret := make(plotter.XYs, len(x))
	for i := range x {
		ret[i].X = x[i]
		ret[i].Y = y[i]
	}
	return ret
}

//DescriptorPlot plots the values of the descriptor column against the snapshots, and saves
//the plot to filename.
func DescriptorPlot(D *pocket.DescriptorTable, column, title, filename string) error {
	return DescriptorsPlot(D, []string{column}, title, filename)
}

//DescriptorsPlot plots several descriptors against the snapshots, each in a different color.
//The descriptors should have similar magnitudes for the plot to be useful.
func DescriptorsPlot(D *pocket.DescriptorTable, columns []string, title, filename string) error {
	if len(columns) == 0 {
		return fmt.Errorf("pocketplot: no descriptors to plot")
	}
	if D.Len() == 0 {
		return fmt.Errorf("pocketplot: no snapshots to plot")
	}
	ylabel := "Descriptors"
	if len(columns) == 1 {
		ylabel = pocket.DescriptorDescription(columns[0])
	}
	p := basicPlot(title, "Snapshots", ylabel)
	x := snapshots(D)
	for key, c := range columns {
		y, err := D.Column(c)
		if err != nil {
			return err
		}
		l, s, err := plotter.NewLinePoints(xys(x, y))
		if err != nil {
			return err
		}
		r, g, b := colors(key, len(columns))
		col := color.RGBA{R: r, G: g, B: b, A: 255}
		if len(columns) == 1 {
			col = color.RGBA{B: 200, A: 255}
		}
		l.LineStyle.Color = col
		s.GlyphStyle.Color = col
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(l, s)
		p.Legend.Add(pocket.DescriptorDescription(c), l, s)
	}
	p.Legend.Top = true
	return p.Save(Width, Height, filename)
}

//DescriptorHistogram saves to filename a histogram, with the given number of bins,
//of the values of the descriptor column over all snapshots.
func DescriptorHistogram(D *pocket.DescriptorTable, column string, bins int, title, filename string) error {
	v, err := D.Column(column)
	if err != nil {
		return err
	}
	if len(v) == 0 {
		return fmt.Errorf("pocketplot: no snapshots to plot")
	}
	if bins < 1 {
		bins = int(math.Ceil(math.Sqrt(float64(len(v)))))
	}
	p := basicPlot(title, pocket.DescriptorDescription(column), "Snapshots")
	h, err := plotter.NewHist(plotter.Values(v), bins)
	if err != nil {
		return err
	}
	h.FillColor = color.RGBA{B: 200, A: 160}
	p.Add(h)
	return p.Save(Width, Height, filename)
}

//colors returns a color for the element key out of steps, spreading them over the hue circle.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	return hsv2RGB(h, 1.0, 1.0)
}

//hsv2RGB converts a color given as hue (degrees), saturation and value (both between 0 and 1) to RGB.
func hsv2RGB(h, s, v float64) (uint8, uint8, uint8) {
	conversion := 255.0
	if s == 0.0 {
		return uint8(conversion * v), uint8(conversion * v), uint8(conversion * v)
	}
	h = h / 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	var r, g, b float64
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}
