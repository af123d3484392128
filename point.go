/*
 * point.go, part of gopocket.
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
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

//Point3D is a point in space, in Angstroms.
type Point3D struct {
	X, Y, Z float64
}

//Vec returns the point as a gonum r3 vector.
func (p Point3D) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

//Dist returns the euclidean distance between p and q.
func (p Point3D) Dist(q Point3D) float64 {
	return r3.Norm(r3.Sub(p.Vec(), q.Vec()))
}

func (p Point3D) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X, p.Y, p.Z)
}

func fromVec(v r3.Vec) Point3D {
	return Point3D{X: v.X, Y: v.Y, Z: v.Z}
}

//Cluster is a group of points connected under some distance threshold.
//The clusters returned together by ClusterPoints partition their input.
type Cluster []Point3D

//Len returns the number of points in the cluster.
func (c Cluster) Len() int {
	return len(c)
}

//Centroid returns the geometric center of the cluster. The centroid of
//an empty cluster is the origin.
func (c Cluster) Centroid() Point3D {
	if len(c) == 0 {
		return Point3D{}
	}
	var sum r3.Vec
	for _, p := range c {
		sum = r3.Add(sum, p.Vec())
	}
	return fromVec(r3.Scale(1/float64(len(c)), sum))
}

//Bounds returns the corners of the smallest axis-aligned box containing c.
func (c Cluster) Bounds() (min, max Point3D) {
	if len(c) == 0 {
		return
	}
	min, max = c[0], c[0]
	for _, p := range c[1:] {
		min = Point3D{math.Min(min.X, p.X), math.Min(min.Y, p.Y), math.Min(min.Z, p.Z)}
		max = Point3D{math.Max(max.X, p.X), math.Max(max.Y, p.Y), math.Max(max.Z, p.Z)}
	}
	return min, max
}
