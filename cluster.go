/*
 * cluster.go, part of gopocket.
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

//disjointSet is a union-find structure over the indexes 0..n-1.
type disjointSet struct {
	parent []int
	rank   []int
}

func newDisjointSet(n int) *disjointSet {
	d := &disjointSet{parent: make([]int, n), rank: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

func (d *disjointSet) find(i int) int {
	for d.parent[i] != i {
		d.parent[i] = d.parent[d.parent[i]] //path halving
		i = d.parent[i]
	}
	return i
}

func (d *disjointSet) union(i, j int) {
	ri, rj := d.find(i), d.find(j)
	if ri == rj {
		return
	}
	switch {
	case d.rank[ri] < d.rank[rj]:
		d.parent[ri] = rj
	case d.rank[ri] > d.rank[rj]:
		d.parent[rj] = ri
	default:
		d.parent[rj] = ri
		d.rank[ri]++
	}
}

//ClusterPoints groups points so that two of them end up in the same cluster
//if and only if they are joined by a chain of points, each no farther than
//maxdist from the next one (single linkage).
//Clusters are ordered by their first point in the input, and each keeps its
//points in input order. An empty input gives no clusters.
//All pairs are compared, so the cost is quadratic in the number of points.
func ClusterPoints(points []Point3D, maxdist float64) []Cluster {
	if len(points) == 0 {
		return nil
	}
	set := newDisjointSet(len(points))
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if points[i].Dist(points[j]) <= maxdist {
				set.union(i, j)
			}
		}
	}
	index := make(map[int]int) //root -> position in ret
	ret := make([]Cluster, 0)
	for i, p := range points {
		root := set.find(i)
		k, ok := index[root]
		if !ok {
			k = len(ret)
			index[root] = k
			ret = append(ret, make(Cluster, 0, 8))
		}
		ret[k] = append(ret[k], p)
	}
	return ret
}
