// Package mesh provides closed, outward-wound triangle meshes and the
// flattened buffers renderers draw them from.
package mesh

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrNotTriangles = errors.New("mesh: vertex count is not a positive multiple of 3")

func Validate(vertices []mgl64.Vec3) error {
	if len(vertices) == 0 || len(vertices)%3 != 0 {
		return fmt.Errorf("%w: got %d", ErrNotTriangles, len(vertices))
	}
	return nil
}

// FromArrays converts [x, y, z] triples, the form used in config files.
func FromArrays(points [][3]float64) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(points))
	for i, p := range points {
		out[i] = mgl64.Vec3{p[0], p[1], p[2]}
	}
	return out
}

// Float32Buffer interleaves the vertices as x, y, z float32 values, ready
// for a GL_TRIANGLES draw call.
func Float32Buffer(vertices []mgl64.Vec3) []float32 {
	raw := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		raw = append(raw, float32(v[0]), float32(v[1]), float32(v[2]))
	}
	return raw
}

// Edge is an undirected pair of vertex indices into the mesh slice.
type Edge struct {
	A, B int
}

// Edges returns each geometric edge of the mesh once. Vertices at the same
// position share an edge even when they appear in different triangles.
func Edges(vertices []mgl64.Vec3) []Edge {
	first := make(map[mgl64.Vec3]int, len(vertices))
	canon := make([]int, len(vertices))
	for i, v := range vertices {
		if idx, ok := first[v]; ok {
			canon[i] = idx
			continue
		}
		first[v] = i
		canon[i] = i
	}

	seen := make(map[Edge]struct{})
	edges := make([]Edge, 0, len(vertices))
	for i := 0; i+2 < len(vertices); i += 3 {
		tri := [3]int{canon[i], canon[i+1], canon[i+2]}
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			e := Edge{a, b}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return edges
}

// Bounds returns the axis-aligned extent of the vertices.
func Bounds(vertices []mgl64.Vec3) (lo, hi mgl64.Vec3) {
	if len(vertices) == 0 {
		return
	}
	lo, hi = vertices[0], vertices[0]
	for _, v := range vertices[1:] {
		for k := 0; k < 3; k++ {
			if v[k] < lo[k] {
				lo[k] = v[k]
			}
			if v[k] > hi[k] {
				hi[k] = v[k]
			}
		}
	}
	return lo, hi
}
