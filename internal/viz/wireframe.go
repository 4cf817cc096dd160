package viz

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/mesh"
	"github.com/san-kum/rigidsim/internal/render"
)

// Wireframe is a body mesh reduced to its unique edges, in single precision.
type Wireframe struct {
	Points []mgl32.Vec3
	Edges  []mesh.Edge
}

func NewWireframe(vertices []mgl64.Vec3) *Wireframe {
	w := &Wireframe{
		Points: make([]mgl32.Vec3, len(vertices)),
		Edges:  mesh.Edges(vertices),
	}
	for i, v := range vertices {
		w.Points[i] = render.ToVec3(v)
	}
	return w
}

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float32
}

// Project transforms every edge by model and the camera onto a surface of
// width x height dots. Edges with an endpoint behind the camera are dropped.
func (w *Wireframe) Project(model mgl32.Mat4, cam *render.Camera, width, height int) []ProjectedEdge {
	type point struct {
		x, y  float32
		depth float32
		ok    bool
	}
	pts := make([]point, len(w.Points))
	for i, p := range w.Points {
		x, y, d, ok := render.Project(p, model, cam, width, height)
		pts[i] = point{x, y, d, ok}
	}

	out := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		a, b := pts[e.A], pts[e.B]
		if !a.ok || !b.ok {
			continue
		}
		if !render.InViewport(a.x, a.y, width, height) && !render.InViewport(b.x, b.y, width, height) {
			continue
		}
		out = append(out, ProjectedEdge{
			X1: int(a.x), Y1: int(a.y),
			X2: int(b.x), Y2: int(b.y),
			Depth: (a.depth + b.depth) / 2,
		})
	}
	return out
}

// DrawEdges draws far edges first so near ones overwrite them.
func DrawEdges(c *Canvas, edges []ProjectedEdge) {
	sort.Slice(edges, func(i, j int) bool { return edges[i].Depth > edges[j].Depth })
	for _, e := range edges {
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.Set(e.X1, e.Y1)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}
