package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/rigidsim/internal/mesh"
	"github.com/san-kum/rigidsim/internal/rigid"
)

// DrawData is everything a renderer needs to draw one body: the local mesh
// as a GL_TRIANGLES buffer and the model matrix that places it.
type DrawData struct {
	Vertices []float32
	Model    mgl32.Mat4
}

// Prepare snapshots the draw data for every body.
func Prepare(bodies []*rigid.RigidBody) []DrawData {
	out := make([]DrawData, len(bodies))
	for i, b := range bodies {
		out[i] = DrawData{
			Vertices: mesh.Float32Buffer(b.Vertices()),
			Model:    ModelMatrix(b),
		}
	}
	return out
}
