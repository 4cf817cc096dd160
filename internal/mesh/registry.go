package mesh

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Registry maps mesh names to constructors taking a size parameter.
type Registry struct {
	meshes map[string]func(size float64) []mgl64.Vec3
}

func NewRegistry() *Registry {
	r := &Registry{
		meshes: make(map[string]func(float64) []mgl64.Vec3),
	}

	r.meshes["tetrahedron"] = ScaledTetrahedron
	r.meshes["corner"] = CornerTetrahedron
	r.meshes["cube"] = Cube
	r.meshes["octahedron"] = Octahedron
	r.meshes["plank"] = func(size float64) []mgl64.Vec3 {
		return Box(size, size/2, size/4)
	}

	return r
}

// Register adds or replaces a named mesh.
func (r *Registry) Register(name string, fn func(size float64) []mgl64.Vec3) {
	r.meshes[name] = fn
}

// Lookup builds the named mesh. A non-positive size means 1.
func (r *Registry) Lookup(name string, size float64) ([]mgl64.Vec3, error) {
	fn, ok := r.meshes[name]
	if !ok {
		return nil, fmt.Errorf("unknown mesh: %s (available: %v)", name, r.Names())
	}
	if size <= 0 {
		size = 1
	}
	return fn(size), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.meshes))
	for name := range r.meshes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
