package rigid

import (
	"errors"
	"fmt"
)

// Construction errors. All of them describe a caller-input problem.
var (
	// ErrInvalidDensity indicates a density that is not a positive finite number.
	ErrInvalidDensity = errors.New("rigid: density must be positive and finite")

	// ErrVertexCount indicates an empty vertex list or one that is not a multiple of 3.
	ErrVertexCount = errors.New("rigid: vertex count must be a positive multiple of 3")

	// ErrDegenerateVolume indicates a mesh enclosing zero volume, or a volume
	// negligible against its bounding box.
	ErrDegenerateVolume = errors.New("rigid: mesh encloses no volume")

	// ErrInvertedMesh indicates a negative enclosed volume (inward-wound triangles).
	ErrInvertedMesh = errors.New("rigid: mesh is wound inside out")

	// ErrSingularInertia indicates an inertia tensor that cannot be inverted.
	ErrSingularInertia = errors.New("rigid: inertia tensor is singular")
)

// MassPropertiesError wraps a construction error with the stage that failed
// and the offending value (density, vertex count, volume or determinant).
type MassPropertiesError struct {
	Op      string
	Value   float64
	Wrapped error
}

func (e *MassPropertiesError) Error() string {
	return fmt.Sprintf("%s (%s=%g)", e.Wrapped.Error(), e.Op, e.Value)
}

func (e *MassPropertiesError) Unwrap() error {
	return e.Wrapped
}
