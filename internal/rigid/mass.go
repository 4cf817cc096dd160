package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/mesh"
)

const (
	// VolumeEpsilon is the smallest enclosed volume accepted at construction,
	// relative to the cube of the longest side of the mesh's bounding box.
	VolumeEpsilon = 1e-12

	// singularRatio bounds |det I| relative to the cube of the mean principal moment.
	singularRatio = 1e-12
)

// MassProperties are the uniform-density properties of a closed mesh.
// Inertia is taken about the center of mass, in the mesh's own axes.
type MassProperties struct {
	Volume         float64
	Mass           float64
	CenterOfMass   mgl64.Vec3
	Inertia        mgl64.Mat3
	InverseInertia mgl64.Mat3
}

// ComputeMassProperties decomposes the mesh into signed tetrahedra fanned
// from vertices[0]. The input slice is not modified.
func ComputeMassProperties(density float64, vertices []mgl64.Vec3) (MassProperties, error) {
	var mp MassProperties

	if density <= 0 || math.IsNaN(density) || math.IsInf(density, 0) {
		return mp, &MassPropertiesError{Op: "density", Value: density, Wrapped: ErrInvalidDensity}
	}
	if len(vertices) == 0 || len(vertices)%3 != 0 {
		return mp, &MassPropertiesError{Op: "vertices", Value: float64(len(vertices)), Wrapped: ErrVertexCount}
	}

	volume, com := volumeAndCentroid(vertices)
	if tol := volumeTolerance(vertices); math.IsNaN(volume) || volume <= tol {
		if volume < -tol {
			return mp, &MassPropertiesError{Op: "volume", Value: volume, Wrapped: ErrInvertedMesh}
		}
		return mp, &MassPropertiesError{Op: "volume", Value: volume, Wrapped: ErrDegenerateVolume}
	}

	mp.Volume = volume
	mp.Mass = density * volume
	mp.CenterOfMass = com
	mp.Inertia = InertiaAboutOrigin(density, Centered(vertices, com))

	inv, err := invertInertia(mp.Inertia)
	if err != nil {
		return MassProperties{}, err
	}
	mp.InverseInertia = inv
	return mp, nil
}

func volumeTolerance(vertices []mgl64.Vec3) float64 {
	lo, hi := mesh.Bounds(vertices)
	d := hi.Sub(lo)
	extent := math.Max(d[0], math.Max(d[1], d[2]))
	return VolumeEpsilon * extent * extent * extent
}

func volumeAndCentroid(vertices []mgl64.Vec3) (float64, mgl64.Vec3) {
	origin := vertices[0]
	total := 0.0
	var acc mgl64.Vec3

	for i := 0; i < len(vertices); i += 3 {
		a, b, c := vertices[i], vertices[i+1], vertices[i+2]
		vol := mgl64.Mat3FromCols(a.Sub(origin), b.Sub(origin), c.Sub(origin)).Det() / 6
		centroid := origin.Add(a).Add(b).Add(c).Mul(0.25)
		total += vol
		acc = acc.Add(centroid.Mul(vol))
	}

	if total == 0 {
		return 0, mgl64.Vec3{}
	}
	return total, acc.Mul(1 / total)
}

// Centered returns a copy of vertices shifted so that com becomes the origin.
func Centered(vertices []mgl64.Vec3, com mgl64.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(vertices))
	for i, v := range vertices {
		out[i] = v.Sub(com)
	}
	return out
}

// InertiaAboutOrigin integrates the inertia tensor of the mesh about the
// coordinate origin. Each triangle contributes the covariance of the
// tetrahedron it forms with the origin.
func InertiaAboutOrigin(density float64, vertices []mgl64.Vec3) mgl64.Mat3 {
	var cov mgl64.Mat3
	for i := 0; i+2 < len(vertices); i += 3 {
		a, b, c := vertices[i], vertices[i+1], vertices[i+2]
		s := a.Add(b).Add(c)
		weight := mgl64.Mat3FromCols(a, b, c).Det() / 120
		sum := outer(a, a).Add(outer(b, b)).Add(outer(c, c)).Add(outer(s, s))
		cov = cov.Add(sum.Mul(weight))
	}

	trace := cov[0] + cov[4] + cov[8]
	return mgl64.Ident3().Mul(trace).Sub(cov).Mul(density)
}

// ParallelAxisShift moves an inertia tensor taken about the origin to the
// center of mass located at com.
func ParallelAxisShift(inertia mgl64.Mat3, mass float64, com mgl64.Vec3) mgl64.Mat3 {
	shift := mgl64.Ident3().Mul(com.LenSqr()).Sub(outer(com, com)).Mul(mass)
	return inertia.Sub(shift)
}

func invertInertia(inertia mgl64.Mat3) (mgl64.Mat3, error) {
	det := inertia.Det()
	mean := (inertia[0] + inertia[4] + inertia[8]) / 3
	if math.IsNaN(det) || math.Abs(det) <= singularRatio*math.Abs(mean*mean*mean) || det == 0 {
		return mgl64.Mat3{}, &MassPropertiesError{Op: "det", Value: det, Wrapped: ErrSingularInertia}
	}

	// Mat3.Inv gives up below an absolute determinant, so invert the
	// normalized tensor and scale back.
	inv := inertia.Mul(1 / mean).Inv().Mul(1 / mean)
	for _, v := range inv {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return mgl64.Mat3{}, &MassPropertiesError{Op: "det", Value: det, Wrapped: ErrSingularInertia}
		}
	}
	return inv, nil
}

// outer returns a·bᵀ in column-major order.
func outer(a, b mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3FromCols(a.Mul(b[0]), a.Mul(b[1]), a.Mul(b[2]))
}
