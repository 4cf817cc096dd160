package rigid

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

var errEigen = errors.New("rigid: eigen decomposition of inertia tensor failed")

// PrincipalMoments returns the principal moments of inertia in ascending
// order and the matching unit axes in the body frame.
func (b *RigidBody) PrincipalMoments() ([3]float64, [3]mgl64.Vec3, error) {
	return principalMoments(b.inertia)
}

func principalMoments(inertia mgl64.Mat3) ([3]float64, [3]mgl64.Vec3, error) {
	var moments [3]float64
	var axes [3]mgl64.Vec3

	data := make([]float64, 9)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			data[row*3+col] = inertia.At(row, col)
		}
	}
	// The covariance sum is symmetric up to rounding.
	sym := mat.NewSymDense(3, data)

	var es mat.EigenSym
	if !es.Factorize(sym, true) {
		return moments, axes, errEigen
	}

	values := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	for i := 0; i < 3; i++ {
		moments[i] = values[i]
		axes[i] = mgl64.Vec3{vecs.At(0, i), vecs.At(1, i), vecs.At(2, i)}.Normalize()
	}
	return moments, axes, nil
}
