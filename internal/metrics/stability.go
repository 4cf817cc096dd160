package metrics

import (
	"math"

	"github.com/san-kum/rigidsim/internal/sim"
)

// MinSeparation is the closest approach between any two centres of mass.
// It reports zero for worlds with fewer than two bodies.
type MinSeparation struct {
	name    string
	min     float64
	samples int
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{
		name: "min_separation",
		min:  math.Inf(1),
	}
}

func (s *MinSeparation) Name() string {
	return s.name
}

func (s *MinSeparation) Observe(w *sim.World, t float64) {
	for i := 0; i < len(w.Bodies); i++ {
		for j := i + 1; j < len(w.Bodies); j++ {
			d := w.Bodies[j].Position().Sub(w.Bodies[i].Position()).Len()
			s.min = math.Min(s.min, d)
			s.samples++
		}
	}
}

func (s *MinSeparation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.min
}

func (s *MinSeparation) Reset() {
	s.min = math.Inf(1)
	s.samples = 0
}

// QuatNorm is the largest departure of any orientation from unit length.
type QuatNorm struct {
	name     string
	maxError float64
}

func NewQuatNorm() *QuatNorm {
	return &QuatNorm{name: "quat_norm_error"}
}

func (q *QuatNorm) Name() string {
	return q.name
}

func (q *QuatNorm) Observe(w *sim.World, t float64) {
	for _, b := range w.Bodies {
		q.maxError = math.Max(q.maxError, math.Abs(b.Orientation.Len()-1))
	}
}

func (q *QuatNorm) Value() float64 {
	return q.maxError
}

func (q *QuatNorm) Reset() {
	q.maxError = 0
}
