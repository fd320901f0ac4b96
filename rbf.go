package reservoir

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CubicRBF is a cubic radial basis function interpolant, phi(r) = r^3,
// augmented with a linear drift so that planar data is reproduced exactly.
// Coordinates are centred and scaled to the unit extent before solving.
type CubicRBF struct {
	pos     []ControlPoint
	cx, cy  float64
	scale   float64
	weights []float64
	drift   [3]float64
}

func NewCubicRBF(pos []ControlPoint) (*CubicRBF, error) {
	n := len(pos)
	if n < 3 {
		return nil, &methodError{Cubic, "need at least 3 points"}
	}
	min, max, _ := minMaxPoints(pos)
	r := &CubicRBF{
		pos:   pos,
		cx:    (min.X + max.X) / 2,
		cy:    (min.Y + max.Y) / 2,
		scale: math.Max(max.X-min.X, max.Y-min.Y),
	}
	if !(r.scale > 0) {
		return nil, &methodError{Cubic, "points have no extent"}
	}

	size := n + 3
	a := mat.NewDense(size, size, nil)
	b := mat.NewVecDense(size, nil)
	for i := 0; i < n; i++ {
		xi, yi := r.normalize(pos[i].X, pos[i].Y)
		for j := 0; j < i; j++ {
			xj, yj := r.normalize(pos[j].X, pos[j].Y)
			v := pow3(math.Hypot(xi-xj, yi-yj))
			a.Set(i, j, v)
			a.Set(j, i, v)
		}
		a.Set(i, n, 1)
		a.Set(i, n+1, xi)
		a.Set(i, n+2, yi)
		a.Set(n, i, 1)
		a.Set(n+1, i, xi)
		a.Set(n+2, i, yi)
		b.SetVec(i, pos[i].Z)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return nil, &methodError{Cubic, err.Error()}
	}

	r.weights = make([]float64, n)
	for i := range r.weights {
		r.weights[i] = sol.AtVec(i)
		if !isFinite(r.weights[i]) {
			return nil, &methodError{Cubic, "weights are not finite"}
		}
	}
	for k := range r.drift {
		r.drift[k] = sol.AtVec(n + k)
	}
	return r, nil
}

func (r *CubicRBF) normalize(x, y float64) (float64, float64) {
	return (x - r.cx) / r.scale, (y - r.cy) / r.scale
}

func (r *CubicRBF) Predict(x, y float64) (float64, bool) {
	u, v := r.normalize(x, y)
	z := r.drift[0] + r.drift[1]*u + r.drift[2]*v
	for i, p := range r.pos {
		pu, pv := r.normalize(p.X, p.Y)
		z += r.weights[i] * pow3(math.Hypot(u-pu, v-pv))
	}
	return z, isFinite(z)
}
