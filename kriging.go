package reservoir

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// KrigingEstimator fits a variogram to the control points and predicts
// depth by kriging with the fitted model.
type KrigingEstimator struct {
	pos []ControlPoint

	Nugget float64 `json:"nugget"`
	Range  float64 `json:"range"`
	Sill   float64 `json:"sill"`
	A      float64 `json:"A"`
	N      int     `json:"n"`

	M []float64 `json:"M"`

	model KrigingModel
}

func NewKriging(pos []ControlPoint) *KrigingEstimator {
	return &KrigingEstimator{pos: pos}
}

type KrigingModel func(float64, float64, float64, float64, float64) float64

func krigingGaussian(h, nugget, range_, sill, A float64) float64 {
	x := -(1.0 / A) * ((h / range_) * (h / range_))
	return nugget + ((sill-nugget)/range_)*
		(1.0-exp(x))
}

func krigingExponential(h, nugget, range_, sill, A float64) float64 {
	x := -(1.0 / A) * (h / range_)
	return nugget + ((sill-nugget)/range_)*
		(1.0-exp(x))
}

func krigingSpherical(h, nugget, range_, sill, A float64) float64 {
	if h > range_ {
		return nugget + (sill-nugget)/range_
	}
	x := h / range_
	return nugget + ((sill-nugget)/range_)*
		(1.5*(x)-0.5*(pow3(x)))
}

const maxLags = 30

func (kri *KrigingEstimator) Train(model ModelType, sigma2 float64, alpha float64) (*KrigingEstimator, error) {
	kri.Nugget = 0.0
	kri.Range = 0.0
	kri.Sill = 0.0
	kri.A = float64(1) / float64(3)
	kri.N = 0

	switch model {
	case Gaussian:
		kri.model = krigingGaussian
	case Exponential:
		kri.model = krigingExponential
	case Spherical:
		kri.model = krigingSpherical
	default:
		return nil, &methodError{Kriging, "unknown variogram model " + string(model)}
	}

	n := len(kri.pos)
	pairs := (n*n - n) / 2
	if pairs < 2 {
		return nil, &methodError{Kriging, "not enough points"}
	}

	distance := make(DistanceList, 0, pairs)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			distance = append(distance, [2]float64{
				math.Hypot(kri.pos[i].X-kri.pos[j].X, kri.pos[i].Y-kri.pos[j].Y),
				math.Abs(kri.pos[i].Z - kri.pos[j].Z),
			})
		}
	}
	sort.Sort(distance)
	kri.Range = distance[pairs-1][0]

	lags := pairs
	if lags > maxLags {
		lags = maxLags
	}

	tolerance := kri.Range / float64(lags)

	lag := make([]float64, lags)
	semi := make([]float64, lags)
	l := 0
	if lags < maxLags {
		for ; l < lags; l++ {
			lag[l] = distance[l][0]
			semi[l] = distance[l][1]
		}
	} else {
		j, k := 0, 0
		for i := 0; i < lags && j < pairs; i++ {
			for j < pairs && distance[j][0] <= float64(i+1)*tolerance {
				lag[l] += distance[j][0]
				semi[l] += distance[j][1]
				j++
				k++
			}
			if k > 0 {
				lag[l] /= float64(k)
				semi[l] /= float64(k)
				l++
			}
			k = 0
		}
	}
	if l < 2 {
		return nil, &methodError{Kriging, "not enough lags"}
	}

	n = l
	kri.Range = lag[n-1] - lag[0]
	if !(kri.Range > 0) {
		return nil, &methodError{Kriging, "variogram range is zero"}
	}

	X := mat.NewDense(n, 2, nil)
	Y := mat.NewVecDense(n, nil)
	A := kri.A
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
		switch model {
		case Gaussian:
			X.Set(i, 1, 1.0-exp(-(1.0/A)*pow2(lag[i]/kri.Range)))
		case Exponential:
			X.Set(i, 1, 1.0-exp(-(1.0/A)*lag[i]/kri.Range))
		case Spherical:
			X.Set(i, 1, 1.5*(lag[i]/kri.Range)-0.5*pow3(lag[i]/kri.Range))
		}
		Y.SetVec(i, semi[i])
	}

	var Z mat.Dense
	Z.Mul(X.T(), X)
	Z.Add(&Z, matrixDiag(1/alpha, 2))
	iz, err := matrixInverse(&Z)
	if err != nil {
		return nil, &methodError{Kriging, "variogram fit: " + err.Error()}
	}

	var xty, W mat.VecDense
	xty.MulVec(X.T(), Y)
	W.MulVec(iz, &xty)

	kri.Nugget = W.AtVec(0)
	kri.Sill = W.AtVec(1)*kri.Range + kri.Nugget
	kri.N = len(kri.pos)

	n = len(kri.pos)
	K := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			v := kri.model(
				math.Hypot(kri.pos[i].X-kri.pos[j].X, kri.pos[i].Y-kri.pos[j].Y),
				kri.Nugget,
				kri.Range,
				kri.Sill,
				kri.A)
			K.Set(i, j, v)
			K.Set(j, i, v)
		}
		K.Set(i, i, kri.model(0, kri.Nugget, kri.Range, kri.Sill, kri.A))
	}

	K.Add(K, matrixDiag(sigma2, n))
	C, err := matrixInverse(K)
	if err != nil {
		return nil, &methodError{Kriging, "covariance: " + err.Error()}
	}

	t := mat.NewVecDense(n, nil)
	for i := range kri.pos {
		t.SetVec(i, kri.pos[i].Z)
	}

	var M mat.VecDense
	M.MulVec(C, t)
	kri.M = make([]float64, n)
	for i := range kri.M {
		kri.M[i] = M.AtVec(i)
		if !isFinite(kri.M[i]) {
			return nil, &methodError{Kriging, "weights are not finite"}
		}
	}

	return kri, nil
}

func (kri *KrigingEstimator) Predict(x, y float64) (float64, bool) {
	var z float64
	for i := 0; i < kri.N; i++ {
		h := math.Hypot(x-kri.pos[i].X, y-kri.pos[i].Y)
		z += kri.model(h, kri.Nugget, kri.Range, kri.Sill, kri.A) * kri.M[i]
	}
	return z, isFinite(z)
}
