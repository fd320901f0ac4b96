package reservoir

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubicRBFInterpolates(t *testing.T) {
	a := assert.New(t)

	pts := DemoDataset()
	r, err := NewCubicRBF(pts)
	require.NoError(t, err)
	for _, p := range pts {
		z, ok := r.Predict(p.X, p.Y)
		a.True(ok)
		a.InDelta(p.Z, z, 1e-6)
	}
}

func TestCubicRBFPlane(t *testing.T) {
	a := assert.New(t)

	plane := func(x, y float64) float64 { return 1000 + 0.5*x - 0.25*y }
	var pts []ControlPoint
	for _, xy := range [][2]float64{{0, 0}, {100, 0}, {0, 80}, {100, 80}, {40, 30}, {70, 60}} {
		pts = append(pts, ControlPoint{xy[0], xy[1], plane(xy[0], xy[1])})
	}
	r, err := NewCubicRBF(pts)
	require.NoError(t, err)

	z, _ := r.Predict(25, 45)
	a.InDelta(plane(25, 45), z, 1e-6)
}

func TestCubicRBFCollinear(t *testing.T) {
	_, err := NewCubicRBF([]ControlPoint{{0, 0, 1}, {1, 1, 2}, {2, 2, 3}, {3, 3, 4}})
	assert.True(t, errors.Is(err, ErrInterpolationFailure))
}

func TestTriangulation(t *testing.T) {
	a := assert.New(t)

	tri, err := NewTriangulation(DemoDataset())
	require.NoError(t, err)
	// 13 points, 8 of them on the boundary: 2n - 2 - h triangles
	a.Len(tri.tris, 16)

	z, ok := tri.Predict(200, 200)
	a.True(ok)
	a.InDelta(1000, z, 1e-9)

	z, ok = tri.Predict(175, 175)
	a.True(ok)
	a.InDelta(1050, z, 1e-9)

	_, ok = tri.Predict(50, 50)
	a.False(ok)
}

func TestTriangulationNotFinite(t *testing.T) {
	tri, err := NewTriangulation([]ControlPoint{{0, 0, 1000}, {100, 0, 1000}, {0, 100, math.NaN()}, {100, 100, 1000}})
	require.NoError(t, err)

	_, ok := tri.Predict(10, 80)
	assert.False(t, ok)
}

func TestTriangulationCollinear(t *testing.T) {
	_, err := NewTriangulation([]ControlPoint{{0, 0, 1}, {1, 1, 2}, {2, 2, 3}})
	assert.True(t, errors.Is(err, ErrInterpolationFailure))
}

func TestKrigingTrain(t *testing.T) {
	a := assert.New(t)

	pts := randomPoints(40, 11)
	k, err := NewKriging(pts).Train(Exponential, 0, 100)
	if err != nil {
		a.True(errors.Is(err, ErrInterpolationFailure))
		return
	}
	a.Equal(40, k.N)
	a.True(k.Range > 0)
	_, ok := k.Predict(500, 250)
	a.True(ok)
}

func TestKrigingFlat(t *testing.T) {
	_, err := NewKriging(flatSquare()).Train(Spherical, 0, 100)
	assert.True(t, errors.Is(err, ErrInterpolationFailure))
}

func TestKrigingUnknownModel(t *testing.T) {
	_, err := NewKriging(DemoDataset()).Train(ModelType("cubic"), 0, 100)
	assert.Error(t, err)
}
