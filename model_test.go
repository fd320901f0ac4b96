package reservoir

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateDemo(t *testing.T) {
	a := assert.New(t)

	s := NewStore()
	s.LoadDemo()
	c := DefaultContacts(Describe(s.Points()))

	m, err := EvaluateStore(s, c, Options{})
	require.NoError(t, err)

	a.Len(m.Points, 13)
	a.Len(m.Unique, 13)
	a.Len(m.Classified, 13)
	a.Empty(m.Warnings)
	require.NotNil(t, m.Surface)
	require.NotNil(t, m.Volumes)
	a.Equal(Cubic, m.Surface.Method)
	a.True(m.Volumes.GasCap > 0)
	a.True(m.Volumes.OilZone > 0)
	a.True(m.Volumes.TotalReservoir > m.Volumes.GasCap)
	a.InDelta(m.Volumes.TotalReservoir-m.Volumes.GasCap, m.Volumes.OilZone, 1e-6)
}

func TestEvaluateTooFewPoints(t *testing.T) {
	a := assert.New(t)

	pts := []ControlPoint{{0, 0, 1000}, {100, 0, 1100}, {0, 100, 1200}}
	m, err := Evaluate(pts, Contacts{GOC: 1050, WOC: 1150}, Options{})
	require.NoError(t, err)

	a.Nil(m.Surface)
	a.Nil(m.Volumes)
	a.Len(m.Classified, 3)
	a.Len(m.Warnings, 1)
}

func TestEvaluateInverted(t *testing.T) {
	a := assert.New(t)

	m, err := Evaluate(flatSquare(), Contacts{GOC: 1100, WOC: 1000}, Options{})
	require.NoError(t, err)

	require.NotNil(t, m.Volumes)
	a.True(m.Volumes.ContactsInverted)
	a.Equal(0.0, m.Volumes.OilZone)
	a.Len(m.Warnings, 1)
}

func TestEvaluateFallbackWarning(t *testing.T) {
	m, err := Evaluate(flatSquare(), Contacts{GOC: 900, WOC: 1100}, Options{Method: Kriging})
	require.NoError(t, err)
	assert.Equal(t, Linear, m.Surface.Method)
	assert.Len(t, m.Warnings, 1)
}

func TestEvaluateSinglePoint(t *testing.T) {
	a := assert.New(t)

	for _, pts := range [][]ControlPoint{
		{{100, 100, 1}},
		{{100, 0, 1}, {100, 50, 3}},
	} {
		m, err := Evaluate(pts, Contacts{GOC: 0, WOC: 2}, Options{})
		require.NoError(t, err)
		a.Nil(m.Surface)
		a.Nil(m.Volumes)
		a.Len(m.Classified, len(pts))
		a.Equal(OilZone, m.Classified[0].Zone)
		a.Len(m.Warnings, 1)
	}
}

func TestEvaluateWellTies(t *testing.T) {
	a := assert.New(t)

	m, err := Evaluate(DemoDataset(), DefaultContacts(Describe(DemoDataset())), Options{Nx: 21, Ny: 21, Method: Linear})
	require.NoError(t, err)

	// every well sits on a node, so the linear surface honours it
	a.Len(m.Ties, 13)
	for _, tie := range m.Ties {
		a.InDelta(tie.Z, tie.Surface, 1e-6, "%v", tie.ControlPoint)
		a.InDelta(0, tie.Residual, 1e-6)
	}

	m, err = Evaluate(DemoDataset(), DefaultContacts(Describe(DemoDataset())), Options{Nx: 21, Ny: 21, Cell: HYPERBOLIC})
	require.NoError(t, err)
	a.Len(m.Ties, 13)
}

func TestEvaluateErrors(t *testing.T) {
	a := assert.New(t)

	_, err := Evaluate([]ControlPoint{{5, 0, 1}, {5, 1, 2}, {5, 2, 3}, {5, 3, 4}}, Contacts{GOC: 0, WOC: 2}, Options{})
	a.True(errors.Is(err, ErrDegenerateExtent))

	_, err = Evaluate(append(flatSquare(), ControlPoint{50, 50, math.NaN()}), Contacts{GOC: 900, WOC: 1100}, Options{})
	a.True(errors.Is(err, ErrInvalidInput))

	_, err = Evaluate(flatSquare(), Contacts{GOC: 900, WOC: 1100}, Options{Cell: "bicubic"})
	a.True(errors.Is(err, ErrInvalidInput))

	pts := []ControlPoint{{0, 0, 1}, {1, 1, 2}, {2, 2, 3}, {3, 3, 4}}
	_, err = Evaluate(pts, Contacts{GOC: 0, WOC: 2}, Options{})
	a.True(errors.Is(err, ErrInterpolationFailure))
}
