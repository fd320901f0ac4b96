package reservoir

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// depths is a DepthField where NaN marks a node without an estimate.
type depths []float64

func (d depths) Len() int { return len(d) }

func (d depths) DepthAt(i int) (float64, bool) {
	return d[i], !math.IsNaN(d[i])
}

func TestVolumesFlatSquare(t *testing.T) {
	a := assert.New(t)

	s, err := ComputeSurface(flatSquare(), Options{})
	require.NoError(t, err)

	v, err := ComputeVolumes(s, s.CellArea(), Contacts{GOC: 900, WOC: 1100})
	require.NoError(t, err)

	a.Equal(0.0, v.GasCap)
	a.InDelta(100*float64(s.Len())*s.CellArea(), v.TotalReservoir, 1e-3)
	a.InDelta(1e6, v.TotalReservoir, 0.03e6)
	a.Equal(v.TotalReservoir, v.OilZone)
	a.False(v.ContactsInverted)
	a.Equal(s.Len(), v.Nodes)
}

func TestVolumesInverted(t *testing.T) {
	a := assert.New(t)

	s, err := ComputeSurface(flatSquare(), Options{})
	require.NoError(t, err)

	v, err := ComputeVolumes(s, s.CellArea(), Contacts{GOC: 1100, WOC: 1000})
	require.NoError(t, err)

	a.True(v.ContactsInverted)
	a.True(v.GasCap > 0)
	a.Equal(0.0, v.OilZone)
	a.InDelta(0, v.TotalReservoir, 1e-3)
}

func TestVolumesInvariants(t *testing.T) {
	a := assert.New(t)

	s, err := ComputeSurface(randomPoints(30, 3), Options{})
	require.NoError(t, err)

	for _, c := range []Contacts{
		{GOC: 1000, WOC: 1200},
		{GOC: 1200, WOC: 1000},
		{GOC: 800, WOC: 850},
		{GOC: 1600, WOC: 1700},
		{GOC: 1100, WOC: 1100},
	} {
		v, err := ComputeVolumes(s, s.CellArea(), c)
		require.NoError(t, err)
		a.True(v.GasCap >= 0)
		a.True(v.OilZone >= 0)
		a.True(v.TotalReservoir >= 0)
		a.Equal(math.Max(0, v.TotalReservoir-v.GasCap), v.OilZone)
		a.Equal(c.Inverted(), v.ContactsInverted)
	}
}

func TestVolumesEqualContacts(t *testing.T) {
	a := assert.New(t)

	v, err := ComputeVolumes(depths{990, 1000, 1010, math.NaN()}, 2, Contacts{GOC: 1005, WOC: 1005})
	require.NoError(t, err)
	a.Equal(v.TotalReservoir, v.GasCap)
	a.Equal(0.0, v.OilZone)
	a.Equal(40.0, v.TotalReservoir)
}

func TestVolumesDeepWOC(t *testing.T) {
	a := assert.New(t)

	d := depths{1000, 1010, math.NaN(), 1020, 990}
	v, err := ComputeVolumes(d, 2.5, Contacts{GOC: 900, WOC: 2000})
	require.NoError(t, err)

	var want float64
	for _, z := range d {
		if !math.IsNaN(z) {
			want += (2000 - z) * 2.5
		}
	}
	a.InDelta(want, v.TotalReservoir, 1e-9)
	a.Equal(4, v.Nodes)
}

func TestVolumesExcludeUndefined(t *testing.T) {
	a := assert.New(t)

	// an undefined node must not behave like a node at depth zero
	v, err := ComputeVolumes(depths{math.NaN(), 1000}, 1, Contacts{GOC: 1000, WOC: 1050})
	require.NoError(t, err)
	a.Equal(50.0, v.TotalReservoir)
	a.Equal(0.0, v.GasCap)
}

func TestVolumesBelowWOC(t *testing.T) {
	v, err := ComputeVolumes(depths{1500, 1600}, 10, Contacts{GOC: 1000, WOC: 1200})
	require.NoError(t, err)
	assert.Equal(t, VolumeEstimate{}, v.VolumeEstimate)
}

func TestVolumesBadInput(t *testing.T) {
	a := assert.New(t)

	_, err := ComputeVolumes(depths{1000}, 0, Contacts{GOC: 1000, WOC: 1200})
	a.True(errors.Is(err, ErrDegenerateExtent))

	_, err = ComputeVolumes(depths{1000}, math.NaN(), Contacts{GOC: 1000, WOC: 1200})
	a.True(errors.Is(err, ErrDegenerateExtent))

	_, err = ComputeVolumes(depths{1000}, 1, Contacts{GOC: math.Inf(1), WOC: 1200})
	a.Error(err)
}

func TestMillions(t *testing.T) {
	v := VolumeEstimate{GasCap: 2e6, OilZone: 3.5e6, TotalReservoir: 5.5e6}.Millions()
	assert.Equal(t, VolumeEstimate{GasCap: 2, OilZone: 3.5, TotalReservoir: 5.5}, v)
}

func TestDefaultContactsVolume(t *testing.T) {
	c := DefaultContacts(Describe(DemoDataset()))
	assert.InDelta(t, 1090, c.GOC, 1e-9)
	assert.InDelta(t, 1210, c.WOC, 1e-9)
}
