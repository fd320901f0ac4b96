package reservoir

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	a := assert.New(t)
	c := Contacts{GOC: 1100, WOC: 1200}

	a.Equal(GasCap, Classify(1099.9, c))
	a.Equal(OilZone, Classify(1100, c))
	a.Equal(OilZone, Classify(1150, c))
	a.Equal(OilZone, Classify(1200, c))
	a.Equal(Aquifer, Classify(1200.1, c))
	a.Equal(Unknown, Classify(math.NaN(), c))
}

func TestClassifyExhaustive(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		c := Contacts{GOC: r.NormFloat64() * 1000, WOC: r.NormFloat64() * 1000}
		z := r.NormFloat64() * 1000
		zone := Classify(z, c)
		assert.NotEqual(t, Unknown, zone, "z=%g contacts=%+v", z, c)
	}
	for _, z := range []float64{math.Inf(1), math.Inf(-1), -math.MaxFloat64, math.MaxFloat64} {
		assert.NotEqual(t, Unknown, Classify(z, Contacts{GOC: 0, WOC: 1}))
	}
}

func TestClassifyPoints(t *testing.T) {
	a := assert.New(t)

	cp := ClassifyPoints(DemoDataset(), Contacts{GOC: 1100, WOC: 1200})
	a.Len(cp, 13)
	counts := CountZones(cp)
	a.Equal(1, counts[GasCap])
	a.Equal(8, counts[OilZone])
	a.Equal(4, counts[Aquifer])
	a.Equal(0, counts[Unknown])
}

func TestFluidZoneJSON(t *testing.T) {
	b, err := json.Marshal(ClassifiedPoint{ControlPoint{1, 2, 3}, OilZone})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"x":1,"y":2,"z":3,"zone":"Oil Zone"}`, string(b))
}
