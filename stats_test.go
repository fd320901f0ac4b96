package reservoir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	a := assert.New(t)

	s := Describe([]ControlPoint{{1, 10, 1000}, {2, 20, 1100}, {3, 30, 1200}, {4, 40, 1300}})

	a.Equal(4, s.X.Count)
	a.Equal(2.5, s.X.Mean)
	a.InDelta(1.2909944487, s.X.Std, 1e-9)
	a.Equal(1.0, s.X.Min)
	a.Equal(1.75, s.X.Q25)
	a.Equal(2.5, s.X.Q50)
	a.Equal(3.25, s.X.Q75)
	a.Equal(4.0, s.X.Max)
	a.Equal(1150.0, s.Z.Q50)
	a.Equal(300.0, s.Spread())
}

func TestDescribeSmall(t *testing.T) {
	a := assert.New(t)

	a.Equal(Stats{}, Describe(nil))

	s := Describe([]ControlPoint{{5, 6, 7}})
	a.Equal(Summary{Count: 1, Mean: 7, Min: 7, Q25: 7, Q50: 7, Q75: 7, Max: 7}, s.Z)
}

func TestDefaultContacts(t *testing.T) {
	c := DefaultContacts(Describe(DemoDataset()))
	assert.InDelta(t, 1090, c.GOC, 1e-9)
	assert.InDelta(t, 1210, c.WOC, 1e-9)
}
