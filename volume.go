package reservoir

import (
	"fmt"
	"math"
)

// Contacts are the horizontal fluid contact depths. GOC is expected to be
// shallower than WOC.
type Contacts struct {
	GOC float64 `json:"goc"`
	WOC float64 `json:"woc"`
}

// Inverted reports a gas-oil contact deeper than the water-oil contact.
func (c Contacts) Inverted() bool {
	return c.GOC > c.WOC
}

func (c Contacts) validate() error {
	if !isFinite(c.GOC) || !isFinite(c.WOC) {
		return fmt.Errorf("%w: contacts GOC=%g WOC=%g must be finite", ErrInvalidInput, c.GOC, c.WOC)
	}
	return nil
}

// DefaultContacts places GOC at 30% and WOC at 70% of the depth range of
// the control points.
func DefaultContacts(stats Stats) Contacts {
	r := stats.Spread()
	return Contacts{
		GOC: stats.Z.Min + r*0.3,
		WOC: stats.Z.Min + r*0.7,
	}
}

// VolumeEstimate holds gross rock volumes in cubed input length units.
type VolumeEstimate struct {
	GasCap         float64 `json:"gasCap"`
	OilZone        float64 `json:"oilZone"`
	TotalReservoir float64 `json:"totalReservoir"`
}

type Volumetrics struct {
	VolumeEstimate
	Contacts         Contacts `json:"contacts"`
	ContactsInverted bool     `json:"contactsInverted"`
	CellArea         float64  `json:"cellArea"`
	Nodes            int      `json:"nodes"`
}

// Millions scales the volumes to millions of units, as reported.
func (v VolumeEstimate) Millions() VolumeEstimate {
	return VolumeEstimate{
		GasCap:         v.GasCap / 1e6,
		OilZone:        v.OilZone / 1e6,
		TotalReservoir: v.TotalReservoir / 1e6,
	}
}

// ComputeVolumes integrates rock thickness above each contact over the
// defined nodes of field, each node weighted by cellArea. Undefined nodes
// are left out of every sum. Inverted contacts are flagged, not rejected.
func ComputeVolumes(field DepthField, cellArea float64, c Contacts) (Volumetrics, error) {
	if !isFinite(cellArea) || cellArea <= 0 {
		return Volumetrics{}, &DegenerateExtentError{Min: cellArea, Max: cellArea}
	}
	if err := c.validate(); err != nil {
		return Volumetrics{}, err
	}

	var aboveWOC, aboveGOC float64
	var nodes int
	for i := 0; i < field.Len(); i++ {
		z, ok := field.DepthAt(i)
		if !ok {
			continue
		}
		nodes++
		aboveWOC += math.Max(0, c.WOC-z)
		aboveGOC += math.Max(0, c.GOC-z)
	}

	v := Volumetrics{
		Contacts:         c,
		ContactsInverted: c.Inverted(),
		CellArea:         cellArea,
		Nodes:            nodes,
	}
	v.TotalReservoir = aboveWOC * cellArea
	v.GasCap = aboveGOC * cellArea
	v.OilZone = math.Max(0, v.TotalReservoir-v.GasCap)
	return v, nil
}
