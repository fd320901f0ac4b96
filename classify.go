package reservoir

import "encoding/json"

type FluidZone int

const (
	Unknown FluidZone = iota
	GasCap
	OilZone
	Aquifer
)

var fluidZoneNames = map[FluidZone]string{
	Unknown: "Unknown",
	GasCap:  "Gas Cap",
	OilZone: "Oil Zone",
	Aquifer: "Aquifer",
}

func (z FluidZone) String() string {
	if s, ok := fluidZoneNames[z]; ok {
		return s
	}
	return fluidZoneNames[Unknown]
}

func (z FluidZone) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.String())
}

// Classify assigns a depth to a fluid zone. A depth equal to either
// contact belongs to the oil zone.
func Classify(z float64, c Contacts) FluidZone {
	switch {
	case z < c.GOC:
		return GasCap
	case z >= c.GOC && z <= c.WOC:
		return OilZone
	case z > c.WOC:
		return Aquifer
	}
	return Unknown
}

type ClassifiedPoint struct {
	ControlPoint
	Zone FluidZone `json:"zone"`
}

func ClassifyPoints(points []ControlPoint, c Contacts) []ClassifiedPoint {
	ret := make([]ClassifiedPoint, len(points))
	for i, p := range points {
		ret[i] = ClassifiedPoint{p, Classify(p.Z, c)}
	}
	return ret
}

// CountZones tallies classified points per zone.
func CountZones(points []ClassifiedPoint) map[FluidZone]int {
	ret := make(map[FluidZone]int)
	for _, p := range points {
		ret[p.Zone]++
	}
	return ret
}
