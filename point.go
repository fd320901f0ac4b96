package reservoir

import (
	"fmt"
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

// ControlPoint is a well control sample. Z is depth, positive down.
type ControlPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p ControlPoint) XY() vec2d.T {
	return vec2d.T{p.X, p.Y}
}

func (p ControlPoint) finite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

func (p ControlPoint) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Store holds the control points of one session. It is not safe for
// concurrent use.
type Store struct {
	points []ControlPoint
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(p ControlPoint) error {
	if !p.finite() {
		return fmt.Errorf("%w: point %v is not finite", ErrInvalidInput, p)
	}
	s.points = append(s.points, p)
	return nil
}

func checkFinite(ps []ControlPoint) error {
	for i, p := range ps {
		if !p.finite() {
			return fmt.Errorf("%w: point %d %v is not finite", ErrInvalidInput, i, p)
		}
	}
	return nil
}

// BulkLoad appends all points or none of them.
func (s *Store) BulkLoad(ps []ControlPoint) error {
	if err := checkFinite(ps); err != nil {
		return err
	}
	s.points = append(s.points, ps...)
	return nil
}

func (s *Store) Reset() {
	s.points = nil
}

// LoadDemo replaces the store contents with the synthetic dome.
func (s *Store) LoadDemo() {
	s.points = DemoDataset()
}

// Points returns a snapshot of the stored points.
func (s *Store) Points() []ControlPoint {
	ret := make([]ControlPoint, len(s.points))
	copy(ret, s.points)
	return ret
}

func (s *Store) Len() int {
	return len(s.points)
}

// DemoDataset is a 13 point dome cresting at (200, 200) with depth 1000.
func DemoDataset() []ControlPoint {
	return []ControlPoint{
		{100, 100, 1300}, {300, 100, 1300},
		{100, 300, 1300}, {300, 300, 1300},
		{200, 200, 1000},
		{200, 100, 1150}, {200, 300, 1150},
		{100, 200, 1150}, {300, 200, 1150},
		{150, 150, 1100}, {250, 250, 1100},
		{150, 250, 1100}, {250, 150, 1100},
	}
}
