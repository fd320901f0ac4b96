package reservoir

import (
	"errors"
	"fmt"
)

// Model is everything derived from one snapshot of the control points and
// the contacts. It is rebuilt from scratch whenever either changes.
type Model struct {
	Points     []ControlPoint    `json:"points"`
	Unique     []ControlPoint    `json:"unique"`
	Stats      Stats             `json:"stats"`
	Contacts   Contacts          `json:"contacts"`
	Classified []ClassifiedPoint `json:"classified"`
	// Surface and Volumes are nil when there are too few points to
	// interpolate.
	Surface  *Surface     `json:"-"`
	Volumes  *Volumetrics `json:"volumes,omitempty"`
	Ties     []WellTie    `json:"ties,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// WellTie compares a control point with the surface sampled at its
// location. Residual is the well depth minus the surface depth.
type WellTie struct {
	ControlPoint
	Surface  float64 `json:"surface"`
	Residual float64 `json:"residual"`
}

// TieWells samples s at every point. Points whose cell has an undefined
// corner are left out.
func TieWells(s *Surface, points []ControlPoint, cell Interpolator) []WellTie {
	var ret []WellTie
	for _, p := range points {
		z, ok := s.Sample(p.X, p.Y, cell)
		if !ok {
			continue
		}
		ret = append(ret, WellTie{ControlPoint: p, Surface: z, Residual: p.Z - z})
	}
	return ret
}

// Evaluate runs the full pipeline. Too few points is not an error: the
// model comes back without a surface and with a warning, so callers can
// still show the raw points.
func Evaluate(points []ControlPoint, contacts Contacts, opts Options) (*Model, error) {
	opts = opts.withDefaults()
	if err := contacts.validate(); err != nil {
		return nil, err
	}
	if err := checkFinite(points); err != nil {
		return nil, err
	}
	cell, err := NewInterpolator(opts.Cell)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Points:     points,
		Unique:     Deduplicate(points),
		Stats:      Describe(points),
		Contacts:   contacts,
		Classified: ClassifyPoints(points, contacts),
	}
	if contacts.Inverted() {
		m.warn("GOC %g is deeper than WOC %g", contacts.GOC, contacts.WOC)
	}

	surface, err := ComputeSurface(points, opts)
	switch {
	case errors.Is(err, ErrDataInsufficient):
		m.warn("%v; showing control points only", err)
		return m, nil
	case errors.Is(err, ErrDegenerateExtent) && len(m.Unique) < MinSurfacePoints:
		m.warn("%v; showing control points only", err)
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	m.Surface = surface
	if surface.FellBack() {
		m.warn("%s interpolation failed (%v); surface computed with %s", opts.Method, surface.Fallback, surface.Method)
	}

	v, err := ComputeVolumes(surface, surface.CellArea(), contacts)
	if err != nil {
		return nil, err
	}
	m.Volumes = &v
	m.Ties = TieWells(surface, m.Unique, cell)
	return m, nil
}

func (m *Model) warn(format string, args ...interface{}) {
	m.Warnings = append(m.Warnings, fmt.Sprintf(format, args...))
}

// EvaluateStore evaluates a snapshot of s.
func EvaluateStore(s *Store, contacts Contacts, opts Options) (*Model, error) {
	return Evaluate(s.Points(), contacts, opts)
}
