package reservoir

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// MinSurfacePoints is the number of unique control points needed before
// a surface is interpolated.
const MinSurfacePoints = 4

// Cell interpolators sample a surface between its nodes.
const (
	BILINEAR   = "bilinear"
	HYPERBOLIC = "hyperbolic"
)

// Estimator predicts depth at an XY position.
type Estimator interface {
	Predict(x, y float64) (float64, bool)
}

var (
	_ Estimator = &CubicRBF{}
	_ Estimator = &KrigingEstimator{}
	_ Estimator = &Triangulation{}
)

// Interpolator blends the depths at the corners of a grid cell. x and y
// are the fractional position inside the cell.
type Interpolator interface {
	Interpolate(southWest, southEast, northWest, northEast, x, y float64) float64
}

type BilinearInterpolator struct{}

func (i *BilinearInterpolator) Interpolate(southWest, southEast, northWest, northEast, x, y float64) float64 {
	return Lerp(Lerp(southWest, southEast, x), Lerp(northWest, northEast, x), y)
}

// HyperbolicInterpolator evaluates the cell as a hyperbolic paraboloid
// a00 + a10*x + a01*y + a11*x*y.
type HyperbolicInterpolator struct{}

func (i *HyperbolicInterpolator) Interpolate(southWest, southEast, northWest, northEast, x, y float64) float64 {
	a10 := southEast - southWest
	a01 := northWest - southWest
	a11 := southWest - southEast - northWest + northEast
	return southWest + a10*x + a01*y + a11*x*y
}

// NewInterpolator returns the cell interpolator registered under name.
func NewInterpolator(name string) (Interpolator, error) {
	switch name {
	case BILINEAR, "":
		return &BilinearInterpolator{}, nil
	case HYPERBOLIC:
		return &HyperbolicInterpolator{}, nil
	}
	return nil, fmt.Errorf("%w: unknown cell interpolator %q", ErrInvalidInput, name)
}

type Options struct {
	Nx     int
	Ny     int
	Method Method
	// Model is the variogram used by the kriging method.
	Model *ModelType
	// Cell samples the surface at the wells, BILINEAR by default.
	Cell string
	Log  logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.Nx == 0 {
		o.Nx = DefaultNx
	}
	if o.Ny == 0 {
		o.Ny = DefaultNy
	}
	if o.Method == "" {
		o.Method = Cubic
	}
	if o.Model == nil {
		m := Spherical
		o.Model = &m
	}
	if o.Cell == "" {
		o.Cell = BILINEAR
	}
	if o.Log == nil {
		o.Log = logrus.StandardLogger()
	}
	return o
}

type SurfaceInterpolator struct {
	opts Options
}

func NewSurfaceInterpolator(opts Options) *SurfaceInterpolator {
	return &SurfaceInterpolator{opts: opts.withDefaults()}
}

// ComputeSurface interpolates the control points onto a regular grid.
func ComputeSurface(points []ControlPoint, opts Options) (*Surface, error) {
	return NewSurfaceInterpolator(opts).Process(points)
}

// Process averages duplicate locations, builds the grid and resamples the
// points onto it. When the configured method fails the linear method is
// tried before giving up.
func (p *SurfaceInterpolator) Process(points []ControlPoint) (*Surface, error) {
	if _, err := ParseMethod(string(p.opts.Method)); err != nil {
		return nil, err
	}
	if err := checkFinite(points); err != nil {
		return nil, err
	}
	unique := Deduplicate(points)
	if len(unique) == 0 {
		return nil, &InsufficientDataError{Op: "grid extent", Need: 1, Have: 0}
	}
	grid, err := NewGrid(unique, p.opts.Nx, p.opts.Ny)
	if err != nil {
		return nil, err
	}
	if len(unique) < MinSurfacePoints {
		return nil, &InsufficientDataError{Op: "surface interpolation", Need: MinSurfacePoints, Have: len(unique)}
	}

	log := p.opts.Log.WithFields(logrus.Fields{
		"points": len(unique),
		"nx":     grid.Width,
		"ny":     grid.Height,
	})
	hull := NewConvex(unique)

	surface, cause := p.resample(grid, hull, unique, p.opts.Method)
	if cause == nil {
		log.WithField("method", surface.Method).Debug("surface interpolated")
		return surface, nil
	}
	if p.opts.Method == Linear {
		return nil, &InterpolationError{Primary: Linear, Cause: cause, Fallback: Linear, Err: cause}
	}

	log.WithError(cause).WithField("method", p.opts.Method).Warn("interpolation failed, falling back to linear")
	surface, err = p.resample(grid, hull, unique, Linear)
	if err != nil {
		return nil, &InterpolationError{Primary: p.opts.Method, Cause: cause, Fallback: Linear, Err: err}
	}
	surface.Fallback = cause
	return surface, nil
}

func (p *SurfaceInterpolator) estimator(points []ControlPoint, method Method) (Estimator, error) {
	switch method {
	case Kriging:
		return NewKriging(points).Train(*p.opts.Model, 0, 100)
	case Linear:
		return NewTriangulation(points)
	default:
		return NewCubicRBF(points)
	}
}

func (p *SurfaceInterpolator) resample(grid *Grid, hull *Convex, points []ControlPoint, method Method) (*Surface, error) {
	est, err := p.estimator(points, method)
	if err != nil {
		return nil, err
	}
	surface := newSurface(grid, method)
	for i := range surface.depths {
		node := grid.Node(i)
		if !hull.Contains(node) {
			continue
		}
		z, ok := est.Predict(node[0], node[1])
		if !ok {
			if method == Linear {
				continue
			}
			return nil, &methodError{method, "prediction is not finite"}
		}
		surface.set(i, z)
	}
	if surface.DefinedCount() == 0 {
		return nil, &methodError{method, "no grid node inside the convex hull"}
	}
	return surface, nil
}

// DepthField is a set of grid node depths, some of which may be missing.
type DepthField interface {
	Len() int
	DepthAt(i int) (float64, bool)
}

// Surface is an interpolated depth grid. Nodes without an estimate are
// flagged as undefined rather than stored as NaN.
type Surface struct {
	*Grid
	// Method is the interpolation method that produced the depths.
	Method Method
	// Fallback holds the failure of the requested method when the linear
	// fallback produced the surface.
	Fallback error

	depths  []float64
	defined []bool
	defs    int
}

func newSurface(grid *Grid, method Method) *Surface {
	return &Surface{
		Grid:    grid,
		Method:  method,
		depths:  make([]float64, grid.Count()),
		defined: make([]bool, grid.Count()),
	}
}

func (s *Surface) set(i int, z float64) {
	if !s.defined[i] {
		s.defs++
	}
	s.depths[i] = z
	s.defined[i] = true
}

func (s *Surface) Len() int {
	return len(s.depths)
}

func (s *Surface) DepthAt(i int) (float64, bool) {
	return s.depths[i], s.defined[i]
}

func (s *Surface) Depth(column, row int) (float64, bool) {
	return s.DepthAt(s.Index(column, row))
}

func (s *Surface) DefinedCount() int {
	return s.defs
}

func (s *Surface) FellBack() bool {
	return s.Fallback != nil
}

// DepthRange returns the shallowest and deepest defined depths.
func (s *Surface) DepthRange() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for i, z := range s.depths {
		if !s.defined[i] {
			continue
		}
		ok = true
		min = math.Min(min, z)
		max = math.Max(max, z)
	}
	return min, max, ok
}

// Sample interpolates the surface at (x, y) from the four nodes of the
// enclosing cell. It reports false outside the grid or when a corner of
// the cell is undefined.
func (s *Surface) Sample(x, y float64, cell Interpolator) (float64, bool) {
	rect := s.GetRect()
	if x < rect.Min[0] || x > rect.Max[0] || y < rect.Min[1] || y > rect.Max[1] {
		return 0, false
	}
	if cell == nil {
		cell = &BilinearInterpolator{}
	}
	u := (x - rect.Min[0]) / s.Dx()
	v := (y - rect.Min[1]) / s.Dy()
	col := int(math.Min(math.Floor(u), float64(s.Width-2)))
	row := int(math.Min(math.Floor(v), float64(s.Height-2)))

	var corners [4]float64
	for k, n := range [4][2]int{{col, row}, {col + 1, row}, {col, row + 1}, {col + 1, row + 1}} {
		z, ok := s.Depth(n[0], n[1])
		if !ok {
			return 0, false
		}
		corners[k] = z
	}
	return cell.Interpolate(corners[0], corners[1], corners[2], corners[3], u-float64(col), v-float64(row)), true
}
