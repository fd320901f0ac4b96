package reservoir

import (
	vec2d "github.com/flywave/go3d/float64/vec2"
)

const (
	DefaultNx = 100
	DefaultNy = 100
)

// Grid is a regular lattice of Nx by Ny nodes spanning the XY extent of a
// point set, both ends included on each axis.
type Grid struct {
	Width  int
	Height int
	Xs     []float64
	Ys     []float64
	rect   vec2d.Rect
}

// NewGrid builds the lattice over the extent of points.
func NewGrid(points []ControlPoint, nx, ny int) (*Grid, error) {
	if nx < 2 || ny < 2 {
		return nil, ErrInvalidResolution
	}
	min, max, err := minMaxPoints(points)
	if err != nil {
		return nil, err
	}
	if !(max.X > min.X) {
		return nil, &DegenerateExtentError{Axis: "X", Min: min.X, Max: max.X}
	}
	if !(max.Y > min.Y) {
		return nil, &DegenerateExtentError{Axis: "Y", Min: min.Y, Max: max.Y}
	}
	return &Grid{
		Width:  nx,
		Height: ny,
		Xs:     linspace(min.X, max.X, nx),
		Ys:     linspace(min.Y, max.Y, ny),
		rect:   vec2d.Rect{Min: vec2d.T{min.X, min.Y}, Max: vec2d.T{max.X, max.Y}},
	}, nil
}

func (g *Grid) Count() int {
	return g.Width * g.Height
}

func (g *Grid) GetRect() vec2d.Rect {
	return g.rect
}

func (g *Grid) Dx() float64 {
	return (g.rect.Max[0] - g.rect.Min[0]) / float64(g.Width-1)
}

func (g *Grid) Dy() float64 {
	return (g.rect.Max[1] - g.rect.Min[1]) / float64(g.Height-1)
}

// CellArea is the area attributed to every node by the volume sums.
func (g *Grid) CellArea() float64 {
	return g.Dx() * g.Dy()
}

// Index maps a column and row to the flat node index. Rows run along Y.
func (g *Grid) Index(column, row int) int {
	return row*g.Width + column
}

func (g *Grid) Node(i int) vec2d.T {
	return vec2d.T{g.Xs[i%g.Width], g.Ys[i/g.Width]}
}
