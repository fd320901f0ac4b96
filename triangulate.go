package reservoir

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"github.com/fogleman/delaunay"
)

type triangle struct {
	v   [3]int
	box vec2d.Rect
}

// Triangulation is a Delaunay triangulation of the control points used
// for piecewise-linear interpolation. Positions outside the triangulated
// area have no estimate.
type Triangulation struct {
	pos    []ControlPoint
	nodes  []vec2d.T
	cx, cy float64
	scale  float64
	tris   []triangle
}

// NewTriangulation triangulates pos in coordinates normalised to the
// point extent.
func NewTriangulation(pos []ControlPoint) (*Triangulation, error) {
	n := len(pos)
	if n < 3 {
		return nil, &methodError{Linear, "need at least 3 points"}
	}
	min, max, _ := minMaxPoints(pos)
	t := &Triangulation{
		pos:   pos,
		cx:    (min.X + max.X) / 2,
		cy:    (min.Y + max.Y) / 2,
		scale: math.Max(max.X-min.X, max.Y-min.Y),
	}
	if !(t.scale > 0) {
		return nil, &methodError{Linear, "points have no extent"}
	}

	t.nodes = make([]vec2d.T, n)
	points := make([]delaunay.Point, n)
	for i, p := range pos {
		t.nodes[i] = t.normalize(p.X, p.Y)
		points[i] = delaunay.Point{X: t.nodes[i][0], Y: t.nodes[i][1]}
	}
	d, err := delaunay.Triangulate(points)
	if err != nil {
		return nil, &methodError{Linear, "points are collinear"}
	}
	for i := 0; i+2 < len(d.Triangles); i += 3 {
		tri, ok := t.newTriangle(d.Triangles[i], d.Triangles[i+1], d.Triangles[i+2])
		if ok {
			t.tris = append(t.tris, tri)
		}
	}
	if len(t.tris) == 0 {
		return nil, &methodError{Linear, "points are collinear"}
	}
	return t, nil
}

func (t *Triangulation) normalize(x, y float64) vec2d.T {
	return vec2d.T{(x - t.cx) / t.scale, (y - t.cy) / t.scale}
}

// newTriangle orders the vertices counter-clockwise. Triangles without
// area are dropped.
func (t *Triangulation) newTriangle(a, b, c int) (triangle, bool) {
	pa, pb, pc := t.nodes[a], t.nodes[b], t.nodes[c]
	area := Cross(Subtract2(pb, pa), Subtract2(pc, pa))
	if area == 0 {
		return triangle{}, false
	}
	if area < 0 {
		b, c = c, b
		pb, pc = pc, pb
	}
	tri := triangle{v: [3]int{a, b, c}}
	tri.box = vec2d.Rect{Min: vec2d.MaxVal, Max: vec2d.MinVal}
	tri.box.Extend(&pa)
	tri.box.Extend(&pb)
	tri.box.Extend(&pc)
	return tri, true
}

const barycentricTolerance = 1e-9

// Predict interpolates linearly inside the triangle containing (x, y).
func (t *Triangulation) Predict(x, y float64) (float64, bool) {
	p := t.normalize(x, y)
	for i := range t.tris {
		tri := &t.tris[i]
		if p[0] < tri.box.Min[0]-barycentricTolerance || p[0] > tri.box.Max[0]+barycentricTolerance ||
			p[1] < tri.box.Min[1]-barycentricTolerance || p[1] > tri.box.Max[1]+barycentricTolerance {
			continue
		}
		w, ok := t.barycentric(tri, p)
		if !ok {
			continue
		}
		z := w[0]*t.pos[tri.v[0]].Z + w[1]*t.pos[tri.v[1]].Z + w[2]*t.pos[tri.v[2]].Z
		return z, isFinite(z)
	}
	return 0, false
}

// barycentric returns the clamped, renormalised weights of p in tri, so
// that the interpolated value never leaves the range of the vertex depths.
func (t *Triangulation) barycentric(tri *triangle, p vec2d.T) ([3]float64, bool) {
	var w [3]float64
	a, b, c := t.nodes[tri.v[0]], t.nodes[tri.v[1]], t.nodes[tri.v[2]]
	area := Cross(Subtract2(b, a), Subtract2(c, a))
	if area <= 0 {
		return w, false
	}
	w[0] = Cross(Subtract2(b, p), Subtract2(c, p)) / area
	w[1] = Cross(Subtract2(c, p), Subtract2(a, p)) / area
	w[2] = Cross(Subtract2(a, p), Subtract2(b, p)) / area

	var sum float64
	for k := range w {
		if w[k] < -barycentricTolerance {
			return w, false
		}
		if w[k] < 0 {
			w[k] = 0
		}
		sum += w[k]
	}
	for k := range w {
		w[k] /= sum
	}
	return w, true
}
