package reservoir

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

// Convex is the convex hull of a set of control points in the XY plane.
// Hull vertices are ordered counter-clockwise.
type Convex struct {
	vertices []ControlPoint
	hull     []vec2d.T
	edges    []Edge
	eps      float64
}

type Edge struct {
	Start vec2d.T
	End   vec2d.T
}

func NewConvex(vertices []ControlPoint) *Convex {
	c := &Convex{vertices: vertices}
	if min, max, err := minMaxPoints(vertices); err == nil {
		c.eps = 1e-9 * math.Hypot(max.X-min.X, max.Y-min.Y)
	}
	return c
}

func (c *Convex) Hull() []vec2d.T {
	if c.hull == nil {
		if len(c.vertices) == 0 {
			return nil
		}
		minX, maxX := c.getExtremePoints()
		if minX == maxX {
			c.hull = []vec2d.T{minX}
			return c.hull
		}
		c.hull = append(c.quickHull(c.vertices, maxX, minX), c.quickHull(c.vertices, minX, maxX)...)
	}

	return c.hull
}

func (c *Convex) Edges() []Edge {
	if c.edges == nil {
		hull := c.Hull()
		for i, start := range hull {
			nextIndex := i + 1
			if len(hull) <= nextIndex {
				nextIndex = 0
			}
			c.edges = append(c.edges, Edge{start, hull[nextIndex]})
		}
	}
	return c.edges
}

// Degenerate reports whether the hull encloses no area.
func (c *Convex) Degenerate() bool {
	return len(c.Hull()) < 3
}

// Contains reports whether point lies inside the hull or on its boundary.
func (c *Convex) Contains(point vec2d.T) bool {
	if c.Degenerate() {
		return false
	}
	for _, edge := range c.Edges() {
		dir := Subtract2(edge.End, edge.Start)
		if Cross(dir, Subtract2(point, edge.Start)) < -c.eps*dir.Length() {
			return false
		}
	}
	return true
}

func (c *Convex) quickHull(points []ControlPoint, start, end vec2d.T) []vec2d.T {
	pointDistanceIndicators := c.getLhsPointDistanceIndicatorMap(points, start, end)
	if len(pointDistanceIndicators) == 0 {
		return []vec2d.T{end}
	}

	farthestPoint := c.getFarthestPoint(pointDistanceIndicators)

	newPoints := make([]ControlPoint, 0, len(pointDistanceIndicators))
	for _, pd := range pointDistanceIndicators {
		newPoints = append(newPoints, pd.point)
	}

	return append(
		c.quickHull(newPoints, farthestPoint, end),
		c.quickHull(newPoints, start, farthestPoint)...)
}

func Subtract2(lhs vec2d.T, rhs vec2d.T) vec2d.T {
	return vec2d.T{lhs[0] - rhs[0], lhs[1] - rhs[1]}
}

func Cross(lhs, rhs vec2d.T) float64 {
	return (lhs[0] * rhs[1]) - (lhs[1] * rhs[0])
}

func (c *Convex) getExtremePoints() (minX, maxX vec2d.T) {
	minX = vec2d.T{math.MaxFloat64, 0}
	maxX = vec2d.T{-math.MaxFloat64, 0}

	for _, p := range c.vertices {
		if p.X < minX[0] || (p.X == minX[0] && p.Y < minX[1]) {
			minX = p.XY()
		}

		if maxX[0] < p.X || (p.X == maxX[0] && p.Y > maxX[1]) {
			maxX = p.XY()
		}
	}

	return minX, maxX
}

type pointDistance struct {
	point    ControlPoint
	distance float64
}

func (c *Convex) getLhsPointDistanceIndicatorMap(points []ControlPoint, start, end vec2d.T) []pointDistance {
	var ret []pointDistance

	for _, point := range points {
		distanceIndicator := c.getDistanceIndicator(point, start, end)
		if distanceIndicator > 0 {
			ret = append(ret, pointDistance{point, distanceIndicator})
		}
	}

	return ret
}

func (c *Convex) getDistanceIndicator(point ControlPoint, start, end vec2d.T) float64 {
	point2d := point.XY()
	vLine := vec2d.Sub(&end, &start)

	vPoint := vec2d.Sub(&point2d, &start)

	return Cross(vLine, vPoint)
}

func (c *Convex) getFarthestPoint(pointDistances []pointDistance) (farthestPoint vec2d.T) {
	maxDistanceIndicator := -math.MaxFloat64
	for _, pd := range pointDistances {
		if maxDistanceIndicator < pd.distance {
			maxDistanceIndicator = pd.distance
			farthestPoint = pd.point.XY()
		}
	}

	return farthestPoint
}
