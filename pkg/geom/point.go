package geom

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats/scalar"
)

// Point is a planar coordinate pair. Vector algebra comes from r2.
type Point = r2.Point

// Tolerance is the default absolute epsilon used for parallel tests,
// extent clipping and point identity.
const Tolerance = 1e-9

// Pt is shorthand for building a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Equal reports whether a and b coincide within tol on both axes.
func Equal(a, b Point, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol)
}

// Distance is the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return a.Sub(b).Norm()
}

// DistanceToSegment returns the distance from p to the closed segment a-b.
func DistanceToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return Distance(p, a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return Distance(p, a.Add(ab.Mul(t)))
}

// Box is an axis aligned bounding box.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewBox builds a box from two opposite corners in any order.
func NewBox(a, b Point) Box {
	return Box{
		MinX: math.Min(a.X, b.X),
		MinY: math.Min(a.Y, b.Y),
		MaxX: math.Max(a.X, b.X),
		MaxY: math.Max(a.Y, b.Y),
	}
}

// BoundsOf returns the smallest box holding every point. An empty input
// yields the zero box.
func BoundsOf(pts []Point) Box {
	if len(pts) == 0 {
		return Box{}
	}
	b := Box{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// Expand grows the box by d on every side.
func (b Box) Expand(d float64) Box {
	return Box{MinX: b.MinX - d, MinY: b.MinY - d, MaxX: b.MaxX + d, MaxY: b.MaxY + d}
}

// Corners lists the box corners counter-clockwise starting at the lower left.
func (b Box) Corners() []Point {
	return []Point{
		Pt(b.MinX, b.MinY),
		Pt(b.MaxX, b.MinY),
		Pt(b.MaxX, b.MaxY),
		Pt(b.MinX, b.MaxY),
	}
}

// ContainsPoint reports whether p lies in the closed box.
func (b Box) ContainsPoint(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.MaxX <= b.MinX || b.MaxY <= b.MinY
}
