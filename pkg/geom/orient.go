package geom

import "math"

// Orient is twice the signed area of triangle abc: positive when c is left
// of a->b, negative when right, zero when collinear.
func Orient(a, b, c Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// LeftOf reports whether p is strictly left of the directed line a->b.
func LeftOf(p, a, b Point) bool {
	return Orient(a, b, p) > Tolerance*Distance(a, b)
}

// SignedArea is the shoelace area of a closed ring, positive for
// counter-clockwise rings.
func SignedArea(pts []Point) float64 {
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].Cross(pts[j])
	}
	return sum / 2
}

// IsCW reports whether the ring winds clockwise. Rings with no area are not
// clockwise.
func IsCW(pts []Point) bool {
	return SignedArea(pts) < 0
}

// Centroid is the area centroid of a simple ring, falling back to the vertex
// mean for rings without area.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	a := SignedArea(pts)
	if math.Abs(a) <= Tolerance {
		var c Point
		for _, p := range pts {
			c = c.Add(p)
		}
		return c.Mul(1 / float64(len(pts)))
	}
	var cx, cy float64
	for i := range pts {
		j := (i + 1) % len(pts)
		f := pts[i].Cross(pts[j])
		cx += (pts[i].X + pts[j].X) * f
		cy += (pts[i].Y + pts[j].Y) * f
	}
	return Pt(cx/(6*a), cy/(6*a))
}

// Angle is the polar angle of p around ref in (-pi, pi].
func Angle(ref, p Point) float64 {
	d := p.Sub(ref)
	return math.Atan2(d.Y, d.X)
}
