package geom

import (
	"fmt"
	"math"
)

// Kind is the extent of a Line.
type Kind int

const (
	// Segment spans origin to origin+dir.
	Segment Kind = iota
	// Ray starts at origin and is unbounded along dir.
	Ray
	// Full is unbounded in both directions.
	Full
)

func (k Kind) String() string {
	switch k {
	case Segment:
		return "segment"
	case Ray:
		return "ray"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps "segment", "ray" and "full" to their Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "segment":
		return Segment, nil
	case "ray":
		return Ray, nil
	case "full":
		return Full, nil
	}
	return 0, fmt.Errorf("non-valid line kind %q", s)
}

// Line is a parametric line origin + t*dir with an extent.
type Line struct {
	Origin Point
	Dir    Point
	Kind   Kind
}

// NewLine builds a line of the given kind.
func NewLine(origin, dir Point, kind Kind) Line {
	return Line{Origin: origin, Dir: dir, Kind: kind}
}

// SegmentBetween is the segment from a to b.
func SegmentBetween(a, b Point) Line {
	return Line{Origin: a, Dir: b.Sub(a), Kind: Segment}
}

// At evaluates the line at parameter t.
func (l Line) At(t float64) Point {
	return l.Origin.Add(l.Dir.Mul(t))
}

// End is origin+dir, the far endpoint of a segment.
func (l Line) End() Point {
	return l.Origin.Add(l.Dir)
}

// Drawable flattens the line into (x, y, dx, dy).
func (l Line) Drawable() [4]float64 {
	return [4]float64{l.Origin.X, l.Origin.Y, l.Dir.X, l.Dir.Y}
}

// degenerate lines never intersect anything
func (l Line) degenerate() bool {
	return l.Dir.Norm() == 0
}

// clip checks t against the extent, measuring the slack as a distance along
// the line so the tolerance does not depend on the direction's length. The
// returned parameter is clamped into the extent.
func (l Line) clip(t float64) (float64, bool) {
	n := l.Dir.Norm()
	switch l.Kind {
	case Segment:
		if t*n < -Tolerance || (t-1)*n > Tolerance {
			return 0, false
		}
		return math.Max(0, math.Min(1, t)), true
	case Ray:
		if t*n < -Tolerance {
			return 0, false
		}
		return math.Max(0, t), true
	default:
		return t, true
	}
}

// Intersect returns the point where a and b cross, honoring both extents.
// Parallel lines, collinear ones included, and zero-length directions give
// no result.
func Intersect(a, b Line) (Point, bool) {
	if a.degenerate() || b.degenerate() {
		return Point{}, false
	}

	denom := a.Dir.Cross(b.Dir)
	if math.Abs(denom) <= Tolerance*a.Dir.Norm()*b.Dir.Norm() {
		return Point{}, false
	}

	w := b.Origin.Sub(a.Origin)
	t, okA := a.clip(w.Cross(b.Dir) / denom)
	u, okB := b.clip(w.Cross(a.Dir) / denom)
	if !okA || !okB {
		return Point{}, false
	}

	// evaluate on the more bounded line so the result sits on its extent
	if b.Kind < a.Kind {
		return b.At(u), true
	}
	return a.At(t), true
}

// Bisector is the full perpendicular bisector of p and q. It passes through
// the midpoint with direction (q-p) rotated a quarter turn counter-clockwise,
// so p is always on its left.
func Bisector(p, q Point) Line {
	mid := p.Add(q).Mul(0.5)
	return Line{Origin: mid, Dir: q.Sub(p).Ortho(), Kind: Full}
}
