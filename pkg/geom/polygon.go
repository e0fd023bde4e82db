package geom

// Containment classifies a point against a ring.
type Containment int

const (
	Outside Containment = iota
	Inside
	OnBoundary
)

func (c Containment) String() string {
	switch c {
	case Inside:
		return "inside"
	case OnBoundary:
		return "on-boundary"
	default:
		return "outside"
	}
}

// Contains classifies p against the closed ring poly using a crossing count.
// Points within tol of any ring edge are reported OnBoundary. Works for any
// simple ring regardless of orientation.
func Contains(poly []Point, p Point, tol float64) Containment {
	n := len(poly)
	if n < 3 {
		return Outside
	}

	inside := false
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		if DistanceToSegment(p, a, b) <= tol {
			return OnBoundary
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	if inside {
		return Inside
	}
	return Outside
}
