package dcel

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
)

// Validate checks the structural invariants over every live record and
// reports all violations found.
func (d *DCEL) Validate() error {
	var errAll error
	fail := func(format string, args ...interface{}) {
		multierr.AppendInto(&errAll, fmt.Errorf(format, args...))
	}

	live := 0
	for i, r := range d.halfEdges {
		if !r.alive {
			continue
		}
		live++
		e := HalfEdgeID(i)

		if d.checkHalfEdge(r.twin) != nil {
			fail("half-edge %d has an invalid twin %d", e, r.twin)
			continue
		}
		if r.twin == e || d.halfEdges[r.twin].twin != e {
			fail("half-edge %d and its twin %d don't refer to each other", e, r.twin)
		}
		if d.checkHalfEdge(r.next) != nil || d.checkHalfEdge(r.prev) != nil {
			fail("half-edge %d has an invalid next %d or prev %d", e, r.next, r.prev)
			continue
		}
		if d.halfEdges[r.next].prev != e {
			fail("half-edge %d has %d as next, which has %d as prev", e, r.next, d.halfEdges[r.next].prev)
		}
		if d.halfEdges[r.prev].next != e {
			fail("half-edge %d has %d as prev, which has %d as next", e, r.prev, d.halfEdges[r.prev].next)
		}
		if d.checkFace(r.face) != nil {
			fail("half-edge %d points to invalid face %d", e, r.face)
		} else if d.halfEdges[r.next].face != r.face {
			fail("half-edge %d and its next %d bound different faces", e, r.next)
		}
		if d.checkVertex(r.origin) != nil {
			fail("half-edge %d has invalid origin %d", e, r.origin)
		}
		if d.halfEdges[r.next].origin != d.halfEdges[r.twin].origin {
			fail("half-edge %d ends at %d but its next starts at %d", e, d.halfEdges[r.twin].origin, d.halfEdges[r.next].origin)
		}
	}

	walked := 0
	for i, r := range d.faces {
		if !r.alive {
			continue
		}
		f := FaceID(i)
		if d.checkHalfEdge(r.anchor) != nil {
			fail("face %d points to invalid anchor %d", f, r.anchor)
			continue
		}
		ids, err := d.boundary(f)
		if err != nil {
			fail("face %d: %v", f, err)
			continue
		}
		walked += len(ids)

		pts := make([]geom.Point, len(ids))
		for j, h := range ids {
			pts[j] = d.vertices[d.halfEdges[h].origin].pos
		}
		area := geom.SignedArea(pts)
		switch {
		case f == d.outer && area > 0:
			fail("outer face winds counter-clockwise")
		case f != d.outer && area <= 0:
			fail("face %d does not wind counter-clockwise (area %g)", f, area)
		}
		if f != d.outer && !simple(pts, d.tol) {
			fail("face %d is not a simple polygon", f)
		}
	}
	if walked != live {
		fail("faces walk %d half-edges but %d are live", walked, live)
	}

	for i, r := range d.vertices {
		if !r.alive {
			continue
		}
		if d.checkHalfEdge(r.out) != nil || d.halfEdges[r.out].origin != VertexID(i) {
			fail("vertex %d has invalid outgoing half-edge %d", i, r.out)
		}
	}

	return errAll
}

// simple reports whether no two non-adjacent ring edges touch.
func simple(pts []geom.Point, tol float64) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		a := geom.SegmentBetween(pts[i], pts[(i+1)%n])
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			b := geom.SegmentBetween(pts[j], pts[(j+1)%n])
			if _, ok := geom.Intersect(a, b); ok {
				return false
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if geom.Equal(pts[i], pts[j], tol) {
				return false
			}
		}
	}
	return true
}
