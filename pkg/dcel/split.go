package dcel

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
)

// SplitEdge inserts a vertex at p on e and its twin. If p coincides with an
// endpoint of e that vertex is returned and nothing changes, so repeated
// calls with the same point are idempotent.
//
// After a split e and twin(e) keep their origins and end at the new vertex;
// two new half-edges cover the remaining halves. No existing handle changes
// meaning beyond its destination.
func (d *DCEL) SplitEdge(p geom.Point, e HalfEdgeID) (VertexID, error) {
	if err := d.checkHalfEdge(e); err != nil {
		return NoVertex, err
	}
	t := d.halfEdges[e].twin
	a, b := d.halfEdges[e].origin, d.halfEdges[t].origin
	pa, pb := d.vertices[a].pos, d.vertices[b].pos

	if geom.Equal(p, pa, d.tol) {
		return a, nil
	}
	if geom.Equal(p, pb, d.tol) {
		return b, nil
	}
	if dist := geom.DistanceToSegment(p, pa, pb); dist > d.tol {
		return NoVertex, errors.Wrapf(ErrPointNotOnEdge, "%v is %g away from half-edge %d", p, dist, e)
	}
	if v, ok := d.IsVertexAt(p); ok {
		return NoVertex, malformed("vertex %d already sits at %v inside half-edge %d", v, p, e)
	}

	m := VertexID(len(d.vertices))
	e2 := HalfEdgeID(len(d.halfEdges))
	t2 := e2 + 1

	nextE, nextT := d.halfEdges[e].next, d.halfEdges[t].next

	d.vertices = append(d.vertices, vertexRecord{pos: p, out: e2, alive: true})
	d.halfEdges = append(d.halfEdges,
		// m -> b, continues e
		halfEdgeRecord{origin: m, twin: t, next: nextE, prev: e, face: d.halfEdges[e].face, alive: true},
		// m -> a, continues t
		halfEdgeRecord{origin: m, twin: e, next: nextT, prev: t, face: d.halfEdges[t].face, alive: true},
	)

	d.halfEdges[nextE].prev = e2
	d.halfEdges[e].next = e2
	d.halfEdges[nextT].prev = t2
	d.halfEdges[t].next = t2
	d.halfEdges[e].twin = t2
	d.halfEdges[t].twin = e2

	d.indexVertex(m)

	d.log.Debug("[dcel-split-edge] Inserted vertex",
		zap.Int("vertex", int(m)), zap.Any("pos", p), zap.Int("halfEdge", int(e)))
	return m, nil
}

// SplitFace joins a and b, both on the boundary of f, with a new edge. The
// new face lies to the left of a->b and inherits the payload of f; f keeps
// the other side. For the outer face the clockwise part always stays f.
// It returns the new face and the new half-edge running a->b.
func (d *DCEL) SplitFace(f FaceID, a, b VertexID) (FaceID, HalfEdgeID, error) {
	if err := d.checkFace(f); err != nil {
		return NoFace, NoHalfEdge, err
	}
	if err := d.checkVertex(a); err != nil {
		return NoFace, NoHalfEdge, err
	}
	if err := d.checkVertex(b); err != nil {
		return NoFace, NoHalfEdge, err
	}
	if a == b {
		return NoFace, NoHalfEdge, malformed("cannot split face %d on a single vertex %d", f, a)
	}

	ids, err := d.boundary(f)
	if err != nil {
		return NoFace, NoHalfEdge, err
	}
	ha, hb := NoHalfEdge, NoHalfEdge
	for _, h := range ids {
		switch d.halfEdges[h].origin {
		case a:
			if ha == NoHalfEdge {
				ha = h
			}
		case b:
			if hb == NoHalfEdge {
				hb = h
			}
		}
	}
	if ha == NoHalfEdge || hb == NoHalfEdge {
		return NoFace, NoHalfEdge, malformed("vertices %d and %d are not both on the boundary of face %d", a, b, f)
	}
	if _, ok := d.EdgeBetween(f, a, b); ok {
		return NoFace, NoHalfEdge, malformed("vertices %d and %d are already joined on face %d", a, b, f)
	}

	pa, pb := d.vertices[a].pos, d.vertices[b].pos
	if f != d.outer {
		pts, err := d.polygon(f)
		if err != nil {
			return NoFace, NoHalfEdge, err
		}
		if geom.Contains(pts, pa.Add(pb).Mul(0.5), d.tol) == geom.Outside {
			return NoFace, NoHalfEdge, malformed("chord %d-%d leaves face %d", a, b, f)
		}
	}

	// cycle on the left of a->b: a->b, then hb ... prev(ha)
	left := d.cycleArea(hb, ha, pa)
	if f == d.outer && left < 0 {
		a, b = b, a
		ha, hb = hb, ha
	}

	haPrev, hbPrev := d.halfEdges[ha].prev, d.halfEdges[hb].prev
	n1 := HalfEdgeID(len(d.halfEdges))
	n2 := n1 + 1
	g := FaceID(len(d.faces))

	d.halfEdges = append(d.halfEdges,
		halfEdgeRecord{origin: a, twin: n2, next: hb, prev: haPrev, face: g, alive: true},
		halfEdgeRecord{origin: b, twin: n1, next: ha, prev: hbPrev, face: f, alive: true},
	)
	d.halfEdges[haPrev].next = n1
	d.halfEdges[hb].prev = n1
	d.halfEdges[hbPrev].next = n2
	d.halfEdges[ha].prev = n2

	d.faces = append(d.faces, faceRecord{
		anchor:  n1,
		site:    d.faces[f].site,
		hasSite: d.faces[f].hasSite,
		alive:   true,
	})
	d.faces[f].anchor = n2

	for h := d.halfEdges[n1].next; h != n1; h = d.halfEdges[h].next {
		d.halfEdges[h].face = g
	}

	d.indexFace(f)
	d.indexFace(g)

	d.log.Debug("[dcel-split-face] Split face",
		zap.Int("face", int(f)), zap.Int("newFace", int(g)),
		zap.Int("from", int(a)), zap.Int("to", int(b)))
	return g, n1, nil
}

// cycleArea is the signed area of the ring start, from, ..., up to but not
// including stop, as it would look once closed by an edge back to start.
func (d *DCEL) cycleArea(from, stop HalfEdgeID, start geom.Point) float64 {
	pts := []geom.Point{start}
	for h := from; h != stop; h = d.halfEdges[h].next {
		pts = append(pts, d.vertices[d.halfEdges[h].origin].pos)
		if len(pts) > len(d.halfEdges)+1 {
			break
		}
	}
	return geom.SignedArea(pts)
}
