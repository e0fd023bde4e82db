package dcel

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
)

// BoundaryEdge pairs a boundary half-edge with the segment it traces.
type BoundaryEdge struct {
	HalfEdge HalfEdgeID
	Line     geom.Line
}

// boundary walks next from the anchor of f, checking liveness and face
// membership on every step.
func (d *DCEL) boundary(f FaceID) ([]HalfEdgeID, error) {
	if err := d.checkFace(f); err != nil {
		return nil, err
	}
	start := d.faces[f].anchor
	var out []HalfEdgeID
	h := start
	for {
		if err := d.checkHalfEdge(h); err != nil {
			return nil, errors.Wrapf(err, "walking boundary of face %d", f)
		}
		if d.halfEdges[h].face != f {
			return nil, malformed("half-edge %d on the boundary of face %d belongs to face %d", h, f, d.halfEdges[h].face)
		}
		out = append(out, h)
		if len(out) > len(d.halfEdges) {
			return nil, malformed("boundary of face %d does not close", f)
		}
		h = d.halfEdges[h].next
		if h == start {
			return out, nil
		}
	}
}

// Boundary returns the half-edges around f in next order starting at its
// anchor, each with its segment.
func (d *DCEL) Boundary(f FaceID) ([]BoundaryEdge, error) {
	ids, err := d.boundary(f)
	if err != nil {
		return nil, err
	}
	out := make([]BoundaryEdge, len(ids))
	for i, h := range ids {
		out[i] = BoundaryEdge{HalfEdge: h, Line: d.line(h)}
	}
	return out, nil
}

func (d *DCEL) polygon(f FaceID) ([]geom.Point, error) {
	ids, err := d.boundary(f)
	if err != nil {
		return nil, err
	}
	pts := make([]geom.Point, len(ids))
	for i, h := range ids {
		pts[i] = d.vertices[d.halfEdges[h].origin].pos
	}
	return pts, nil
}

// Polygon lists the boundary vertex positions of f in walk order.
func (d *DCEL) Polygon(f FaceID) ([]geom.Point, error) {
	return d.polygon(f)
}

// IsCW reports whether the boundary of f winds clockwise, which only the
// outer face does.
func (d *DCEL) IsCW(f FaceID) (bool, error) {
	pts, err := d.polygon(f)
	if err != nil {
		return false, err
	}
	return geom.IsCW(pts), nil
}

// LocateFace returns the finite face strictly containing p. Points on an
// edge or outside every finite face yield ErrPointOutsideDomain.
func (d *DCEL) LocateFace(p geom.Point) (FaceID, error) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return NoFace, errors.Wrapf(ErrPointOutsideDomain, "%v is not a number", p)
	}
	found := NoFace
	for _, f := range d.candidateFaces(p) {
		pts, err := d.polygon(f)
		if err != nil {
			return NoFace, err
		}
		switch geom.Contains(pts, p, d.tol) {
		case geom.OnBoundary:
			return NoFace, errors.Wrapf(ErrPointOutsideDomain, "%v lies on the boundary of face %d", p, f)
		case geom.Inside:
			if found == NoFace {
				found = f
			}
		}
	}
	if found == NoFace {
		return NoFace, errors.Wrapf(ErrPointOutsideDomain, "%v is not inside any face", p)
	}
	return found, nil
}

// FacesTouching lists the finite faces whose closed polygon holds p.
func (d *DCEL) FacesTouching(p geom.Point) ([]FaceID, error) {
	var out []FaceID
	for _, f := range d.candidateFaces(p) {
		pts, err := d.polygon(f)
		if err != nil {
			return nil, err
		}
		if geom.Contains(pts, p, d.tol) != geom.Outside {
			out = append(out, f)
		}
	}
	return out, nil
}

// StepOverEdge returns the face across e from f. e may be given from
// either side.
func (d *DCEL) StepOverEdge(f FaceID, e HalfEdgeID) (FaceID, error) {
	if err := d.checkFace(f); err != nil {
		return NoFace, err
	}
	if err := d.checkHalfEdge(e); err != nil {
		return NoFace, err
	}
	t := d.halfEdges[e].twin
	switch f {
	case d.halfEdges[e].face:
		return d.halfEdges[t].face, nil
	case d.halfEdges[t].face:
		return d.halfEdges[e].face, nil
	}
	return NoFace, malformed("half-edge %d does not bound face %d", e, f)
}

// Signature identifies a face by the set of half-edges on its boundary.
type Signature uint64

// Signature hashes the sorted boundary half-edge ids of f. Two live faces
// share a signature only if they have the same boundary.
func (d *DCEL) Signature(f FaceID) (Signature, error) {
	ids, err := d.boundary(f)
	if err != nil {
		return 0, err
	}
	sorted := append([]HalfEdgeID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	h := xxhash.New()
	var buf [8]byte
	for _, e := range sorted {
		binary.LittleEndian.PutUint64(buf[:], uint64(e))
		_, _ = h.Write(buf[:])
	}
	return Signature(h.Sum64()), nil
}

// FacesEqual compares two faces structurally. Removed faces equal nothing.
func (d *DCEL) FacesEqual(a, b FaceID) bool {
	sa, err := d.Signature(a)
	if err != nil {
		return false
	}
	sb, err := d.Signature(b)
	if err != nil {
		return false
	}
	return sa == sb
}

// IsVertexAt returns the live vertex within tolerance of p, the closest one
// if several are.
func (d *DCEL) IsVertexAt(p geom.Point) (VertexID, bool) {
	best := NoVertex
	bestDist := math.Inf(1)
	_ = d.vertexIndex.RangeSearch(d.pointBox(p), func(id int) error {
		r := d.vertices[id]
		if !r.alive || !geom.Equal(r.pos, p, d.tol) {
			return nil
		}
		if dist := geom.Distance(r.pos, p); dist < bestDist || (dist == bestDist && VertexID(id) < best) {
			best, bestDist = VertexID(id), dist
		}
		return nil
	})
	return best, best != NoVertex
}

// EdgeBetween returns the half-edge of f joining a and b in either
// direction.
func (d *DCEL) EdgeBetween(f FaceID, a, b VertexID) (HalfEdgeID, bool) {
	ids, err := d.boundary(f)
	if err != nil {
		return NoHalfEdge, false
	}
	for _, h := range ids {
		o, t := d.halfEdges[h].origin, d.dest(h)
		if (o == a && t == b) || (o == b && t == a) {
			return h, true
		}
	}
	return NoHalfEdge, false
}
