package dcel

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
)

// SortAround orients every edge so that ref lies on its left and orders the
// result by the polar angle of the edge midpoints around ref, ties broken by
// id. Passing either half of a pair is fine, and a pair given twice is kept
// once. Sorting an already sorted result returns it unchanged.
//
// An edge whose ref-facing side is the outer face means ref is not enclosed
// and is rejected.
func (d *DCEL) SortAround(edges []HalfEdgeID, ref geom.Point, outer FaceID) ([]HalfEdgeID, error) {
	type keyed struct {
		e     HalfEdgeID
		angle float64
	}
	seen := make(map[HalfEdgeID]bool, len(edges))
	items := make([]keyed, 0, len(edges))

	for _, e := range edges {
		if err := d.checkHalfEdge(e); err != nil {
			return nil, err
		}
		t := d.halfEdges[e].twin
		a, b := d.vertices[d.halfEdges[e].origin].pos, d.vertices[d.halfEdges[t].origin].pos

		o := geom.Orient(a, b, ref)
		chosen := e
		switch {
		case o > 0:
		case o < 0:
			chosen = t
		default:
			return nil, malformed("half-edge %d is collinear with %v", e, ref)
		}
		if seen[chosen] {
			continue
		}
		seen[chosen] = true
		if d.halfEdges[chosen].face == outer {
			return nil, malformed("half-edge %d faces the outer face towards %v", chosen, ref)
		}
		items = append(items, keyed{e: chosen, angle: geom.Angle(ref, a.Add(b).Mul(0.5))})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].angle != items[j].angle {
			return items[i].angle < items[j].angle
		}
		return items[i].e < items[j].e
	})

	out := make([]HalfEdgeID, len(items))
	for i, it := range items {
		out[i] = it.e
	}
	return out, nil
}

// DeleteInteriorAt is DeleteInterior seeded by the face containing p.
func (d *DCEL) DeleteInteriorAt(boundary []HalfEdgeID, p geom.Point) (FaceID, error) {
	hint, err := d.LocateFace(p)
	if err != nil {
		return NoFace, errors.Wrap(err, "locating interior hint")
	}
	return d.DeleteInterior(boundary, hint)
}

// EnclosedFaces lists the faces DeleteInterior would merge for the same
// arguments, hint first. Nothing is modified.
func (d *DCEL) EnclosedFaces(boundary []HalfEdgeID, hint FaceID) ([]FaceID, error) {
	if err := d.checkFace(hint); err != nil {
		return nil, err
	}
	if hint == d.outer {
		return nil, malformed("interior hint is the outer face")
	}
	_, order, _, err := d.enclosed(boundary, hint)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// enclosed floods from hint across every edge outside boundary. Edges facing
// the outer face are not crossed and come back as framed.
func (d *DCEL) enclosed(boundary []HalfEdgeID, hint FaceID) (
	interior map[FaceID]bool, order []FaceID, framed []HalfEdgeID, err error,
) {
	if len(boundary) == 0 {
		return nil, nil, nil, malformed("empty boundary")
	}
	onBoundary := make(map[HalfEdgeID]bool, 2*len(boundary))
	for _, e := range boundary {
		if err := d.checkHalfEdge(e); err != nil {
			return nil, nil, nil, err
		}
		onBoundary[e] = true
		onBoundary[d.halfEdges[e].twin] = true
	}

	interior = map[FaceID]bool{hint: true}
	order = []FaceID{hint}
	for i := 0; i < len(order); i++ {
		ids, err := d.boundary(order[i])
		if err != nil {
			return nil, nil, nil, err
		}
		for _, h := range ids {
			if onBoundary[h] {
				continue
			}
			n := d.halfEdges[d.halfEdges[h].twin].face
			if n == d.outer {
				framed = append(framed, h)
				continue
			}
			if !interior[n] {
				interior[n] = true
				order = append(order, n)
			}
		}
	}
	return interior, order, framed, nil
}

// DeleteInterior consolidates the region enclosed by boundary into a single
// face. The region is found by flooding from hint across every edge that is
// not part of boundary; each boundary edge may be given from either side.
// Edges facing the outer face bound the region implicitly, so a region cut
// against the frame needs only its interior chords.
// Every half-edge, face and vertex strictly inside is tombstoned and a new
// face bounded by the inner sides is returned, carrying the payload of hint.
//
// Nothing changes when a boundary edge has the region on both sides or the
// inner sides do not close into one cycle.
func (d *DCEL) DeleteInterior(boundary []HalfEdgeID, hint FaceID) (FaceID, error) {
	if err := d.checkFace(hint); err != nil {
		return NoFace, err
	}
	if hint == d.outer {
		return NoFace, malformed("interior hint is the outer face")
	}

	interior, order, framed, err := d.enclosed(boundary, hint)
	if err != nil {
		return NoFace, err
	}

	// inner side of every boundary pair
	inner := make([]HalfEdgeID, 0, len(boundary)+len(framed))
	isInner := make(map[HalfEdgeID]bool, len(boundary)+len(framed))
	for _, h := range framed {
		isInner[h] = true
		inner = append(inner, h)
	}
	for _, e := range boundary {
		t := d.halfEdges[e].twin
		in, tin := interior[d.halfEdges[e].face], interior[d.halfEdges[t].face]
		var h HalfEdgeID
		switch {
		case in && tin:
			return NoFace, malformed("half-edge %d has the enclosed region on both sides", e)
		case in:
			h = e
		case tin:
			h = t
		default:
			return NoFace, malformed("half-edge %d does not touch the enclosed region", e)
		}
		if !isInner[h] {
			isInner[h] = true
			inner = append(inner, h)
		}
	}

	// next inner edge after each inner edge, rotating clockwise around the
	// shared vertex over the interior edges in between
	newNext := make(map[HalfEdgeID]HalfEdgeID, len(inner))
	for _, b := range inner {
		c := d.halfEdges[b].next
		for steps := 0; !isInner[c]; steps++ {
			if steps > len(d.halfEdges) {
				return NoFace, malformed("no boundary continuation after half-edge %d", b)
			}
			c = d.halfEdges[d.halfEdges[c].twin].next
		}
		newNext[b] = c
	}

	count := 0
	for h := inner[0]; ; {
		count++
		h = newNext[h]
		if h == inner[0] {
			break
		}
		if count > len(inner) {
			break
		}
	}
	if count != len(inner) {
		return NoFace, malformed("boundary of %d edges forms a cycle of %d", len(inner), count)
	}

	// interior half-edges and the vertices left without a boundary edge
	var doomed []HalfEdgeID
	keepVertex := make(map[VertexID]bool, len(inner))
	for _, b := range inner {
		keepVertex[d.halfEdges[b].origin] = true
	}
	doomedVertex := make(map[VertexID]bool)
	for _, f := range order {
		ids, _ := d.boundary(f)
		for _, h := range ids {
			if isInner[h] {
				continue
			}
			doomed = append(doomed, h)
			if v := d.halfEdges[h].origin; !keepVertex[v] {
				doomedVertex[v] = true
			}
		}
	}

	// commit
	nf := FaceID(len(d.faces))
	d.faces = append(d.faces, faceRecord{
		anchor:  inner[0],
		site:    d.faces[hint].site,
		hasSite: d.faces[hint].hasSite,
		alive:   true,
	})
	for _, b := range inner {
		n := newNext[b]
		d.halfEdges[b].next = n
		d.halfEdges[n].prev = b
		d.halfEdges[b].face = nf
	}
	for _, h := range doomed {
		d.halfEdges[h].alive = false
	}
	for _, f := range order {
		d.unindexFace(f)
		d.faces[f].alive = false
	}
	for v := range doomedVertex {
		d.unindexVertex(v)
		d.vertices[v].alive = false
	}
	for _, b := range inner {
		v := d.halfEdges[b].origin
		if !d.halfEdges[d.vertices[v].out].alive {
			d.vertices[v].out = b
		}
	}
	d.indexFace(nf)

	d.log.Debug("[dcel-delete-interior] Consolidated faces",
		zap.Int("face", int(nf)),
		zap.Int("merged", len(order)),
		zap.Int("removedHalfEdges", len(doomed)),
		zap.Int("removedVertices", len(doomedVertex)))
	return nf, nil
}
