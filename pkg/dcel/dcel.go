// Package dcel implements a mutable planar subdivision stored as a
// doubly-connected edge list.
//
// Vertices, half-edges and faces live in append-only tables and are addressed
// by integer handles. Mutations never free a record: removed records are
// tombstoned, so a handle stays meaningful for the lifetime of the DCEL and
// resolves to ErrRemoved once its entity is detached.
package dcel

import (
	"fmt"

	"github.com/peterstace/simplefeatures/rtree"
	"github.com/pkg/errors"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/logger"
)

type (
	VertexID   int
	HalfEdgeID int
	FaceID     int
)

const (
	NoVertex   VertexID   = -1
	NoHalfEdge HalfEdgeID = -1
	NoFace     FaceID     = -1
)

type vertexRecord struct {
	pos   geom.Point
	out   HalfEdgeID
	alive bool
}

type halfEdgeRecord struct {
	origin     VertexID
	twin       HalfEdgeID
	next, prev HalfEdgeID
	face       FaceID
	alive      bool
}

type faceRecord struct {
	anchor  HalfEdgeID
	site    geom.Point
	hasSite bool
	alive   bool

	// box is the last bounding box inserted into the face index
	box     geom.Box
	indexed bool
}

// DCEL is a planar subdivision. Face 0 is always the unbounded outer face.
// It is not safe for concurrent use.
type DCEL struct {
	vertices  []vertexRecord
	halfEdges []halfEdgeRecord
	faces     []faceRecord

	outer FaceID
	tol   float64

	faceIndex   rtree.RTree
	vertexIndex rtree.RTree

	log *logger.ZapLogger
}

// Option configures New.
type Option func(*DCEL)

// WithTolerance sets the epsilon used for vertex identity and point tests.
func WithTolerance(tol float64) Option {
	return func(d *DCEL) {
		if tol > 0 {
			d.tol = tol
		}
	}
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(l *logger.ZapLogger) Option {
	return func(d *DCEL) {
		if l != nil {
			d.log = l
		}
	}
}

// Vertex is a read-only view of a vertex record.
type Vertex struct {
	ID  VertexID
	Pos geom.Point
	Out HalfEdgeID
}

// HalfEdge is a read-only view of a half-edge record.
type HalfEdge struct {
	ID     HalfEdgeID
	Origin VertexID
	Twin   HalfEdgeID
	Next   HalfEdgeID
	Prev   HalfEdgeID
	Face   FaceID
}

// Face is a read-only view of a face record.
type Face struct {
	ID      FaceID
	Anchor  HalfEdgeID
	Site    geom.Point
	HasSite bool
	Outer   bool
}

func (f Face) String() string {
	if f.HasSite {
		return fmt.Sprintf("face %d (site %v)", f.ID, f.Site)
	}
	return fmt.Sprintf("face %d", f.ID)
}

// Tolerance returns the epsilon in use.
func (d *DCEL) Tolerance() float64 {
	return d.tol
}

func (d *DCEL) checkVertex(v VertexID) error {
	if v < 0 || int(v) >= len(d.vertices) {
		return errors.Wrapf(ErrUnknownHandle, "vertex %d", v)
	}
	if !d.vertices[v].alive {
		return errors.Wrapf(ErrRemoved, "vertex %d", v)
	}
	return nil
}

func (d *DCEL) checkHalfEdge(e HalfEdgeID) error {
	if e < 0 || int(e) >= len(d.halfEdges) {
		return errors.Wrapf(ErrUnknownHandle, "half-edge %d", e)
	}
	if !d.halfEdges[e].alive {
		return errors.Wrapf(ErrRemoved, "half-edge %d", e)
	}
	return nil
}

func (d *DCEL) checkFace(f FaceID) error {
	if f < 0 || int(f) >= len(d.faces) {
		return errors.Wrapf(ErrUnknownHandle, "face %d", f)
	}
	if !d.faces[f].alive {
		return errors.Wrapf(ErrRemoved, "face %d", f)
	}
	return nil
}

// VertexAlive reports whether v is a live vertex.
func (d *DCEL) VertexAlive(v VertexID) bool { return d.checkVertex(v) == nil }

// HalfEdgeAlive reports whether e is a live half-edge.
func (d *DCEL) HalfEdgeAlive(e HalfEdgeID) bool { return d.checkHalfEdge(e) == nil }

// FaceAlive reports whether f is a live face.
func (d *DCEL) FaceAlive(f FaceID) bool { return d.checkFace(f) == nil }

// Vertex returns the view of v.
func (d *DCEL) Vertex(v VertexID) (Vertex, error) {
	if err := d.checkVertex(v); err != nil {
		return Vertex{}, err
	}
	r := d.vertices[v]
	return Vertex{ID: v, Pos: r.pos, Out: r.out}, nil
}

// HalfEdge returns the view of e.
func (d *DCEL) HalfEdge(e HalfEdgeID) (HalfEdge, error) {
	if err := d.checkHalfEdge(e); err != nil {
		return HalfEdge{}, err
	}
	r := d.halfEdges[e]
	return HalfEdge{ID: e, Origin: r.origin, Twin: r.twin, Next: r.next, Prev: r.prev, Face: r.face}, nil
}

// Face returns the view of f.
func (d *DCEL) Face(f FaceID) (Face, error) {
	if err := d.checkFace(f); err != nil {
		return Face{}, err
	}
	r := d.faces[f]
	return Face{ID: f, Anchor: r.anchor, Site: r.site, HasSite: r.hasSite, Outer: f == d.outer}, nil
}

// OuterFace is the unbounded face.
func (d *DCEL) OuterFace() FaceID {
	return d.outer
}

// Faces lists live faces in id order, the outer face first.
func (d *DCEL) Faces() []FaceID {
	var out []FaceID
	for i := range d.faces {
		if d.faces[i].alive {
			out = append(out, FaceID(i))
		}
	}
	return out
}

// NumFaces counts live faces including the outer one.
func (d *DCEL) NumFaces() int {
	return len(d.Faces())
}

// NumVertices counts live vertices.
func (d *DCEL) NumVertices() int {
	n := 0
	for i := range d.vertices {
		if d.vertices[i].alive {
			n++
		}
	}
	return n
}

// NumHalfEdges counts live half-edges.
func (d *DCEL) NumHalfEdges() int {
	n := 0
	for i := range d.halfEdges {
		if d.halfEdges[i].alive {
			n++
		}
	}
	return n
}

// Site returns the payload of f.
func (d *DCEL) Site(f FaceID) (geom.Point, bool, error) {
	if err := d.checkFace(f); err != nil {
		return geom.Point{}, false, err
	}
	return d.faces[f].site, d.faces[f].hasSite, nil
}

// SetSite stores the owning site of f.
func (d *DCEL) SetSite(f FaceID, site geom.Point) error {
	if err := d.checkFace(f); err != nil {
		return err
	}
	d.faces[f].site = site
	d.faces[f].hasSite = true
	return nil
}

// ClearSite removes the payload of f.
func (d *DCEL) ClearSite(f FaceID) error {
	if err := d.checkFace(f); err != nil {
		return err
	}
	d.faces[f].site = geom.Point{}
	d.faces[f].hasSite = false
	return nil
}

func (d *DCEL) dest(e HalfEdgeID) VertexID {
	return d.halfEdges[d.halfEdges[e].twin].origin
}

func (d *DCEL) line(e HalfEdgeID) geom.Line {
	return geom.SegmentBetween(d.vertices[d.halfEdges[e].origin].pos, d.vertices[d.dest(e)].pos)
}

// Line is the segment traced by e from its origin to its destination.
func (d *DCEL) Line(e HalfEdgeID) (geom.Line, error) {
	if err := d.checkHalfEdge(e); err != nil {
		return geom.Line{}, err
	}
	return d.line(e), nil
}

// Origin is the vertex e starts at.
func (d *DCEL) Origin(e HalfEdgeID) (VertexID, error) {
	if err := d.checkHalfEdge(e); err != nil {
		return NoVertex, err
	}
	return d.halfEdges[e].origin, nil
}

// Dest is the vertex e ends at.
func (d *DCEL) Dest(e HalfEdgeID) (VertexID, error) {
	if err := d.checkHalfEdge(e); err != nil {
		return NoVertex, err
	}
	return d.dest(e), nil
}

// Twin is the opposite half of e.
func (d *DCEL) Twin(e HalfEdgeID) (HalfEdgeID, error) {
	if err := d.checkHalfEdge(e); err != nil {
		return NoHalfEdge, err
	}
	return d.halfEdges[e].twin, nil
}

// Next follows e around its incident face.
func (d *DCEL) Next(e HalfEdgeID) (HalfEdgeID, error) {
	if err := d.checkHalfEdge(e); err != nil {
		return NoHalfEdge, err
	}
	return d.halfEdges[e].next, nil
}

// Prev is the half-edge whose Next is e.
func (d *DCEL) Prev(e HalfEdgeID) (HalfEdgeID, error) {
	if err := d.checkHalfEdge(e); err != nil {
		return NoHalfEdge, err
	}
	return d.halfEdges[e].prev, nil
}

// IncidentFace is the face on the left of e.
func (d *DCEL) IncidentFace(e HalfEdgeID) (FaceID, error) {
	if err := d.checkHalfEdge(e); err != nil {
		return NoFace, err
	}
	return d.halfEdges[e].face, nil
}
