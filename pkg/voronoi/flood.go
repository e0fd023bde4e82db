package voronoi

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/dcel"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
)

// crossing is where a bisector meets a boundary half-edge.
type crossing struct {
	p geom.Point
	e dcel.HalfEdgeID
}

// plan is the chord a face gets cut along.
type plan struct {
	face   dcel.FaceID
	owner  geom.Point
	v0, v1 crossing
}

// cached intersection of one undirected edge
type hit struct {
	p  geom.Point
	ok bool
}

// flood walks outwards from the landing faces, visiting every face the new
// cell overlaps. Each face is cut by the bisector of s and its owner. The walk
// continues across every edge that bisector crosses and every edge with an
// endpoint closer to s than to the owner, except into the outer face.
func (b *Builder) flood(s geom.Point, start []dcel.FaceID) []plan {
	d := b.d

	queue := append([]dcel.FaceID(nil), start...)
	explored := make(map[dcel.Signature]bool)
	hits := make(map[dcel.HalfEdgeID]hit)
	var plans []plan

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		sig, err := d.Signature(f)
		if err != nil || explored[sig] {
			continue
		}
		explored[sig] = true

		owner, ok, _ := d.Site(f)
		if !ok {
			continue
		}
		bisector := geom.Bisector(s, owner)
		bound, err := d.Boundary(f)
		if err != nil {
			b.log.Warn("[insert-flood] Unreadable face", zap.Int("face", int(f)), zap.Error(err))
			continue
		}

		var found []crossing
	edges:
		for _, be := range bound {
			key := be.HalfEdge
			if tw, _ := d.Twin(key); tw < key {
				key = tw
			}
			h, seen := hits[key]
			if !seen {
				h.p, h.ok = geom.Intersect(bisector, be.Line)
				hits[key] = h
			}
			if h.ok || b.taken(s, owner, be.Line) {
				next, err := d.StepOverEdge(f, be.HalfEdge)
				if err == nil && !b.isOuter(next) {
					queue = append(queue, next)
				}
			}
			if !h.ok {
				continue
			}

			for _, c := range found {
				if geom.Equal(c.p, h.p, b.tol) {
					continue edges
				}
			}
			found = append(found, crossing{p: h.p, e: be.HalfEdge})
		}

		if len(found) < 2 {
			b.log.Warn("[insert-flood] Bisector only touches face, dropped",
				zap.Int("face", int(f)), zap.Any("owner", owner), zap.Int("crossings", len(found)))
			continue
		}
		i, j := farthest(found)
		plans = append(plans, plan{face: f, owner: owner, v0: found[i], v1: found[j]})

		b.log.Debug("[insert-flood] Face crossed",
			zap.Int("face", int(f)), zap.Any("owner", owner),
			zap.Any("from", found[i].p), zap.Any("to", found[j].p))
	}
	return plans
}

// taken reports whether part of l is strictly closer to s than to owner.
func (b *Builder) taken(s, owner geom.Point, l geom.Line) bool {
	for _, p := range []geom.Point{l.Origin, l.End()} {
		if geom.Distance(p, owner)-geom.Distance(p, s) > b.tol {
			return true
		}
	}
	return false
}

func (b *Builder) isOuter(f dcel.FaceID) bool {
	if f == b.d.OuterFace() {
		return true
	}
	cw, err := b.d.IsCW(f)
	return err == nil && cw
}

// farthest picks the two crossings furthest apart.
func farthest(cs []crossing) (int, int) {
	bi, bj, best := 0, 1, -1.0
	for i := range cs {
		for j := i + 1; j < len(cs); j++ {
			if dist := geom.Distance(cs[i].p, cs[j].p); dist > best {
				bi, bj, best = i, j, dist
			}
		}
	}
	return bi, bj
}

// split cuts every planned face along its chord and returns one half-edge
// per chord.
func (b *Builder) split(plans []plan) ([]dcel.HalfEdgeID, error) {
	d := b.d
	chords := make([]dcel.HalfEdgeID, 0, len(plans))

	for _, pl := range plans {
		v0, err := d.SplitEdge(pl.v0.p, pl.v0.e)
		if err != nil {
			return nil, errors.Wrapf(err, "splitting face %d", pl.face)
		}
		v1, err := d.SplitEdge(pl.v1.p, pl.v1.e)
		if err != nil {
			return nil, errors.Wrapf(err, "splitting face %d", pl.face)
		}
		if v0 == v1 {
			b.log.Warn("[insert-split] Chord collapsed to a vertex", zap.Int("face", int(pl.face)), zap.Int("vertex", int(v0)))
			continue
		}

		if e, ok := d.EdgeBetween(pl.face, v0, v1); ok {
			b.log.Debug("[insert-split] Reusing existing edge", zap.Int("face", int(pl.face)), zap.Int("halfEdge", int(e)))
			chords = append(chords, e)
			continue
		}

		_, chord, err := d.SplitFace(pl.face, v0, v1)
		if err != nil {
			return nil, errors.Wrapf(err, "splitting face %d", pl.face)
		}
		chords = append(chords, chord)
		b.log.Debug("[insert-split] Face split",
			zap.Int("face", int(pl.face)), zap.Int("from", int(v0)), zap.Int("to", int(v1)))
	}
	return chords, nil
}

// consolidate merges the pieces on the s side of the chords into one face.
// Every merged face has to be one of those pieces.
func (b *Builder) consolidate(s geom.Point, chords []dcel.HalfEdgeID) (dcel.FaceID, error) {
	d := b.d
	sorted, err := d.SortAround(chords, s, d.OuterFace())
	if err != nil {
		return dcel.NoFace, errors.Wrap(err, "ordering new cell boundary")
	}

	pieces := make(map[dcel.FaceID]bool, len(sorted))
	for _, e := range sorted {
		f, err := d.IncidentFace(e)
		if err != nil {
			return dcel.NoFace, err
		}
		pieces[f] = true
	}
	hint, _ := d.IncidentFace(sorted[0])

	enclosed, err := d.EnclosedFaces(sorted, hint)
	if err != nil {
		return dcel.NoFace, errors.Wrap(err, "carving new cell")
	}
	for _, f := range enclosed {
		if !pieces[f] {
			return dcel.NoFace, errors.Wrapf(dcel.ErrMalformedInputGraph,
				"cell of %v would swallow face %d", s, f)
		}
	}

	f, err := d.DeleteInterior(sorted, hint)
	if err != nil {
		return dcel.NoFace, errors.Wrap(err, "carving new cell")
	}
	b.log.Debug("[insert-merge] Interior removed", zap.Int("face", int(f)), zap.Int("boundary", len(sorted)))
	return f, nil
}
