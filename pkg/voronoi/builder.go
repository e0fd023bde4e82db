// Package voronoi builds a Voronoi diagram inside a rectangular frame by
// inserting sites one at a time into a dcel subdivision.
package voronoi

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/dcel"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/logger"
)

// ErrDuplicateSite is returned when a site coincides with one already inserted.
var ErrDuplicateSite = errors.New("duplicate site")

// Builder owns the subdivision and the sites inserted so far. Insertions are
// sequential and it is not safe for concurrent use.
type Builder struct {
	d     *dcel.DCEL
	frame geom.Box
	sites []geom.Point

	tol      float64
	validate bool
	log      *logger.ZapLogger
}

// Option configures NewBuilder.
type Option func(*Builder)

// WithValidation runs the full invariant check after every insertion.
func WithValidation(on bool) Option {
	return func(b *Builder) {
		b.validate = on
	}
}

// WithTolerance overrides geom.Tolerance for the builder and its kernel.
func WithTolerance(tol float64) Option {
	return func(b *Builder) {
		if tol > 0 {
			b.tol = tol
		}
	}
}

// NewBuilder seeds a subdivision with frame as its only bounded face.
func NewBuilder(frame geom.Box, log *logger.ZapLogger, opts ...Option) (*Builder, error) {
	if log == nil {
		log = logger.Nop()
	}
	b := &Builder{frame: frame, tol: geom.Tolerance, log: log}
	for _, opt := range opts {
		opt(b)
	}
	if frame.Empty() {
		return nil, errors.Wrapf(dcel.ErrMalformedInputGraph, "empty frame %v", frame)
	}

	d, err := dcel.New(frame.Corners(), [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
		dcel.WithTolerance(b.tol), dcel.WithLogger(log.Named("dcel")))
	if err != nil {
		return nil, errors.Wrap(err, "seeding frame")
	}
	b.d = d

	b.log.Info("[builder] Frame ready", zap.Any("frame", frame))
	return b, nil
}

// Diagram exposes the underlying subdivision.
func (b *Builder) Diagram() *dcel.DCEL {
	return b.d
}

// Graph flattens the current diagram for rendering.
func (b *Builder) Graph() dcel.Graph {
	return b.d.Graph()
}

// Sites lists inserted sites in insertion order.
func (b *Builder) Sites() []geom.Point {
	return append([]geom.Point(nil), b.sites...)
}

// Frame is the rectangle the diagram is clipped to.
func (b *Builder) Frame() geom.Box {
	return b.frame
}

// Cell returns the face owned by site.
func (b *Builder) Cell(site geom.Point) (dcel.FaceID, error) {
	f, err := b.d.LocateFace(site)
	if err != nil {
		return dcel.NoFace, err
	}
	owner, ok, err := b.d.Site(f)
	if err != nil {
		return dcel.NoFace, err
	}
	if !ok || !geom.Equal(owner, site, b.tol) {
		return dcel.NoFace, errors.Errorf("no cell owned by %v", site)
	}
	return f, nil
}

// InsertAll inserts every site, continuing past failures, and returns the
// combined error.
func (b *Builder) InsertAll(sites []geom.Point) error {
	var errAll error
	for i, s := range sites {
		if _, err := b.Insert(s); err != nil {
			multierr.AppendInto(&errAll, errors.Wrapf(err, "site %d %v", i, s))
		}
	}
	return errAll
}

// Insert adds site s and returns the face of its cell.
func (b *Builder) Insert(s geom.Point) (dcel.FaceID, error) {
	if math.IsNaN(s.X) || math.IsNaN(s.Y) || math.IsInf(s.X, 0) || math.IsInf(s.Y, 0) {
		return dcel.NoFace, errors.Wrapf(dcel.ErrPointOutsideDomain, "site %v is not finite", s)
	}
	if !b.inside(s) {
		return dcel.NoFace, errors.Wrapf(dcel.ErrPointOutsideDomain, "site %v is not inside frame %v", s, b.frame)
	}

	b.log.Info("[insert] ===============================================================")
	b.log.Info("[insert] New site", zap.Any("site", s), zap.Int("inserted", len(b.sites)))

	start, err := b.landing(s)
	if err != nil {
		b.log.Warn("[insert] Site could not be located", zap.Any("site", s), zap.Error(err))
		return dcel.NoFace, err
	}

	for _, f := range start {
		owner, ok, err := b.d.Site(f)
		if err != nil {
			return dcel.NoFace, err
		}
		if ok && geom.Equal(owner, s, b.tol) {
			b.log.Error("[insert] Duplicate site!", zap.Any("site", s), zap.Int("face", int(f)))
			return dcel.NoFace, errors.Wrapf(ErrDuplicateSite, "%v already owns face %d", s, f)
		}
	}

	if _, ok, _ := b.d.Site(start[0]); !ok {
		if err := b.d.SetSite(start[0], s); err != nil {
			return dcel.NoFace, err
		}
		b.sites = append(b.sites, s)
		b.log.Info("[insert] First site takes the frame", zap.Int("face", int(start[0])))
		return start[0], b.check()
	}

	plans := b.flood(s, start)
	b.log.Debug("[insert-flood] Faces to divide", zap.Int("faces", len(plans)))

	f, err := b.carve(s, plans)
	if err != nil {
		return dcel.NoFace, err
	}
	b.sites = append(b.sites, s)

	b.log.Info("[insert] Cell created", zap.Any("site", s), zap.Int("face", int(f)), zap.Int("cut", len(plans)))
	return f, nil
}

// carve splits the planned faces, merges the new cell and assigns it to s.
// On any failure the diagram is restored to its state before the call.
func (b *Builder) carve(s geom.Point, plans []plan) (f dcel.FaceID, err error) {
	cp := b.d.Checkpoint()
	defer func() {
		if err != nil {
			b.d.Rollback(cp)
			b.log.Warn("[insert] Insertion rolled back", zap.Any("site", s), zap.Error(err))
		}
	}()

	chords, err := b.split(plans)
	if err != nil {
		return dcel.NoFace, err
	}
	if len(chords) == 0 {
		return dcel.NoFace, errors.Wrapf(dcel.ErrMalformedInputGraph, "no face was divided by %v", s)
	}

	f, err = b.consolidate(s, chords)
	if err != nil {
		return dcel.NoFace, err
	}
	if err = b.d.SetSite(f, s); err != nil {
		return dcel.NoFace, err
	}
	if err = b.check(); err != nil {
		return dcel.NoFace, err
	}
	return f, nil
}

// landing finds the faces s falls into. A site on an existing edge touches
// every face around it.
func (b *Builder) landing(s geom.Point) ([]dcel.FaceID, error) {
	f, err := b.d.LocateFace(s)
	if err == nil {
		return []dcel.FaceID{f}, nil
	}
	if !errors.Is(err, dcel.ErrPointOutsideDomain) {
		return nil, err
	}
	touching, terr := b.d.FacesTouching(s)
	if terr != nil {
		return nil, terr
	}
	if len(touching) == 0 {
		return nil, err
	}
	b.log.Debug("[insert] Site on an edge", zap.Any("site", s), zap.Any("faces", touching))
	return touching, nil
}

// inside reports whether s lies strictly within the frame.
func (b *Builder) inside(s geom.Point) bool {
	f := b.frame
	return s.X > f.MinX+b.tol && s.X < f.MaxX-b.tol && s.Y > f.MinY+b.tol && s.Y < f.MaxY-b.tol
}

func (b *Builder) check() error {
	if !b.validate {
		return nil
	}
	return errors.Wrap(b.d.Validate(), "diagram invalid after insertion")
}
