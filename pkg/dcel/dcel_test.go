package dcel

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
)

func pts(xy ...float64) []geom.Point {
	out := make([]geom.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, geom.Pt(xy[i], xy[i+1]))
	}
	return out
}

func scenarioGraph(t *testing.T) *DCEL {
	t.Helper()
	d, err := New(
		pts(-7, 2, -4, 6, 2, 4, -3, 2, -1, 0, 5, -1),
		[][2]int{{0, 1}, {1, 2}, {2, 3}, {4, 3}, {5, 2}, {4, 5}, {0, 3}},
	)
	test.That(t, err, test.ShouldBeNil)
	return d
}

func square(t *testing.T, r float64) *DCEL {
	t.Helper()
	d, err := New(pts(-r, r, r, r, r, -r, -r, -r), [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	test.That(t, err, test.ShouldBeNil)
	return d
}

// four triangles around a center vertex at (0,0)
func pinwheel(t *testing.T) *DCEL {
	t.Helper()
	d, err := New(
		pts(-4, 4, 4, 4, 4, -4, -4, -4, 0, 0),
		[][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 0}, {4, 1}, {4, 2}, {4, 3}},
	)
	test.That(t, err, test.ShouldBeNil)
	return d
}

func grid(t *testing.T, n int) *DCEL {
	t.Helper()
	var vs []geom.Point
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			vs = append(vs, geom.Pt(float64(x), float64(y)))
		}
	}
	id := func(x, y int) int { return y*(n+1) + x }
	var es [][2]int
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			if x < n {
				es = append(es, [2]int{id(x, y), id(x+1, y)})
			}
			if y < n {
				es = append(es, [2]int{id(x, y), id(x, y+1)})
			}
		}
	}
	d, err := New(vs, es)
	test.That(t, err, test.ShouldBeNil)
	return d
}

func boundaryIDs(t *testing.T, d *DCEL, f FaceID) []HalfEdgeID {
	t.Helper()
	b, err := d.Boundary(f)
	test.That(t, err, test.ShouldBeNil)
	out := make([]HalfEdgeID, len(b))
	for i, e := range b {
		out[i] = e.HalfEdge
	}
	return out
}

func checkCycles(t *testing.T, d *DCEL) {
	t.Helper()
	test.That(t, d.Validate(), test.ShouldBeNil)
	for _, f := range d.Faces() {
		ids := boundaryIDs(t, d, f)
		for _, start := range ids {
			h := start
			for i := 0; i < len(ids); i++ {
				he, err := d.HalfEdge(h)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, he.Face, test.ShouldEqual, f)
				h = he.Next
				if i < len(ids)-1 {
					test.That(t, h, test.ShouldNotEqual, start)
				}
			}
			test.That(t, h, test.ShouldEqual, start)
		}
	}
}

func TestNewScenario(t *testing.T) {
	d := scenarioGraph(t)
	test.That(t, d.NumFaces(), test.ShouldEqual, 3)
	test.That(t, d.NumVertices(), test.ShouldEqual, 6)
	test.That(t, d.NumHalfEdges(), test.ShouldEqual, 14)

	f, err := d.Face(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.Outer, test.ShouldBeTrue)

	b, err := d.Boundary(0)
	test.That(t, err, test.ShouldBeNil)
	touched := map[VertexID]bool{}
	for _, e := range b {
		he, err := d.HalfEdge(e.HalfEdge)
		test.That(t, err, test.ShouldBeNil)
		touched[he.Origin] = true
		test.That(t, e.Line.Kind, test.ShouldEqual, geom.Segment)
	}
	test.That(t, touched, test.ShouldResemble, map[VertexID]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true})

	cw, err := d.IsCW(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cw, test.ShouldBeTrue)

	checkCycles(t, d)
}

func TestNewTwinNextInvariants(t *testing.T) {
	for name, d := range map[string]*DCEL{
		"scenario": scenarioGraph(t),
		"pinwheel": pinwheel(t),
		"grid":     grid(t, 3),
	} {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < len(d.halfEdges); i++ {
				e := HalfEdgeID(i)
				he, err := d.HalfEdge(e)
				test.That(t, err, test.ShouldBeNil)
				tw, _ := d.HalfEdge(he.Twin)
				test.That(t, tw.Twin, test.ShouldEqual, e)
				prev, _ := d.HalfEdge(he.Prev)
				test.That(t, prev.Next, test.ShouldEqual, e)
				next, _ := d.HalfEdge(he.Next)
				test.That(t, next.Prev, test.ShouldEqual, e)
			}
			checkCycles(t, d)
		})
	}
}

func TestNewMalformed(t *testing.T) {
	for _, tc := range []struct {
		name  string
		pts   []geom.Point
		edges [][2]int
	}{
		{"no edges", pts(0, 0, 1, 0), nil},
		{"degree zero", pts(0, 0, 1, 0, 0, 1, 5, 5), [][2]int{{0, 1}, {1, 2}, {2, 0}}},
		{"self loop", pts(0, 0, 1, 0), [][2]int{{0, 0}}},
		{"missing vertex", pts(0, 0, 1, 0), [][2]int{{0, 2}}},
		{"duplicate edge", pts(0, 0, 1, 0, 0, 1), [][2]int{{0, 1}, {1, 2}, {2, 0}, {1, 0}}},
		{"coincident vertices", pts(0, 0, 1, 0, 0, 0), [][2]int{{0, 1}, {1, 2}}},
		{
			"disconnected",
			pts(0, 0, 1, 0, 0, 1, 5, 5, 6, 5, 5, 6),
			[][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, err := New(tc.pts, tc.edges)
			test.That(t, d, test.ShouldBeNil)
			test.That(t, errors.Is(err, ErrMalformedInputGraph), test.ShouldBeTrue)
		})
	}
}

func TestTree(t *testing.T) {
	d, err := New(pts(0, 0, 1, 0, 2, 1), [][2]int{{0, 1}, {1, 2}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.NumFaces(), test.ShouldEqual, 1)
	_, err = d.LocateFace(geom.Pt(1, 0.2))
	test.That(t, errors.Is(err, ErrPointOutsideDomain), test.ShouldBeTrue)
}

func TestLocateFace(t *testing.T) {
	d := scenarioGraph(t)

	f, err := d.LocateFace(geom.Pt(-3.26, 3.88))
	test.That(t, err, test.ShouldBeNil)
	poly, _ := d.Polygon(f)
	test.That(t, geom.Contains(poly, geom.Pt(-3.26, 3.88), geom.Tolerance), test.ShouldEqual, geom.Inside)

	g, err := d.LocateFace(geom.Pt(1.58, 1.19))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldNotEqual, f)

	_, err = d.LocateFace(geom.Pt(3.01, 6.75))
	test.That(t, errors.Is(err, ErrPointOutsideDomain), test.ShouldBeTrue)

	// on the shared edge 2-3
	_, err = d.LocateFace(geom.Pt(-0.5, 3))
	test.That(t, errors.Is(err, ErrPointOutsideDomain), test.ShouldBeTrue)

	touching, err := d.FacesTouching(geom.Pt(-0.5, 3))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, touching, test.ShouldHaveLength, 2)
}

func TestLocateFaceBruteForce(t *testing.T) {
	d := grid(t, 4)
	rnd := rand.New(rand.NewSource(0))
	for i := 0; i < 500; i++ {
		p := geom.Pt(rnd.Float64()*5-0.5, rnd.Float64()*5-0.5)

		want := NoFace
		on := false
		for _, c := range d.Cells() {
			switch geom.Contains(c.Polygon, p, geom.Tolerance) {
			case geom.Inside:
				want = c.Face
			case geom.OnBoundary:
				on = true
			}
		}
		if on {
			continue
		}

		got, err := d.LocateFace(p)
		if want == NoFace {
			test.That(t, errors.Is(err, ErrPointOutsideDomain), test.ShouldBeTrue)
			continue
		}
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, want)
	}
}

func TestSplitEdgeIdempotent(t *testing.T) {
	d := square(t, 4)
	e := boundaryIDs(t, d, 1)[0]
	line, err := d.Line(e)
	test.That(t, err, test.ShouldBeNil)
	mid := line.At(0.25)

	v1, err := d.SplitEdge(mid, e)
	test.That(t, err, test.ShouldBeNil)
	nv, nh := d.NumVertices(), d.NumHalfEdges()
	test.That(t, nv, test.ShouldEqual, 5)
	test.That(t, nh, test.ShouldEqual, 10)

	v2, err := d.SplitEdge(mid, e)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v2, test.ShouldEqual, v1)
	test.That(t, d.NumVertices(), test.ShouldEqual, nv)
	test.That(t, d.NumHalfEdges(), test.ShouldEqual, nh)

	// from the other side of the same edge
	he, _ := d.HalfEdge(e)
	v3, err := d.SplitEdge(mid, he.Twin)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v3, test.ShouldEqual, v1)

	found, ok := d.IsVertexAt(mid)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, found, test.ShouldEqual, v1)

	test.That(t, boundaryIDs(t, d, 1), test.ShouldHaveLength, 5)
	test.That(t, boundaryIDs(t, d, 0), test.ShouldHaveLength, 5)
	checkCycles(t, d)
}

func TestSplitEdgeEndpointAndOffEdge(t *testing.T) {
	d := square(t, 4)
	e := boundaryIDs(t, d, 1)[0]
	he, _ := d.HalfEdge(e)
	origin, _ := d.Vertex(he.Origin)

	v, err := d.SplitEdge(origin.Pos.Add(geom.Pt(1e-12, 0)), e)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, he.Origin)

	_, err = d.SplitEdge(geom.Pt(0, 0), e)
	test.That(t, errors.Is(err, ErrPointNotOnEdge), test.ShouldBeTrue)
	test.That(t, d.NumVertices(), test.ShouldEqual, 4)

	_, err = d.SplitEdge(geom.Pt(0, 0), 99)
	test.That(t, errors.Is(err, ErrUnknownHandle), test.ShouldBeTrue)
}

func TestSplitFace(t *testing.T) {
	d := square(t, 4)
	test.That(t, d.SetSite(1, geom.Pt(0, 0)), test.ShouldBeNil)
	before := boundaryIDs(t, d, 1)

	g, n1, err := d.SplitFace(1, 0, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.NumFaces(), test.ShouldEqual, 3)

	he, _ := d.HalfEdge(n1)
	test.That(t, he.Origin, test.ShouldEqual, VertexID(0))
	test.That(t, he.Face, test.ShouldEqual, g)

	// every original edge lands on exactly one side
	var after []HalfEdgeID
	for _, h := range append(boundaryIDs(t, d, 1), boundaryIDs(t, d, g)...) {
		if h != n1 && h != he.Twin {
			after = append(after, h)
		}
	}
	sort.Slice(before, func(i, j int) bool { return before[i] < before[j] })
	sort.Slice(after, func(i, j int) bool { return after[i] < after[j] })
	test.That(t, after, test.ShouldResemble, before)

	site, ok, err := d.Site(g)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, site, test.ShouldResemble, geom.Pt(0, 0))

	checkCycles(t, d)
}

func TestSplitFaceRejects(t *testing.T) {
	d := scenarioGraph(t)
	f, err := d.LocateFace(geom.Pt(-3.26, 3.88))
	test.That(t, err, test.ShouldBeNil)
	nf, nh := d.NumFaces(), d.NumHalfEdges()

	for _, tc := range []struct {
		name string
		a, b VertexID
	}{
		{"same vertex", 0, 0},
		{"adjacent", 0, 1},
		{"not on boundary", 0, 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := d.SplitFace(f, tc.a, tc.b)
			test.That(t, errors.Is(err, ErrMalformedInputGraph), test.ShouldBeTrue)
			test.That(t, d.NumFaces(), test.ShouldEqual, nf)
			test.That(t, d.NumHalfEdges(), test.ShouldEqual, nh)
		})
	}
	checkCycles(t, d)
}

func TestSplitOuterFace(t *testing.T) {
	d, err := New(pts(0, 0, 1, 0, 1, 1), [][2]int{{0, 1}, {1, 2}})
	test.That(t, err, test.ShouldBeNil)

	g, _, err := d.SplitFace(0, 2, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.OuterFace(), test.ShouldEqual, FaceID(0))
	loc, err := d.LocateFace(geom.Pt(0.7, 0.3))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loc, test.ShouldEqual, g)
	checkCycles(t, d)
}

func TestStepOverEdgeAndEquality(t *testing.T) {
	d := pinwheel(t)
	top, err := d.LocateFace(geom.Pt(0, 3))
	test.That(t, err, test.ShouldBeNil)
	right, err := d.LocateFace(geom.Pt(3, 0))
	test.That(t, err, test.ShouldBeNil)

	crossed := map[FaceID]HalfEdgeID{}
	for _, e := range boundaryIDs(t, d, top) {
		n, err := d.StepOverEdge(top, e)
		test.That(t, err, test.ShouldBeNil)
		crossed[n] = e

		back, err := d.StepOverEdge(n, e)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, back, test.ShouldEqual, top)
	}
	test.That(t, crossed, test.ShouldHaveLength, 3)
	test.That(t, crossed, test.ShouldContainKey, right)
	frameEdge, ok := crossed[d.OuterFace()]
	test.That(t, ok, test.ShouldBeTrue)

	_, err = d.StepOverEdge(right, frameEdge)
	test.That(t, errors.Is(err, ErrMalformedInputGraph), test.ShouldBeTrue)

	test.That(t, d.FacesEqual(top, top), test.ShouldBeTrue)
	test.That(t, d.FacesEqual(top, right), test.ShouldBeFalse)
	test.That(t, d.FacesEqual(top, 42), test.ShouldBeFalse)

	sig, err := d.Signature(top)
	test.That(t, err, test.ShouldBeNil)
	e := boundaryIDs(t, d, top)[0]
	line, _ := d.Line(e)
	_, err = d.SplitEdge(line.At(0.5), e)
	test.That(t, err, test.ShouldBeNil)
	sig2, err := d.Signature(top)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sig2, test.ShouldNotEqual, sig)
}

// cutCorners carves the square (-2,-2)..(2,2) around the pinwheel center and
// returns the four new chords.
func cutCorners(t *testing.T, d *DCEL) []HalfEdgeID {
	t.Helper()
	lines := []geom.Line{
		geom.NewLine(geom.Pt(-1, 2), geom.Pt(1, 0), geom.Full),
		geom.NewLine(geom.Pt(2, 1), geom.Pt(0, 1), geom.Full),
		geom.NewLine(geom.Pt(1, -2), geom.Pt(1, 0), geom.Full),
		geom.NewLine(geom.Pt(-2, -1), geom.Pt(0, 1), geom.Full),
	}
	var chords []HalfEdgeID
	for _, l := range lines {
		f, err := d.LocateFace(l.Origin)
		test.That(t, err, test.ShouldBeNil)
		b, err := d.Boundary(f)
		test.That(t, err, test.ShouldBeNil)

		var join []VertexID
		var seen []geom.Point
	edges:
		for _, e := range b {
			p, ok := geom.Intersect(l, e.Line)
			if !ok {
				continue
			}
			for _, q := range seen {
				if geom.Equal(p, q, geom.Tolerance) {
					continue edges
				}
			}
			seen = append(seen, p)
			v, err := d.SplitEdge(p, e.HalfEdge)
			test.That(t, err, test.ShouldBeNil)
			join = append(join, v)
		}
		test.That(t, join, test.ShouldHaveLength, 2)
		_, chord, err := d.SplitFace(f, join[0], join[1])
		test.That(t, err, test.ShouldBeNil)
		chords = append(chords, chord)
	}
	return chords
}

func TestDeleteInterior(t *testing.T) {
	d := pinwheel(t)
	chords := cutCorners(t, d)
	test.That(t, d.NumFaces(), test.ShouldEqual, 9)
	checkCycles(t, d)

	hint, err := d.LocateFace(geom.Pt(0.1, 0.5))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.SetSite(hint, geom.Pt(0.1, 0.5)), test.ShouldBeNil)

	f, err := d.DeleteInterior(chords, hint)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.NumFaces(), test.ShouldEqual, 6)
	test.That(t, boundaryIDs(t, d, f), test.ShouldHaveLength, 4)

	poly, _ := d.Polygon(f)
	test.That(t, geom.SignedArea(poly), test.ShouldAlmostEqual, 16.0)

	site, ok, _ := d.Site(f)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, site, test.ShouldResemble, geom.Pt(0.1, 0.5))

	// center vertex and the old faces are tombstoned, not dangling
	_, err = d.Vertex(4)
	test.That(t, errors.Is(err, ErrRemoved), test.ShouldBeTrue)
	_, err = d.Face(hint)
	test.That(t, errors.Is(err, ErrRemoved), test.ShouldBeTrue)
	_, ok = d.IsVertexAt(geom.Pt(0, 0))
	test.That(t, ok, test.ShouldBeFalse)

	loc, err := d.LocateFace(geom.Pt(-0.7, -1.2))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loc, test.ShouldEqual, f)

	checkCycles(t, d)
}

func TestDeleteInteriorAtPoint(t *testing.T) {
	d := pinwheel(t)
	chords := cutCorners(t, d)
	f, err := d.DeleteInteriorAt(chords, geom.Pt(0.3, -0.9))
	test.That(t, err, test.ShouldBeNil)
	loc, err := d.LocateFace(geom.Pt(1.5, 1.5))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loc, test.ShouldEqual, f)
	checkCycles(t, d)
}

func TestDeleteInteriorOpenBoundary(t *testing.T) {
	d := pinwheel(t)
	chords := cutCorners(t, d)
	nf, nh, nv := d.NumFaces(), d.NumHalfEdges(), d.NumVertices()

	hint, err := d.LocateFace(geom.Pt(0.1, 0.5))
	test.That(t, err, test.ShouldBeNil)

	_, err = d.DeleteInterior(chords[:3], hint)
	test.That(t, errors.Is(err, ErrMalformedInputGraph), test.ShouldBeTrue)
	test.That(t, d.NumFaces(), test.ShouldEqual, nf)
	test.That(t, d.NumHalfEdges(), test.ShouldEqual, nh)
	test.That(t, d.NumVertices(), test.ShouldEqual, nv)

	_, err = d.DeleteInterior(chords, d.OuterFace())
	test.That(t, errors.Is(err, ErrMalformedInputGraph), test.ShouldBeTrue)

	checkCycles(t, d)
}

func TestDeleteInteriorAgainstFrame(t *testing.T) {
	d := square(t, 4)
	var join []VertexID
	for _, be := range mustBoundary(t, d, 1) {
		if p, ok := geom.Intersect(geom.NewLine(geom.Pt(0, 0), geom.Pt(0, 1), geom.Full), be.Line); ok {
			v, err := d.SplitEdge(p, be.HalfEdge)
			test.That(t, err, test.ShouldBeNil)
			join = append(join, v)
		}
	}
	test.That(t, join, test.ShouldHaveLength, 2)
	_, chord, err := d.SplitFace(1, join[0], join[1])
	test.That(t, err, test.ShouldBeNil)

	left, err := d.LocateFace(geom.Pt(-1, 0))
	test.That(t, err, test.ShouldBeNil)
	f, err := d.DeleteInterior([]HalfEdgeID{chord}, left)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.FaceAlive(left), test.ShouldBeFalse)
	test.That(t, d.NumFaces(), test.ShouldEqual, 3)

	poly, _ := d.Polygon(f)
	test.That(t, geom.SignedArea(poly), test.ShouldAlmostEqual, 32.0)
	loc, err := d.LocateFace(geom.Pt(-3, 3))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loc, test.ShouldEqual, f)
	checkCycles(t, d)
}

func mustBoundary(t *testing.T, d *DCEL, f FaceID) []BoundaryEdge {
	t.Helper()
	b, err := d.Boundary(f)
	test.That(t, err, test.ShouldBeNil)
	return b
}

func TestSortAround(t *testing.T) {
	d := pinwheel(t)
	chords := cutCorners(t, d)
	ref := geom.Pt(0.2, 0.1)

	// scrambled input, both sides mixed in
	in := []HalfEdgeID{chords[2], chords[0], chords[3], chords[1]}
	he, _ := d.HalfEdge(chords[1])
	in[3] = he.Twin

	sorted, err := d.SortAround(in, ref, d.OuterFace())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sorted, test.ShouldHaveLength, 4)
	for _, e := range sorted {
		l, _ := d.Line(e)
		test.That(t, geom.LeftOf(ref, l.Origin, l.End()), test.ShouldBeTrue)
	}

	again, err := d.SortAround(sorted, ref, d.OuterFace())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again, test.ShouldResemble, sorted)

	dup, err := d.SortAround(append(sorted, sorted[0]), ref, d.OuterFace())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dup, test.ShouldResemble, sorted)

	// the frame seen from outside points at the outer face
	frame := boundaryIDs(t, d, d.OuterFace())
	_, err = d.SortAround(frame, geom.Pt(10, 0), d.OuterFace())
	test.That(t, errors.Is(err, ErrMalformedInputGraph), test.ShouldBeTrue)
}

func TestGraphExport(t *testing.T) {
	d := pinwheel(t)
	chords := cutCorners(t, d)
	_, err := d.DeleteInteriorAt(chords, geom.Pt(0.3, -0.9))
	test.That(t, err, test.ShouldBeNil)

	g := d.Graph()
	test.That(t, g.Vertices, test.ShouldHaveLength, d.NumVertices())
	test.That(t, g.Segments, test.ShouldHaveLength, d.NumHalfEdges())
	for _, v := range g.Vertices {
		test.That(t, v, test.ShouldNotResemble, [2]float64{0, 0})
	}
	test.That(t, d.Cells(), test.ShouldHaveLength, d.NumFaces()-1)
}

func TestValidateCatchesCorruption(t *testing.T) {
	d := square(t, 1)
	e := boundaryIDs(t, d, 1)[0]
	d.halfEdges[e].face = 0
	test.That(t, d.Validate(), test.ShouldNotBeNil)
}

func TestHandleAccessors(t *testing.T) {
	d := square(t, 2)
	e := boundaryIDs(t, d, 1)[0]

	tw, err := d.Twin(e)
	test.That(t, err, test.ShouldBeNil)
	o, _ := d.Origin(e)
	dst, _ := d.Dest(tw)
	test.That(t, dst, test.ShouldEqual, o)

	n, _ := d.Next(e)
	p, _ := d.Prev(n)
	test.That(t, p, test.ShouldEqual, e)

	f, _ := d.IncidentFace(e)
	test.That(t, f, test.ShouldEqual, FaceID(1))
	of, _ := d.IncidentFace(tw)
	test.That(t, of, test.ShouldEqual, d.OuterFace())

	_, err = d.Next(-3)
	test.That(t, errors.Is(err, ErrUnknownHandle), test.ShouldBeTrue)
	_, err = d.Face(7)
	test.That(t, errors.Is(err, ErrUnknownHandle), test.ShouldBeTrue)
	test.That(t, d.FaceAlive(1), test.ShouldBeTrue)
	test.That(t, d.VertexAlive(9), test.ShouldBeFalse)
}

func TestEnclosedFaces(t *testing.T) {
	d := pinwheel(t)
	chords := cutCorners(t, d)
	hint, err := d.LocateFace(geom.Pt(0.1, 0.5))
	test.That(t, err, test.ShouldBeNil)

	faces, err := d.EnclosedFaces(chords, hint)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, faces, test.ShouldHaveLength, 4)
	test.That(t, faces[0], test.ShouldEqual, hint)
	test.That(t, d.NumFaces(), test.ShouldEqual, 9)

	_, err = d.EnclosedFaces(chords, d.OuterFace())
	test.That(t, errors.Is(err, ErrMalformedInputGraph), test.ShouldBeTrue)
	_, err = d.EnclosedFaces(nil, hint)
	test.That(t, errors.Is(err, ErrMalformedInputGraph), test.ShouldBeTrue)
}

func TestCheckpointRollback(t *testing.T) {
	d := pinwheel(t)
	before := d.Graph()
	center, err := d.LocateFace(geom.Pt(0.1, 0.5))
	test.That(t, err, test.ShouldBeNil)

	cp := d.Checkpoint()
	chords := cutCorners(t, d)
	_, err = d.DeleteInteriorAt(chords, geom.Pt(0.3, -0.9))
	test.That(t, err, test.ShouldBeNil)

	d.Rollback(cp)
	test.That(t, d.Graph(), test.ShouldResemble, before)
	test.That(t, d.NumFaces(), test.ShouldEqual, 5)
	checkCycles(t, d)

	// both indexes follow the restored records
	loc, err := d.LocateFace(geom.Pt(0.1, 0.5))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loc, test.ShouldEqual, center)
	_, ok := d.IsVertexAt(geom.Pt(0, 0))
	test.That(t, ok, test.ShouldBeTrue)
	_, ok = d.IsVertexAt(geom.Pt(2, 2))
	test.That(t, ok, test.ShouldBeFalse)

	cutCorners(t, d)
	test.That(t, d.NumFaces(), test.ShouldEqual, 9)
	checkCycles(t, d)
}
