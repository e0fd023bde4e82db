package dcel

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/logger"
)

// New builds a subdivision from a connected planar graph given as vertex
// coordinates and undirected edges between vertex indices.
//
// Every undirected edge becomes a twin pair. Around each vertex the outgoing
// half-edges are ordered by angle and every incoming half-edge is linked to
// the next outgoing one clockwise, which puts each face on the left of its
// half-edges: finite faces wind counter-clockwise and the single enclosing
// cycle winds clockwise. That cycle becomes face 0.
func New(points []geom.Point, edges [][2]int, opts ...Option) (*DCEL, error) {
	d := &DCEL{tol: geom.Tolerance, log: logger.Nop()}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.checkInput(points, edges); err != nil {
		d.log.Debug("[dcel-new] Rejected input", zap.Error(err))
		return nil, err
	}

	for _, p := range points {
		d.vertices = append(d.vertices, vertexRecord{pos: p, out: NoHalfEdge, alive: true})
	}

	outgoing := make([][]HalfEdgeID, len(points))
	for _, e := range edges {
		h1 := HalfEdgeID(len(d.halfEdges))
		h2 := h1 + 1
		d.halfEdges = append(d.halfEdges,
			halfEdgeRecord{origin: VertexID(e[0]), twin: h2, next: NoHalfEdge, prev: NoHalfEdge, face: NoFace, alive: true},
			halfEdgeRecord{origin: VertexID(e[1]), twin: h1, next: NoHalfEdge, prev: NoHalfEdge, face: NoFace, alive: true},
		)
		outgoing[e[0]] = append(outgoing[e[0]], h1)
		outgoing[e[1]] = append(outgoing[e[1]], h2)
	}

	for v, outs := range outgoing {
		if len(outs) == 0 {
			return nil, malformed("vertex %d has degree 0", v)
		}
		o := d.vertices[v].pos
		angle := func(h HalfEdgeID) float64 {
			return geom.Angle(o, d.vertices[d.dest(h)].pos)
		}
		sort.SliceStable(outs, func(i, j int) bool { return angle(outs[i]) < angle(outs[j]) })

		k := len(outs)
		for i, h := range outs {
			in := d.halfEdges[h].twin
			nxt := outs[(i-1+k)%k]
			d.halfEdges[in].next = nxt
			d.halfEdges[nxt].prev = in
		}
		d.vertices[v].out = outs[0]
	}

	cycles, err := d.traceCycles()
	if err != nil {
		return nil, err
	}

	outerIdx := 0
	areas := make([]float64, len(cycles))
	for i, c := range cycles {
		pts := make([]geom.Point, len(c))
		for j, h := range c {
			pts[j] = d.vertices[d.halfEdges[h].origin].pos
		}
		areas[i] = geom.SignedArea(pts)
		if areas[i] < areas[outerIdx] {
			outerIdx = i
		}
	}
	for i, a := range areas {
		if i != outerIdx && a <= 0 {
			return nil, malformed("cycle %d is not a counter-clockwise face, edges cross or the graph is disconnected", i)
		}
	}

	// V - E + F = 2 holds only for a connected planar embedding
	if nv, ne, nf := len(points), len(edges), len(cycles); nv-ne+nf != 2 {
		return nil, malformed("couldn't identify faces correctly: V=%d E=%d F=%d", nv, ne, nf)
	}

	order := append([]int{outerIdx}, make([]int, 0, len(cycles)-1)...)
	for i := range cycles {
		if i != outerIdx {
			order = append(order, i)
		}
	}
	for _, ci := range order {
		f := FaceID(len(d.faces))
		d.faces = append(d.faces, faceRecord{anchor: cycles[ci][0], alive: true})
		for _, h := range cycles[ci] {
			d.halfEdges[h].face = f
		}
	}
	d.outer = 0

	for f := range d.faces {
		d.indexFace(FaceID(f))
	}
	for v := range d.vertices {
		d.indexVertex(VertexID(v))
	}

	d.log.Debug("[dcel-new] Built subdivision",
		zap.Int("vertices", len(d.vertices)),
		zap.Int("halfEdges", len(d.halfEdges)),
		zap.Int("faces", len(d.faces)))
	return d, nil
}

func (d *DCEL) checkInput(points []geom.Point, edges [][2]int) error {
	if len(edges) == 0 {
		return malformed("no edges")
	}
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return malformed("vertex %d has non-finite coordinates %v", i, p)
		}
		for j := 0; j < i; j++ {
			if geom.Equal(p, points[j], d.tol) {
				return malformed("vertices %d and %d coincide at %v", j, i, p)
			}
		}
	}

	seen := make(map[[2]int]bool, len(edges))
	for i, e := range edges {
		a, b := e[0], e[1]
		if a < 0 || a >= len(points) || b < 0 || b >= len(points) {
			return malformed("edge %d references a missing vertex (%d,%d)", i, a, b)
		}
		if a == b {
			return malformed("edge %d is a self loop on vertex %d", i, a)
		}
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if seen[key] {
			return malformed("edge %d duplicates (%d,%d)", i, a, b)
		}
		seen[key] = true
	}
	return nil
}

// traceCycles groups half-edges into next-cycles in id order.
func (d *DCEL) traceCycles() ([][]HalfEdgeID, error) {
	visited := make([]bool, len(d.halfEdges))
	var cycles [][]HalfEdgeID
	for start := range d.halfEdges {
		if visited[start] {
			continue
		}
		var cycle []HalfEdgeID
		h := HalfEdgeID(start)
		for {
			if h == NoHalfEdge || visited[h] {
				return nil, malformed("cycle from half-edge %d cannot be closed", start)
			}
			visited[h] = true
			cycle = append(cycle, h)
			h = d.halfEdges[h].next
			if h == HalfEdgeID(start) {
				break
			}
		}
		cycles = append(cycles, cycle)
	}
	return cycles, nil
}
