package dcel

import "github.com/0x0FACED/go-dcel-voronoi/pkg/geom"

// Graph is the flattened structure handed to renderers.
type Graph struct {
	// Vertices holds live vertex coordinates.
	Vertices [][2]float64 `json:"vertices"`
	// Segments holds every live half-edge as (x, y, dx, dy) from its origin.
	Segments [][4]float64 `json:"segments"`
}

// Graph exports live vertices and directed half-edges in id order.
func (d *DCEL) Graph() Graph {
	g := Graph{Vertices: [][2]float64{}, Segments: [][4]float64{}}
	for _, v := range d.vertices {
		if v.alive {
			g.Vertices = append(g.Vertices, [2]float64{v.pos.X, v.pos.Y})
		}
	}
	for i, e := range d.halfEdges {
		if e.alive {
			g.Segments = append(g.Segments, d.line(HalfEdgeID(i)).Drawable())
		}
	}
	return g
}

// Cell is a finite face with its polygon and owning site.
type Cell struct {
	Face    FaceID
	Polygon []geom.Point
	Site    geom.Point
	HasSite bool
}

// Cells lists every live finite face.
func (d *DCEL) Cells() []Cell {
	var out []Cell
	for _, f := range d.Faces() {
		if f == d.outer {
			continue
		}
		pts, err := d.polygon(f)
		if err != nil {
			continue
		}
		r := d.faces[f]
		out = append(out, Cell{Face: f, Polygon: pts, Site: r.site, HasSite: r.hasSite})
	}
	return out
}
