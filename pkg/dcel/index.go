package dcel

import (
	"sort"

	"github.com/peterstace/simplefeatures/rtree"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
)

func toRTreeBox(b geom.Box) rtree.Box {
	return rtree.Box{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY}
}

func (d *DCEL) pointBox(p geom.Point) rtree.Box {
	return toRTreeBox(geom.NewBox(p, p).Expand(d.tol))
}

// indexFace refreshes the bounding box of a finite face.
func (d *DCEL) indexFace(f FaceID) {
	d.unindexFace(f)
	if f == d.outer || !d.faces[f].alive {
		return
	}
	pts, err := d.polygon(f)
	if err != nil {
		return
	}
	box := geom.BoundsOf(pts).Expand(d.tol)
	d.faceIndex.Insert(toRTreeBox(box), int(f))
	d.faces[f].box = box
	d.faces[f].indexed = true
}

func (d *DCEL) unindexFace(f FaceID) {
	r := &d.faces[f]
	if !r.indexed {
		return
	}
	d.faceIndex.Delete(toRTreeBox(r.box), int(f))
	r.indexed = false
}

func (d *DCEL) indexVertex(v VertexID) {
	d.vertexIndex.Insert(d.pointBox(d.vertices[v].pos), int(v))
}

func (d *DCEL) unindexVertex(v VertexID) {
	d.vertexIndex.Delete(d.pointBox(d.vertices[v].pos), int(v))
}

// candidateFaces lists indexed faces whose box holds p.
func (d *DCEL) candidateFaces(p geom.Point) []FaceID {
	var out []FaceID
	_ = d.faceIndex.RangeSearch(d.pointBox(p), func(id int) error {
		if d.faces[id].alive {
			out = append(out, FaceID(id))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
