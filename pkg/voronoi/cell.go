package voronoi

import (
	"github.com/pkg/errors"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/dcel"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
)

// Region is a finished cell: the site and the polygon it owns.
type Region struct {
	Site    geom.Point
	Face    dcel.FaceID
	Polygon []geom.Point
}

// Area is the signed area of the polygon, positive for a live cell.
func (r Region) Area() float64 {
	return geom.SignedArea(r.Polygon)
}

// Regions lists cells in site insertion order.
func (b *Builder) Regions() ([]Region, error) {
	out := make([]Region, 0, len(b.sites))
	for _, s := range b.sites {
		f, err := b.Cell(s)
		if err != nil {
			return nil, errors.Wrapf(err, "cell of %v", s)
		}
		poly, err := b.d.Polygon(f)
		if err != nil {
			return nil, err
		}
		out = append(out, Region{Site: s, Face: f, Polygon: poly})
	}
	return out, nil
}
