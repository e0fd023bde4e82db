// Package sitefile reads site coordinates for the diagram builder.
//
// Two formats are accepted: plain text with one "x y" pair per line, and
// WKT, where every coordinate of the geometry becomes a site.
package sitefile

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"

	sfgeom "github.com/peterstace/simplefeatures/geom"
	"github.com/pkg/errors"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
)

// ErrFormat reports unparsable input.
var ErrFormat = errors.New("bad site file")

// FrameHalfSize is the half width of the default frame around normalized
// sites.
const FrameHalfSize = 1.2

// DefaultFrame encloses the unit square sites are normalized into.
func DefaultFrame() geom.Box {
	return geom.NewBox(geom.Pt(-FrameHalfSize, -FrameHalfSize), geom.Pt(FrameHalfSize, FrameHalfSize))
}

// Read detects the format of r and parses it.
func Read(r io.Reader) ([]geom.Point, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading sites")
	}
	if looksLikeWKT(data) {
		return ReadWKT(bytes.NewReader(stripComments(data)))
	}
	return ReadText(bytes.NewReader(data))
}

func looksLikeWKT(data []byte) bool {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c := line[0]
		return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
	}
	return false
}

func stripComments(data []byte) []byte {
	var buf bytes.Buffer
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "#") {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// ReadText parses whitespace delimited rows of exactly two numbers. Blank
// lines and lines starting with # are skipped.
func ReadText(r io.Reader) ([]geom.Point, error) {
	var out []geom.Point
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Wrapf(ErrFormat, "line %d: want 2 coordinates, got %d", n, len(fields))
		}
		var xy [2]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Wrapf(ErrFormat, "line %d: %q is not a finite number", n, f)
			}
			xy[i] = v
		}
		out = append(out, geom.Pt(xy[0], xy[1]))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning sites")
	}
	return out, nil
}

// ReadWKT parses a single WKT geometry and returns its coordinates.
func ReadWKT(r io.Reader) ([]geom.Point, error) {
	g, err := sfgeom.UnmarshalWKTFromReader(r)
	if err != nil {
		return nil, errors.Wrapf(ErrFormat, "wkt: %v", err)
	}
	seq := g.DumpCoordinates()
	out := make([]geom.Point, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		out = append(out, geom.Pt(xy.X, xy.Y))
	}
	return out, nil
}

// Normalize scales each axis by its largest absolute value so every site
// lands in [-1, 1]. An axis that is all zeros is left alone.
func Normalize(points []geom.Point) []geom.Point {
	var mx, my float64
	for _, p := range points {
		mx = math.Max(mx, math.Abs(p.X))
		my = math.Max(my, math.Abs(p.Y))
	}
	out := make([]geom.Point, len(points))
	for i, p := range points {
		if mx > 0 {
			p.X /= mx
		}
		if my > 0 {
			p.Y /= my
		}
		out[i] = p
	}
	return out
}

// Dedup drops sites within tol of an earlier one, keeping the first.
func Dedup(points []geom.Point, tol float64) []geom.Point {
	var out []geom.Point
next:
	for _, p := range points {
		for _, q := range out {
			if geom.Equal(p, q, tol) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}
