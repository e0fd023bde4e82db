package main

import (
	"bytes"
	"html/template"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/logger"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/voronoi"
	"github.com/0x0FACED/go-dcel-voronoi/static"
)

// sites are kept off the frame by this share of each side
const margin = 0.02

func generateRandSites(rnd *rand.Rand, n int, width, height int) []geom.Point {
	sites := make([]geom.Point, n)
	for i := 0; i < n; i++ {
		sites[i] = geom.Pt(
			(margin+(1-2*margin)*rnd.Float64())*float64(width),
			(margin+(1-2*margin)*rnd.Float64())*float64(height),
		)
	}
	return sites
}

func generateFixSites(n int, width, height int) []geom.Point {
	if n <= 0 {
		return nil
	}
	sites := make([]geom.Point, 0, n)

	rows := int(math.Sqrt(float64(n)))
	cols := (n + rows - 1) / rows

	xStep := float64(width) / float64(cols)
	yStep := float64(height) / float64(rows)

	for i := 0; i < rows && len(sites) < n; i++ {
		for j := 0; j < cols && len(sites) < n; j++ {
			sites = append(sites, geom.Pt(xStep/2+float64(j)*xStep, yStep/2+float64(i)*yStep))
		}
	}
	return sites
}

type pageParams struct {
	width, height, sites int
	random               bool
	seed                 int64
	// zero keeps the global flag
	tolerance float64
	validate  bool
}

func parseParams(r *http.Request) pageParams {
	p := pageParams{width: 1000, height: 1000, sites: 12}
	if r.Method != http.MethodPost {
		return p
	}
	if err := r.ParseForm(); err != nil {
		return p
	}
	if v, err := strconv.Atoi(r.FormValue("width")); err == nil && v > 0 {
		p.width = v
	}
	if v, err := strconv.Atoi(r.FormValue("height")); err == nil && v > 0 {
		p.height = v
	}
	if v, err := strconv.Atoi(r.FormValue("stations")); err == nil && v >= 0 {
		p.sites = v
	}
	if v, err := strconv.ParseInt(r.FormValue("seed"), 10, 64); err == nil {
		p.seed = v
	}
	if v, err := strconv.ParseFloat(r.FormValue("tolerance"), 64); err == nil && v > 0 {
		p.tolerance = v
	}
	p.random = r.FormValue("random") == "true"
	p.validate = r.FormValue("validate") == "true"
	return p
}

// request merges the form values into the global flags.
func (cfg appConfig) request(p pageParams) appConfig {
	if p.tolerance > 0 {
		cfg.tolerance = p.tolerance
	}
	cfg.validate = cfg.validate || p.validate
	return cfg
}

// diagramHandler builds a diagram for the form values and writes the chart
// next to the logs of the build.
func diagramHandler(global appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := parseParams(r)
		cfg := global.request(p)

		var sites []geom.Point
		if p.random {
			seed := p.seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			sites = generateRandSites(rand.New(rand.NewSource(seed)), p.sites, p.width, p.height)
		} else {
			sites = generateFixSites(p.sites, p.width, p.height)
		}

		log := cfg.newLogger(logger.WithCapture())
		defer log.Reset()

		frame := geom.NewBox(geom.Pt(0, 0), geom.Pt(float64(p.width), float64(p.height)))
		b, err := voronoi.NewBuilder(frame, log, cfg.builderOptions()...)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		start := time.Now()
		skipped := 0
		if err := b.InsertAll(sites); err != nil {
			skipped = len(multierr.Errors(err))
			log.Warn("[app] Some sites were skipped", zap.Int("skipped", skipped), zap.Error(err))
		}
		took := time.Since(start)
		log.Info("[app] Diagram built", zap.Int("sites", len(b.Sites())), zap.Duration("took", took))

		var chart bytes.Buffer
		if err := diagramToEcharts(b).Render(&chart); err != nil {
			log.Error("[app] Chart rendering failed", zap.Error(err))
		}

		d := b.Diagram()
		pg := static.Page{
			Form: static.Form{
				Width: p.width, Height: p.height, Sites: p.sites,
				Random: p.random, Seed: p.seed,
				Tolerance: cfg.tolerance, Validate: cfg.validate,
			},
			Summary: static.Summary{
				Sites:     len(b.Sites()),
				Skipped:   skipped,
				Cells:     d.NumFaces() - 1,
				Vertices:  d.NumVertices(),
				HalfEdges: d.NumHalfEdges(),
				Took:      took.String(),
			},
			Chart: template.HTML(chart.String()),
			Logs:  template.HTML(log.HTML()),
		}
		if err := static.Render(w, pg); err != nil {
			log.Error("[app] Page rendering failed", zap.Error(err))
		}
	}
}

func serveAction(c *cli.Context) error {
	cfg := configFrom(c)
	log := cfg.newLogger()
	defer log.Sync()

	addr := c.String(flagAddr)
	mux := http.NewServeMux()
	mux.HandleFunc("/", diagramHandler(cfg))

	log.Info("[app] Server started", zap.String("addr", addr))
	return http.ListenAndServe(addr, mux)
}
