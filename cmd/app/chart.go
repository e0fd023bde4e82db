package main

import (
	"encoding/json"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/dcel"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/voronoi"
)

func prepareScatter(scatter *charts.Scatter) {
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: "580px",
			Width:  "1020px",
		}),
		charts.WithLegendOpts(opts.Legend{
			TextStyle: &opts.TextStyle{
				Color: "white",
			},
			Right: "10%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:                "Диаграмма Вороного (DCEL)",
			TitleBackgroundColor: "white",
			Left:                 "10%",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "X",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Y",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "horizontal",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "vertical",
		}),
	)
}

// undirected keeps one half of every twin pair.
func undirected(g dcel.Graph) [][4]float64 {
	var out [][4]float64
	for _, s := range g.Segments {
		x2, y2 := s[0]+s[2], s[1]+s[3]
		if s[0] < x2 || (s[0] == x2 && s[1] < y2) {
			out = append(out, [4]float64{s[0], s[1], x2, y2})
		}
	}
	return out
}

// diagramToEcharts draws sites as a scatter and every edge as an
// overlapped line series.
func diagramToEcharts(b *voronoi.Builder) *charts.Scatter {
	scatter := charts.NewScatter()

	points := make([]opts.ScatterData, 0)
	for _, site := range b.Sites() {
		points = append(points, opts.ScatterData{
			Value: []float64{site.X, site.Y},
		})
	}

	prepareScatter(scatter)

	scatter.AddSeries("Сайты", points).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "lightgreen",
			}),
		)

	for _, edge := range undirected(b.Graph()) {
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(true)}),
			charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(true)}),
		)

		line.AddSeries("Границы", []opts.LineData{
			{Value: []float64{edge[0], edge[1]}},
			{Value: []float64{edge[2], edge[3]}},
		}).SetSeriesOptions(
			charts.WithLineStyleOpts(opts.LineStyle{
				Width: 2,
			}),
		)

		scatter.Overlap(line)
	}

	return scatter
}

type export struct {
	Sites [][2]float64 `json:"sites"`
	dcel.Graph
}

func writeExport(w io.Writer, b *voronoi.Builder) error {
	out := export{Sites: [][2]float64{}, Graph: b.Graph()}
	for _, s := range b.Sites() {
		out.Sites = append(out.Sites, [2]float64{s.X, s.Y})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
