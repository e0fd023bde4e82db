// Package main is the diagram driver: an HTTP page for generated sites and
// file based render and export commands.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/0x0FACED/go-dcel-voronoi/pkg/geom"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/logger"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/sitefile"
	"github.com/0x0FACED/go-dcel-voronoi/pkg/voronoi"
)

const (
	flagAddr        = "addr"
	flagSites       = "sites"
	flagOut         = "out"
	flagNoNormalize = "no-normalize"
	flagTolerance   = "tolerance"
	flagDebug       = "debug"
	flagValidate    = "validate"
)

func main() {
	app := &cli.App{
		Name:  "voronoi",
		Usage: "build Voronoi diagrams by incremental insertion",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:    flagTolerance,
				Value:   geom.Tolerance,
				Usage:   "epsilon for point identity",
				EnvVars: []string{"VORONOI_TOLERANCE"},
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  flagValidate,
				Usage: "check every invariant after each insertion",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve the interactive page",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    flagAddr,
						Value:   ":8080",
						Usage:   "listen address",
						EnvVars: []string{"VORONOI_ADDR"},
					},
				},
				Action: serveAction,
			},
			{
				Name:      "render",
				Usage:     "render a site file to an HTML chart",
				ArgsUsage: "--sites FILE --out FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagSites, Required: true, Usage: "site file, text or WKT"},
					&cli.StringFlag{Name: flagOut, Value: "voronoi.html", Usage: "write chart to `FILE`"},
					&cli.BoolFlag{Name: flagNoNormalize, Usage: "keep raw coordinates"},
				},
				Action: renderAction,
			},
			{
				Name:  "export",
				Usage: "print the diagram of a site file as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagSites, Required: true, Usage: "site file, text or WKT"},
					&cli.BoolFlag{Name: flagNoNormalize, Usage: "keep raw coordinates"},
				},
				Action: exportAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// appConfig holds the global flags.
type appConfig struct {
	tolerance float64
	debug     bool
	validate  bool
}

func configFrom(c *cli.Context) appConfig {
	return appConfig{
		tolerance: c.Float64(flagTolerance),
		debug:     c.Bool(flagDebug),
		validate:  c.Bool(flagValidate),
	}
}

func (cfg appConfig) newLogger(opts ...logger.Option) *logger.ZapLogger {
	level := zapcore.InfoLevel
	if cfg.debug {
		level = zapcore.DebugLevel
	}
	return logger.New(append([]logger.Option{logger.WithLevel(level)}, opts...)...)
}

func (cfg appConfig) builderOptions() []voronoi.Option {
	return []voronoi.Option{
		voronoi.WithTolerance(cfg.tolerance),
		voronoi.WithValidation(cfg.validate),
	}
}

// buildFromFile reads sites and builds their diagram in the default frame,
// or in a frame around the raw sites when normalization is off.
func (cfg appConfig) buildFromFile(path string, normalize bool, log *logger.ZapLogger) (*voronoi.Builder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening site file")
	}
	defer f.Close()

	sites, err := sitefile.Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(sites) == 0 {
		return nil, errors.Errorf("%s holds no sites", path)
	}

	frame := sitefile.DefaultFrame()
	if normalize {
		sites = sitefile.Normalize(sites)
	} else {
		frame = rawFrame(sites)
	}
	sites = sitefile.Dedup(sites, cfg.tolerance)

	b, err := voronoi.NewBuilder(frame, log, cfg.builderOptions()...)
	if err != nil {
		return nil, err
	}
	if err := b.InsertAll(sites); err != nil {
		log.Warn("[app] Some sites were skipped", zap.Error(err))
	}
	return b, nil
}

// rawFrame pads the site bounds by a fifth of their larger side.
func rawFrame(sites []geom.Point) geom.Box {
	box := geom.BoundsOf(sites)
	pad := 0.2 * max(box.MaxX-box.MinX, box.MaxY-box.MinY)
	if pad == 0 {
		pad = 1
	}
	return box.Expand(pad)
}

func renderAction(c *cli.Context) error {
	cfg := configFrom(c)
	log := cfg.newLogger()
	defer log.Sync()

	b, err := cfg.buildFromFile(c.String(flagSites), !c.Bool(flagNoNormalize), log)
	if err != nil {
		return err
	}

	out, err := os.Create(c.String(flagOut))
	if err != nil {
		return errors.Wrap(err, "creating chart file")
	}
	defer out.Close()

	if err := diagramToEcharts(b).Render(out); err != nil {
		return errors.Wrap(err, "rendering chart")
	}
	log.Info("[app] Chart written", zap.String("file", c.String(flagOut)), zap.Int("sites", len(b.Sites())))
	return nil
}

func exportAction(c *cli.Context) error {
	cfg := configFrom(c)
	log := cfg.newLogger()
	defer log.Sync()

	b, err := cfg.buildFromFile(c.String(flagSites), !c.Bool(flagNoNormalize), log)
	if err != nil {
		return err
	}
	return writeExport(c.App.Writer, b)
}
