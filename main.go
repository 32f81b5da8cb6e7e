/*
Pathviz draws the path a grid-world agent took, as reconstructed from its move log,
over the grid it was moving through. The agent program prints lines like
"Moved to (x, y)" which are piped into pathviz alongside the grid csv the agent read:

	go run ./agent optimal input.csv | pathviz input.csv

The image shows walls, remaining dirt per cell, the path colored from start to end
with a direction arrow on each step, and how often revisited cells were entered.
It is purely a debugging aid: nothing is validated beyond what is needed to draw.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	"pathviz/config"
	"pathviz/grid_world"
	"pathviz/move_log"
	"pathviz/scene"
	"pathviz/views"
)

// errUsage is returned when the arguments cannot be run.
var errUsage = errors.New("usage: pathviz [flags] <grid csv> < moves.log")

type options struct {
	configPath string
	outDir     string
	seed       int64
	svg        bool
	debug      bool
	csvPath    string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("pathviz", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "render config yaml; defaults are used if empty")
	fs.StringVar(&opts.outDir, "out", "", "output directory, overrides the config")
	fs.Int64Var(&opts.seed, "seed", 0, "arrow placement seed, overrides the config; 0 keeps the config's, -1 seeds from the clock")
	fs.BoolVar(&opts.svg, "svg", false, "also write an svg")
	fs.BoolVar(&opts.debug, "debug", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, errUsage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errUsage
	}
	opts.csvPath = fs.Arg(0)
	return opts, nil
}

func loadConfig(opts *options) (cfg *config.RenderConfig, err error) {
	cfg = config.Default()
	if opts.configPath != "" {
		if cfg, err = config.FromYaml(opts.configPath); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if opts.outDir != "" {
		cfg.OutDir = opts.outDir
	}
	switch {
	case opts.seed < 0:
		cfg.Seed = 0
	case opts.seed > 0:
		cfg.Seed = opts.seed
	}
	if opts.svg {
		cfg.Formats = appendMissing(cfg.Formats, config.SVG)
	}
	return cfg, cfg.Validate()
}

func appendMissing(formats []string, format string) []string {
	for _, f := range formats {
		if f == format {
			return formats
		}
	}
	return append(formats, format)
}

// runApp reads the grid and the move log, then renders the path.
func runApp(ctx context.Context, opts *options, moves io.Reader) (paths []string, err error) {
	var cfg *config.RenderConfig
	if cfg, err = loadConfig(opts); err != nil {
		return
	}

	grid, state, err := grid_world.FromCsv(opts.csvPath)
	if err != nil {
		return
	}
	slog.Debug("read grid", "rows", grid.Rows(), "cols", grid.Cols(), "battery", state.Battery)

	var ml *move_log.MoveLog
	if ml, err = move_log.Read(moves); err != nil {
		return nil, fmt.Errorf("move log: %w", err)
	}
	slog.Debug("read moves", "steps", len(ml.Path), "cleaned", ml.TotalCleaned(), "outcome", ml.Outcome)

	seed := cfg.SeedOrNow()
	var sc *scene.Scene
	if sc, err = scene.Build(grid, state, ml, opts.csvPath, cfg, rand.New(rand.NewSource(seed))); err != nil {
		return
	}
	slog.Debug("built scene", "segments", len(sc.Segments), "seed", seed)

	return views.Render(ctx, sc, cfg)
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	paths, err := runApp(context.Background(), opts, os.Stdin)
	if err != nil {
		slog.Error("pathviz failed", "error", err)
		os.Exit(1)
	}
	for _, path := range paths {
		slog.Info("wrote image", "path", path)
	}
}
