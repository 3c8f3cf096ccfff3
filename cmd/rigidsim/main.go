// Command rigidsim steps block format scenes headlessly and prints their final
// state in the same format.
//
//	rigidsim -config run.yaml
//	rigidsim -steps 120 -dt 0.016 scene1.txt scene2.txt
//
// Each scene gets its own world and its own goroutine.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jakecoffman/rigid"
	"github.com/jakecoffman/rigid/blockfmt"
	"github.com/jakecoffman/rigid/config"
	"github.com/jakecoffman/rigid/logging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		configPath string
		steps      int
		dt         float64
		logLevel   string
		broadPhase string
	)

	flag.StringVar(&configPath, "config", "", "YAML run configuration")
	flag.IntVar(&steps, "steps", -1, "number of steps (overrides config)")
	flag.Float64Var(&dt, "dt", 0, "step in seconds (overrides config)")
	flag.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	flag.StringVar(&broadPhase, "broad-phase", "", "quadtree or bruteforce (overrides config)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [SCENE...]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if steps >= 0 {
		cfg.Steps = steps
	}
	if dt != 0 {
		cfg.Dt = dt
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if broadPhase != "" {
		cfg.BroadPhase = broadPhase
	}
	if flag.NArg() > 0 {
		cfg.Scenes = flag.Args()
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger, os.Stdout); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	if len(cfg.Scenes) == 0 {
		return errors.New("no scenes given")
	}

	results := make([]string, len(cfg.Scenes))
	g, ctx := errgroup.WithContext(ctx)

	for i, path := range cfg.Scenes {
		i, path := i, path
		g.Go(func() error {
			state, err := simulateScene(ctx, cfg, logger.With(zap.String("scene", path)), path)
			if err != nil {
				return errors.Wrapf(err, "scene %s", path)
			}
			results[i] = state
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range cfg.Scenes {
		if _, err := fmt.Fprintf(out, "# %s\n%s", path, results[i]); err != nil {
			return errors.Wrap(err, "writing results")
		}
	}
	return nil
}

func simulateScene(ctx context.Context, cfg *config.Config, logger *zap.Logger, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening scene")
	}
	defer f.Close()

	scene, err := blockfmt.Decode(f)
	if err != nil {
		return "", err
	}

	world := rigid.NewWorld(
		rigid.WithSettings(cfg.Settings()),
		rigid.WithSpatialIndex(cfg.SpatialIndex()),
		rigid.WithLogger(logger),
	)
	if err := scene.Populate(world); err != nil {
		return "", err
	}

	logger.Info("scene loaded",
		zap.Int("bodies", len(scene.Bodies)),
		zap.Int("constraints", len(scene.Constraints)),
	)

	var collisions int
	for step := 0; step < cfg.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		world.Simulate(cfg.Dt)
		collisions += world.Stats().Collisions
	}

	logger.Info("scene done",
		zap.Int("steps", cfg.Steps),
		zap.Int("collisions", collisions),
	)

	var sb strings.Builder
	if err := blockfmt.Encode(&sb, world); err != nil {
		return "", err
	}
	return sb.String(), nil
}
