package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	gui "github.com/dgellow/zig-gui-sub000"
	"github.com/dgellow/zig-gui-sub000/internal/debug"
)

type rectJSON struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

type elementJSON struct {
	ID   string   `json:"id"`
	Rect rectJSON `json:"rect"`
}

type resultJSON struct {
	Scenario string        `json:"scenario"`
	Digest   string        `json:"digest"`
	Elements []elementJSON `json:"elements"`
}

// runRun implements the run subcommand. Scenarios are laid out in parallel,
// one engine each, and printed in argument order.
func runRun(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "Engine config file (TOML)")
	logPath := fs.String("log", "", "Path to log file for debugging")
	verbose := fs.Bool("v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("no scenario files given")
	}

	cfg := gui.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = gui.LoadConfig(*configPath); err != nil {
			return err
		}
	}

	log := zap.NewNop()
	if *logPath != "" || *verbose {
		l, closeLog, err := debug.NewLogger(*logPath, *verbose)
		if err != nil {
			return err
		}
		defer closeLog()
		log = l
	}

	results := make([]resultJSON, len(paths))
	g, ctx := errgroup.WithContext(context.Background())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := layoutScenario(path, cfg, log.With(zap.String("scenario", path)))
			if err != nil {
				return errors.WithMessage(err, path)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range results {
		data, err := sonnet.Marshal(res)
		if err != nil {
			return errors.Wrap(err, "encoding result")
		}
		if _, err := fmt.Fprintf(out, "%s\n", data); err != nil {
			return err
		}
	}
	return nil
}

func layoutScenario(path string, cfg gui.Config, log *zap.Logger) (resultJSON, error) {
	sc, err := loadScenario(path)
	if err != nil {
		return resultJSON{}, err
	}
	engine, ids, err := buildEngine(sc, cfg, log)
	if err != nil {
		return resultJSON{}, err
	}
	if err := engine.ComputeLayout(sc.Width, sc.Height, gui.TraceWith(gui.NewZapTracer(log))); err != nil {
		return resultJSON{}, err
	}

	res := resultJSON{
		Scenario: sc.Name,
		Digest:   strconv.FormatUint(engine.Digest(), 16),
		Elements: make([]elementJSON, 0, len(sc.Elements)),
	}
	for i, el := range sc.Elements {
		r, err := engine.GetRect(ids[i])
		if err != nil {
			return resultJSON{}, err
		}
		res.Elements = append(res.Elements, elementJSON{
			ID:   el.ID,
			Rect: rectJSON{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		})
	}
	log.Info("scenario laid out",
		zap.Int("elements", engine.GetElementCount()),
		zap.Int("relabels", engine.Relabels()))
	return res, nil
}

// buildEngine adds every scenario element to a fresh engine and returns the
// engine ids in scenario order.
func buildEngine(sc scenario, cfg gui.Config, log *zap.Logger) (*gui.Engine, []gui.ElementID, error) {
	engine, err := gui.New(cfg, gui.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}

	byName := make(map[string]gui.ElementID, len(sc.Elements))
	ids := make([]gui.ElementID, len(sc.Elements))
	for i, el := range sc.Elements {
		parent := gui.None
		if el.Parent != "" {
			parent = byName[el.Parent]
		}
		style, err := el.style()
		if err != nil {
			return nil, nil, err
		}
		id, err := engine.AddElement(parent, style)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "element %q", el.ID)
		}
		byName[el.ID] = id
		ids[i] = id
	}
	return engine, ids, nil
}
