package main

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	gui "github.com/dgellow/zig-gui-sub000"
)

// scenario is one TOML file: a viewport and a flat list of elements whose
// parents are named by id. Parents must be listed before their children.
type scenario struct {
	Name     string        `toml:"name"`
	Width    float32       `toml:"width"`
	Height   float32       `toml:"height"`
	Elements []elementSpec `toml:"elements"`
}

type elementSpec struct {
	ID     string `toml:"id"`
	Parent string `toml:"parent"`

	Width     *float32 `toml:"width"`
	Height    *float32 `toml:"height"`
	MinWidth  float32  `toml:"min_width"`
	MinHeight float32  `toml:"min_height"`
	MaxWidth  *float32 `toml:"max_width"`
	MaxHeight *float32 `toml:"max_height"`

	Direction string    `toml:"direction"`
	Justify   string    `toml:"justify"`
	Align     string    `toml:"align"`
	Gap       float32   `toml:"gap"`
	Grow      float32   `toml:"grow"`
	Shrink    *float32  `toml:"shrink"`
	Padding   []float32 `toml:"padding"`
}

func loadScenario(path string) (scenario, error) {
	var sc scenario
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, errors.Wrap(err, "reading scenario")
	}
	if err := toml.Unmarshal(data, &sc); err != nil {
		return sc, errors.Wrapf(err, "parsing %s", path)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(path, ".toml")
	}
	if sc.Width <= 0 || sc.Height <= 0 {
		return sc, errors.Errorf("%s: width and height must be positive", path)
	}

	seen := make(map[string]bool, len(sc.Elements))
	for i, el := range sc.Elements {
		if el.ID == "" {
			return sc, errors.Errorf("%s: element %d has no id", path, i)
		}
		if seen[el.ID] {
			return sc, errors.Errorf("%s: duplicate element id %q", path, el.ID)
		}
		if el.Parent != "" && !seen[el.Parent] {
			return sc, errors.Errorf("%s: element %q names unknown or later parent %q", path, el.ID, el.Parent)
		}
		if _, err := el.style(); err != nil {
			return sc, errors.WithMessagef(err, "%s: element %q", path, el.ID)
		}
		seen[el.ID] = true
	}
	return sc, nil
}

func (el elementSpec) style() (gui.Style, error) {
	s := gui.DefaultStyle()
	if el.Width != nil {
		s.Width = gui.Fixed(*el.Width)
	}
	if el.Height != nil {
		s.Height = gui.Fixed(*el.Height)
	}
	s.MinWidth = el.MinWidth
	s.MinHeight = el.MinHeight
	if el.MaxWidth != nil {
		s.MaxWidth = *el.MaxWidth
	}
	if el.MaxHeight != nil {
		s.MaxHeight = *el.MaxHeight
	}
	s.Gap = el.Gap
	s.FlexGrow = el.Grow
	if el.Shrink != nil {
		s.FlexShrink = *el.Shrink
	}

	switch el.Direction {
	case "", "row":
		s.Direction = gui.Row
	case "column":
		s.Direction = gui.Column
	default:
		return s, errors.Errorf("unknown direction %q", el.Direction)
	}

	switch el.Justify {
	case "", "start":
		s.JustifyContent = gui.JustifyStart
	case "end":
		s.JustifyContent = gui.JustifyEnd
	case "center":
		s.JustifyContent = gui.JustifyCenter
	case "space-between":
		s.JustifyContent = gui.JustifySpaceBetween
	case "space-around":
		s.JustifyContent = gui.JustifySpaceAround
	case "space-evenly":
		s.JustifyContent = gui.JustifySpaceEvenly
	default:
		return s, errors.Errorf("unknown justify %q", el.Justify)
	}

	switch el.Align {
	case "", "stretch":
		s.AlignItems = gui.AlignStretch
	case "start":
		s.AlignItems = gui.AlignStart
	case "end":
		s.AlignItems = gui.AlignEnd
	case "center":
		s.AlignItems = gui.AlignCenter
	default:
		return s, errors.Errorf("unknown align %q", el.Align)
	}

	switch p := el.Padding; len(p) {
	case 0:
	case 1:
		s.Padding = gui.EdgeAll(p[0])
	case 2:
		s.Padding = gui.EdgeSymmetric(p[0], p[1])
	case 4:
		s.Padding = gui.EdgeTRBL(p[0], p[1], p[2], p[3])
	default:
		return s, errors.Errorf("padding takes 1, 2 or 4 values, got %d", len(p))
	}
	return s, nil
}
