package gui

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/dgellow/zig-gui-sub000/internal/layout"
	"github.com/dgellow/zig-gui-sub000/internal/order"
)

// Config fixes the engine's capacity and index tuning at construction.
type Config struct {
	// MaxElements bounds the number of live elements.
	MaxElements int `toml:"max_elements" validate:"min=1,max=16777216"`
	// BucketCapacity is the number of elements per order-index bucket.
	BucketCapacity int `toml:"bucket_capacity" validate:"min=2,max=4096"`
	// LabelSpacing is the gap between bucket bases after a relabel.
	// It must be at least twice BucketCapacity.
	LabelSpacing uint64 `toml:"label_spacing" validate:"min=4"`
	// DirtyCapacity bounds the dirty queue; 0 means MaxElements.
	DirtyCapacity int `toml:"dirty_capacity" validate:"min=0"`
	// ScratchFloats sizes the per-pass scratch arena; 0 derives it from
	// MaxElements.
	ScratchFloats int `toml:"scratch_floats" validate:"min=0"`
}

// DefaultConfig returns the configuration used by the CLI when no file is
// given.
func DefaultConfig() Config {
	return Config{
		MaxElements:    4096,
		BucketCapacity: order.DefaultBucketCapacity,
		LabelSpacing:   order.DefaultSpacing,
	}
}

// LoadConfig reads a TOML config file. Keys missing from the file keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(ErrInvalidConfig, "parse %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.WithMessagef(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks field ranges and cross-field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%v", err)
	}
	if c.LabelSpacing < 2*uint64(c.BucketCapacity) {
		return errors.Wrapf(ErrInvalidConfig,
			"label_spacing %d is less than twice bucket_capacity %d", c.LabelSpacing, c.BucketCapacity)
	}
	return nil
}

func (c Config) dirtyCapacity() int {
	if c.DirtyCapacity == 0 {
		return c.MaxElements
	}
	return c.DirtyCapacity
}

// scratchFloats covers one resolve of a container holding every element.
func (c Config) scratchFloats() int {
	if c.ScratchFloats == 0 {
		return layout.ScratchFloats(c.MaxElements)
	}
	return c.ScratchFloats
}
