package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/clambin/lights/internal/catalog"
	"github.com/clambin/lights/internal/configuration"
	"github.com/clambin/lights/internal/presets"
	"github.com/clambin/lights/internal/sink"
	"github.com/google/renameio/v2"
)

// ErrExists indicates Init would overwrite an existing preset document.
var ErrExists = errors.New("preset document already exists")

type Encoder interface {
	Encode(any) error
}

// Init writes the default preset document to path. An existing document is only replaced if force is true.
// The document is written atomically: readers see either the old or the new document.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s: %w", path, ErrExists)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	f, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Cleanup() }()

	if err = configuration.Write(f, configuration.Defaults()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.CloseAtomicallyReplace()
}

// Load reads and validates the preset document at path and builds its catalog.
func Load(path string, logger *slog.Logger) (configuration.Presets, *catalog.Catalog, error) {
	p, err := configuration.LoadFile(path, logger)
	if err != nil {
		return configuration.Presets{}, nil, err
	}
	c, err := catalog.New(p)
	if err != nil {
		return configuration.Presets{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, c, nil
}

type entry struct {
	Name      string `json:"name" yaml:"name"`
	Scope     string `json:"scope" yaml:"scope"`
	Modifiers int    `json:"modifiers" yaml:"modifiers"`
}

type report struct {
	Enabled       bool     `json:"enabled" yaml:"enabled"`
	RandomOrder   bool     `json:"randomOrder" yaml:"randomOrder"`
	LoopCount     uint     `json:"loopCount" yaml:"loopCount"`
	InitialPreset []string `json:"initialPreset" yaml:"initialPreset"`
	Order         []string `json:"order" yaml:"order"`
	Presets       []entry  `json:"presets" yaml:"presets"`
}

// Show encodes a summary of the preset configuration.
func Show(p configuration.Presets, c *catalog.Catalog, e Encoder) error {
	r := report{
		Enabled:       p.AreEnabled,
		RandomOrder:   p.RandomOrder,
		LoopCount:     p.LoopCount,
		InitialPreset: p.InitialPreset,
		Order:         p.Order,
	}
	for _, name := range c.Names() {
		preset, err := c.Lookup(name)
		if err != nil {
			return err
		}
		r.Presets = append(r.Presets, entry{Name: name, Scope: preset.Scope.String(), Modifiers: preset.Len()})
	}
	return e.Encode(r)
}

// Simulate sends every modifier of every preset to a dry-run sink, which logs them.
func Simulate(ctx context.Context, c *catalog.Catalog, logger *slog.Logger) error {
	s := sink.Log{Logger: logger}
	for _, name := range c.Names() {
		preset, err := c.Lookup(name)
		if err != nil {
			return err
		}
		logger.Info("simulating preset", "preset", name, "scope", preset.Scope.String())
		for _, m := range presets.Modifiers(preset) {
			if err = s.Apply(ctx, m); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}
