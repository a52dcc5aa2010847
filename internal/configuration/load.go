package configuration

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the layout of a preset file.
type Document struct {
	Presets Presets `yaml:"presets"`
}

// Load reads a preset document and validates it. Scalar fields not found in the document keep their default value.
func Load(r io.Reader) (Presets, error) {
	doc := Document{Presets: baseline()}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Presets{}, &ConfigError{Problems: []error{fmt.Errorf("decode: %w", err)}}
	}
	if err := Validate(doc.Presets); err != nil {
		return Presets{}, err
	}
	return doc.Presets, nil
}

// LoadFile reads and validates the preset document at path.
func LoadFile(path string, logger *slog.Logger) (Presets, error) {
	f, err := os.Open(path)
	if err != nil {
		return Presets{}, err
	}
	defer func() { _ = f.Close() }()

	p, err := Load(f)
	if err != nil {
		return Presets{}, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("presets loaded",
		slog.String("path", path),
		slog.Bool("enabled", p.AreEnabled),
		slog.Int("zone", len(p.PerZone)),
		slog.Int("room", len(p.PerRoom)),
		slog.Any("order", p.Order),
	)
	return p, nil
}

// Write encodes the presets as a preset document.
func Write(w io.Writer, p Presets) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(Document{Presets: p}); err != nil {
		return err
	}
	return encoder.Close()
}
