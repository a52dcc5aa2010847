package sink

import (
	"context"
	"log/slog"

	"github.com/clambin/lights/internal/presets"
)

var _ presets.Sink = Log{}

// Log is a dry-run sink: it logs each modifier instead of applying it.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Apply(_ context.Context, m presets.Modifier) error {
	l.Logger.Info("dry run: modifier not applied", "modifier", m)
	return nil
}
