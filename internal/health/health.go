// Package health reports whether presets are reaching the game world.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/clambin/lights/internal/presets"
)

// Publisher sends the Scheduler's events. presets.Scheduler implements this interface.
type Publisher interface {
	Subscribe() chan presets.Event
	Unsubscribe(chan presets.Event)
}

// Health tracks the outcome of the last preset application. It is unhealthy if none of the last preset's modifiers
// could be applied.
type Health struct {
	Publisher
	logger *slog.Logger
	report report
	lock   sync.RWMutex
}

type report struct {
	Preset    string    `json:"preset,omitempty"`
	RunID     string    `json:"run,omitempty"`
	Applied   int       `json:"applied"`
	Failed    int       `json:"failed"`
	Timestamp time.Time `json:"timestamp"`
}

func (r report) healthy() bool {
	return r.Applied > 0 || r.Failed == 0
}

func New(p Publisher, logger *slog.Logger) *Health {
	return &Health{
		Publisher: p,
		logger:    logger,
	}
}

func (h *Health) Run(ctx context.Context) error {
	h.logger.Debug("started")
	defer h.logger.Debug("stopped")

	ch := h.Publisher.Subscribe()
	defer h.Publisher.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-ch:
			if ev.Kind != presets.PresetApplied {
				continue
			}
			h.lock.Lock()
			h.report = report{
				Preset:    ev.Result.Preset,
				RunID:     ev.Result.RunID,
				Applied:   ev.Result.Applied,
				Failed:    len(ev.Result.Failed),
				Timestamp: time.Now(),
			}
			h.lock.Unlock()
		}
	}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if !h.report.healthy() {
		h.logger.Warn("last preset could not be applied", "preset", h.report.Preset, "run", h.report.RunID)
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(h.report); err != nil {
		h.logger.Error("failed to encode health report", "err", err)
	}
}
