// Package sink applies preset modifiers to the game world.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clambin/go-common/http/metrics"
	"github.com/clambin/lights/internal/catalog"
	"github.com/clambin/lights/internal/configuration"
	"github.com/clambin/lights/internal/presets"
)

var _ presets.Sink = &HTTP{}

// HTTP applies modifiers through the game server's light bridge.
type HTTP struct {
	client *http.Client
	url    string
	logger *slog.Logger
}

type httpOptions struct {
	transport http.RoundTripper
	metrics   metrics.RequestMetrics
}

// Option configures an HTTP sink. Options can be passed in any order.
type Option func(*httpOptions)

// WithMetrics instruments all requests to the light bridge.
func WithMetrics(m metrics.RequestMetrics) Option {
	return func(o *httpOptions) {
		o.metrics = m
	}
}

// WithTransport sets the http.RoundTripper used to reach the light bridge.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *httpOptions) {
		o.transport = rt
	}
}

// NewHTTP returns a sink that sends modifiers to the light bridge at baseURL.
func NewHTTP(baseURL string, timeout time.Duration, logger *slog.Logger, options ...Option) *HTTP {
	o := httpOptions{transport: http.DefaultTransport}
	for _, option := range options {
		option(&o)
	}
	return &HTTP{
		// metrics wrap the configured transport, whatever the order of the options
		client: &http.Client{Timeout: timeout, Transport: instrumentedTransport(o.transport, o.metrics)},
		url:    strings.TrimSuffix(baseURL, "/"),
		logger: logger,
	}
}

type modifierRequest struct {
	Kind      string    `json:"kind"`
	Duration  float64   `json:"duration"`
	Color     *[4]uint8 `json:"color,omitempty"`
	Intensity *float64  `json:"intensity,omitempty"`
}

func newModifierRequest(m presets.Modifier) modifierRequest {
	req := modifierRequest{Kind: m.Kind.String(), Duration: -1}
	if !m.Permanent {
		req.Duration = m.Duration.Seconds()
	}
	switch m.Kind {
	case configuration.Color:
		req.Color = &m.Color
	case configuration.Intensity:
		req.Intensity = &m.Intensity
	}
	return req
}

// Apply sends the modifier to the light bridge. It returns an error wrapping presets.ErrTargetNotFound if the bridge
// does not know the target, and presets.ErrApply for any other failure.
func (h *HTTP) Apply(ctx context.Context, m presets.Modifier) error {
	body, err := json.Marshal(newModifierRequest(m))
	if err != nil {
		return fmt.Errorf("encode: %w: %w", presets.ErrApply, err)
	}

	target := h.url + "/" + collection(m.Scope) + "/" + url.PathEscape(m.Target) + "/modifiers"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", presets.ErrApply, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", presets.ErrApply, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", m.Scope, m.Target, presets.ErrTargetNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s", presets.ErrApply, resp.Status)
	}
	h.logger.Debug("modifier applied", "modifier", m)
	return nil
}

func collection(scope catalog.Scope) string {
	if scope == catalog.RoomScope {
		return "rooms"
	}
	return "zones"
}
