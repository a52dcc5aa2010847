package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clambin/lights/internal/presets"
	"github.com/clambin/lights/pkg/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_ServeHTTP(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pubsub.New[presets.Event](l)
	h := New(p, l)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- h.Run(ctx) }()
	require.Eventually(t, func() bool { return p.Subscribers() == 1 }, time.Second, time.Millisecond)

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, &http.Request{})
	assert.Equal(t, http.StatusOK, resp.Code)

	// state changes are ignored
	p.Publish(presets.Event{Kind: presets.StateChanged, State: presets.Running})
	// nothing applied
	p.Publish(presets.Event{Kind: presets.PresetApplied, Result: presets.Result{Preset: "alarm", Failed: []error{errors.New("bridge down")}}})
	assert.Eventually(t, func() bool {
		resp = httptest.NewRecorder()
		h.ServeHTTP(resp, &http.Request{})
		return resp.Code == http.StatusServiceUnavailable
	}, time.Second, time.Millisecond)
	assert.Contains(t, resp.Body.String(), `"preset": "alarm"`)

	// partially applied
	p.Publish(presets.Event{Kind: presets.PresetApplied, Result: presets.Result{Preset: "dim", Applied: 1, Failed: []error{presets.ErrTargetNotFound}}})
	assert.Eventually(t, func() bool {
		resp = httptest.NewRecorder()
		h.ServeHTTP(resp, &http.Request{})
		return resp.Code == http.StatusOK
	}, time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, <-errCh)
	assert.Zero(t, p.Subscribers())
}
