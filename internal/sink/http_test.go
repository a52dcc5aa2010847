package sink_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clambin/go-common/http/roundtripper"
	"github.com/clambin/lights/internal/catalog"
	"github.com/clambin/lights/internal/configuration"
	"github.com/clambin/lights/internal/presets"
	"github.com/clambin/lights/internal/sink"
	"github.com/clambin/lights/internal/testtools"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP_Apply(t *testing.T) {
	bridge := testtools.NewBridge([]string{"Surface", "Entrance"}, []string{"Hcz049"})
	s := httptest.NewServer(bridge)
	defer s.Close()

	metrics := sink.NewMetrics("lights")
	h := sink.NewHTTP(s.URL+"/", time.Second, discard(), sink.WithMetrics(metrics))

	tests := []struct {
		name     string
		modifier presets.Modifier
		wantErr  error
	}{
		{
			name:     "zone color",
			modifier: presets.Modifier{Scope: catalog.ZoneScope, Target: "Surface", Kind: configuration.Color, Permanent: true, Color: [4]uint8{255, 0, 128, 255}},
		},
		{
			name:     "room intensity",
			modifier: presets.Modifier{Scope: catalog.RoomScope, Target: "Hcz049", Kind: configuration.Intensity, Duration: 1500 * time.Millisecond, Intensity: 0.5},
		},
		{
			name:     "zone blackout",
			modifier: presets.Modifier{Scope: catalog.ZoneScope, Target: "Entrance", Kind: configuration.Blackout, Duration: 45 * time.Second},
		},
		{
			name:     "unknown room",
			modifier: presets.Modifier{Scope: catalog.RoomScope, Target: "Hcz096", Kind: configuration.Blackout, Duration: time.Second},
			wantErr:  presets.ErrTargetNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Apply(context.Background(), tt.modifier)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	intensity := 0.5
	assert.Equal(t, []testtools.Request{
		{Scope: "zone", Target: "Surface", Kind: "color", Duration: -1, Color: []int{255, 0, 128, 255}},
		{Scope: "room", Target: "Hcz049", Kind: "intensity", Duration: 1.5, Intensity: &intensity},
		{Scope: "zone", Target: "Entrance", Kind: "blackout", Duration: 45},
	}, bridge.Requests())

	assert.NoError(t, testutil.CollectAndCompare(metrics, strings.NewReader(`
# HELP lights_bridge_http_requests_total total number of http requests
# TYPE lights_bridge_http_requests_total counter
lights_bridge_http_requests_total{code="204",method="POST",path="/rooms"} 1
lights_bridge_http_requests_total{code="204",method="POST",path="/zones"} 2
lights_bridge_http_requests_total{code="404",method="POST",path="/rooms"} 1
`), "lights_bridge_http_requests_total"))
}

func TestNewHTTP_OptionOrder(t *testing.T) {
	bridge := testtools.NewBridge([]string{"Surface"}, nil)
	s := httptest.NewServer(bridge)
	defer s.Close()

	var calls atomic.Int32
	transport := roundtripper.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return http.DefaultTransport.RoundTrip(req)
	})

	metrics := sink.NewMetrics("lights")
	// metrics before transport: the transport must not replace the instrumented one
	h := sink.NewHTTP(s.URL, time.Second, discard(), sink.WithMetrics(metrics), sink.WithTransport(transport))
	m := presets.Modifier{Scope: catalog.ZoneScope, Target: "Surface", Kind: configuration.Blackout, Duration: time.Second}
	require.NoError(t, h.Apply(context.Background(), m))

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, testutil.CollectAndCount(metrics, "lights_bridge_http_requests_total"))
}

func TestHTTP_Apply_Failure(t *testing.T) {
	bridge := testtools.NewBridge([]string{"Surface"}, nil)
	bridge.SetFail(true)
	s := httptest.NewServer(bridge)
	h := sink.NewHTTP(s.URL, time.Second, discard())

	m := presets.Modifier{Scope: catalog.ZoneScope, Target: "Surface", Kind: configuration.Blackout, Duration: time.Second}
	err := h.Apply(context.Background(), m)
	assert.ErrorIs(t, err, presets.ErrApply)
	assert.NotErrorIs(t, err, presets.ErrTargetNotFound)

	// bridge recovers
	bridge.SetFail(false)
	assert.NoError(t, h.Apply(context.Background(), m))

	// bridge down
	s.Close()
	err = h.Apply(context.Background(), m)
	assert.ErrorIs(t, err, presets.ErrApply)
}

func TestLog_Apply(t *testing.T) {
	var buf bytes.Buffer
	l := sink.Log{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	err := l.Apply(context.Background(), presets.Modifier{Scope: catalog.RoomScope, Target: "Hcz049", Kind: configuration.Intensity, Permanent: true, Intensity: 0.5})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `msg="dry run: modifier not applied" modifier.room=Hcz049 modifier.kind=intensity modifier.duration=permanent modifier.intensity=0.5`)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
