package presets_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clambin/lights/internal/catalog"
	"github.com/clambin/lights/internal/configuration"
	"github.com/clambin/lights/internal/presets"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestScheduler_Loops(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &fakeSink{}
	s := newScheduler(t, testConfig(), sink)
	stop := run(t, s)
	defer stop()

	require.Eventually(t, func() bool { return s.Status().State == presets.Stopped }, time.Second, time.Millisecond)

	// initial preset, followed by 3 loops through the order
	assert.Equal(t, []string{"Entrance", "Entrance", "Surface", "Entrance", "Surface", "Entrance", "Surface"}, sink.Applied())
	status := s.Status()
	assert.Equal(t, uint(3), status.Loops)
	assert.Equal(t, "B", status.Current)
	assert.Equal(t, "stopped", status.StateName)
	assert.True(t, status.Next.IsZero())
}

func TestScheduler_Loops_Random(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.RandomOrder = true
	cfg.LoopCount = 1
	cfg.Order = []string{"A", "B", "C"}
	sink := &fakeSink{}
	s := newScheduler(t, cfg, sink, presets.WithRand(fixedRand{}))
	stop := run(t, s)
	defer stop()

	require.Eventually(t, func() bool { return s.Status().State == presets.Stopped }, time.Second, time.Millisecond)

	// fixedRand always picks the last preset. a loop holds as many presets as the order.
	assert.Equal(t, []string{"Entrance", "Hcz049", "Hcz049", "Hcz049"}, sink.Applied())
}

func TestScheduler_Loops_Endless(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.LoopCount = 0
	sink := &fakeSink{}
	s := newScheduler(t, cfg, sink)
	stop := run(t, s)

	require.Eventually(t, func() bool { return s.Status().Loops > 5 }, time.Second, time.Millisecond)
	assert.NotEqual(t, presets.Stopped, s.Status().State)

	stop()
	assert.Equal(t, presets.Disabled, s.Status().State)
}

func TestScheduler_InitialPreset(t *testing.T) {
	tests := []struct {
		name    string
		initial []string
		order   []string
		want    presets.State
		current string
	}{
		{name: "first valid candidate", initial: []string{"!ignore", "C", "A"}, order: []string{"A", "B"}, want: presets.WaitingBetween, current: "C"},
		{name: "unknown candidates fall back to order", initial: []string{"!ignore", "missing"}, order: []string{"A", "B"}, want: presets.WaitingBetween, current: "B"},
		{name: "ignored entries in order are skipped", initial: []string{"!ignore"}, order: []string{"A", "!B"}, want: presets.WaitingBetween, current: "A"},
		{name: "no candidates", initial: []string{"!ignore"}, order: []string{"!A", "missing"}, want: presets.Disabled},
		{name: "empty order", initial: []string{"C"}, order: nil, want: presets.Stopped, current: "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.InitialPreset = tt.initial
			cfg.Order = tt.order
			cfg.TimeBetweenMin = 3600
			cfg.TimeBetweenMax = 3600
			sink := &fakeSink{}
			s := newScheduler(t, cfg, sink, presets.WithRand(fixedRand{}))
			stop := run(t, s)
			defer stop()

			require.Eventually(t, func() bool { return s.Status().State == tt.want && s.Status().Current == tt.current }, time.Second, time.Millisecond)
		})
	}
}

func TestScheduler_SetEnabled(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.AreEnabled = false
	cfg.TimeBetweenMin = 3600
	cfg.TimeBetweenMax = 3600
	sink := &fakeSink{}
	s := newScheduler(t, cfg, sink)
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)
	stop := run(t, s)
	defer stop()

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, presets.Disabled, s.Status().State)
	assert.Empty(t, sink.Applied())

	s.SetEnabled(true)
	require.Eventually(t, func() bool { return s.Status().State == presets.WaitingBetween }, time.Second, time.Millisecond)
	status := s.Status()
	assert.True(t, status.Enabled)
	assert.WithinDuration(t, time.Now().Add(time.Hour), status.Next, time.Minute)
	assert.Len(t, sink.Applied(), 1)

	s.SetEnabled(false)
	status = s.Status()
	assert.Equal(t, presets.Disabled, status.State)
	assert.False(t, status.Enabled)
	assert.True(t, status.Next.IsZero())

	var states []presets.State
	for len(ch) > 0 {
		if ev := <-ch; ev.Kind == presets.StateChanged {
			states = append(states, ev.State)
		}
	}
	assert.Equal(t, []presets.State{presets.WaitingInitialDelay, presets.Running, presets.WaitingBetween, presets.Disabled}, states)
}

func TestScheduler_SetEnabled_NoApplicationAfterDisable(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.LoopCount = 0
	sink := &fakeSink{}
	s := newScheduler(t, cfg, sink)
	stop := run(t, s)
	defer stop()

	require.Eventually(t, func() bool { return len(sink.Applied()) > 3 }, time.Second, time.Millisecond)
	s.SetEnabled(false)
	count := len(sink.Applied())
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, sink.Applied(), count)
	assert.Equal(t, presets.Disabled, s.Status().State)
}

func TestScheduler_SetEnabled_InterruptsApplication(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.PerZone[0].Entries = append(cfg.PerZone[0].Entries,
		configuration.Entry[configuration.Zone]{Target: configuration.Surface, Modifier: configuration.Blackout, Duration: 1},
	)
	sink := newBlockingSink()
	s := newScheduler(t, cfg, sink)
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)
	stop := run(t, s)
	defer stop()

	<-sink.started
	assert.Equal(t, presets.Running, s.Status().State)

	// the sink only returns once its context is canceled
	s.SetEnabled(false)
	status := s.Status()
	assert.Equal(t, presets.Disabled, status.State)
	assert.Empty(t, status.Current)
	assert.Equal(t, int32(1), sink.calls.Load())

	for len(ch) > 0 {
		assert.NotEqual(t, presets.PresetApplied, (<-ch).Kind)
	}
}

func TestScheduler_Configure(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.InitialDelay = 3600
	sink := &fakeSink{}
	s := newScheduler(t, cfg, sink)
	stop := run(t, s)
	defer stop()

	require.Eventually(t, func() bool { return s.Status().State == presets.WaitingInitialDelay }, time.Second, time.Millisecond)

	cfg.AreEnabled = false
	s.Configure(cfg, mustCatalog(t, cfg))
	assert.Equal(t, presets.Disabled, s.Status().State)

	cfg = testConfig()
	cfg.TimeBetweenMin = 3600
	cfg.TimeBetweenMax = 3600
	cfg.InitialPreset = []string{"C"}
	s.Configure(cfg, mustCatalog(t, cfg))
	require.Eventually(t, func() bool { return s.Status().State == presets.WaitingBetween }, time.Second, time.Millisecond)
	assert.Equal(t, "C", s.Status().Current)
	assert.Equal(t, []string{"Hcz049"}, sink.Applied())
}

func TestScheduler_Trigger(t *testing.T) {
	cfg := testConfig()
	cfg.SpecificPermissionsRequired = true
	sink := &fakeSink{}
	gate := gateFunc(func(invoker, preset string) bool { return invoker == "admin" || preset == "A" })
	s := newScheduler(t, cfg, sink, presets.WithPermissionGate(gate))

	_, err := s.Trigger(context.Background(), "guest", "B")
	assert.ErrorIs(t, err, presets.ErrPermissionDenied)
	assert.Empty(t, sink.Applied())

	result, err := s.Trigger(context.Background(), "guest", "A")
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, presets.Manual, result.Trigger)
	assert.NotEmpty(t, result.RunID)

	result, err = s.Trigger(context.Background(), "admin", "C")
	require.NoError(t, err)
	assert.Equal(t, "C", result.Preset)
	assert.Equal(t, 1, result.Applied)

	_, err = s.Trigger(context.Background(), "admin", "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	assert.Equal(t, []string{"Entrance", "Hcz049"}, sink.Applied())
	assert.Equal(t, "C", s.Status().Current)
	assert.Equal(t, presets.Disabled, s.Status().State)
}

func TestScheduler_Trigger_NoPermissionsRequired(t *testing.T) {
	sink := &fakeSink{}
	gate := gateFunc(func(string, string) bool { return false })
	s := newScheduler(t, testConfig(), sink, presets.WithPermissionGate(gate))

	_, err := s.Trigger(context.Background(), "guest", "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"Surface"}, sink.Applied())
}

func TestScheduler_Trigger_DoesNotAffectSchedule(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig()
	cfg.TimeBetweenMin = 3600
	cfg.TimeBetweenMax = 3600
	s := newScheduler(t, cfg, &fakeSink{})
	stop := run(t, s)
	defer stop()

	require.Eventually(t, func() bool { return s.Status().State == presets.WaitingBetween }, time.Second, time.Millisecond)
	before := s.Status()

	_, err := s.Trigger(context.Background(), "", "B")
	require.NoError(t, err)

	after := s.Status()
	assert.Equal(t, "B", after.Current)
	assert.Equal(t, presets.WaitingBetween, after.State)
	assert.Equal(t, before.Next, after.Next)
	assert.Equal(t, before.Loops, after.Loops)
}

func TestScheduler_Trigger_DoesNotBlockStatus(t *testing.T) {
	sink := newBlockingSink()
	s := newScheduler(t, testConfig(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() {
		_, err := s.Trigger(ctx, "", "A")
		errCh <- err
	}()
	<-sink.started

	start := time.Now()
	assert.Equal(t, presets.Disabled, s.Status().State)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	cancel()
	assert.NoError(t, <-errCh)
	assert.Equal(t, "A", s.Status().Current)
}

func TestScheduler_FailedModifiers(t *testing.T) {
	cfg := testConfig()
	cfg.PerRoom = configuration.Table[configuration.Room]{{Name: "C", Entries: []configuration.Entry[configuration.Room]{
		{Target: "Hcz049", Modifier: configuration.Blackout, Duration: 10},
		{Target: "Hcz096", Modifier: configuration.Blackout, Duration: 10},
		{Target: "HczCurve", Modifier: configuration.Blackout, Duration: 10},
		{Target: "EzCafeteria", Modifier: configuration.Blackout, Duration: 10},
	}}}
	sink := &fakeSink{fail: map[string]error{
		"Hcz096":   presets.ErrTargetNotFound,
		"HczCurve": errors.New("bridge unavailable"),
	}}
	metrics := presets.NewMetrics("lights")
	s := newScheduler(t, cfg, sink, presets.WithMetrics(metrics))

	result, err := s.Trigger(context.Background(), "", "C")
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Equal(t, 2, result.Applied)
	require.Len(t, result.Failed, 2)
	assert.ErrorIs(t, result.Failed[0], presets.ErrTargetNotFound)
	assert.NotErrorIs(t, result.Failed[0], presets.ErrApply)
	assert.ErrorIs(t, result.Failed[1], presets.ErrApply)
	assert.Equal(t, []string{"Hcz049", "EzCafeteria"}, sink.Applied())

	assert.NoError(t, testutil.CollectAndCompare(metrics, strings.NewReader(`
# HELP lights_modifier_failures_total Number of modifiers that could not be applied
# TYPE lights_modifier_failures_total counter
lights_modifier_failures_total{preset="C",reason="apply_error"} 1
lights_modifier_failures_total{preset="C",reason="target_not_found"} 1
# HELP lights_preset_applications_total Number of presets applied
# TYPE lights_preset_applications_total counter
lights_preset_applications_total{preset="C",trigger="manual"} 1
`), "lights_modifier_failures_total", "lights_preset_applications_total"))
}

func TestScheduler_Events(t *testing.T) {
	s := newScheduler(t, testConfig(), &fakeSink{})
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	_, err := s.Trigger(context.Background(), "", "A")
	require.NoError(t, err)

	ev := <-ch
	assert.Equal(t, presets.PresetApplied, ev.Kind)
	assert.Equal(t, "A", ev.Result.Preset)
	assert.Equal(t, 1, ev.Result.Applied)
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

func testConfig() configuration.Presets {
	return configuration.Presets{
		AreEnabled:     true,
		LoopCount:      3,
		TimeBetweenMin: 0.001,
		TimeBetweenMax: 0.002,
		InitialDelay:   0.001,
		InitialPreset:  []string{"!ignore", "A"},
		Order:          []string{"A", "B"},
		PerZone: configuration.Table[configuration.Zone]{
			{Name: "A", Entries: []configuration.Entry[configuration.Zone]{
				{Target: configuration.Entrance, Modifier: configuration.Blackout, Duration: 1},
			}},
			{Name: "B", Entries: []configuration.Entry[configuration.Zone]{
				{Target: configuration.Surface, Modifier: configuration.Intensity, Duration: -1, Params: []float64{0.5}},
			}},
		},
		PerRoom: configuration.Table[configuration.Room]{
			{Name: "C", Entries: []configuration.Entry[configuration.Room]{
				{Target: "Hcz049", Modifier: configuration.Color, Duration: -1, Params: []float64{255, 0, 0, 255}},
			}},
		},
	}
}

func mustCatalog(t *testing.T, cfg configuration.Presets) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(cfg)
	require.NoError(t, err)
	return c
}

func newScheduler(t *testing.T, cfg configuration.Presets, sink presets.Sink, options ...presets.Option) *presets.Scheduler {
	t.Helper()
	return presets.New(cfg, mustCatalog(t, cfg), sink, slog.New(slog.NewTextHandler(io.Discard, nil)), options...)
}

// run starts the Scheduler. The returned function stops it and waits for Run to return.
func run(t *testing.T, s *presets.Scheduler) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- s.Run(ctx) }()
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			assert.NoError(t, <-errCh)
		})
	}
}

type fakeSink struct {
	fail    map[string]error
	applied []string
	lock    sync.Mutex
}

func (f *fakeSink) Apply(_ context.Context, m presets.Modifier) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if err, ok := f.fail[m.Target]; ok {
		return err
	}
	f.applied = append(f.applied, m.Target)
	return nil
}

func (f *fakeSink) Applied() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return slices.Clone(f.applied)
}

// blockingSink blocks every modifier until its context is canceled.
type blockingSink struct {
	started chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func newBlockingSink() *blockingSink {
	return &blockingSink{started: make(chan struct{})}
}

func (b *blockingSink) Apply(ctx context.Context, _ presets.Modifier) error {
	b.calls.Add(1)
	b.once.Do(func() { close(b.started) })
	<-ctx.Done()
	return ctx.Err()
}

type gateFunc func(invoker, preset string) bool

func (f gateFunc) Authorize(invoker, preset string) bool {
	return f(invoker, preset)
}

// fixedRand always picks the last option and the shortest delay.
type fixedRand struct{}

func (fixedRand) IntN(n int) int   { return n - 1 }
func (fixedRand) Float64() float64 { return 0 }
