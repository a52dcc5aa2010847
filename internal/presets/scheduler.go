package presets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/clambin/lights/internal/catalog"
	"github.com/clambin/lights/internal/configuration"
	"github.com/clambin/lights/pkg/pubsub"
	"github.com/clambin/lights/pkg/scheduler"
	"github.com/google/uuid"
)

// A Scheduler applies presets on a timer, following the configured order and timing, and applies presets on demand.
//
// All state transitions happen under a single lock: the timer path and the manual path never change the RunState concurrently.
type Scheduler struct {
	sink      Sink
	gate      PermissionGate
	rand      Rand
	metrics   *Metrics
	publisher *pubsub.Publisher[Event]
	logger    *slog.Logger

	lock       sync.Mutex
	ctx        context.Context
	cfg        configuration.Presets
	catalog    *catalog.Catalog
	enabled    bool
	run        RunState
	job        *scheduler.Job
	generation uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRand sets the source of randomness used to pick presets and delays.
func WithRand(r Rand) Option {
	return func(s *Scheduler) { s.rand = r }
}

// WithMetrics records the Scheduler's activity in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithPermissionGate sets the PermissionGate used to authorize manual triggers.
func WithPermissionGate(g PermissionGate) Option {
	return func(s *Scheduler) { s.gate = g }
}

// New creates a Scheduler for the given configuration and catalog. The Scheduler does nothing until Run is called.
func New(cfg configuration.Presets, c *catalog.Catalog, sink Sink, logger *slog.Logger, options ...Option) *Scheduler {
	s := Scheduler{
		sink:    sink,
		rand:    globalRand{},
		logger:  logger,
		cfg:     cfg,
		catalog: c,
		enabled: cfg.AreEnabled,
	}
	for _, option := range options {
		option(&s)
	}
	s.publisher = pubsub.New[Event](logger.With("component", "events"))
	s.run.LoopCount = cfg.LoopCount
	return &s
}

// Subscribe returns a channel that receives all Events. Call Unsubscribe when done.
func (s *Scheduler) Subscribe() chan Event {
	return s.publisher.Subscribe()
}

// Unsubscribe stops sending Events to ch.
func (s *Scheduler) Unsubscribe(ch chan Event) {
	s.publisher.Unsubscribe(ch)
}

// Run starts the Scheduler. It blocks until ctx is canceled, at which point any pending wait is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Debug("scheduler started")
	defer s.logger.Debug("scheduler stopped")

	s.lock.Lock()
	s.ctx = ctx
	s.start()
	s.lock.Unlock()

	<-ctx.Done()

	s.lock.Lock()
	job := s.cancelJob()
	s.ctx = nil
	s.setState(Disabled, "shutting down")
	s.lock.Unlock()

	wait(job)
	return nil
}

// Configure replaces the configuration and catalog, e.g. after a reload. Any pending wait is canceled and the schedule
// restarts from the new configuration. A preset being applied by the old schedule is interrupted before Configure returns.
func (s *Scheduler) Configure(cfg configuration.Presets, c *catalog.Catalog) {
	s.lock.Lock()
	job := s.cancelJob()
	s.cfg = cfg
	s.catalog = c
	s.enabled = cfg.AreEnabled
	s.start()
	s.lock.Unlock()

	wait(job)
}

// SetEnabled enables or disables the Scheduler at runtime. Disabling cancels any pending wait; no preset is applied after
// SetEnabled(false) returns. Enabling restarts the schedule from the initial delay.
func (s *Scheduler) SetEnabled(enabled bool) {
	s.lock.Lock()
	if s.enabled == enabled {
		s.lock.Unlock()
		return
	}
	s.enabled = enabled
	if enabled {
		s.start()
		s.lock.Unlock()
		return
	}
	job := s.cancelJob()
	s.setState(Disabled, "disabled")
	s.lock.Unlock()

	wait(job)
}

// Status returns a snapshot of the Scheduler's RunState.
func (s *Scheduler) Status() RunState {
	s.lock.Lock()
	defer s.lock.Unlock()
	status := s.run
	status.StateName = status.State.String()
	status.Enabled = s.enabled
	status.Order = slices.Clone(s.run.Order)
	return status
}

// Catalog returns the active preset catalog.
func (s *Scheduler) Catalog() *catalog.Catalog {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.catalog
}

// Trigger applies the named preset immediately, regardless of the Scheduler's state. It does not affect the timer.
// If the configuration requires specific permissions, the invoker must be authorized by the PermissionGate.
func (s *Scheduler) Trigger(ctx context.Context, invoker string, name string) (Result, error) {
	s.lock.Lock()
	if s.cfg.SpecificPermissionsRequired && (s.gate == nil || !s.gate.Authorize(invoker, name)) {
		s.lock.Unlock()
		s.logger.Warn("manual trigger refused", "invoker", invoker, "preset", name)
		return Result{}, fmt.Errorf("%s may not run preset %q: %w", invoker, name, ErrPermissionDenied)
	}
	p, err := s.catalog.Lookup(name)
	s.lock.Unlock()
	if err != nil {
		return Result{}, err
	}

	result := s.dispatch(ctx, p, Manual)

	s.lock.Lock()
	defer s.lock.Unlock()
	s.commit(result)
	return result, nil
}

// fire runs when a wait ends: it applies the preset returned by pick and schedules the next one.
// The sink is called without holding the lock. If the schedule was canceled in the meantime, nothing is committed.
func (s *Scheduler) fire(ctx context.Context, generation uint64, pick func() string) {
	s.lock.Lock()
	if generation != s.generation || ctx.Err() != nil {
		s.lock.Unlock()
		return
	}
	// s.job keeps pointing at the running job, so a cancelation interrupts the sink and waits for it.
	s.run.Next = time.Time{}
	s.setState(Running, "")
	name := pick()
	p, err := s.catalog.Lookup(name)
	s.lock.Unlock()

	var result Result
	if err == nil {
		result = s.dispatch(ctx, p, Automatic)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if generation != s.generation {
		s.logger.Debug("schedule changed while applying preset", "preset", name)
		return
	}
	if err != nil {
		s.logger.Error("preset disappeared", "preset", name, "err", err)
	} else {
		s.commit(result)
	}
	if s.cfg.LoopCount > 0 && s.run.Loops >= s.cfg.LoopCount {
		s.setState(Stopped, fmt.Sprintf("completed %d loops", s.run.Loops))
		return
	}
	s.waitBetween()
}

// dispatch hands all modifiers of the preset to the Sink. A modifier that fails is logged and skipped.
// Once ctx is canceled, the remaining modifiers are not applied. dispatch must be called without holding the lock.
func (s *Scheduler) dispatch(ctx context.Context, p catalog.Preset, trigger Trigger) Result {
	result := Result{Preset: p.Name, RunID: uuid.NewString(), Trigger: trigger}
	logger := s.logger.With("preset", p.Name, "trigger", trigger.String(), "run", result.RunID)

	for _, m := range Modifiers(p) {
		if ctx.Err() != nil {
			logger.Warn("preset interrupted", "applied", result.Applied, "err", ctx.Err())
			break
		}
		if err := s.sink.Apply(ctx, m); err != nil {
			var modErr *ModifierError
			if !errors.As(err, &modErr) {
				modErr = &ModifierError{Modifier: m, Err: err}
			}
			logger.Warn("failed to apply modifier", "modifier", m, "err", err)
			s.metrics.failed(p.Name, modErr)
			result.Failed = append(result.Failed, modErr)
			continue
		}
		result.Applied++
	}
	logger.Info("preset applied", "applied", result.Applied, "failed", len(result.Failed))
	return result
}

func wait(job *scheduler.Job) {
	if job != nil {
		job.Wait()
	}
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////
// all methods below are called with the lock held

// start resets the RunState and, if enabled, selects the initial preset and waits for the initial delay.
func (s *Scheduler) start() {
	s.run = RunState{State: s.run.State, LoopCount: s.cfg.LoopCount, Current: s.run.Current}
	if s.ctx == nil {
		// not running yet
		return
	}
	if !s.enabled {
		s.setState(Disabled, "presets are disabled")
		return
	}
	initial, ok := s.initialPreset()
	if !ok {
		s.logger.Error("no valid initial preset found. check initialPreset and order", "initialPreset", s.cfg.InitialPreset, "order", s.cfg.Order)
		s.setState(Disabled, "no valid initial preset")
		return
	}
	s.run.Order = s.liveOrder()
	s.setState(WaitingInitialDelay, "")
	s.logger.Debug("initial preset selected", "preset", initial, "delay", s.cfg.InitialDelay.Duration())
	s.schedule(s.cfg.InitialDelay.Duration(), func() string { return initial })
}

func (s *Scheduler) waitBetween() {
	if len(s.run.Order) == 0 {
		s.setState(Stopped, "no presets in order")
		return
	}
	delay := s.nextDelay()
	s.setState(WaitingBetween, "")
	s.logger.Debug("next preset scheduled", "delay", delay)
	s.schedule(delay, s.advance)
}

// schedule applies the preset returned by pick after delay, unless the job is canceled (or superseded) in the meantime.
func (s *Scheduler) schedule(delay time.Duration, pick func() string) {
	s.generation++
	generation := s.generation
	s.job = scheduler.Schedule(s.ctx, scheduler.TaskFunc(func(ctx context.Context) {
		s.fire(ctx, generation, pick)
	}), delay)
	s.run.Next = s.job.Due()
}

// cancelJob cancels any pending wait. It returns the canceled job, so the caller can wait for it to finish once it releases the lock.
func (s *Scheduler) cancelJob() *scheduler.Job {
	s.generation++
	job := s.job
	if job != nil {
		job.Cancel()
		s.job = nil
	}
	s.run.Next = time.Time{}
	return job
}

func (s *Scheduler) setState(state State, reason string) {
	if s.run.State == state {
		return
	}
	s.run.State = state
	s.metrics.setState(state, s.run.Loops)
	s.logger.Debug("state changed", "state", state.String(), "reason", reason)
	s.publisher.Publish(Event{Kind: StateChanged, State: state, Loops: s.run.Loops, Reason: reason})
}

// commit records an applied preset.
func (s *Scheduler) commit(result Result) {
	s.run.Current = result.Preset
	s.metrics.applied(result.Preset, result.Trigger)
	s.publisher.Publish(Event{Kind: PresetApplied, State: s.run.State, Result: result, Loops: s.run.Loops})
}
