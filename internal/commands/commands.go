// Package commands implements the commands that users can send to the lights service, independently of how they
// reach it (Slack, HTTP).
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/clambin/lights/internal/catalog"
	"github.com/clambin/lights/internal/configuration"
	"github.com/clambin/lights/internal/presets"
)

// Scheduler runs presets. presets.Scheduler implements this interface.
type Scheduler interface {
	Trigger(ctx context.Context, invoker string, name string) (presets.Result, error)
	SetEnabled(enabled bool)
	Status() presets.RunState
	Catalog() *catalog.Catalog
}

// Reloader reloads the preset configuration. configuration.Holder implements this interface.
type Reloader interface {
	Reload() (configuration.Presets, error)
}

// Response is the outcome of a command.
type Response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	// Err is the reason the command failed.
	Err error `json:"-"`
}

func success(format string, args ...any) Response {
	return Response{OK: true, Message: fmt.Sprintf(format, args...)}
}

func failure(err error, format string, args ...any) Response {
	return Response{OK: false, Message: fmt.Sprintf(format, args...), Err: err}
}

// ErrInvalidCommand indicates a command with missing or invalid arguments.
var ErrInvalidCommand = errors.New("invalid command")

// Executor executes commands.
type Executor struct {
	Scheduler Scheduler
	Reloader  Reloader
	Logger    *slog.Logger
}

// RunPreset applies the named preset on behalf of invoker.
func (e Executor) RunPreset(ctx context.Context, invoker string, name string) Response {
	if name == "" {
		return failure(ErrInvalidCommand, "missing preset name")
	}
	result, err := e.Scheduler.Trigger(ctx, invoker, name)
	switch {
	case errors.Is(err, presets.ErrPermissionDenied):
		return failure(err, "you are not allowed to run preset %s", name)
	case errors.Is(err, catalog.ErrNotFound):
		return failure(err, "unknown preset: %s", name)
	case err != nil:
		e.Logger.Error("failed to run preset", "preset", name, "err", err)
		return failure(err, "failed to run preset %s: %s", name, err.Error())
	}

	if result.OK() {
		return success("preset %s applied (%d modifiers)", name, result.Applied)
	}
	failed := make([]string, len(result.Failed))
	for i, err := range result.Failed {
		failed[i] = err.Error()
	}
	return failure(errors.Join(result.Failed...), "preset %s applied: %d of %d modifiers applied. failed: %s",
		name, result.Applied, result.Applied+len(result.Failed), strings.Join(failed, "; "),
	)
}

// Reload reloads the preset configuration. If the new configuration is invalid, the current configuration remains active.
func (e Executor) Reload(_ context.Context) Response {
	if e.Reloader == nil {
		return failure(errors.ErrUnsupported, "reload not supported")
	}
	if _, err := e.Reloader.Reload(); err != nil {
		return failure(err, "reload failed: %s. current configuration remains active", err.Error())
	}
	return success("configuration reloaded: %d presets", len(e.Scheduler.Catalog().Names()))
}

// PresetInfo describes a preset in the catalog.
type PresetInfo struct {
	Name      string `json:"name"`
	Scope     string `json:"scope"`
	Modifiers int    `json:"modifiers"`
}

// Presets returns all presets in the catalog, in configuration order.
func (e Executor) Presets() []PresetInfo {
	c := e.Scheduler.Catalog()
	names := c.Names()
	infos := make([]PresetInfo, 0, len(names))
	for _, name := range names {
		if p, err := c.Lookup(name); err == nil {
			infos = append(infos, PresetInfo{Name: p.Name, Scope: p.Scope.String(), Modifiers: p.Len()})
		}
	}
	return infos
}

// List reports all presets in the catalog.
func (e Executor) List() Response {
	infos := e.Presets()
	if len(infos) == 0 {
		return success("no presets configured")
	}
	lines := make([]string, len(infos))
	for i, info := range infos {
		lines[i] = fmt.Sprintf("%s (%s, %d modifiers)", info.Name, info.Scope, info.Modifiers)
	}
	return success("%s", strings.Join(lines, "\n"))
}

// Status reports the state of the Scheduler.
func (e Executor) Status() Response {
	return success("%s", FormatStatus(e.Scheduler.Status(), time.Now()))
}

// RunState returns the state of the Scheduler.
func (e Executor) RunState() presets.RunState {
	return e.Scheduler.Status()
}

// Enable enables or disables the automatic schedule.
func (e Executor) Enable(enabled bool) Response {
	e.Scheduler.SetEnabled(enabled)
	if enabled {
		return success("presets enabled")
	}
	return success("presets disabled")
}

// FormatStatus renders the RunState for humans.
func FormatStatus(status presets.RunState, now time.Time) string {
	current := status.Current
	if current == "" {
		current = "none"
	}
	loops := fmt.Sprintf("%d", status.Loops)
	if status.LoopCount > 0 {
		loops += fmt.Sprintf("/%d", status.LoopCount)
	}
	lines := []string{
		"state: " + status.State.String(),
		"current preset: " + current,
		"loops: " + loops,
	}
	if !status.Next.IsZero() {
		lines = append(lines, "next preset in: "+status.Next.Sub(now).Round(time.Second).String())
	}
	return strings.Join(lines, "\n")
}
