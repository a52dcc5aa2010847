// Package presets runs lighting presets on a timer, and on demand.
//
// The Scheduler reads its configuration once, waits for the initial delay, applies an initial preset and then keeps
// applying presets from the configured order, waiting a random time between presets, until it has looped through the
// order the configured number of times. Each preset is a list of modifiers, which the Scheduler hands to a Sink.
package presets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/clambin/lights/internal/catalog"
	"github.com/clambin/lights/internal/configuration"
)

var (
	// ErrTargetNotFound indicates the modifier's zone or room does not exist in the game world.
	ErrTargetNotFound = errors.New("target not found")
	// ErrApply indicates the Sink failed to apply a modifier.
	ErrApply = errors.New("failed to apply modifier")
	// ErrPermissionDenied indicates the invoker may not run the preset.
	ErrPermissionDenied = errors.New("permission denied")
)

// A Sink applies a modifier to the live game world. It returns an error wrapping ErrTargetNotFound if the target does not exist.
type Sink interface {
	Apply(ctx context.Context, m Modifier) error
}

// A PermissionGate decides whether an invoker may run a preset through a command.
type PermissionGate interface {
	Authorize(invoker string, preset string) bool
}

// Rand is the source of randomness of the Scheduler. *rand.Rand satisfies this interface.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

var _ Rand = globalRand{}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// Modifier is a single modifier of a preset, as handed to the Sink.
type Modifier struct {
	Scope    catalog.Scope
	Target   string
	Kind     configuration.ModifierKind
	Duration time.Duration
	// Permanent modifiers stay active until the next preset. Duration is zero.
	Permanent bool
	Color     [4]uint8
	Intensity float64
}

func (m Modifier) String() string {
	return m.Scope.String() + " " + m.Target + ": " + m.Kind.String()
}

var _ slog.LogValuer = Modifier{}

func (m Modifier) LogValue() slog.Value {
	attrs := make([]slog.Attr, 3, 5)
	attrs[0] = slog.String(m.Scope.String(), m.Target)
	attrs[1] = slog.String("kind", m.Kind.String())
	if m.Permanent {
		attrs[2] = slog.String("duration", "permanent")
	} else {
		attrs[2] = slog.Duration("duration", m.Duration)
	}
	switch m.Kind {
	case configuration.Color:
		attrs = append(attrs, slog.String("color", fmt.Sprintf("#%02x%02x%02x%02x", m.Color[0], m.Color[1], m.Color[2], m.Color[3])))
	case configuration.Intensity:
		attrs = append(attrs, slog.Float64("intensity", m.Intensity))
	}
	return slog.GroupValue(attrs...)
}

// Modifiers returns the modifiers of a preset, in order.
func Modifiers(p catalog.Preset) []Modifier {
	modifiers := make([]Modifier, 0, p.Len())
	switch p.Scope {
	case catalog.ZoneScope:
		for _, e := range p.Zones {
			modifiers = append(modifiers, newModifier(catalog.ZoneScope, e))
		}
	case catalog.RoomScope:
		for _, e := range p.Rooms {
			modifiers = append(modifiers, newModifier(catalog.RoomScope, e))
		}
	}
	return modifiers
}

func newModifier[T configuration.Target](scope catalog.Scope, e configuration.Entry[T]) Modifier {
	m := Modifier{
		Scope:     scope,
		Target:    e.Target.String(),
		Kind:      e.Modifier,
		Permanent: e.Permanent(),
	}
	if !m.Permanent {
		m.Duration = e.Duration.Duration()
	}
	switch e.Modifier {
	case configuration.Color:
		m.Color = e.Color()
	case configuration.Intensity:
		m.Intensity = e.Intensity()
	}
	return m
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

var _ error = &ModifierError{}

// ModifierError reports a modifier that could not be applied. It matches ErrTargetNotFound if the Sink could not find
// the target, and ErrApply otherwise.
type ModifierError struct {
	Modifier Modifier
	Err      error
}

func (e *ModifierError) Error() string {
	return e.Modifier.String() + ": " + e.Err.Error()
}

func (e *ModifierError) Is(target error) bool {
	return target == ErrApply && !errors.Is(e.Err, ErrTargetNotFound)
}

func (e *ModifierError) Unwrap() error {
	return e.Err
}

func (e *ModifierError) reason() string {
	if errors.Is(e.Err, ErrTargetNotFound) {
		return "target_not_found"
	}
	return "apply_error"
}
