package configuration

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrConfig indicates an invalid preset configuration.
var ErrConfig = errors.New("invalid configuration")

var _ error = &ConfigError{}

// ConfigError lists all problems found in a preset configuration.
type ConfigError struct {
	Problems []error
}

func (e *ConfigError) Error() string {
	if len(e.Problems) == 0 {
		return ErrConfig.Error()
	}
	problems := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		problems[i] = p.Error()
	}
	return ErrConfig.Error() + ": " + strings.Join(problems, "; ")
}

func (e *ConfigError) Is(err error) bool {
	return err == ErrConfig
}

func (e *ConfigError) Unwrap() []error {
	return e.Problems
}

// Validate checks the configuration. It returns a ConfigError listing every problem found, or nil if the configuration is valid.
func Validate(p Presets) error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	timesOK := true
	for _, t := range []struct {
		field string
		value Seconds
	}{
		{field: "timeBetweenMin", value: p.TimeBetweenMin},
		{field: "timeBetweenMax", value: p.TimeBetweenMax},
		{field: "initialDelay", value: p.InitialDelay},
	} {
		if err := validateSeconds(t.value); err != nil {
			add("%s %w", t.field, err)
			timesOK = false
		}
	}
	if timesOK && p.TimeBetweenMin > p.TimeBetweenMax {
		add("timeBetweenMin (%v) exceeds timeBetweenMax (%v)", float64(p.TimeBetweenMin), float64(p.TimeBetweenMax))
	}

	names := make(map[string]string)
	for _, z := range p.PerZone {
		if _, ok := names[z.Name]; ok {
			add("zone preset %q: duplicate name", z.Name)
		}
		names[z.Name] = "zone"
		problems = append(problems, validateEntries(z.Name, z.Entries)...)
	}
	for _, r := range p.PerRoom {
		if kind, ok := names[r.Name]; ok {
			add("room preset %q: name already used by a %s preset", r.Name, kind)
		}
		names[r.Name] = "room"
		problems = append(problems, validateEntries(r.Name, r.Entries)...)
	}

	references := []struct {
		field string
		names []string
	}{
		{field: "initialPreset", names: p.InitialPreset},
		{field: "order", names: p.Order},
	}
	for _, ref := range references {
		for _, name := range ref.names {
			if IsIgnored(name) {
				continue
			}
			if _, ok := names[name]; !ok {
				add("%s: unknown preset %q", ref.field, name)
			}
		}
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

func validateEntries[T Target](preset string, entries []Entry[T]) []error {
	var problems []error
	for i, e := range entries {
		if err := validateEntry(e); err != nil {
			problems = append(problems, fmt.Errorf("preset %q: entry %d: %w", preset, i+1, err))
		}
	}
	return problems
}

// maxSeconds is the longest span a time.Duration can hold.
const maxSeconds = Seconds(math.MaxInt64 / float64(time.Second))

func validateSeconds(s Seconds) error {
	switch {
	case math.IsNaN(float64(s)) || math.IsInf(float64(s), 0):
		return errors.New("must be a finite number")
	case s < 0:
		return errors.New("must not be negative")
	case s >= maxSeconds:
		return errors.New("exceeds the maximum duration")
	}
	return nil
}

func validateEntry[T Target](e Entry[T]) error {
	if e.Target.String() == "" {
		return errors.New("missing target")
	}
	if !e.Permanent() {
		if err := validateSeconds(e.Duration); err != nil {
			return fmt.Errorf("invalid duration %v: %w", float64(e.Duration), err)
		}
	}
	for _, v := range e.Params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("parameter %v is not a finite number", v)
		}
	}
	switch e.Modifier {
	case noModifier:
		return errors.New("missing modifier")
	case Blackout:
	case Color:
		if len(e.Params) < 4 {
			return fmt.Errorf("color requires 4 parameters (RGBA), got %d", len(e.Params))
		}
		for _, v := range e.Params[:4] {
			if v < 0 || v > 255 {
				return fmt.Errorf("color parameter %v out of range [0, 255]", v)
			}
			if v != math.Trunc(v) {
				return fmt.Errorf("color parameter %v is not an integer", v)
			}
		}
	case Intensity:
		if len(e.Params) < 1 {
			return errors.New("intensity requires a multiplier")
		}
		if e.Params[0] < 0 {
			return fmt.Errorf("invalid intensity %v", e.Params[0])
		}
	default:
		return fmt.Errorf("invalid modifier: %d", e.Modifier)
	}
	return nil
}
