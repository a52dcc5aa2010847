// Package catalog merges the zone and room presets of a configuration into a single, read-only namespace.
package catalog

import (
	"errors"
	"fmt"

	"github.com/clambin/lights/internal/configuration"
)

// ErrNotFound is returned when a preset does not exist.
var ErrNotFound = errors.New("preset not found")

// Scope indicates whether a Preset addresses zones or rooms.
type Scope int

const (
	ZoneScope Scope = iota
	RoomScope
)

func (s Scope) String() string {
	switch s {
	case ZoneScope:
		return "zone"
	case RoomScope:
		return "room"
	default:
		return "unknown"
	}
}

// Preset is a named, ordered list of modifiers. It holds either zone entries or room entries, as indicated by Scope.
type Preset struct {
	Name  string
	Scope Scope
	Zones []configuration.Entry[configuration.Zone]
	Rooms []configuration.Entry[configuration.Room]
}

// Len returns the number of modifiers in the preset.
func (p Preset) Len() int {
	if p.Scope == ZoneScope {
		return len(p.Zones)
	}
	return len(p.Rooms)
}

// Catalog holds all configured presets.
type Catalog struct {
	presets map[string]Preset
	names   []string
}

// New builds a catalog from the configuration. A preset name that exists both as a zone and as a room preset is a configuration error.
func New(cfg configuration.Presets) (*Catalog, error) {
	c := Catalog{
		presets: make(map[string]Preset, len(cfg.PerZone)+len(cfg.PerRoom)),
		names:   make([]string, 0, len(cfg.PerZone)+len(cfg.PerRoom)),
	}
	var problems []error
	for _, p := range cfg.PerZone {
		if err := c.add(Preset{Name: p.Name, Scope: ZoneScope, Zones: p.Entries}); err != nil {
			problems = append(problems, err)
		}
	}
	for _, p := range cfg.PerRoom {
		if err := c.add(Preset{Name: p.Name, Scope: RoomScope, Rooms: p.Entries}); err != nil {
			problems = append(problems, err)
		}
	}
	if len(problems) > 0 {
		return nil, &configuration.ConfigError{Problems: problems}
	}
	return &c, nil
}

func (c *Catalog) add(p Preset) error {
	if existing, ok := c.presets[p.Name]; ok {
		return fmt.Errorf("%s preset %q: name already used by a %s preset", p.Scope, p.Name, existing.Scope)
	}
	c.presets[p.Name] = p
	c.names = append(c.names, p.Name)
	return nil
}

// Lookup returns the named preset.
func (c *Catalog) Lookup(name string) (Preset, error) {
	p, ok := c.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return p, nil
}

// Contains returns true if the named preset exists.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.presets[name]
	return ok
}

// Names returns all preset names, zone presets first, in the order they appear in the configuration.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}
