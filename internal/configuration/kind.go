package configuration

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModifierKind is the effect a modifier has on the lights of its target.
type ModifierKind int

// The zero ModifierKind is invalid: an entry must name its modifier.
const (
	noModifier ModifierKind = iota
	Blackout
	Color
	Intensity
)

var modifierKinds = []string{"", "blackout", "color", "intensity"}

func (k ModifierKind) String() string {
	if k < 0 || int(k) >= len(modifierKinds) {
		return ""
	}
	return modifierKinds[k]
}

func (k *ModifierKind) UnmarshalYAML(node *yaml.Node) error {
	for i, name := range modifierKinds {
		if i != int(noModifier) && strings.EqualFold(node.Value, name) {
			*k = ModifierKind(i)
			return nil
		}
	}
	return fmt.Errorf("invalid modifier: %s", node.Value)
}

func (k ModifierKind) MarshalYAML() (any, error) {
	v := k.String()
	if v == "" {
		return "", fmt.Errorf("invalid modifier: %d", k)
	}
	return v, nil
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

// Zone is a coarse-grained location in the facility.
type Zone int

// The zero Zone is invalid: a zone entry must name its target.
const (
	noZone Zone = iota
	Unspecified
	LightContainment
	HeavyContainment
	Entrance
	Surface
	Other
)

var zones = []string{"", "Unspecified", "LightContainment", "HeavyContainment", "Entrance", "Surface", "Other"}

func (z Zone) String() string {
	if z < 0 || int(z) >= len(zones) {
		return ""
	}
	return zones[z]
}

func (z *Zone) UnmarshalYAML(node *yaml.Node) error {
	for i, name := range zones {
		if i != int(noZone) && strings.EqualFold(node.Value, name) {
			*z = Zone(i)
			return nil
		}
	}
	return fmt.Errorf("invalid zone: %s", node.Value)
}

func (z Zone) MarshalYAML() (any, error) {
	v := z.String()
	if v == "" {
		return "", fmt.Errorf("invalid zone: %d", z)
	}
	return v, nil
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

// Room is a fine-grained location in the facility, e.g. "EzCafeteria" or "Hcz049".
// Which rooms exist depends on the layout generated by the game, so a Room is only resolved when a modifier is applied.
type Room string

func (r Room) String() string {
	return string(r)
}
