package configuration

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// IgnorePrefix marks an InitialPreset or Order entry that should be skipped.
const IgnorePrefix = "!"

// Presets contains everything preset-related.
type Presets struct {
	// AreEnabled enables the preset scheduler.
	AreEnabled bool `yaml:"areEnabled"`
	// RandomOrder picks the next preset at random from Order, instead of going through Order sequentially.
	RandomOrder bool `yaml:"randomOrder"`
	// SpecificPermissionsRequired requires a permission for running a preset through a command.
	SpecificPermissionsRequired bool `yaml:"specificPermissionsRequired"`
	// LoopCount is the number of times the scheduler loops through Order. Zero loops forever.
	LoopCount uint `yaml:"loopCount"`
	// TimeBetweenMin is the minimum time until the next preset runs.
	TimeBetweenMin Seconds `yaml:"timeBetweenMin"`
	// TimeBetweenMax is the maximum time until the next preset runs.
	TimeBetweenMax Seconds `yaml:"timeBetweenMax"`
	// InitialDelay is the time until the scheduler runs its first preset.
	InitialDelay Seconds `yaml:"initialDelay"`
	// InitialPreset lists the candidates for the first preset. Entries starting with "!" are ignored.
	InitialPreset []string `yaml:"initialPreset"`
	// Order is the order in which presets are run.
	Order []string `yaml:"order"`
	// PerZone holds the zone presets.
	PerZone Table[Zone] `yaml:"perZone"`
	// PerRoom holds the room presets.
	PerRoom Table[Room] `yaml:"perRoom"`
}

// IsIgnored returns true if the preset name is an ignore-sentinel.
func IsIgnored(name string) bool {
	return strings.HasPrefix(name, IgnorePrefix)
}

// Seconds is a time span in (fractional) seconds, as found in the preset document.
type Seconds float64

// Duration converts s to a time.Duration.
func (s Seconds) Duration() time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

func (s Seconds) String() string {
	return s.Duration().String()
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

// Target is the location a modifier applies to: a Zone or a Room.
type Target interface {
	Zone | Room
	fmt.Stringer
}

// Table holds named presets for one kind of Target, in document order.
type Table[T Target] []NamedEntries[T]

// NamedEntries is a single preset in a Table.
type NamedEntries[T Target] struct {
	Name    string
	Entries []Entry[T]
}

// Get returns the entries of the named preset.
func (t Table[T]) Get(name string) ([]Entry[T], bool) {
	for _, p := range t {
		if p.Name == name {
			return p.Entries, true
		}
	}
	return nil, false
}

// Names returns the preset names in document order.
func (t Table[T]) Names() []string {
	names := make([]string, len(t))
	for i, p := range t {
		names[i] = p.Name
	}
	return names
}

func (t *Table[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: presets must be a map of preset names to modifier lists", node.Line)
	}
	table := make(Table[T], 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var p NamedEntries[T]
		if err := node.Content[i].Decode(&p.Name); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&p.Entries); err != nil {
			return fmt.Errorf("preset %q: %w", p.Name, err)
		}
		table = append(table, p)
	}
	*t = table
	return nil
}

func (t Table[T]) MarshalYAML() (any, error) {
	node := yaml.Node{Kind: yaml.MappingNode}
	for _, p := range t {
		var key, value yaml.Node
		key.SetString(p.Name)
		if err := value.Encode(p.Entries); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &value)
	}
	return &node, nil
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

// Entry is a single modifier instruction within a preset.
type Entry[T Target] struct {
	Target   T            `yaml:"target"`
	Modifier ModifierKind `yaml:"modifier"`
	// Duration in seconds. -1 means the modifier stays active until the next preset.
	Duration Seconds `yaml:"duration"`
	// Params holds the kind-specific parameters: RGBA bytes for Color, a multiplier for Intensity.
	Params []float64 `yaml:"params,omitempty,flow"`
}

// Permanent returns true if the modifier stays active until the next preset.
func (e Entry[T]) Permanent() bool {
	return e.Duration == -1
}

// Color returns the RGBA parameters of a Color modifier.
func (e Entry[T]) Color() [4]uint8 {
	var rgba [4]uint8
	for i := 0; i < len(rgba) && i < len(e.Params); i++ {
		rgba[i] = uint8(e.Params[i])
	}
	return rgba
}

// Intensity returns the multiplier of an Intensity modifier.
func (e Entry[T]) Intensity() float64 {
	if len(e.Params) == 0 {
		return 0
	}
	return e.Params[0]
}

var _ slog.LogValuer = Entry[Zone]{}

func (e Entry[T]) LogValue() slog.Value {
	attrs := make([]slog.Attr, 3, 4)
	attrs[0] = slog.String("target", e.Target.String())
	attrs[1] = slog.String("modifier", e.Modifier.String())
	attrs[2] = slog.String("duration", durationString(e.Duration))
	switch e.Modifier {
	case Color:
		rgba := e.Color()
		attrs = append(attrs, slog.String("color", fmt.Sprintf("#%02x%02x%02x%02x", rgba[0], rgba[1], rgba[2], rgba[3])))
	case Intensity:
		attrs = append(attrs, slog.Float64("intensity", e.Intensity()))
	}
	return slog.GroupValue(attrs...)
}

func durationString(s Seconds) string {
	if s == -1 {
		return "permanent"
	}
	return strconv.FormatFloat(float64(s), 'f', -1, 64) + "s"
}
