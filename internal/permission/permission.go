// Package permission decides who may run presets through a command.
package permission

import (
	"log/slog"

	"github.com/clambin/go-common/set"
	"github.com/clambin/lights/internal/presets"
)

var (
	_ presets.PermissionGate = DenyAll{}
	_ presets.PermissionGate = &AllowList{}
)

// DenyAll allows no one to run a preset.
type DenyAll struct{}

func (DenyAll) Authorize(string, string) bool {
	return false
}

// AllowList allows an invoker to run a preset if the invoker is a global user, or if the invoker is listed for that preset.
type AllowList struct {
	users   set.Set[string]
	presets map[string]set.Set[string]
}

// NewAllowList returns an AllowList for the global users and the per-preset users.
func NewAllowList(users []string, perPreset map[string][]string) *AllowList {
	l := AllowList{
		users:   set.New(users...),
		presets: make(map[string]set.Set[string], len(perPreset)),
	}
	for preset, invokers := range perPreset {
		l.presets[preset] = set.New(invokers...)
	}
	return &l
}

func (l *AllowList) Authorize(invoker string, preset string) bool {
	if invoker == "" {
		return false
	}
	if l.users.Contains(invoker) {
		return true
	}
	invokers, ok := l.presets[preset]
	return ok && invokers.Contains(invoker)
}

// New returns an AllowList for the configured users. If no users are configured, New returns DenyAll.
func New(users []string, perPreset map[string][]string, logger *slog.Logger) presets.PermissionGate {
	if len(users) == 0 && len(perPreset) == 0 {
		logger.Warn("no users configured. presets that require permission cannot be run")
		return DenyAll{}
	}
	return NewAllowList(users, perPreset)
}
