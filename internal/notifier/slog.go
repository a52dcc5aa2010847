package notifier

import (
	"log/slog"

	"github.com/clambin/lights/internal/presets"
)

type SLogNotifier struct {
	Logger *slog.Logger
}

var _ Notifier = &SLogNotifier{}

func (s SLogNotifier) Notify(ev presets.Event) {
	msg := buildMessage(ev)
	if ev.Kind == presets.PresetApplied {
		s.Logger.Info(msg.title, "run", ev.Result.RunID, "result", msg.text, "loops", ev.Loops)
		return
	}
	s.Logger.Info(msg.title, "reason", msg.text)
}
