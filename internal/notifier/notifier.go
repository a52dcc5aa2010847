// Package notifier reports the Scheduler's activity to the log and to Slack.
package notifier

import (
	"context"
	"fmt"

	"github.com/clambin/lights/internal/presets"
)

type Notifier interface {
	Notify(presets.Event)
}

type Notifiers []Notifier

func (n Notifiers) Notify(ev presets.Event) {
	for _, l := range n {
		l.Notify(ev)
	}
}

// Publisher sends presets.Event to its subscribers. presets.Scheduler implements this interface.
type Publisher interface {
	Subscribe() chan presets.Event
	Unsubscribe(chan presets.Event)
}

// Forward sends all events from p to n, until ctx is canceled.
func Forward(ctx context.Context, p Publisher, n Notifier) error {
	ch := p.Subscribe()
	defer p.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-ch:
			n.Notify(ev)
		}
	}
}

type message struct {
	title string
	text  string
	ok    bool
}

func buildMessage(ev presets.Event) message {
	switch ev.Kind {
	case presets.PresetApplied:
		msg := message{
			title: fmt.Sprintf("%s: preset applied (%s)", ev.Result.Preset, ev.Result.Trigger),
			text:  fmt.Sprintf("%d modifier(s) applied", ev.Result.Applied),
			ok:    ev.Result.OK(),
		}
		if !msg.ok {
			msg.text += fmt.Sprintf(", %d failed", len(ev.Result.Failed))
		}
		return msg
	case presets.StateChanged:
		return message{
			title: "scheduler " + ev.State.String(),
			text:  ev.Reason,
			ok:    true,
		}
	default:
		return message{title: "unknown event", ok: false}
	}
}
