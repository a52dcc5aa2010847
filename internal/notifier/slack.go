package notifier

import (
	"log/slog"

	"github.com/clambin/lights/internal/presets"
	"github.com/slack-go/slack"
)

// SlackNotifier posts events to all Slack channels the bot is a member of.
type SlackNotifier struct {
	Logger *slog.Logger
	SlackSender
}

type SlackSender interface {
	PostMessage(string, ...slack.MsgOption) (string, string, error)
	GetConversations(*slack.GetConversationsParameters) ([]slack.Channel, string, error)
}

var _ Notifier = &SlackNotifier{}

func (s *SlackNotifier) Notify(ev presets.Event) {
	// automatic state changes are only logged. scheduler completion is worth a message.
	if ev.Kind == presets.StateChanged && ev.State != presets.Stopped {
		return
	}
	channels, err := s.getChannels()
	if err != nil {
		s.Logger.Error("notifier failed to retrieve channels", "err", err)
		return
	}
	msg := buildMessage(ev)
	color := "good"
	if !msg.ok {
		color = "bad"
	}
	for _, channel := range channels {
		s.Logger.Debug("notifying on slack", "channel", channel.Name)
		_, _, err = s.SlackSender.PostMessage(channel.ID, slack.MsgOptionAttachments(slack.Attachment{
			Color: color,
			Title: msg.title,
			Text:  msg.text,
		}))
		if err != nil {
			s.Logger.Error("notifier failed to post message", "err", err)
		}
	}
}

func (s *SlackNotifier) getChannels() ([]slack.Channel, error) {
	var joinedChannels []slack.Channel
	var cursor string
	for {
		channels, nextCursor, err := s.SlackSender.GetConversations(&slack.GetConversationsParameters{Cursor: cursor, Limit: 100})
		if err != nil {
			return nil, err
		}
		for _, channel := range channels {
			if channel.IsMember && !channel.IsArchived {
				joinedChannels = append(joinedChannels, channel)
			}
		}
		if cursor = nextCursor; cursor == "" {
			break
		}
	}
	return joinedChannels, nil
}
