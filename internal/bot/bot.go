// Package bot lets Slack users control the lights through slash commands.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/clambin/lights/internal/commands"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// Bot handles the /preset, /presets, /reload and /lights slash commands.
type Bot struct {
	SocketModeHandler
	executor Executor
	logger   *slog.Logger
	commands map[string]commandHandler
}

// SocketModeHandler receives events from Slack. *socketmode.SocketmodeHandler implements this interface.
type SocketModeHandler interface {
	HandleSlashCommand(command string, f socketmode.SocketmodeHandlerFunc)
	HandleDefault(f socketmode.SocketmodeHandlerFunc)
	RunEventLoopContext(ctx context.Context) error
}

// SlackSender acknowledges and answers Slack events. *socketmode.Client implements this interface.
type SlackSender interface {
	Ack(req socketmode.Request, payload ...interface{})
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
	PostEphemeral(channelID string, userID string, options ...slack.MsgOption) (string, error)
}

// Executor runs the commands. commands.Executor implements this interface.
type Executor interface {
	RunPreset(ctx context.Context, invoker string, name string) commands.Response
	Reload(ctx context.Context) commands.Response
	List() commands.Response
	Status() commands.Response
	Enable(enabled bool) commands.Response
}

type commandHandler func(context.Context, slack.SlashCommand, SlackSender) error

// New creates a Bot and registers its slash commands with the handler.
func New(h SocketModeHandler, e Executor, logger *slog.Logger) *Bot {
	b := Bot{
		SocketModeHandler: h,
		executor:          e,
		logger:            logger,
	}
	b.commands = map[string]commandHandler{
		"/preset":  b.runPreset,
		"/presets": b.listPresets,
		"/reload":  b.reload,
		"/lights":  b.lights,
	}
	for command := range b.commands {
		b.SocketModeHandler.HandleSlashCommand(command, b.handleSlashCommand)
	}
	b.SocketModeHandler.HandleDefault(b.handleDefault)
	return &b
}

// NewSocketModeHandler connects to Slack in socket mode, using the bot token and the app-level token.
func NewSocketModeHandler(token string, appToken string, logger *slog.Logger) *socketmode.SocketmodeHandler {
	api := slack.New(token, slack.OptionAppLevelToken(appToken))
	client := socketmode.New(api, socketmode.OptionLog(slogAdapter{logger: logger}))
	return socketmode.NewSocketmodeHandler(client)
}

// Run processes Slack events until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Debug("bot started")
	defer b.logger.Debug("bot stopped")
	if err := b.SocketModeHandler.RunEventLoopContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot: %w", err)
	}
	return nil
}

func (b *Bot) handleSlashCommand(event *socketmode.Event, client *socketmode.Client) {
	b.dispatch(event, client)
}

func (b *Bot) dispatch(event *socketmode.Event, client SlackSender) {
	data, ok := event.Data.(slack.SlashCommand)
	if !ok {
		b.logger.Warn("ignoring slash command with unexpected payload", "type", fmt.Sprintf("%T", event.Data))
		return
	}
	if event.Request != nil {
		client.Ack(*event.Request)
	}

	b.logger.Debug("slash command received", "command", data.Command, "text", data.Text, "user", data.UserName)
	handler, ok := b.commands[data.Command]
	if !ok {
		b.logger.Warn("unsupported slash command", "command", data.Command)
		return
	}
	if err := handler(context.Background(), data, client); err != nil {
		b.logger.Warn("slash command failed", "command", data.Command, "err", err)
		b.postError(data, client, err)
	}
}

func (b *Bot) handleDefault(event *socketmode.Event, _ *socketmode.Client) {
	b.logger.Debug("event received", "type", event.Type)
}

func (b *Bot) postError(command slack.SlashCommand, client SlackSender, err error) {
	attachment := slack.Attachment{Color: "bad", Text: err.Error()}
	if _, err = client.PostEphemeral(command.ChannelID, command.UserID, slack.MsgOptionAttachments(attachment)); err != nil {
		b.logger.Error("failed to post error", "err", err)
	}
}

func (b *Bot) runPreset(ctx context.Context, command slack.SlashCommand, client SlackSender) error {
	args := tokenizeText(command.Text)
	if len(args) != 1 {
		return errors.New("missing parameter\nUsage: /preset <name>")
	}
	resp := b.executor.RunPreset(ctx, command.UserID, args[0])
	if !resp.OK {
		return errors.New(resp.Message)
	}
	text := "<@" + command.UserID + "> " + resp.Message
	_, _, err := client.PostMessage(command.ChannelID, slack.MsgOptionText(text, false))
	return err
}

func (b *Bot) listPresets(_ context.Context, command slack.SlashCommand, client SlackSender) error {
	return postResponse(command, client, "presets", b.executor.List())
}

func (b *Bot) reload(ctx context.Context, command slack.SlashCommand, client SlackSender) error {
	resp := b.executor.Reload(ctx)
	if !resp.OK {
		return errors.New(resp.Message)
	}
	text := "<@" + command.UserID + "> " + resp.Message
	_, _, err := client.PostMessage(command.ChannelID, slack.MsgOptionText(text, false))
	return err
}

func (b *Bot) lights(_ context.Context, command slack.SlashCommand, client SlackSender) error {
	args := tokenizeText(command.Text)
	var resp commands.Response
	switch {
	case len(args) == 0 || args[0] == "status":
		resp = b.executor.Status()
	case args[0] == "on":
		resp = b.executor.Enable(true)
	case args[0] == "off":
		resp = b.executor.Enable(false)
	default:
		return errors.New("invalid parameter\nUsage: /lights [status|on|off]")
	}
	return postResponse(command, client, "lights", resp)
}

func postResponse(command slack.SlashCommand, client SlackSender, title string, resp commands.Response) error {
	if !resp.OK {
		return errors.New(resp.Message)
	}
	attachment := slack.Attachment{
		Color: "good",
		Title: title,
		Text:  resp.Message,
	}
	_, err := client.PostEphemeral(command.ChannelID, command.UserID, slack.MsgOptionAttachments(attachment))
	return err
}

var tokenizer = regexp.MustCompile(`[^\s"]+|"([^"]*)"`)

func tokenizeText(input string) []string {
	cleanInput := input
	for _, quote := range []string{"“", "”", "'"} {
		cleanInput = strings.ReplaceAll(cleanInput, quote, "\"")
	}
	output := tokenizer.FindAllString(cleanInput, -1)
	for index, word := range output {
		output[index] = strings.Trim(word, "\"")
	}
	return output
}

// slogAdapter sends the socketmode client's log output to slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Output(_ int, s string) error {
	a.logger.Debug(strings.TrimSpace(s))
	return nil
}
