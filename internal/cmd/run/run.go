package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/clambin/lights/internal/api"
	"github.com/clambin/lights/internal/bot"
	"github.com/clambin/lights/internal/catalog"
	"github.com/clambin/lights/internal/commands"
	"github.com/clambin/lights/internal/configuration"
	"github.com/clambin/lights/internal/health"
	"github.com/clambin/lights/internal/notifier"
	"github.com/clambin/lights/internal/permission"
	"github.com/clambin/lights/internal/presets"
	"github.com/clambin/lights/internal/sink"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const namespace = "lights"

type task interface {
	Run(ctx context.Context) error
}

type taskFunc func(ctx context.Context) error

func (f taskFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// An App runs the preset scheduler and everything that exposes it.
type App struct {
	Scheduler *presets.Scheduler
	Holder    *configuration.Holder
	handler   http.Handler
	tasks     []task
}

// New creates an App from the service configuration. Metrics are registered with registry.
func New(cfg *viper.Viper, version string, registry *prometheus.Registry, logger *slog.Logger) (*App, error) {
	var a App
	h, err := configuration.NewHolder(PresetsFile(cfg), a.configure, logger.With("component", "configuration"))
	if err != nil {
		return nil, fmt.Errorf("presets: %w", err)
	}
	a.Holder = h

	p := h.Get()
	c, err := catalog.New(p)
	if err != nil {
		return nil, fmt.Errorf("presets: %w", err)
	}

	m := presets.NewMetrics(namespace)
	registry.MustRegister(m)
	a.Scheduler = presets.New(p, c, makeSink(cfg, registry, logger), logger.With("component", "scheduler"),
		presets.WithMetrics(m),
		presets.WithPermissionGate(permission.New(
			cfg.GetStringSlice("permissions.users"),
			cfg.GetStringMapStringSlice("permissions.presets"),
			logger.With("component", "permission"),
		)),
	)
	a.tasks = append(a.tasks, a.Scheduler)

	if cfg.GetBool("presets.watch") {
		a.tasks = append(a.tasks, taskFunc(h.Watch))
	}

	e := commands.Executor{Scheduler: a.Scheduler, Reloader: h, Logger: logger.With("component", "commands")}
	a.tasks = append(a.tasks, taskFunc(func(ctx context.Context) error {
		return notifier.Forward(ctx, a.Scheduler, makeNotifiers(cfg, logger))
	}))

	if token, appToken := cfg.GetString("slack.token"), cfg.GetString("slack.appToken"); token != "" && appToken != "" {
		l := logger.With("component", "bot")
		a.tasks = append(a.tasks, bot.New(bot.NewSocketModeHandler(token, appToken, l), e, l))
	}

	hl := health.New(a.Scheduler, logger.With("component", "health"))
	a.tasks = append(a.tasks, hl)

	rm := api.NewRequestMetrics(namespace)
	registry.MustRegister(rm)
	a.handler = api.New(e, api.Config{
		RunLimit:       cfg.GetInt("api.rate"),
		RunWindow:      time.Minute,
		Health:         hl,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		RequestMetrics: rm,
	}, logger.With("component", "api"))
	a.tasks = append(a.tasks, &httpServer{
		Server: &http.Server{Addr: cfg.GetString("api.addr"), Handler: a.handler, ReadHeaderTimeout: 5 * time.Second},
		logger: logger.With("component", "http"),
	})

	logger.Info("lights configured", "version", version, "presets", len(c.Names()), "tasks", len(a.tasks))
	return &a, nil
}

// PresetsFile returns the location of the preset document. A relative path is relative to the service's configuration file.
func PresetsFile(cfg *viper.Viper) string {
	path := cfg.GetString("presets.file")
	if filepath.IsAbs(path) || cfg.ConfigFileUsed() == "" {
		return path
	}
	return filepath.Join(filepath.Dir(cfg.ConfigFileUsed()), path)
}

// configure activates a reloaded preset document.
func (a *App) configure(p configuration.Presets) error {
	c, err := catalog.New(p)
	if err != nil {
		return err
	}
	a.Scheduler.Configure(p, c)
	return nil
}

func makeSink(cfg *viper.Viper, registry prometheus.Registerer, logger *slog.Logger) presets.Sink {
	l := logger.With("component", "sink")
	url := cfg.GetString("sink.url")
	if url == "" {
		l.Warn("no sink url configured. modifiers will only be logged")
		return sink.Log{Logger: l}
	}
	m := sink.NewMetrics(namespace)
	registry.MustRegister(m)
	return sink.NewHTTP(url, cfg.GetDuration("sink.timeout"), l, sink.WithMetrics(m))
}

func makeNotifiers(cfg *viper.Viper, logger *slog.Logger) notifier.Notifiers {
	n := notifier.Notifiers{&notifier.SLogNotifier{Logger: logger.With("component", "events")}}
	if token := cfg.GetString("slack.token"); token != "" {
		n = append(n, &notifier.SlackNotifier{
			SlackSender: slack.New(token),
			Logger:      logger.With("component", "notifier"),
		})
	}
	return n
}

// Run runs all tasks until ctx is canceled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range a.tasks {
		g.Go(func() error { return t.Run(ctx) })
	}
	return g.Wait()
}

type httpServer struct {
	*http.Server
	logger *slog.Logger
}

func (s *httpServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	s.logger.Debug("http server started", "addr", s.Addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.Shutdown(shutdownCtx)
	if err2 := <-errCh; !errors.Is(err2, http.ErrServerClosed) {
		err = errors.Join(err, err2)
	}
	s.logger.Debug("http server stopped")
	return err
}
