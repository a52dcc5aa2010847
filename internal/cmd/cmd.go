package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/clambin/go-common/charmer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFilename string
	RootCmd        = cobra.Command{
		Use:   "lights",
		Short: "schedules lighting presets",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), viper.GetBool("debug"), viper.GetString("log.format")))
		},
		SilenceUsage: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	if err := charmer.SetPersistentFlags(&RootCmd, viper.GetViper(), args); err != nil {
		panic("failed to set flags: " + err.Error())
	}
	RootCmd.AddCommand(&runCmd, &validateCmd, &initCmd)
}

var args = charmer.Arguments{
	"debug":          {Default: false, Help: "Log debug messages"},
	"log.format":     {Default: "text", Help: "Log format (text or json)"},
	"presets.file":   {Default: "presets.yaml", Help: "Preset document. A relative path is relative to the configuration file"},
	"presets.watch":  {Default: false, Help: "Reload the preset document when it changes"},
	"api.addr":       {Default: ":8080", Help: "Address of the HTTP API"},
	"sink.url":       {Default: "", Help: "Base URL of the light bridge. If empty, modifiers are only logged"},
	"sink.timeout":   {Default: 5 * time.Second, Help: "Timeout when applying a modifier"},
	"slack.token":    {Default: "", Help: "Slack bot token"},
	"slack.appToken": {Default: "", Help: "Slack app-level token (socket mode)"},
}

func initConfig() {
	if configFilename != "" {
		viper.SetConfigFile(configFilename)
	} else {
		viper.AddConfigPath("/etc/lights/")
		viper.AddConfigPath("$HOME/.lights")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	viper.SetDefault("api.rate", 10)
	viper.SetDefault("permissions.users", []string{})
	viper.SetDefault("permissions.presets", map[string][]string{})

	viper.SetEnvPrefix("LIGHTS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// the configuration file is optional, unless one was specified
		var notFound viper.ConfigFileNotFoundError
		if configFilename != "" || !errors.As(err, &notFound) {
			slog.Error("failed to read config file", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(w io.Writer, debug bool, format string) *slog.Logger {
	var opts slog.HandlerOptions
	if debug {
		opts.Level = slog.LevelDebug
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, &opts))
	}
	return slog.New(slog.NewTextHandler(w, &opts))
}
