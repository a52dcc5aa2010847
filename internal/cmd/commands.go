package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/clambin/lights/internal/cmd/config"
	"github.com/clambin/lights/internal/cmd/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	runCmd = cobra.Command{
		Use:   "run",
		Short: "run the preset scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			logger := slog.Default()
			a, err := run.New(viper.GetViper(), cmd.Root().Version, registry, logger)
			if err != nil {
				return err
			}
			logger.Info("lights starting", "version", cmd.Root().Version)
			defer logger.Info("lights stopped")
			return a.Run(ctx)
		},
	}

	validateCmd = cobra.Command{
		Use:   "validate",
		Short: "validate the preset document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := run.PresetsFile(viper.GetViper())
			p, c, err := config.Load(path, slog.Default())
			if err != nil {
				return err
			}
			var e config.Encoder
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				e = json.NewEncoder(cmd.OutOrStdout())
			} else {
				ye := yaml.NewEncoder(cmd.OutOrStdout())
				ye.SetIndent(2)
				e = ye
			}
			if err = config.Show(p, c, e); err != nil {
				return err
			}
			if simulate, _ := cmd.Flags().GetBool("simulate"); simulate {
				return config.Simulate(cmd.Context(), c, slog.Default().With("component", "simulator"))
			}
			return nil
		},
	}

	initCmd = cobra.Command{
		Use:   "init [path]",
		Short: "write the default preset document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := run.PresetsFile(viper.GetViper())
			if len(args) > 0 {
				path = args[0]
			}
			force, _ := cmd.Flags().GetBool("force")
			if err := config.Init(path, force); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "default presets written to %s\n", path)
			return err
		},
	}
)

func init() {
	validateCmd.Flags().Bool("simulate", false, "Log every modifier of every preset, without applying them")
	validateCmd.Flags().Bool("json", false, "Show the presets as JSON")
	initCmd.Flags().Bool("force", false, "Overwrite an existing preset document")
}
