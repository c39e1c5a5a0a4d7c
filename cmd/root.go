// Package cmd defines the CLI for the leaderboard executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/cp-leaderboard/internal/app"
	"github.com/JakeFAU/cp-leaderboard/internal/config"
	"github.com/JakeFAU/cp-leaderboard/internal/metrics"
	"github.com/JakeFAU/cp-leaderboard/internal/pipeline"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the services commands use. Tests inject their own factory.
type App interface {
	Close()
	GetConfig() config.Config
	GetFs() afero.Fs
	GetLogger() *zap.Logger
	GetRecorder() *metrics.Recorder
	PagePath() string
	NewPipeline() (*pipeline.Pipeline, error)
	FlushMetrics() error
}

// newApp is the application factory. It's a variable so tests can swap the filesystem or
// logger.
var newApp = func(ctx context.Context, cfgPath string) (App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(ctx, cfg, app.Options{})
}

// newRootCmd creates the root command. Running it with no subcommand refreshes the
// leaderboard once and exits.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Render a live CyberPatriot leaderboard from the public scoreboard API.",
		Long: `leaderboard fetches scores for every team listed in the team file, totals them per
image, ranks the teams and writes a self-refreshing HTML page. Run it on a schedule
(cron, a systemd timer, a Cloud Run job) to keep the page current.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context(), cfgFile)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},

		RunE: runGenerate,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults and LEADERBOARD_* env vars apply without one)")
	cmd.AddCommand(newServeCmd())
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	p, err := appInstance.NewPipeline()
	if err != nil {
		return err
	}
	result, runErr := p.Run(cmd.Context())
	if err := appInstance.FlushMetrics(); err != nil {
		logger.Warn("Failed to write metrics textfile", zap.Error(err))
	}
	if runErr != nil {
		appInstance.Close()
		return runErr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Webpage created: %s\n", result.Location)
	return nil
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "leaderboard: %v\n", err)
		os.Exit(1)
	}
}
