package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/cp-leaderboard/internal/api"
	"github.com/JakeFAU/cp-leaderboard/internal/config"
)

// newServeCmd creates the 'serve' subcommand, which serves the last generated page for hosts
// without a web server of their own.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated leaderboard page over HTTP",
		Long: `Serves the page written by the local output provider, plus /healthz, /readyz
and /metrics. The page itself is refreshed by separate scheduled runs.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.GetConfig()
	if cfg.Output.Provider != config.OutputLocal {
		return fmt.Errorf("serve reads the page from the local filesystem; output.provider must be %q, got %q",
			config.OutputLocal, cfg.Output.Provider)
	}
	logger := appInstance.GetLogger()

	gatherer := prometheus.Gatherers{prometheus.DefaultGatherer, appInstance.GetRecorder().Registry()}
	server := api.NewServer(appInstance.GetFs(), appInstance.PagePath(), gatherer, logger.Named("api"))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return serve(cmd.Context(), srv, logger)
}

func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
