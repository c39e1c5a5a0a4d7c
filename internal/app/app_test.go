// Package app_test contains unit tests for the app package.
package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/cp-leaderboard/internal/app"
	"github.com/JakeFAU/cp-leaderboard/internal/config"
	"github.com/JakeFAU/cp-leaderboard/internal/storage/local"
	"github.com/JakeFAU/cp-leaderboard/internal/storage/memory"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		Teams:  config.TeamsConfig{File: "teams.txt"},
		API:    config.APIConfig{BaseURL: baseURL, TeamParam: "team[]"},
		HTTP:   config.HTTPConfig{Timeout: 2 * time.Second, UserAgent: "app-test"},
		Output: config.OutputConfig{Provider: config.OutputLocal, Path: "team_scores.html"},
		Render: config.RenderConfig{Title: "Team Scores", Heading: "Scores", RefreshSeconds: 30},
		Server: config.ServerConfig{Port: 8080},
	}
}

func scoreServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("team[]") != "1001" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"team_number":"1001","image":"Win10","ccs_score":50,"duration":"00:10:00"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_LocalProvider(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	a, err := app.New(context.Background(), testConfig("https://example.org/scores.php"), app.Options{
		Fs:     afero.NewMemMapFs(),
		Logger: zap.New(core),
	})
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &local.BlobStore{}, app.StorageOf(a))
	assert.NotEmpty(t, app.RunIDOf(a))
	assert.Equal(t, "team_scores.html", a.PagePath())

	a.GetLogger().Info("probe")
	entries := logs.FilterMessage("probe").All()
	require.Len(t, entries, 1)
	assert.Equal(t, app.RunIDOf(a), entries[0].ContextMap()["run_id"])
}

func TestNew_MemoryProvider(t *testing.T) {
	t.Parallel()

	cfg := testConfig("https://example.org/scores.php")
	cfg.Output.Provider = config.OutputMemory
	a, err := app.New(context.Background(), cfg, app.Options{Fs: afero.NewMemMapFs(), Logger: zap.NewNop()})
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &memory.BlobStore{}, app.StorageOf(a))
}

func TestNew_UnknownProvider(t *testing.T) {
	t.Parallel()

	cfg := testConfig("https://example.org/scores.php")
	cfg.Output.Provider = "ftp"
	_, err := app.New(context.Background(), cfg, app.Options{Fs: afero.NewMemMapFs(), Logger: zap.NewNop()})
	require.ErrorContains(t, err, "unknown output provider")
}

func TestPipelineWritesLocalPage(t *testing.T) {
	t.Parallel()

	srv := scoreServer(t)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "teams.txt", []byte("1001\n1002\n"), 0o600))

	cfg := testConfig(srv.URL + "/api/image/scores.php")
	cfg.Output.BaseDir = "public"
	a, err := app.New(context.Background(), cfg, app.Options{Fs: fs, Logger: zap.NewNop()})
	require.NoError(t, err)
	defer a.Close()

	p, err := a.NewPipeline()
	require.NoError(t, err)
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("public", "team_scores.html"), result.Location)
	assert.Equal(t, a.PagePath(), result.Location)

	page, err := afero.ReadFile(fs, result.Location)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Win10 (CCS Score)")
	assert.Contains(t, string(page), "not available")
}

func TestFlushMetrics(t *testing.T) {
	t.Parallel()

	cfg := testConfig("https://example.org/scores.php")
	path := filepath.Join(t.TempDir(), "leaderboard.prom")
	cfg.Metrics.Textfile = path
	a, err := app.New(context.Background(), cfg, app.Options{Fs: afero.NewMemMapFs(), Logger: zap.NewNop()})
	require.NoError(t, err)
	defer a.Close()

	a.GetRecorder().ObserveBoard(3, 2)
	require.NoError(t, a.FlushMetrics())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "leaderboard_teams 3")
}

func TestFlushMetricsDisabled(t *testing.T) {
	t.Parallel()

	a, err := app.New(context.Background(), testConfig("https://example.org/scores.php"), app.Options{
		Fs:     afero.NewMemMapFs(),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.FlushMetrics())
}
