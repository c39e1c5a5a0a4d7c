// Package metrics records Prometheus metrics for a leaderboard run.
//
// A run is a short-lived process, so the collectors live on a private registry that can be
// written to a node_exporter textfile once the run finishes.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcome label values.
const (
	FetchOK     = "ok"
	FetchNoData = "no_data"
)

// Recorder owns the collectors for one run.
type Recorder struct {
	registry *prometheus.Registry

	fetchesTotal       *prometheus.CounterVec
	durationWarnings   prometheus.Counter
	teams              prometheus.Gauge
	images             prometheus.Gauge
	runDuration        prometheus.Gauge
	lastSuccessSeconds prometheus.Gauge
	runSuccess         prometheus.Gauge
	rateLimitDelay     *prometheus.HistogramVec
}

// New registers the leaderboard collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaderboard_team_fetches_total",
				Help: "Team score fetches, labeled by outcome.",
			},
			[]string{"outcome"},
		),
		durationWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leaderboard_malformed_durations_total",
			Help: "Image records whose duration could not be parsed.",
		}),
		teams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leaderboard_teams",
			Help: "Teams listed on the last rendered leaderboard.",
		}),
		images: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leaderboard_images",
			Help: "Distinct images listed on the last rendered leaderboard.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leaderboard_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		lastSuccessSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leaderboard_last_success_timestamp_seconds",
			Help: "Unix time the leaderboard was last written successfully.",
		}),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leaderboard_run_success",
			Help: "1 if the last run wrote the leaderboard, 0 otherwise.",
		}),
		rateLimitDelay: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leaderboard_rate_limit_delay_seconds",
				Help:    "Time spent waiting for the API rate limiter.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"host"},
		),
	}
	r.registry.MustRegister(
		r.fetchesTotal,
		r.durationWarnings,
		r.teams,
		r.images,
		r.runDuration,
		r.lastSuccessSeconds,
		r.runSuccess,
		r.rateLimitDelay,
	)
	return r
}

// Registry exposes the underlying registry for handlers and tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveFetch counts one team fetch.
func (r *Recorder) ObserveFetch(hasData bool) {
	outcome := FetchNoData
	if hasData {
		outcome = FetchOK
	}
	r.fetchesTotal.WithLabelValues(outcome).Inc()
}

// ObserveDurationWarnings counts records with unparseable durations.
func (r *Recorder) ObserveDurationWarnings(n int) {
	r.durationWarnings.Add(float64(n))
}

// ObserveBoard records the shape of the rendered leaderboard.
func (r *Recorder) ObserveBoard(teams, images int) {
	r.teams.Set(float64(teams))
	r.images.Set(float64(images))
}

// ObserveRun records how the run ended.
func (r *Recorder) ObserveRun(finished time.Time, elapsed time.Duration, ok bool) {
	r.runDuration.Set(elapsed.Seconds())
	if ok {
		r.runSuccess.Set(1)
		r.lastSuccessSeconds.Set(float64(finished.Unix()))
		return
	}
	r.runSuccess.Set(0)
}

// ObserveRateLimitDelay records time spent waiting before a request to host.
func (r *Recorder) ObserveRateLimitDelay(host string, waited time.Duration) {
	r.rateLimitDelay.WithLabelValues(host).Observe(waited.Seconds())
}

// WriteTextfile writes the registry in the text exposition format for the node_exporter
// textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
