// Package api serves the generated leaderboard page over HTTP.
//
// Routes:
//   - GET /          the most recently written leaderboard page, with a SHA-256 ETag
//   - GET /healthz   liveness
//   - GET /readyz    200 once a leaderboard page exists, 503 before the first run
//   - GET /metrics   Prometheus exposition from the configured gatherer
//
// The server never runs the pipeline itself; an external scheduler refreshes the page.
package api
