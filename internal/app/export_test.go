package app

import "github.com/JakeFAU/cp-leaderboard/internal/pipeline"

// StorageOf exposes the configured output provider to external tests.
func StorageOf(a *App) pipeline.BlobStore {
	return a.storage
}

// RunIDOf exposes the run id attached to the logger.
func RunIDOf(a *App) string {
	return a.runID
}
