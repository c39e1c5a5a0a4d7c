package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/JakeFAU/cp-leaderboard/internal/scoreboard"
)

// TeamLoader reads the ordered team identifier list.
type TeamLoader interface {
	Load(path string) ([]string, error)
}

// Fetcher retrieves one team's score records. Failures come back as a payload without
// records rather than as an error.
type Fetcher interface {
	Fetch(ctx context.Context, teamID string) scoreboard.TeamPayload
}

// Renderer writes the leaderboard page for a ranked board.
type Renderer interface {
	Render(w io.Writer, board scoreboard.Board) error
}

// BlobStore persists the rendered page and returns its location.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

// Recorder receives run metrics.
type Recorder interface {
	ObserveFetch(hasData bool)
	ObserveDurationWarnings(n int)
	ObserveBoard(teams, images int)
	ObserveRun(finished time.Time, elapsed time.Duration, ok bool)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
