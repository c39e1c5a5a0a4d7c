// Package teams reads the list of team identifiers the leaderboard tracks.
package teams

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// Config controls how the team list is read.
type Config struct {
	// SkipBlank drops lines that are empty after trimming. Blank lines are kept by default
	// and show up as a team with no data.
	SkipBlank bool
}

// Loader reads newline-delimited team identifiers from a filesystem.
type Loader struct {
	fs  afero.Fs
	cfg Config
}

// NewLoader builds a Loader over fs.
func NewLoader(fs afero.Fs, cfg Config) *Loader {
	return &Loader{fs: fs, cfg: cfg}
}

// Load returns one identifier per line, in file order, with surrounding whitespace trimmed.
// Duplicates are returned as-is.
func (l *Loader) Load(path string) ([]string, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open team list %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" && l.cfg.SkipBlank {
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read team list %s: %w", path, err)
	}
	return ids, nil
}
