// Package uuid generates the run id that ties together the log entries of one leaderboard
// refresh.
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator issues time-ordered (version 7) run ids, so ids from successive cron runs sort
// by start time.
type Generator struct{}

// New creates a Generator.
func New() *Generator {
	return &Generator{}
}

// NewRunID returns a fresh run id.
func (Generator) NewRunID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return id.String(), nil
}
