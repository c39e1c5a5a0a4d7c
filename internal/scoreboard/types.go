package scoreboard

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Display values for cells and durations without data.
const (
	NotStarted   = "not started"
	NotAvailable = "not available"
)

// TeamNumber is the team identifier echoed back by the scoring API. The API has served it
// both as a JSON string and as a number.
type TeamNumber string

// UnmarshalJSON accepts a JSON string, number, or null.
func (n *TeamNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = TeamNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("team_number: %w", err)
	}
	*n = TeamNumber(num.String())
	return nil
}

// ImageRecord is one scored image as reported by the API.
type ImageRecord struct {
	TeamNumber TeamNumber `json:"team_number"`
	Image      string     `json:"image"`
	CCSScore   int        `json:"ccs_score"`
	Duration   string     `json:"duration"`
}

// TeamPayload is the fetch outcome for a single team. Err explains why Records is empty.
type TeamPayload struct {
	TeamID  string
	Records []ImageRecord
	Err     error
}

// HasData reports whether the fetch produced any image records.
func (p TeamPayload) HasData() bool {
	return len(p.Records) > 0
}

// Cell is one image column of a team row.
type Cell struct {
	Score   int
	Started bool
}

// String renders the score, or NotStarted when the team never reported the image.
func (c Cell) String() string {
	if !c.Started {
		return NotStarted
	}
	return strconv.Itoa(c.Score)
}

// TeamResult is the rendering-ready row for one team.
type TeamResult struct {
	TeamID           string
	TeamNumber       string
	Images           map[string]Cell
	TotalScore       int
	GreatestDuration Duration
	HasData          bool
}

// DurationText renders the greatest duration, or NotAvailable for teams without data.
func (r TeamResult) DurationText() string {
	if !r.HasData {
		return NotAvailable
	}
	return r.GreatestDuration.String()
}

// Board is the aggregated leaderboard: sorted image columns plus one row per team.
type Board struct {
	Images []string
	Teams  []TeamResult
}

// DurationWarning records an image whose duration could not be parsed. The image still
// contributes its score but is left out of the greatest-duration comparison.
type DurationWarning struct {
	TeamID string
	Image  string
	Raw    string
	Err    error
}
