package scoreboard

import (
	"cmp"
	"maps"
	"slices"
)

// Aggregator collects team payloads and builds the leaderboard once every team is known.
type Aggregator struct {
	order    []string
	payloads map[string]TeamPayload
	images   map[string]struct{}
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		payloads: make(map[string]TeamPayload),
		images:   make(map[string]struct{}),
	}
}

// Seen reports whether a payload for teamID was already added.
func (a *Aggregator) Seen(teamID string) bool {
	_, ok := a.payloads[teamID]
	return ok
}

// Add records a payload and its image names. Duplicate team IDs are ignored and Add returns
// false; the first payload wins.
func (a *Aggregator) Add(p TeamPayload) bool {
	if a.Seen(p.TeamID) {
		return false
	}
	a.order = append(a.order, p.TeamID)
	a.payloads[p.TeamID] = p
	for _, rec := range p.Records {
		a.images[rec.Image] = struct{}{}
	}
	return true
}

// Images returns the sorted union of image names added so far.
func (a *Aggregator) Images() []string {
	return slices.Sorted(maps.Keys(a.images))
}

// Build materializes one row per team, in the order teams were added.
func (a *Aggregator) Build() (Board, []DurationWarning) {
	images := a.Images()
	board := Board{
		Images: images,
		Teams:  make([]TeamResult, 0, len(a.order)),
	}
	var warnings []DurationWarning
	for _, id := range a.order {
		row, rowWarnings := buildRow(a.payloads[id], images)
		board.Teams = append(board.Teams, row)
		warnings = append(warnings, rowWarnings...)
	}
	return board, warnings
}

func buildRow(p TeamPayload, images []string) (TeamResult, []DurationWarning) {
	row := TeamResult{
		TeamID:     p.TeamID,
		TeamNumber: p.TeamID,
		Images:     make(map[string]Cell, len(images)),
	}
	for _, image := range images {
		row.Images[image] = Cell{}
	}
	if !p.HasData() {
		return row, nil
	}

	row.HasData = true
	if n := string(p.Records[0].TeamNumber); n != "" {
		row.TeamNumber = n
	}
	var warnings []DurationWarning
	for _, rec := range p.Records {
		row.Images[rec.Image] = Cell{Score: rec.CCSScore, Started: true}
		row.TotalScore += rec.CCSScore

		d, err := ParseDuration(rec.Duration)
		if err != nil {
			warnings = append(warnings, DurationWarning{
				TeamID: p.TeamID,
				Image:  rec.Image,
				Raw:    rec.Duration,
				Err:    err,
			})
			continue
		}
		row.GreatestDuration = max(row.GreatestDuration, d)
	}
	return row, warnings
}

// Rank returns the rows ordered by total score, highest first. Equal totals keep their
// input order.
func Rank(teams []TeamResult) []TeamResult {
	ranked := slices.Clone(teams)
	slices.SortStableFunc(ranked, func(a, b TeamResult) int {
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})
	return ranked
}
