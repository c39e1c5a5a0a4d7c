// Package scoreboard folds per-team score payloads into leaderboard rows.
//
// Aggregation happens in two passes. The first pass (Aggregator.Add) records each team's
// payload and grows the set of image names seen across every team. The second pass
// (Aggregator.Build) materializes one fixed-shape TeamResult per team against the completed
// image set, so every row carries a cell for every image even when only other teams reported
// it. Rank orders the rows for display.
package scoreboard
