// Package render turns an aggregated scoreboard into the static leaderboard page.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/JakeFAU/cp-leaderboard/internal/scoreboard"
)

//go:embed templates/leaderboard.html.tmpl
var templateFS embed.FS

// ContentType is the media type of rendered pages.
const ContentType = "text/html; charset=utf-8"

// Config controls page text and the browser refresh interval.
type Config struct {
	Title          string
	Heading        string
	RefreshSeconds int
}

// DefaultConfig matches the page the leaderboard has always produced.
func DefaultConfig() Config {
	return Config{
		Title:          "Team Scores",
		Heading:        "CyberPatriot Team Scores",
		RefreshSeconds: 30,
	}
}

// Renderer executes the leaderboard template.
type Renderer struct {
	cfg  Config
	tmpl *template.Template
}

type pageData struct {
	Title          string
	Heading        string
	RefreshSeconds int
	Images         []string
	Rows           []rowData
}

type rowData struct {
	TeamNumber string
	Cells      []string
	TotalScore int
	Duration   string
}

// New parses the embedded template.
func New(cfg Config) (*Renderer, error) {
	if cfg.RefreshSeconds <= 0 {
		return nil, fmt.Errorf("refresh interval must be > 0, got %d", cfg.RefreshSeconds)
	}
	tmpl, err := template.ParseFS(templateFS, "templates/leaderboard.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse leaderboard template: %w", err)
	}
	return &Renderer{cfg: cfg, tmpl: tmpl}, nil
}

// Render writes the page for board. Rows appear in the order of board.Teams and image
// columns in the order of board.Images.
func (r *Renderer) Render(w io.Writer, board scoreboard.Board) error {
	if err := r.tmpl.Execute(w, r.pageData(board)); err != nil {
		return fmt.Errorf("execute leaderboard template: %w", err)
	}
	return nil
}

func (r *Renderer) pageData(board scoreboard.Board) pageData {
	data := pageData{
		Title:          r.cfg.Title,
		Heading:        r.cfg.Heading,
		RefreshSeconds: r.cfg.RefreshSeconds,
		Images:         board.Images,
		Rows:           make([]rowData, 0, len(board.Teams)),
	}
	for _, team := range board.Teams {
		row := rowData{
			TeamNumber: team.TeamNumber,
			Cells:      make([]string, 0, len(board.Images)),
			TotalScore: team.TotalScore,
			Duration:   team.DurationText(),
		}
		for _, image := range board.Images {
			row.Cells = append(row.Cells, team.Images[image].String())
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}
