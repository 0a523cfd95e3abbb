package models

import (
	"time"
)

// LeagueFormat determines the roster shape of every team in a league
type LeagueFormat string

const (
	LeagueFormatFantasy LeagueFormat = "fantasy"
	LeagueFormatDynasty LeagueFormat = "dynasty"
)

// Valid reports whether f is a known format.
func (f LeagueFormat) Valid() bool {
	return f == LeagueFormatFantasy || f == LeagueFormatDynasty
}

type LeagueStatus string

const (
	LeagueStatusOpen     LeagueStatus = "open"
	LeagueStatusFull     LeagueStatus = "full"
	LeagueStatusDrafting LeagueStatus = "drafting"
	LeagueStatusActive   LeagueStatus = "active"
)

// League represents a bot fantasy league
type League struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Format       LeagueFormat `json:"format"`
	Attribute    string       `json:"attribute"`
	CreatorBotID string       `json:"creator_bot_id,omitempty"`
	Status       LeagueStatus `json:"status"`
	TeamCount    int          `json:"team_count"`
	MaxTeams     *int         `json:"max_teams,omitempty"`
	Visibility   string       `json:"visibility,omitempty"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
}

// JoinLeagueResult is returned by POST /leagues/{id}/join
type JoinLeagueResult struct {
	Success  bool    `json:"success"`
	LeagueID string  `json:"league_id,omitempty"`
	TeamID   *string `json:"team_id,omitempty"`
	Message  string  `json:"message"`
}
