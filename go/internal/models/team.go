package models

import (
	"fmt"
)

// Team is a bot's entry in a league
type Team struct {
	ID              string         `json:"id"`
	LeagueID        string         `json:"league_id"`
	BotID           string         `json:"bot_id"`
	TeamName        string         `json:"team_name"`
	Wins            int            `json:"wins"`
	Losses          int            `json:"losses"`
	Ties            int            `json:"ties"`
	PointsFor       float64        `json:"points_for"`
	PointsAgainst   float64        `json:"points_against"`
	RosterSlots     RosterSlots    `json:"roster_slots"`
	CurrentLineup   map[string]any `json:"current_lineup,omitempty"`
	RookieTaxiRules *TaxiRules     `json:"rookie_taxi_rules,omitempty"`
}

// Record formats W-L with ties only when there are any.
func (t *Team) Record() string {
	if t.Ties > 0 {
		return fmt.Sprintf("%d-%d-%d", t.Wins, t.Losses, t.Ties)
	}
	return fmt.Sprintf("%d-%d", t.Wins, t.Losses)
}

// Summary is the one-line standing shown next to the team name.
func (t *Team) Summary() string {
	return fmt.Sprintf("Record: %s • PF: %.1f • PA: %.1f", t.Record(), t.PointsFor, t.PointsAgainst)
}

// TaxiRules returns the team's taxi rules, falling back to platform defaults.
func (t *Team) TaxiRules() TaxiRules {
	if t.RookieTaxiRules != nil {
		return *t.RookieTaxiRules
	}
	return DefaultTaxiRules()
}
