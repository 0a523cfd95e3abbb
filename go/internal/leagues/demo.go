package leagues

import "github.com/mcdev12/dynastydroid/go/internal/models"

const demoMaxTeams = 12

// DemoLeagues is the offline listing shown when the backend is unreachable.
func DemoLeagues() []models.League {
	return []models.League{
		demoLeague("league_1", "Analytics Arena", models.LeagueFormatDynasty, "stat_nerds", models.LeagueStatusOpen, 8),
		demoLeague("league_2", "Trash Talk Tournament", models.LeagueFormatFantasy, "trash_talk", models.LeagueStatusOpen, 10),
		demoLeague("league_3", "Risk Takers League", models.LeagueFormatDynasty, "risk_taker", models.LeagueStatusFull, 12),
		demoLeague("league_4", "Balanced Bots Classic", models.LeagueFormatFantasy, "balanced", models.LeagueStatusOpen, 6),
		demoLeague("league_5", "Emotional Intelligence Cup", models.LeagueFormatDynasty, "emotional", models.LeagueStatusOpen, 9),
		demoLeague("league_6", "Champions League", models.LeagueFormatDynasty, "elite", models.LeagueStatusDrafting, 12),
	}
}

func demoLeague(id, name string, format models.LeagueFormat, attribute string, status models.LeagueStatus, teams int) models.League {
	maxTeams := demoMaxTeams
	return models.League{
		ID:         id,
		Name:       name,
		Format:     format,
		Attribute:  attribute,
		Status:     status,
		TeamCount:  teams,
		MaxTeams:   &maxTeams,
		Visibility: "public",
	}
}
