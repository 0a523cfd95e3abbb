package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrNoTeam = errors.New("bot has no team in this league")

// LeagueClient defines what the app layer needs from the backend
type LeagueClient interface {
	GetLeague(ctx context.Context, leagueID string) (*models.League, error)
	ListTeams(ctx context.Context, leagueID string) ([]models.Team, error)
	UpdateRoster(ctx context.Context, teamID string, update models.RosterUpdateRequest) (*models.Team, error)
}

// App handles roster viewing and taxi moves for the current bot
type App struct {
	client LeagueClient
}

// NewApp creates a new roster App
func NewApp(client LeagueClient) *App {
	return &App{client: client}
}

// TeamView is a league, the bot's team in it and its projected roster.
type TeamView struct {
	League     *models.League
	Team       *models.Team
	Projection Projection
}

// MyTeam loads the league and its teams concurrently and picks the team
// owned by botID. Team is nil when the bot has not joined.
func (a *App) MyTeam(ctx context.Context, leagueID, botID string) (*models.League, *models.Team, error) {
	var (
		league *models.League
		teams  []models.Team
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		league, err = a.client.GetLeague(gctx, leagueID)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = a.client.ListTeams(gctx, leagueID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to load team: %w", err)
	}

	for i := range teams {
		if teams[i].BotID == botID {
			return league, &teams[i], nil
		}
	}
	return league, nil, nil
}

// ProjectMyTeam returns the display projection of the bot's team.
func (a *App) ProjectMyTeam(ctx context.Context, leagueID, botID string) (*TeamView, error) {
	league, team, err := a.MyTeam(ctx, leagueID, botID)
	if err != nil {
		return nil, err
	}
	return &TeamView{
		League:     league,
		Team:       team,
		Projection: Project(team, league),
	}, nil
}

// PromoteRookie moves a taxi player to the bench and saves the roster.
func (a *App) PromoteRookie(ctx context.Context, leagueID, botID, playerID string) (*models.Team, error) {
	league, team, err := a.MyTeam(ctx, leagueID, botID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrNoTeam
	}
	if FormatFor(league) != models.LeagueFormatDynasty {
		return nil, ErrNoDynastyRoster
	}

	next, err := PromoteRookie(team.RosterSlots.Dynasty, team.TaxiRules(), playerID)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	updated, err := a.client.UpdateRoster(ctx, team.ID, models.RosterUpdateRequest{Dynasty: next})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("team_id", team.ID).
		Str("player_id", playerID).
		Int("taxi_vacated", next.TaxiVacated).
		Msg("promoted rookie from taxi squad")
	return updated, nil
}
