package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeagueClient struct {
	league    *models.League
	teams     []models.Team
	leagueErr error
	updates   []models.RosterUpdateRequest
}

func (f *fakeLeagueClient) GetLeague(ctx context.Context, leagueID string) (*models.League, error) {
	return f.league, f.leagueErr
}

func (f *fakeLeagueClient) ListTeams(ctx context.Context, leagueID string) ([]models.Team, error) {
	return f.teams, nil
}

func (f *fakeLeagueClient) UpdateRoster(ctx context.Context, teamID string, update models.RosterUpdateRequest) (*models.Team, error) {
	f.updates = append(f.updates, update)
	return &models.Team{ID: teamID, RosterSlots: models.RosterSlots{Dynasty: update.Dynasty}}, nil
}

func TestMyTeam_FiltersByBot(t *testing.T) {
	mine := *demoTeam()
	other := *demoTeam()
	other.ID, other.BotID = "team_2", "other_bot"

	client := &fakeLeagueClient{
		league: league(models.LeagueFormatDynasty),
		teams:  []models.Team{other, mine},
	}
	app := NewApp(client)

	_, team, err := app.MyTeam(context.Background(), "league_1", "demo_bot")
	require.NoError(t, err)
	require.NotNil(t, team)
	assert.Equal(t, "team_1", team.ID)

	_, team, err = app.MyTeam(context.Background(), "league_1", "nobody")
	require.NoError(t, err)
	assert.Nil(t, team)
}

func TestMyTeam_LeagueFailureFails(t *testing.T) {
	client := &fakeLeagueClient{leagueErr: errors.New("down")}
	_, _, err := NewApp(client).MyTeam(context.Background(), "league_1", "demo_bot")
	assert.Error(t, err)
}

func TestProjectMyTeam_WithoutTeamIsEmpty(t *testing.T) {
	client := &fakeLeagueClient{league: league(models.LeagueFormatFantasy)}
	view, err := NewApp(client).ProjectMyTeam(context.Background(), "league_1", "demo_bot")
	require.NoError(t, err)
	assert.Nil(t, view.Team)
	assert.Equal(t, 0, view.Projection.Len())
}

func TestApp_PromoteRookieSendsDynastyPatch(t *testing.T) {
	client := &fakeLeagueClient{
		league: league(models.LeagueFormatDynasty),
		teams:  []models.Team{*demoTeam()},
	}

	updated, err := NewApp(client).PromoteRookie(context.Background(), "league_1", "demo_bot", "rookie_3")
	require.NoError(t, err)

	require.Len(t, client.updates, 1)
	assert.Nil(t, client.updates[0].Fantasy)
	assert.Equal(t, []string{"rookie_1", "rookie_2"}, client.updates[0].Dynasty.RookieTaxi)
	assert.Equal(t, "team_1", updated.ID)
}

func TestApp_PromoteRookieRejectsFantasyLeague(t *testing.T) {
	client := &fakeLeagueClient{
		league: league(models.LeagueFormatFantasy),
		teams:  []models.Team{*demoTeam()},
	}

	_, err := NewApp(client).PromoteRookie(context.Background(), "league_1", "demo_bot", "rookie_1")
	assert.ErrorIs(t, err, ErrNoDynastyRoster)
	assert.Empty(t, client.updates)
}

func TestApp_PromoteRookieWithoutTeam(t *testing.T) {
	client := &fakeLeagueClient{league: league(models.LeagueFormatDynasty)}
	_, err := NewApp(client).PromoteRookie(context.Background(), "league_1", "demo_bot", "rookie_1")
	assert.ErrorIs(t, err, ErrNoTeam)
}
