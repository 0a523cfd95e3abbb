package roster

import (
	"slices"
	"testing"

	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoStarters() models.Starters {
	return models.Starters{
		models.PositionSuperflex: {"player_sflex_1"},
		models.PositionFlex:      {"player_flex_1", "player_flex_2"},
		models.PositionTE:        {"player_te_1"},
		models.PositionWR:        {"player_wr_1", "player_wr_2"},
		models.PositionRB:        {"player_rb_1", "player_rb_2"},
		models.PositionQB:        {"player_qb_1"},
	}
}

// demoTeam is a fully populated team for both formats.
func demoTeam() *models.Team {
	return &models.Team{
		ID:       "team_1",
		LeagueID: "league_1",
		BotID:    "demo_bot",
		RosterSlots: models.RosterSlots{
			Fantasy: &models.FantasyRoster{
				Starters: demoStarters(),
				Bench:    []string{"b1", "b2", "b3", "b4", "b5", "b6"},
				IR:       []string{},
			},
			Dynasty: &models.DynastyRoster{
				Starters:   demoStarters(),
				Bench:      []string{"b1", "b2", "b3", "b4", "b5", "b6", "b7", "b8", "b9"},
				IR:         []string{},
				RookieTaxi: []string{"rookie_1", "rookie_2", "rookie_3"},
			},
		},
	}
}

func league(format models.LeagueFormat) *models.League {
	return &models.League{ID: "league_1", Format: format}
}

func labels(seq func(func(Slot) bool)) []string {
	var out []string
	for s := range seq {
		out = append(out, s.Label)
	}
	return out
}

func TestProject_StartersInFixedPositionOrder(t *testing.T) {
	p := Project(demoTeam(), league(models.LeagueFormatFantasy))

	assert.Equal(t,
		[]string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "FLEX", "SUPERFLEX"},
		labels(p.Starters))

	var players []string
	for s := range p.Starters {
		players = append(players, s.PlayerID)
	}
	assert.Equal(t, []string{"player_rb_1", "player_rb_2"}, players[1:3])
}

func TestProject_FantasyNeverEmitsRookieRows(t *testing.T) {
	team := demoTeam()
	p := Project(team, league(models.LeagueFormatFantasy))

	for s := range p.All() {
		assert.NotEqual(t, LabelRookie, s.Label)
	}
	assert.Equal(t, models.FantasySlotBudget, p.Len())
}

func TestProject_DynastyFullRosterMatchesBudget(t *testing.T) {
	p := Project(demoTeam(), league(models.LeagueFormatDynasty))

	assert.Equal(t, models.DynastySlotBudget, p.Len())
	assert.Equal(t, []string{"ROOKIE", "ROOKIE", "ROOKIE"}, labels(p.RookieTaxi))
	for s := range p.Bench {
		assert.Equal(t, LabelBench, s.Label)
		assert.Equal(t, KindBench, s.Kind)
	}
}

func TestProject_DynastyTaxiCappedWithoutDroppingEntries(t *testing.T) {
	team := demoTeam()
	team.RosterSlots.Dynasty.RookieTaxi = []string{"r1", "r2", "r3", "r4", "r5"}

	p := Project(team, league(models.LeagueFormatDynasty))

	assert.Len(t, slices.Collect(p.RookieTaxi), models.MaxRookieTaxi)
	overflow := slices.Collect(p.Overflow)
	require.Len(t, overflow, 2)
	assert.Equal(t, "r4", overflow[0].PlayerID)
	assert.Equal(t, KindTaxiOverflow, overflow[0].Kind)
}

func TestProject_NilTeamYieldsEmptyGroups(t *testing.T) {
	p := Project(nil, league(models.LeagueFormatDynasty))

	assert.Empty(t, slices.Collect(p.Starters))
	assert.Empty(t, slices.Collect(p.Bench))
	assert.Empty(t, slices.Collect(p.InjuredReserve))
	assert.Empty(t, slices.Collect(p.RookieTaxi))
	assert.Equal(t, 0, p.Len())
}

func TestProject_UnknownLeagueDefaultsToDynasty(t *testing.T) {
	p := Project(demoTeam(), nil)
	assert.Equal(t, models.LeagueFormatDynasty, p.Format)
	assert.Len(t, slices.Collect(p.RookieTaxi), 3)

	p = Project(demoTeam(), league("keeper"))
	assert.Equal(t, models.LeagueFormatDynasty, p.Format)
}

func TestProject_MissingSubDocumentYieldsEmptyGroups(t *testing.T) {
	team := demoTeam()
	team.RosterSlots.Fantasy = nil

	p := Project(team, league(models.LeagueFormatFantasy))
	assert.Equal(t, 0, p.Len())
}

func TestProject_UnknownPositionsAreKept(t *testing.T) {
	team := demoTeam()
	team.RosterSlots.Fantasy.Starters["K"] = []string{"kicker_1"}
	team.RosterSlots.Fantasy.Starters["DEF"] = []string{"def_1"}

	got := labels(Project(team, league(models.LeagueFormatFantasy)).Starters)
	assert.Equal(t, []string{"DEF", "K"}, got[len(got)-2:])
}

func TestProject_GroupsAreRestartable(t *testing.T) {
	p := Project(demoTeam(), league(models.LeagueFormatDynasty))

	first := slices.Collect(p.Bench)
	second := slices.Collect(p.Bench)
	assert.Equal(t, first, second)

	// early break must not disturb later iterations
	for range p.Starters {
		break
	}
	assert.Len(t, slices.Collect(p.Starters), 9)
}

func TestProject_SnapshotsInput(t *testing.T) {
	team := demoTeam()
	p := Project(team, league(models.LeagueFormatDynasty))

	team.RosterSlots.Dynasty.Bench[0] = "changed"
	first := slices.Collect(p.Bench)[0]
	assert.Equal(t, "b1", first.PlayerID)
}

func TestView_EmptyGroupsEncodeAsEmptySlices(t *testing.T) {
	v := Project(nil, league(models.LeagueFormatFantasy)).View()

	assert.NotNil(t, v.Starters)
	assert.NotNil(t, v.Bench)
	assert.NotNil(t, v.InjuredReserve)
	assert.NotNil(t, v.RookieTaxi)
	assert.Nil(t, v.Overflow)
	assert.Equal(t, models.FantasySlotBudget, v.SlotBudget)
}
