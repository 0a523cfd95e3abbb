package leagues

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	ErrLeagueFull    = errors.New("league is full")
	ErrLeagueNotOpen = errors.New("league is not open for joining")
)

// LeaguesClient defines what the app layer needs from the backend
type LeaguesClient interface {
	ListLeagues(ctx context.Context) ([]models.League, error)
	GetLeague(ctx context.Context, leagueID string) (*models.League, error)
	JoinLeague(ctx context.Context, leagueID string) (*models.JoinLeagueResult, error)
}

// JoinedLeagues records successful joins
type JoinedLeagues interface {
	AddJoinedLeague(leagueID string) error
	HasJoined(leagueID string) bool
}

type Options struct {
	// DemoFallback serves the demo leagues when the listing fails.
	DemoFallback bool
}

// JoinOptions tunes a single join
type JoinOptions struct {
	// Force skips the local open/full check and lets the backend decide.
	Force bool
}

// App handles league browsing and joining. The last successful listing is
// cached and only replaced by another successful listing.
type App struct {
	client  LeaguesClient
	joined  JoinedLeagues
	options Options

	mu    sync.RWMutex
	cache []models.League
	demo  bool
}

// NewApp creates a new leagues App
func NewApp(client LeaguesClient, joined JoinedLeagues, options Options) *App {
	return &App{
		client:  client,
		joined:  joined,
		options: options,
	}
}

// List fetches the league listing and refreshes the cache.
func (a *App) List(ctx context.Context) ([]models.League, error) {
	leagues, err := a.client.ListLeagues(ctx)
	if err != nil {
		if !a.options.DemoFallback {
			return nil, err
		}
		log.Warn().Err(err).Msg("league listing unavailable, using demo leagues")
		leagues = DemoLeagues()
		a.store(leagues, true)
		return slices.Clone(leagues), nil
	}

	a.store(leagues, false)
	return slices.Clone(leagues), nil
}

func (a *App) store(leagues []models.League, demo bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache = slices.Clone(leagues)
	a.demo = demo
}

// Cached returns the last listing without a request.
func (a *App) Cached() []models.League {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.cache)
}

// IsDemo reports whether the cached listing is demo data.
func (a *App) IsDemo() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.demo
}

// Get retrieves a league by ID, preferring the cache.
func (a *App) Get(ctx context.Context, leagueID string) (*models.League, error) {
	if league := a.cached(leagueID); league != nil {
		return league, nil
	}
	return a.client.GetLeague(ctx, leagueID)
}

func (a *App) cached(leagueID string) *models.League {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for i := range a.cache {
		if a.cache[i].ID == leagueID {
			league := a.cache[i]
			return &league
		}
	}
	return nil
}

// Join asks the backend to add the current bot to leagueID. Unless forced,
// a league that is full or past the open phase is refused locally and no
// request is issued. Failures leave the cache untouched.
func (a *App) Join(ctx context.Context, leagueID string, opts JoinOptions) (*models.JoinLeagueResult, error) {
	if !opts.Force {
		league, err := a.Get(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		if err := CanJoin(league); err != nil {
			return nil, err
		}
	}

	result, err := a.client.JoinLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("failed to join league: %s", result.Message)
	}

	if err := a.joined.AddJoinedLeague(leagueID); err != nil {
		log.Warn().Err(err).Str("league_id", leagueID).Msg("failed to record joined league")
	}

	log.Info().Str("league_id", leagueID).Msg("joined league")
	return result, nil
}

// HasJoined reports whether a join of leagueID was recorded locally.
func (a *App) HasJoined(leagueID string) bool {
	return a.joined.HasJoined(leagueID)
}

// CanJoin checks the local join precondition.
func CanJoin(league *models.League) error {
	switch league.Status {
	case models.LeagueStatusFull:
		return fmt.Errorf("%w: %s", ErrLeagueFull, league.Name)
	case models.LeagueStatusDrafting, models.LeagueStatusActive:
		return fmt.Errorf("%w: %s is %s", ErrLeagueNotOpen, league.Name, league.Status)
	}
	if league.MaxTeams != nil && league.TeamCount >= *league.MaxTeams {
		return fmt.Errorf("%w: %s", ErrLeagueFull, league.Name)
	}
	return nil
}
