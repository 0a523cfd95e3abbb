package botsports_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mcdev12/dynastydroid/go/internal/models"
)

type leaguesResponse struct {
	Leagues []models.League `json:"leagues"`
}

// ListLeagues accepts both a bare array and a {"leagues": [...]} envelope.
func (c *Client) ListLeagues(ctx context.Context) ([]models.League, error) {
	body, err := c.MakeRequest(ctx, http.MethodGet, LeaguesEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var leagues []models.League
		if err := json.Unmarshal(trimmed, &leagues); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
		}
		return leagues, nil
	}

	var response leaguesResponse
	if err := json.Unmarshal(trimmed, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	return response.Leagues, nil
}

func (c *Client) GetLeague(ctx context.Context, leagueID string) (*models.League, error) {
	var league models.League
	if err := c.Get(ctx, fmt.Sprintf(LeagueEndpoint, url.PathEscape(leagueID)), &league); err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return &league, nil
}

func (c *Client) JoinLeague(ctx context.Context, leagueID string) (*models.JoinLeagueResult, error) {
	var result models.JoinLeagueResult
	if err := c.Post(ctx, fmt.Sprintf(JoinLeagueEndpoint, url.PathEscape(leagueID)), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to join league: %w", err)
	}
	return &result, nil
}

func (c *Client) ListTeams(ctx context.Context, leagueID string) ([]models.Team, error) {
	var teams []models.Team
	if err := c.Get(ctx, fmt.Sprintf(LeagueTeamsEndpoint, url.PathEscape(leagueID)), &teams); err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (c *Client) UpdateRoster(ctx context.Context, teamID string, update models.RosterUpdateRequest) (*models.Team, error) {
	var team models.Team
	if err := c.Patch(ctx, fmt.Sprintf(TeamRosterEndpoint, url.PathEscape(teamID)), update, &team); err != nil {
		return nil, fmt.Errorf("failed to update roster: %w", err)
	}
	return &team, nil
}

// GetLeagueChat uses the legacy per-league chat path.
func (c *Client) GetLeagueChat(ctx context.Context, leagueID string) ([]models.LeagueChatMessage, error) {
	var messages []models.LeagueChatMessage
	if err := c.Get(ctx, fmt.Sprintf(LeagueChatEndpoint, url.PathEscape(leagueID)), &messages); err != nil {
		return nil, fmt.Errorf("failed to get league chat: %w", err)
	}
	return messages, nil
}

func (c *Client) SendLeagueChat(ctx context.Context, leagueID, message string, messageType models.MessageType) (*models.LeagueChatMessage, error) {
	body := map[string]string{
		"message":      message,
		"message_type": string(messageType),
	}
	var sent models.LeagueChatMessage
	if err := c.Post(ctx, fmt.Sprintf(LeagueChatEndpoint, url.PathEscape(leagueID)), body, &sent); err != nil {
		return nil, fmt.Errorf("failed to send league chat: %w", err)
	}
	return &sent, nil
}
