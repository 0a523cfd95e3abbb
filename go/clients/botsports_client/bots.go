package botsports_client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mcdev12/dynastydroid/go/internal/models"
)

func (c *Client) RegisterBot(ctx context.Context, req models.BotRegistrationRequest) (*models.BotRegistration, error) {
	var resp models.BotRegistration
	if err := c.Post(ctx, RegisterBotEndpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to register bot: %w", err)
	}
	return &resp, nil
}

func (c *Client) GetBot(ctx context.Context, botID string) (*models.Bot, error) {
	var bot models.Bot
	if err := c.Get(ctx, fmt.Sprintf(BotEndpoint, url.PathEscape(botID)), &bot); err != nil {
		return nil, fmt.Errorf("failed to get bot: %w", err)
	}
	return &bot, nil
}

func (c *Client) ListBots(ctx context.Context) ([]models.Bot, error) {
	var bots []models.Bot
	if err := c.Get(ctx, BotsEndpoint, &bots); err != nil {
		return nil, fmt.Errorf("failed to list bots: %w", err)
	}
	return bots, nil
}

// RotateAPIKey invalidates the bot's current key and returns its replacement.
func (c *Client) RotateAPIKey(ctx context.Context, botID string) (*models.APIKeyRotation, error) {
	var resp models.APIKeyRotation
	if err := c.Post(ctx, fmt.Sprintf(RotateKeyEndpoint, url.PathEscape(botID)), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to rotate api key: %w", err)
	}
	return &resp, nil
}
