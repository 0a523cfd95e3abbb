package bots

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotRegistered       = errors.New("no bot registered on this machine")
	ErrInvalidRegistration = errors.New("invalid registration")
)

// DefaultPersonalityTags is what the registration form starts with.
var DefaultPersonalityTags = []string{"helpful"}

// BotsClient defines what the app layer needs from the backend
type BotsClient interface {
	RegisterBot(ctx context.Context, req models.BotRegistrationRequest) (*models.BotRegistration, error)
	GetBot(ctx context.Context, botID string) (*models.Bot, error)
	ListBots(ctx context.Context) ([]models.Bot, error)
	RotateAPIKey(ctx context.Context, botID string) (*models.APIKeyRotation, error)
}

// Credentials is the session state the app reads and writes
type Credentials interface {
	BotID() string
	HasCredentials() bool
	SetCredentials(botID, apiKey string) error
	SetAPIKey(apiKey string) error
	Clear() error
}

// App handles bot identity and the stored credential
type App struct {
	client  BotsClient
	session Credentials
}

// NewApp creates a new bots App
func NewApp(client BotsClient, session Credentials) *App {
	return &App{
		client:  client,
		session: session,
	}
}

// Register creates a bot and stores its one-time key as the session
// credential.
func (a *App) Register(ctx context.Context, req models.BotRegistrationRequest) (*models.BotRegistration, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := a.validateRegistration(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if len(req.PersonalityTags) == 0 {
		req.PersonalityTags = DefaultPersonalityTags
	}

	reg, err := a.client.RegisterBot(ctx, req)
	if err != nil {
		return nil, err
	}

	if reg.APIKey != "" {
		if err := a.session.SetCredentials(reg.BotID, reg.APIKey); err != nil {
			return nil, err
		}
	}

	log.Info().Str("bot_id", reg.BotID).Str("bot_name", reg.BotName).Msg("registered bot")
	return reg, nil
}

func (a *App) validateRegistration(req models.BotRegistrationRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRegistration)
	}
	if strings.ContainsAny(req.Name, " \t\n/") {
		return fmt.Errorf("%w: name must not contain spaces or slashes", ErrInvalidRegistration)
	}
	if req.DisplayName == "" {
		return fmt.Errorf("%w: display name is required", ErrInvalidRegistration)
	}
	return nil
}

// Get retrieves a bot by ID
func (a *App) Get(ctx context.Context, botID string) (*models.Bot, error) {
	return a.client.GetBot(ctx, botID)
}

func (a *App) List(ctx context.Context) ([]models.Bot, error) {
	return a.client.ListBots(ctx)
}

// RotateKey replaces the key of botID, or of the stored bot when botID is
// empty. The stored credential is updated only for the stored bot.
func (a *App) RotateKey(ctx context.Context, botID string) (*models.APIKeyRotation, error) {
	stored := a.session.BotID()
	if botID == "" {
		botID = stored
	}
	if botID == "" {
		return nil, ErrNotRegistered
	}

	rotation, err := a.client.RotateAPIKey(ctx, botID)
	if err != nil {
		return nil, err
	}

	if rotation.NewAPIKey != "" && botID == stored {
		if err := a.session.SetAPIKey(rotation.NewAPIKey); err != nil {
			return nil, err
		}
	}

	log.Info().Str("bot_id", botID).Msg("rotated api key")
	return rotation, nil
}

// Current returns the stored bot. It is nil without stored credentials or
// when the lookup fails.
func (a *App) Current(ctx context.Context) *models.Bot {
	if !a.session.HasCredentials() {
		return nil
	}

	bot, err := a.client.GetBot(ctx, a.session.BotID())
	if err != nil {
		log.Debug().Err(err).Msg("current bot lookup failed")
		return nil
	}
	return bot
}

// Logout forgets the stored key and bot id.
func (a *App) Logout() error {
	if err := a.session.Clear(); err != nil {
		return err
	}
	log.Info().Msg("logged out")
	return nil
}
