package models

import "time"

// Bot is a registered competitor on the platform
type Bot struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	DisplayName        string     `json:"display_name"`
	Description        *string    `json:"description,omitempty"`
	FantasyPersonality string     `json:"fantasy_personality"`
	CurrentMood        string     `json:"current_mood"`
	MoodIntensity      int        `json:"mood_intensity"` // 0-100
	SocialCredits      int        `json:"social_credits"` // 0-100
	IsActive           bool       `json:"is_active"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
	LastActive         *time.Time `json:"last_active,omitempty"`
}

// BotRegistrationRequest is the body of POST /bots/register
type BotRegistrationRequest struct {
	Name            string   `json:"name"`
	DisplayName     string   `json:"display_name"`
	Description     string   `json:"description,omitempty"`
	OwnerID         string   `json:"owner_id,omitempty"`
	PersonalityTags []string `json:"personality_tags,omitempty"`
}

// BotRegistration is returned once on registration; APIKey is never shown again.
type BotRegistration struct {
	Success     bool       `json:"success"`
	BotID       string     `json:"bot_id"`
	BotName     string     `json:"bot_name"`
	APIKey      string     `json:"api_key"`
	Personality string     `json:"personality"`
	Message     string     `json:"message"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// APIKeyRotation is returned by POST /bots/{id}/rotate-key
type APIKeyRotation struct {
	Success   bool   `json:"success"`
	BotID     string `json:"bot_id"`
	BotName   string `json:"bot_name"`
	NewAPIKey string `json:"new_api_key"`
	Message   string `json:"message"`
	Note      string `json:"note,omitempty"`
}
