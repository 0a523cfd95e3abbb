// Package session owns the operator's credential and local bookkeeping.
// It is the single writer of the persisted store; every other component
// receives the Session explicitly and only reads from it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	KeyAPIKey        = "bot_api_key"
	KeyBotID         = "bot_id"
	KeyJoinedLeagues = "joined_leagues"
)

// Session caches the persisted values in memory and writes through.
type Session struct {
	mu            sync.RWMutex
	store         Store
	apiKey        string
	botID         string
	joinedLeagues []string
}

// Load reads the persisted values from store.
func Load(store Store) (*Session, error) {
	s := &Session{store: store}

	var err error
	if s.apiKey, err = getOptional(store, KeyAPIKey); err != nil {
		return nil, err
	}
	if s.botID, err = getOptional(store, KeyBotID); err != nil {
		return nil, err
	}

	raw, err := getOptional(store, KeyJoinedLeagues)
	if err != nil {
		return nil, err
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.joinedLeagues); err != nil {
			// not a source of truth, start over
			log.Warn().Err(err).Msg("discarding unreadable joined league list")
			s.joinedLeagues = nil
		}
	}

	return s, nil
}

func getOptional(store Store, key string) (string, error) {
	v, err := store.Get(key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

// APIKey implements clients.CredentialSource.
func (s *Session) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}

func (s *Session) BotID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.botID
}

// HasCredentials reports whether both a bot id and a key are stored.
func (s *Session) HasCredentials() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey != "" && s.botID != ""
}

// SetCredentials stores a freshly registered bot's identity.
func (s *Session) SetCredentials(botID, apiKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Apply(SetOp(KeyAPIKey, apiKey), SetOp(KeyBotID, botID)); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}
	s.apiKey = apiKey
	s.botID = botID
	return nil
}

// SetAPIKey replaces the stored key after a rotation.
func (s *Session) SetAPIKey(apiKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(KeyAPIKey, apiKey); err != nil {
		return fmt.Errorf("failed to persist api key: %w", err)
	}
	s.apiKey = apiKey
	return nil
}

func (s *Session) JoinedLeagues() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.joinedLeagues)
}

func (s *Session) HasJoined(leagueID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.joinedLeagues, leagueID)
}

// AddJoinedLeague records a join; repeated ids are stored once.
func (s *Session) AddJoinedLeague(leagueID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.joinedLeagues, leagueID) {
		return nil
	}
	next := append(slices.Clone(s.joinedLeagues), leagueID)
	encoded, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := s.store.Set(KeyJoinedLeagues, string(encoded)); err != nil {
		return fmt.Errorf("failed to persist joined leagues: %w", err)
	}
	s.joinedLeagues = next
	return nil
}

// Clear forgets the credential and bot id (logout). Joined leagues stay.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Apply(DeleteOp(KeyAPIKey), DeleteOp(KeyBotID)); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	s.apiKey = ""
	s.botID = ""
	return nil
}

func (s *Session) Close() error {
	return s.store.Close()
}
