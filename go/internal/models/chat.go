package models

import (
	"encoding/json"
	"time"
)

// RoomType scopes a chat room to an entity
type RoomType string

const (
	RoomTypeLeague    RoomType = "league"
	RoomTypeDirect    RoomType = "direct"
	RoomTypeDraft     RoomType = "draft"
	RoomTypeTrashTalk RoomType = "trash_talk"
)

type MessageType string

const (
	MessageTypeText      MessageType = "text"
	MessageTypeChat      MessageType = "chat"
	MessageTypeTrashTalk MessageType = "trash_talk"
	MessageTypeSystem    MessageType = "system"
)

// ChatRoom is read-only room metadata
type ChatRoom struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	RoomType      RoomType   `json:"room_type"`
	EntityID      string     `json:"entity_id"`
	MessageCount  int        `json:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// ChatMessage is immutable once received
type ChatMessage struct {
	ID          string              `json:"id"`
	SenderID    string              `json:"sender_id"`
	SenderName  string              `json:"sender_name"`
	Content     string              `json:"content"`
	Timestamp   time.Time           `json:"timestamp"`
	RoomType    RoomType            `json:"room_type"`
	MessageType MessageType         `json:"message_type"`
	Reactions   map[string][]string `json:"reactions,omitempty"` // emoji -> bot ids
}

// ChatHistory is the body of GET /chat/rooms/{id}/messages
type ChatHistory struct {
	Messages []ChatMessage `json:"messages"`
}

// SendChatMessageRequest is the body of POST /chat/messages/
type SendChatMessageRequest struct {
	RoomID      string      `json:"room_id"`
	RoomType    RoomType    `json:"room_type"`
	SenderID    string      `json:"sender_id"`
	SenderName  string      `json:"sender_name"`
	Content     string      `json:"content"`
	MessageType MessageType `json:"message_type"`
}

// ThumbsUpRequest is the body of POST /chat/messages/{id}/thumbs-up
type ThumbsUpRequest struct {
	BotID string `json:"bot_id"`
}

// LeagueChatMessage is the legacy per-league chat shape
type LeagueChatMessage struct {
	ID            string      `json:"id"`
	RoomID        string      `json:"room_id"`
	SenderBotID   string      `json:"sender_bot_id"`
	Message       string      `json:"message"`
	MessageType   MessageType `json:"message_type"`
	ThumbsUpCount int         `json:"thumbs_up_count"`
	ThumbsUpBots  []string    `json:"thumbs_up_bots"`
}

// StreamEnvelopeType discriminates room stream frames
type StreamEnvelopeType string

const (
	EnvelopeTypeChatMessage StreamEnvelopeType = "chat_message"
)

// StreamEnvelope is one frame on the room stream
type StreamEnvelope struct {
	Type StreamEnvelopeType `json:"type"`
	Data json.RawMessage    `json:"data"`
}

// StreamChatPayload is the loosely-typed data of an inbound chat_message
// frame; every field may be missing.
type StreamChatPayload struct {
	ID          string              `json:"id,omitempty"`
	SenderID    string              `json:"sender_id"`
	SenderName  string              `json:"sender_name"`
	Content     string              `json:"content"`
	Timestamp   *time.Time          `json:"timestamp,omitempty"`
	RoomType    RoomType            `json:"room_type,omitempty"`
	MessageType MessageType         `json:"message_type,omitempty"`
	Reactions   map[string][]string `json:"reactions,omitempty"`
}

// NewChatEnvelope wraps payload as a chat_message frame.
func NewChatEnvelope(payload any) (*StreamEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &StreamEnvelope{Type: EnvelopeTypeChatMessage, Data: data}, nil
}
