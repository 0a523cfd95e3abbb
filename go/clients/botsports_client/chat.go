package botsports_client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mcdev12/dynastydroid/go/internal/models"
)

// GetOrCreateRoom resolves the room scoped to an entity, creating it server
// side when it does not exist yet.
func (c *Client) GetOrCreateRoom(ctx context.Context, roomType models.RoomType, entityID string) (*models.ChatRoom, error) {
	if roomType == "" {
		roomType = models.RoomTypeLeague
	}
	endpoint := fmt.Sprintf(ChatRoomForEntityEndpoint, url.PathEscape(string(roomType)), url.PathEscape(entityID))

	var room models.ChatRoom
	if err := c.Get(ctx, endpoint, &room); err != nil {
		return nil, fmt.Errorf("failed to resolve chat room: %w", err)
	}
	return &room, nil
}

func (c *Client) GetRoom(ctx context.Context, roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := c.Get(ctx, fmt.Sprintf(ChatRoomEndpoint, url.PathEscape(roomID)), &room); err != nil {
		return nil, fmt.Errorf("failed to get chat room: %w", err)
	}
	return &room, nil
}

// GetRoomMessages returns at most limit recent messages in backend order.
func (c *Client) GetRoomMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)
	var history models.ChatHistory
	if err := c.Get(ctx, fmt.Sprintf(ChatRoomMessagesEndpoint, url.PathEscape(roomID), limit), &history); err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	return history.Messages, nil
}

// SendMessage stores a message and returns the canonical record.
func (c *Client) SendMessage(ctx context.Context, req models.SendChatMessageRequest) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := c.Post(ctx, ChatMessagesEndpoint, req, &msg); err != nil {
		return nil, fmt.Errorf("failed to send chat message: %w", err)
	}
	return &msg, nil
}

func (c *Client) ThumbsUp(ctx context.Context, messageID, botID string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	body := models.ThumbsUpRequest{BotID: botID}
	if err := c.Post(ctx, fmt.Sprintf(ThumbsUpEndpoint, url.PathEscape(messageID)), body, &msg); err != nil {
		return nil, fmt.Errorf("failed to react to message: %w", err)
	}
	return &msg, nil
}
