package chat

import (
	"context"

	"github.com/mcdev12/dynastydroid/go/clients/botsports_client"
	"github.com/mcdev12/dynastydroid/go/internal/models"
)

// RemoteClient is the subset of the backend API a chat session calls
type RemoteClient interface {
	GetOrCreateRoom(ctx context.Context, roomType models.RoomType, entityID string) (*models.ChatRoom, error)
	GetRoom(ctx context.Context, roomID string) (*models.ChatRoom, error)
	GetRoomMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error)
	SendMessage(ctx context.Context, req models.SendChatMessageRequest) (*models.ChatMessage, error)
	ThumbsUp(ctx context.Context, messageID, botID string) (*models.ChatMessage, error)
}

// Stream is an open room push channel
type Stream interface {
	ReadEnvelope() (*models.StreamEnvelope, error)
	WriteEnvelope(envelope *models.StreamEnvelope) error
	Close() error
}

type Dialer interface {
	DialRoom(ctx context.Context, roomID, botID, botName string) (Stream, error)
}

type clientDialer struct {
	client *botsports_client.Client
}

// NewClientDialer dials room streams through the backend client.
func NewClientDialer(client *botsports_client.Client) Dialer {
	return clientDialer{client: client}
}

func (d clientDialer) DialRoom(ctx context.Context, roomID, botID, botName string) (Stream, error) {
	stream, err := d.client.DialRoom(ctx, roomID, botID, botName)
	if err != nil {
		return nil, err
	}
	return stream, nil
}
