package botsports_client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mcdev12/dynastydroid/go/internal/models"
)

const streamWriteTimeout = 10 * time.Second

// ErrMalformedFrame marks a frame that arrived but could not be decoded. The
// stream itself is still usable.
var ErrMalformedFrame = errors.New("malformed stream frame")

// RoomStream is an open room WebSocket. Reads must come from a single
// goroutine; writes are serialized internally.
type RoomStream struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	once    sync.Once
}

// StreamURL derives the room stream URL from the HTTP base URL.
func (c *Client) StreamURL(roomID, botID, botName string) (string, error) {
	base, err := url.Parse(c.BaseURL())
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}

	switch base.Scheme {
	case "https":
		base.Scheme = "wss"
	case "http":
		base.Scheme = "ws"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported base url scheme: %q", base.Scheme)
	}

	// the room id is one path segment even when it holds '/' or '?'
	prefix := strings.TrimSuffix(base.Path, "/")
	rawPrefix := strings.TrimSuffix(base.EscapedPath(), "/")
	base.Path = prefix + fmt.Sprintf(ChatStreamPath, roomID)
	base.RawPath = rawPrefix + fmt.Sprintf(ChatStreamPath, url.PathEscape(roomID))

	query := url.Values{}
	query.Set(BotIDParam, botID)
	query.Set(BotNameParam, botName)
	base.RawQuery = query.Encode()

	return base.String(), nil
}

// DialRoom opens the room stream for one viewer.
func (c *Client) DialRoom(ctx context.Context, roomID, botID, botName string) (*RoomStream, error) {
	streamURL, err := c.StreamURL(roomID, botID, botName)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial room stream: %w", err)
	}
	return &RoomStream{conn: conn}, nil
}

// ReadEnvelope blocks until the next frame arrives.
func (s *RoomStream) ReadEnvelope() (*models.StreamEnvelope, error) {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var envelope models.StreamEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return &envelope, nil
}

func (s *RoomStream) WriteEnvelope(envelope *models.StreamEnvelope) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(envelope)
}

// Close sends a close frame and releases the connection. Safe to call twice.
func (s *RoomStream) Close() error {
	var err error
	s.once.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}
