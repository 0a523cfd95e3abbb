package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dynastydroid/go/clients/botsports_client"
	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend fakes the chat REST endpoints and room stream.
type backend struct {
	t        *testing.T
	upgrader websocket.Upgrader
	conns    chan *websocket.Conn
	mirrored chan models.StreamEnvelope
	// historyJSON replaces the default history body when set
	historyJSON string

	mu    sync.Mutex
	posts int
}

func newBackend(t *testing.T) (*backend, *botsports_client.Client) {
	b := &backend{
		t:        t,
		conns:    make(chan *websocket.Conn, 4),
		mirrored: make(chan models.StreamEnvelope, 4),
	}
	server := httptest.NewServer(b)
	t.Cleanup(server.Close)
	return b, botsports_client.NewClient(server.URL, nil)
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/chat/ws/room_1":
		b.serveStream(w, r)
	case r.URL.Path == "/chat/rooms/league/league_1":
		writeJSON(w, models.ChatRoom{ID: "room_1", RoomType: models.RoomTypeLeague})
	case r.URL.Path == "/chat/rooms/room_1":
		writeJSON(w, models.ChatRoom{ID: "room_1", Name: "Analytics Arena", RoomType: models.RoomTypeLeague})
	case r.URL.Path == "/chat/rooms/room_1/messages":
		assert.Equal(b.t, "50", r.URL.Query().Get("limit"))
		if b.historyJSON != "" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(b.historyJSON))
			return
		}
		writeJSON(w, models.ChatHistory{Messages: []models.ChatMessage{message("m2", time.Minute), message("m1", 0)}})
	case r.URL.Path == "/chat/messages/" && r.Method == http.MethodPost:
		b.mu.Lock()
		b.posts++
		b.mu.Unlock()

		var req models.SendChatMessageRequest
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&req))
		msg := message("srv_1", time.Hour)
		msg.Content = req.Content
		msg.SenderID = req.SenderID
		writeJSON(w, msg)
	default:
		http.NotFound(w, r)
	}
}

func (b *backend) serveStream(w http.ResponseWriter, r *http.Request) {
	assert.Equal(b.t, "stat_nerd_bot", r.URL.Query().Get("bot_id"))
	assert.Equal(b.t, "Stat Nerd 9000", r.URL.Query().Get("bot_name"))

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	b.conns <- conn
	go func() {
		for {
			var env models.StreamEnvelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			b.mirrored <- env
		}
	}()
}

func (b *backend) nextConn(t *testing.T) *websocket.Conn {
	select {
	case c := <-b.conns:
		t.Cleanup(func() { c.Close() })
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no stream connection")
		return nil
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestSession_AgainstBackend(t *testing.T) {
	b, client := newBackend(t)
	s := NewSession(client, NewClientDialer(client), Config{EntityID: "league_1", Viewer: viewer})
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()

	conn := b.nextConn(t)
	assert.Equal(t, []string{"m1", "m2"}, ids(s.Messages()))
	assert.Equal(t, "Analytics Arena", s.Room().Name)

	// malformed and unknown frames are skipped without dropping the stream
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "presence", "data": map[string]string{}}))
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "chat_message",
		"data": map[string]string{"id": "m3", "content": "pushed", "sender_id": "trash_bot"},
	}))

	require.Eventually(t, func() bool { return len(s.Messages()) == 3 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids(s.Messages()))
	assert.True(t, s.Connected())

	msg, err := s.Send(context.Background(), "numbers never lie")
	require.NoError(t, err)
	assert.Equal(t, "srv_1", msg.ID)

	select {
	case env := <-b.mirrored:
		var payload models.StreamChatPayload
		require.NoError(t, json.Unmarshal(env.Data, &payload))
		assert.Equal(t, "srv_1", payload.ID)
		assert.Equal(t, "numbers never lie", payload.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("send was not mirrored")
	}

	// backend echo of our own message
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "chat_message",
		"data": map[string]string{"id": "srv_1", "content": "numbers never lie"},
	}))
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "chat_message",
		"data": map[string]string{"id": "m4"},
	}))
	require.Eventually(t, func() bool { return len(s.Messages()) == 5 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"m1", "m2", "m3", "srv_1", "m4"}, ids(s.Messages()))
}

func TestSession_ServerCloseDisconnects(t *testing.T) {
	b, client := newBackend(t)
	s := NewSession(client, NewClientDialer(client), Config{RoomID: "room_1", Viewer: viewer})
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()

	conn := b.nextConn(t)
	conn.Close()

	require.Eventually(t, func() bool { return !s.Connected() }, 2*time.Second, 10*time.Millisecond)
	_, err := s.Send(context.Background(), "hello?")
	assert.ErrorIs(t, err, ErrSendDisabled)

	b.mu.Lock()
	assert.Equal(t, 0, b.posts)
	b.mu.Unlock()

	require.NoError(t, s.Reconnect(context.Background()))
	b.nextConn(t)
	assert.True(t, s.Connected())
}

func TestSession_HistoryNotFoundFails(t *testing.T) {
	_, client := newBackend(t)
	s := NewSession(client, NewClientDialer(client), Config{RoomID: "missing", Viewer: viewer})

	err := s.Open(context.Background())
	require.ErrorIs(t, err, ErrLoadFailed)
	assert.True(t, strings.HasPrefix(err.Error(), ErrLoadFailed.Error()))
	assert.Equal(t, StateFailed, s.State())
}

func TestSession_LenientTimestamps(t *testing.T) {
	b, client := newBackend(t)
	b.historyJSON = `{"messages":[
		{"id":"m2","content":"no time","timestamp":""},
		{"id":"m1","content":"naive","timestamp":"2026-09-01T12:00:00.123456"}
	]}`
	now := t0.Add(time.Hour)
	clock := clockwork.NewFakeClockAt(now)

	s := NewSession(client, NewClientDialer(client), Config{RoomID: "room_1", Viewer: viewer}, WithClock(clock))
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()
	require.Equal(t, StateStreaming, s.State())

	history := s.Messages()
	require.Equal(t, []string{"m1", "m2"}, ids(history))
	assert.True(t, history[0].Timestamp.Equal(t0.Add(123456*time.Microsecond)), "zoneless timestamps are UTC")
	assert.True(t, history[1].Timestamp.Equal(now), "missing timestamps get the session clock")

	conn := b.nextConn(t)
	for _, frame := range []string{
		`{"type":"chat_message","data":{"id":"m3","content":"empty","timestamp":""}}`,
		`{"type":"chat_message","data":{"id":"m4","content":"naive","timestamp":"2026-09-01T12:05:00.123456"}}`,
		`{"type":"chat_message","data":{"id":"m5","content":"absent"}}`,
	} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
	}

	require.Eventually(t, func() bool { return len(s.Messages()) == 5 }, 2*time.Second, 10*time.Millisecond)
	msgs := s.Messages()
	assert.Equal(t, []string{"m1", "m2", "m3", "m4", "m5"}, ids(msgs))
	assert.True(t, msgs[2].Timestamp.Equal(now))
	assert.True(t, msgs[3].Timestamp.Equal(time.Date(2026, 9, 1, 12, 5, 0, 123456000, time.UTC)))
	assert.True(t, msgs[4].Timestamp.Equal(now))
}
