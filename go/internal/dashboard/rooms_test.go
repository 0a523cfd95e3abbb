package dashboard

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mcdev12/dynastydroid/go/clients"
	"github.com/mcdev12/dynastydroid/go/internal/chat"
	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/mcdev12/dynastydroid/go/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type chatBackend struct {
	mu          sync.Mutex
	roomErr     error
	history     []models.ChatMessage
	historyHits int
}

func (b *chatBackend) GetOrCreateRoom(ctx context.Context, roomType models.RoomType, entityID string) (*models.ChatRoom, error) {
	return &models.ChatRoom{ID: "room_1", RoomType: roomType, EntityID: entityID}, nil
}

func (b *chatBackend) GetRoom(ctx context.Context, roomID string) (*models.ChatRoom, error) {
	if b.roomErr != nil {
		return nil, b.roomErr
	}
	return &models.ChatRoom{ID: roomID, Name: "League Chat", RoomType: models.RoomTypeLeague}, nil
}

func (b *chatBackend) GetRoomMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.historyHits++
	return b.history, nil
}

func (b *chatBackend) SendMessage(ctx context.Context, req models.SendChatMessageRequest) (*models.ChatMessage, error) {
	return nil, errors.New("not used")
}

func (b *chatBackend) ThumbsUp(ctx context.Context, messageID, botID string) (*models.ChatMessage, error) {
	return nil, errors.New("not used")
}

func (b *chatBackend) hits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.historyHits
}

type pushStream struct {
	frames chan *models.StreamEnvelope
	done   chan struct{}
	once   sync.Once
}

func (s *pushStream) ReadEnvelope() (*models.StreamEnvelope, error) {
	select {
	case f := <-s.frames:
		return f, nil
	case <-s.done:
		return nil, errors.New("stream closed")
	}
}

func (s *pushStream) WriteEnvelope(*models.StreamEnvelope) error { return nil }

func (s *pushStream) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *pushStream) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

type pushDialer struct {
	mu      sync.Mutex
	streams []*pushStream
}

func (d *pushDialer) DialRoom(ctx context.Context, roomID, botID, botName string) (chat.Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &pushStream{frames: make(chan *models.StreamEnvelope, 8), done: make(chan struct{})}
	d.streams = append(d.streams, s)
	return s, nil
}

func (d *pushDialer) dialed() []*pushStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*pushStream(nil), d.streams...)
}

type roomsFixture struct {
	hub     *Hub
	rooms   *Rooms
	backend *chatBackend
	dialer  *pushDialer
	url     string
}

func startRooms(t *testing.T, viewer *chat.Viewer) *roomsFixture {
	t.Helper()
	f := &roomsFixture{
		backend: &chatBackend{history: []models.ChatMessage{
			{ID: "m2", Content: "second", Timestamp: t0.Add(time.Minute)},
			{ID: "m1", Content: "first", Timestamp: t0},
		}},
		dialer: &pushDialer{},
	}

	f.hub = NewHub(DefaultHubConfig())
	ctx, cancel := context.WithCancel(context.Background())
	go f.hub.Run(ctx)
	t.Cleanup(cancel)

	f.rooms = NewRooms(SessionOpener{
		Client: f.backend,
		Dialer: f.dialer,
		Viewer: func(context.Context) *chat.Viewer { return viewer },
	}, f.hub)
	t.Cleanup(f.rooms.Close)

	ts := newTestServer(t, Deps{Hub: f.hub, Rooms: f.rooms})
	f.url = "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat?room_id="
	return f
}

func (f *roomsFixture) join(t *testing.T, roomID string) *websocket.Conn {
	t.Helper()
	before := f.hub.Stats().Rooms[roomID]
	conn, _, err := websocket.DefaultDialer.Dial(f.url+roomID, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return f.hub.Stats().Rooms[roomID] == before+1
	}, 2*time.Second, 10*time.Millisecond)
	return conn
}

func push(t *testing.T, s *pushStream, payload models.StreamChatPayload) {
	t.Helper()
	env, err := models.NewChatEnvelope(payload)
	require.NoError(t, err)
	s.frames <- env
}

func TestChatEndpoint_HistoryThenLive(t *testing.T) {
	f := startRooms(t, &chat.Viewer{BotID: "bot_1", BotName: "Stat Nerd 9000"})
	conn := f.join(t, "room_1")

	first, second := readFrame(t, conn), readFrame(t, conn)
	assert.Equal(t, []string{"m1", "m2"}, []string{first.Data.ID, second.Data.ID})
	assert.Equal(t, chat.OriginHistory, first.Origin)

	streams := f.dialer.dialed()
	require.Len(t, streams, 1)
	push(t, streams[0], models.StreamChatPayload{ID: "m3", Content: "pushed"})

	live := readFrame(t, conn)
	assert.Equal(t, "m3", live.Data.ID)
	assert.Equal(t, chat.OriginPush, live.Origin)
	assert.Equal(t, "room_1", live.RoomID)
}

func TestChatEndpoint_SharesSessionPerRoom(t *testing.T) {
	f := startRooms(t, &chat.Viewer{BotID: "bot_1", BotName: "Stat Nerd 9000"})
	a := f.join(t, "room_1")
	readFrame(t, a)
	readFrame(t, a)

	push(t, f.dialer.dialed()[0], models.StreamChatPayload{ID: "m3", Content: "pushed"})
	assert.Equal(t, "m3", readFrame(t, a).Data.ID)

	// a late browser gets everything displayed so far as its backlog
	b := f.join(t, "room_1")
	var backlog []string
	for range 3 {
		backlog = append(backlog, readFrame(t, b).Data.ID)
	}
	assert.Equal(t, []string{"m1", "m2", "m3"}, backlog)
	assert.Equal(t, 1, f.backend.hits())
	assert.Len(t, f.dialer.dialed(), 1)
	assert.Equal(t, 1, f.rooms.Open())

	// the same message relayed from another process is not shown twice
	f.hub.HandleRelay(relay.Envelope{RoomID: "room_1", Origin: chat.OriginSend, Message: models.ChatMessage{ID: "m3"}})
	f.hub.Deliver("room_1", models.ChatMessage{ID: "m4"}, chat.OriginPush)
	assert.Equal(t, "m4", readFrame(t, b).Data.ID)
	assert.Equal(t, "m4", readFrame(t, a).Data.ID)
}

func TestChatEndpoint_ClosesSessionWithLastBrowser(t *testing.T) {
	f := startRooms(t, &chat.Viewer{BotID: "bot_1", BotName: "Stat Nerd 9000"})
	a := f.join(t, "room_1")
	b := f.join(t, "room_1")
	stream := f.dialer.dialed()[0]

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return f.hub.Stats().Rooms["room_1"] == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, f.rooms.Open())
	assert.False(t, stream.closed())

	require.NoError(t, b.Close())
	require.Eventually(t, stream.closed, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, f.rooms.Open())

	// joining again opens a fresh session
	f.join(t, "room_1")
	assert.Equal(t, 2, f.backend.hits())
}

func TestChatEndpoint_ReadOnlyWithoutBot(t *testing.T) {
	f := startRooms(t, nil)
	conn := f.join(t, "room_1")

	assert.Equal(t, "m1", readFrame(t, conn).Data.ID)
	assert.Equal(t, "m2", readFrame(t, conn).Data.ID)
	assert.Empty(t, f.dialer.dialed())
}

func TestChatEndpoint_LoadFailure(t *testing.T) {
	f := startRooms(t, nil)
	f.backend.roomErr = &clients.RemoteError{StatusCode: http.StatusNotFound, Message: "room not found"}

	_, resp, err := websocket.DefaultDialer.Dial(f.url+"missing", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, f.rooms.Open())
	assert.Equal(t, 0, f.hub.Stats().TotalConnections)
}
