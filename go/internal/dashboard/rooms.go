package dashboard

import (
	"context"
	"sync"

	"github.com/mcdev12/dynastydroid/go/internal/chat"
	"github.com/rs/zerolog/log"
)

// ChatOpener opens a chat session for a room whose live messages go to sink.
type ChatOpener interface {
	OpenRoom(ctx context.Context, roomID string, sink chat.Sink) (*chat.Session, error)
}

// SessionOpener opens sessions against the backend. Viewer is asked on every
// open so a bot registered after startup is picked up; nil means read-only.
type SessionOpener struct {
	Client       chat.RemoteClient
	Dialer       chat.Dialer
	Viewer       func(ctx context.Context) *chat.Viewer
	HistoryLimit int
}

func (o SessionOpener) OpenRoom(ctx context.Context, roomID string, sink chat.Sink) (*chat.Session, error) {
	cfg := chat.Config{RoomID: roomID, HistoryLimit: o.HistoryLimit}
	if o.Viewer != nil {
		cfg.Viewer = o.Viewer(ctx)
	}

	sess := chat.NewSession(o.Client, o.Dialer, cfg, chat.WithSinks(sink))
	if err := sess.Open(ctx); err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

// Rooms shares one chat session per room among the browsers watching it.
// The session is closed when the last browser leaves.
type Rooms struct {
	opener ChatOpener
	sink   chat.Sink

	mu    sync.Mutex
	rooms map[string]*roomEntry
}

type roomEntry struct {
	ready   chan struct{}
	session *chat.Session
	err     error
	refs    int
}

func NewRooms(opener ChatOpener, sink chat.Sink) *Rooms {
	return &Rooms{
		opener: opener,
		sink:   sink,
		rooms:  make(map[string]*roomEntry),
	}
}

// Acquire returns the room's session, opening it for the first browser.
// Every successful Acquire must be paired with a Release.
func (r *Rooms) Acquire(ctx context.Context, roomID string) (*chat.Session, error) {
	r.mu.Lock()
	e, ok := r.rooms[roomID]
	if !ok {
		e = &roomEntry{ready: make(chan struct{})}
		r.rooms[roomID] = e
	}
	e.refs++
	r.mu.Unlock()

	if !ok {
		e.session, e.err = r.opener.OpenRoom(ctx, roomID, r.sink)
		if e.err == nil {
			go drainUpdates(e.session)
			log.Info().Str("room_id", roomID).Str("state", string(e.session.State())).Msg("dashboard chat session opened")
		} else {
			r.mu.Lock()
			if r.rooms[roomID] == e {
				delete(r.rooms, roomID)
			}
			r.mu.Unlock()
		}
		close(e.ready)
	} else {
		<-e.ready
	}

	if e.err != nil {
		return nil, e.err
	}

	sess := e.session
	if sess.State() == chat.StateStreaming && !sess.Connected() {
		if err := sess.Reconnect(ctx); err != nil {
			log.Warn().Err(err).Str("room_id", roomID).Msg("chat stream still unavailable")
		}
	}
	return sess, nil
}

// Release drops one browser's hold on the room.
func (r *Rooms) Release(roomID string) {
	r.mu.Lock()
	e, ok := r.rooms[roomID]
	if !ok {
		r.mu.Unlock()
		return
	}
	e.refs--
	if e.refs > 0 {
		r.mu.Unlock()
		return
	}
	delete(r.rooms, roomID)
	r.mu.Unlock()

	if e.session == nil {
		return
	}
	if err := e.session.Close(); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("failed to close dashboard chat session")
	}
	log.Info().Str("room_id", roomID).Msg("dashboard chat session closed")
}

// Close ends every open session.
func (r *Rooms) Close() {
	r.mu.Lock()
	entries := r.rooms
	r.rooms = make(map[string]*roomEntry)
	r.mu.Unlock()

	for _, e := range entries {
		<-e.ready
		if e.session != nil {
			e.session.Close()
		}
	}
}

// Open reports how many rooms have a live session.
func (r *Rooms) Open() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// drainUpdates keeps the session's update buffer empty; browsers are fed
// through the hub instead.
func drainUpdates(sess *chat.Session) {
	for range sess.Updates() {
	}
}
