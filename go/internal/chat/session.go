package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dynastydroid/go/clients/botsports_client"
	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultUpdateBuffer = 64

// Viewer is the bot identity a session sends as
type Viewer struct {
	BotID   string
	BotName string
}

// Config selects the room and the viewer of a session
type Config struct {
	// RoomID wins over RoomType/EntityID when both are set.
	RoomID       string
	RoomType     models.RoomType
	EntityID     string
	Viewer       *Viewer
	HistoryLimit int
}

type Option func(*Session)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

func WithSinks(sinks ...Sink) Option {
	return func(s *Session) { s.sinks = append(s.sinks, sinks...) }
}

func WithUpdateBuffer(size int) Option {
	return func(s *Session) { s.updates = make(chan Update, size) }
}

// Session is one open chat room. All mutable state is guarded by mu; the
// read pump is the only goroutine reading the stream.
type Session struct {
	cfg    Config
	client RemoteClient
	dialer Dialer
	clock  clockwork.Clock
	sinks  []Sink

	mu        sync.Mutex
	opened    bool
	state     State
	err       error
	roomID    string
	room      *models.ChatRoom
	messages  []models.ChatMessage
	seen      map[string]struct{}
	stream    Stream
	connected bool
	updates   chan Update
}

// NewSession creates a session in the resolving state. dialer may be nil
// for read-only use.
func NewSession(client RemoteClient, dialer Dialer, cfg Config, opts ...Option) *Session {
	if cfg.RoomType == "" {
		cfg.RoomType = models.RoomTypeLeague
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = botsports_client.DefaultHistoryLimit
	}

	s := &Session{
		cfg:     cfg,
		client:  client,
		dialer:  dialer,
		clock:   clockwork.NewRealClock(),
		state:   StateResolving,
		seen:    make(map[string]struct{}),
		updates: make(chan Update, defaultUpdateBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open resolves the room, loads metadata and history, then starts
// streaming when a viewer is configured. Stream failures do not fail Open;
// they only leave the session disconnected.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.opened {
		s.mu.Unlock()
		return ErrAlreadyOpened
	}
	s.opened = true
	s.mu.Unlock()

	roomID, err := s.resolve(ctx)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.roomID = roomID
	s.setStateLocked(StateLoading)
	s.mu.Unlock()

	room, history, err := s.load(ctx, roomID)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.room = room
	for _, msg := range history {
		s.appendLocked(msg, OriginHistory)
	}

	if !s.hasViewer() {
		s.setStateLocked(StateReadOnly)
		s.mu.Unlock()
		log.Info().Str("room_id", roomID).Int("messages", len(history)).Msg("chat opened read-only")
		return nil
	}
	s.setStateLocked(StateStreaming)
	s.mu.Unlock()

	log.Info().Str("room_id", roomID).Int("messages", len(history)).Msg("chat opened")
	if err := s.connect(ctx); err != nil && !errors.Is(err, ErrSessionClosed) {
		log.Warn().Err(err).Str("room_id", roomID).Msg("chat stream unavailable")
	}
	return nil
}

func (s *Session) resolve(ctx context.Context) (string, error) {
	if s.cfg.RoomID != "" {
		return s.cfg.RoomID, nil
	}
	if s.cfg.EntityID == "" {
		return "", ErrNoRoom
	}

	room, err := s.client.GetOrCreateRoom(ctx, s.cfg.RoomType, s.cfg.EntityID)
	if err != nil {
		return "", err
	}
	if room.ID == "" {
		return "", ErrNoRoom
	}
	return room.ID, nil
}

// load fetches metadata and history concurrently; both must succeed.
func (s *Session) load(ctx context.Context, roomID string) (*models.ChatRoom, []models.ChatMessage, error) {
	var (
		room    *models.ChatRoom
		history []models.ChatMessage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		room, err = s.client.GetRoom(gctx, roomID)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.client.GetRoomMessages(gctx, roomID, s.cfg.HistoryLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	history = slices.Clone(history)
	now := s.clock.Now().UTC()
	for i := range history {
		if history[i].Timestamp.IsZero() {
			history[i].Timestamp = now
		}
	}
	slices.SortStableFunc(history, func(a, b models.ChatMessage) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return room, history, nil
}

func (s *Session) fail(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return ErrSessionClosed
	}
	s.err = fmt.Errorf("%w: %w", ErrLoadFailed, cause)
	s.setStateLocked(StateFailed)

	log.Error().Err(cause).Str("room_id", s.roomID).Msg("failed to initialize chat")
	return s.err
}

func (s *Session) hasViewer() bool {
	return s.cfg.Viewer != nil && s.cfg.Viewer.BotID != "" && s.cfg.Viewer.BotName != ""
}

// connect dials the room stream and starts its read pump.
func (s *Session) connect(ctx context.Context) error {
	if s.dialer == nil {
		s.mu.Lock()
		s.setConnectedLocked(false)
		s.mu.Unlock()
		return errors.New("no room stream dialer configured")
	}

	stream, err := s.dialer.DialRoom(ctx, s.roomID, s.cfg.Viewer.BotID, s.cfg.Viewer.BotName)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.setConnectedLocked(false)
		return fmt.Errorf("failed to connect to room stream: %w", err)
	}
	if s.state != StateStreaming || s.stream != nil {
		_ = stream.Close()
		if s.state == StateClosed {
			return ErrSessionClosed
		}
		return nil
	}

	s.stream = stream
	s.setConnectedLocked(true)
	go s.readPump(stream)

	log.Debug().Str("room_id", s.roomID).Msg("chat stream connected")
	return nil
}

func (s *Session) readPump(stream Stream) {
	for {
		envelope, err := stream.ReadEnvelope()
		if errors.Is(err, botsports_client.ErrMalformedFrame) {
			log.Warn().Err(err).Str("room_id", s.roomID).Msg("skipping stream frame")
			continue
		}
		if err != nil {
			s.dropStream(stream, err)
			return
		}
		s.handleEnvelope(stream, envelope)
	}
}

func (s *Session) handleEnvelope(stream Stream, envelope *models.StreamEnvelope) {
	if envelope.Type != models.EnvelopeTypeChatMessage {
		log.Debug().Str("type", string(envelope.Type)).Msg("ignoring stream frame")
		return
	}

	var payload models.StreamChatPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		log.Warn().Err(err).Str("room_id", s.roomID).Msg("failed to parse pushed message")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream != stream {
		return
	}
	s.appendLocked(s.fromPayload(payload), OriginPush)
}

func (s *Session) fromPayload(p models.StreamChatPayload) models.ChatMessage {
	msg := models.ChatMessage{
		ID:          p.ID,
		SenderID:    p.SenderID,
		SenderName:  p.SenderName,
		Content:     p.Content,
		RoomType:    p.RoomType,
		MessageType: p.MessageType,
		Reactions:   p.Reactions,
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if p.Timestamp != nil {
		msg.Timestamp = *p.Timestamp
	} else {
		msg.Timestamp = s.clock.Now().UTC()
	}
	return msg
}

// dropStream marks the session disconnected. The session stays streaming
// until Reconnect or Close.
func (s *Session) dropStream(stream Stream, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream != stream {
		return
	}
	_ = stream.Close()
	s.stream = nil
	s.setConnectedLocked(false)

	log.Warn().Err(cause).Str("room_id", s.roomID).Msg("chat stream disconnected")
}

// Send posts content as the viewer. The canonical record returned by the
// backend is displayed and mirrored on the stream.
func (s *Session) Send(ctx context.Context, content string) (*models.ChatMessage, error) {
	s.mu.Lock()
	switch {
	case s.state == StateClosed:
		s.mu.Unlock()
		return nil, ErrSessionClosed
	case s.state != StateStreaming || !s.connected:
		s.mu.Unlock()
		return nil, ErrSendDisabled
	case strings.TrimSpace(content) == "":
		s.mu.Unlock()
		return nil, ErrEmptyMessage
	}

	roomType := s.cfg.RoomType
	if s.room != nil && s.room.RoomType != "" {
		roomType = s.room.RoomType
	}
	req := models.SendChatMessageRequest{
		RoomID:      s.roomID,
		RoomType:    roomType,
		SenderID:    s.cfg.Viewer.BotID,
		SenderName:  s.cfg.Viewer.BotName,
		Content:     content,
		MessageType: models.MessageTypeText,
	}
	s.mu.Unlock()

	msg, err := s.client.SendMessage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.clock.Now().UTC()
	}
	s.appendLocked(*msg, OriginSend)
	stream := s.stream
	s.mu.Unlock()

	if stream != nil {
		s.mirror(stream, *msg)
	}
	return msg, nil
}

func (s *Session) mirror(stream Stream, msg models.ChatMessage) {
	envelope, err := models.NewChatEnvelope(models.StreamChatPayload{
		ID:          msg.ID,
		SenderID:    msg.SenderID,
		SenderName:  msg.SenderName,
		Content:     msg.Content,
		Timestamp:   &msg.Timestamp,
		RoomType:    msg.RoomType,
		MessageType: msg.MessageType,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to encode mirrored message")
		return
	}
	if err := stream.WriteEnvelope(envelope); err != nil {
		s.dropStream(stream, err)
	}
}

// React adds the viewer's thumbs-up. The displayed message is not changed;
// the updated record is returned to the caller.
func (s *Session) React(ctx context.Context, messageID string) (*models.ChatMessage, error) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if !s.hasViewer() {
		s.mu.Unlock()
		return nil, ErrSendDisabled
	}
	botID := s.cfg.Viewer.BotID
	s.mu.Unlock()

	msg, err := s.client.ThumbsUp(ctx, messageID, botID)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Reconnect dials the room stream again after a disconnect. It is a no-op
// while still connected.
func (s *Session) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state != StateStreaming {
		s.mu.Unlock()
		return ErrNotStreaming
	}
	if s.connected {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.connect(ctx)
}

// Close ends the session. Results of calls still in flight are discarded.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}

	var err error
	if s.stream != nil {
		err = s.stream.Close()
		s.stream = nil
	}
	s.connected = false
	s.setStateLocked(StateClosed)
	close(s.updates)

	log.Debug().Str("room_id", s.roomID).Msg("chat session closed")
	return err
}

// appendLocked displays msg unless its id was already seen.
func (s *Session) appendLocked(msg models.ChatMessage, origin Origin) bool {
	if msg.ID != "" {
		if _, dup := s.seen[msg.ID]; dup {
			return false
		}
		s.seen[msg.ID] = struct{}{}
	}
	s.messages = append(s.messages, msg)

	s.notifyLocked(Update{Kind: UpdateMessage, Message: &msg, Origin: origin, State: s.state, Connected: s.connected})
	if origin != OriginHistory {
		for _, sink := range s.sinks {
			sink.Deliver(s.roomID, msg, origin)
		}
	}
	return true
}

func (s *Session) setStateLocked(state State) {
	if s.state == state {
		return
	}
	s.state = state
	s.notifyLocked(Update{Kind: UpdateState, State: state, Connected: s.connected})
}

func (s *Session) setConnectedLocked(connected bool) {
	if s.connected == connected {
		return
	}
	s.connected = connected
	s.notifyLocked(Update{Kind: UpdateConnectivity, State: s.state, Connected: connected})
}

func (s *Session) notifyLocked(update Update) {
	select {
	case s.updates <- update:
	default:
		log.Warn().
			Str("room_id", s.roomID).
			Str("kind", string(update.Kind)).
			Msg("chat update buffer full, dropping update")
	}
}

// Updates streams change notifications. The channel is closed by Close.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// Messages returns a snapshot of the displayed messages.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// CanSend reports whether Send would issue a request.
func (s *Session) CanSend() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateStreaming && s.connected
}

func (s *Session) RoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// Room returns the loaded room metadata, nil before loading completes.
func (s *Session) Room() *models.ChatRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room == nil {
		return nil
	}
	room := *s.room
	return &room
}

// Err returns the load failure once the session is failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
