package chat

import (
	"errors"

	"github.com/mcdev12/dynastydroid/go/internal/models"
)

// State is the lifecycle phase of a chat session
type State string

const (
	StateResolving State = "resolving"
	StateLoading   State = "loading"
	StateStreaming State = "streaming"
	StateReadOnly  State = "read_only"
	StateFailed    State = "failed"
	StateClosed    State = "closed"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateFailed || s == StateClosed
}

var (
	// ErrLoadFailed is the user-visible reason for the failed state.
	ErrLoadFailed    = errors.New("failed to load chat, please try again")
	ErrNoRoom        = errors.New("no chat room available")
	ErrSendDisabled  = errors.New("sending is disabled for this chat session")
	ErrEmptyMessage  = errors.New("message content is empty")
	ErrSessionClosed = errors.New("chat session is closed")
	ErrNotStreaming  = errors.New("chat session is not streaming")
	ErrAlreadyOpened = errors.New("chat session already opened")
)

// Origin tells where a displayed message came from
type Origin string

const (
	OriginHistory Origin = "history"
	OriginSend    Origin = "send"
	OriginPush    Origin = "push"
)

type UpdateKind string

const (
	UpdateMessage      UpdateKind = "message"
	UpdateState        UpdateKind = "state"
	UpdateConnectivity UpdateKind = "connectivity"
)

// Update notifies a consumer that the session changed. Messages() is the
// authoritative view; updates may be dropped when the consumer lags.
type Update struct {
	Kind      UpdateKind
	Message   *models.ChatMessage
	Origin    Origin
	State     State
	Connected bool
}

// Sink receives every live message appended to a session, in display
// order. Deliver is called with the session lock held and must not block
// or call back into the session.
type Sink interface {
	Deliver(roomID string, msg models.ChatMessage, origin Origin)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(roomID string, msg models.ChatMessage, origin Origin)

func (f SinkFunc) Deliver(roomID string, msg models.ChatMessage, origin Origin) {
	f(roomID, msg, origin)
}
