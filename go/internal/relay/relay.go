package relay

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mcdev12/dynastydroid/go/internal/chat"
	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const DefaultSubjectPrefix = "chat.rooms"

type Config struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		SubjectPrefix: DefaultSubjectPrefix,
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// Envelope is the relayed form of one displayed chat message
type Envelope struct {
	RoomID    string             `json:"room_id"`
	Origin    chat.Origin        `json:"origin"`
	Message   models.ChatMessage `json:"message"`
	RelayedAt time.Time          `json:"relayed_at"`
}

// Relay mirrors chat messages onto NATS subjects <prefix>.<room id>. It is
// a chat.Sink.
type Relay struct {
	nc     *nats.Conn
	config Config
}

// Connect dials NATS with reconnect handling.
func Connect(cfg Config) (*Relay, error) {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DefaultSubjectPrefix
	}

	opts := []nats.Option{
		nats.Name("dynastydroid-chat-relay"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Error().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Relay{nc: nc, config: cfg}, nil
}

// Subject returns the subject messages of roomID are published on.
func (r *Relay) Subject(roomID string) string {
	return r.config.SubjectPrefix + "." + subjectToken(roomID)
}

// subjectToken keeps room ids from introducing extra subject levels or
// wildcards.
func subjectToken(id string) string {
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(id)
}

// Deliver implements chat.Sink. Publish errors are logged and swallowed so
// the chat session is never affected.
func (r *Relay) Deliver(roomID string, msg models.ChatMessage, origin chat.Origin) {
	if err := r.Publish(roomID, msg, origin); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Str("message_id", msg.ID).Msg("failed to relay chat message")
	}
}

func (r *Relay) Publish(roomID string, msg models.ChatMessage, origin chat.Origin) error {
	data, err := json.Marshal(Envelope{
		RoomID:    roomID,
		Origin:    origin,
		Message:   msg,
		RelayedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal relay envelope: %w", err)
	}

	subject := r.Subject(roomID)
	err = r.nc.PublishMsg(&nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"Room-ID":    []string{roomID},
			"Message-ID": []string{msg.ID},
			"Origin":     []string{string(origin)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish to NATS: %w", err)
	}

	log.Debug().Str("subject", subject).Str("message_id", msg.ID).Msg("relayed chat message")
	return nil
}

// Subscribe delivers every relayed envelope of all rooms to handler.
func (r *Relay) Subscribe(handler func(Envelope)) (*nats.Subscription, error) {
	sub, err := r.nc.Subscribe(r.config.SubjectPrefix+".>", func(msg *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			log.Warn().Err(err).Str("subject", msg.Subject).Msg("dropping unreadable relay message")
			return
		}
		handler(env)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to NATS: %w", err)
	}
	return sub, nil
}

// Flush waits until published messages reached the server.
func (r *Relay) Flush() error {
	return r.nc.Flush()
}

func (r *Relay) Close() error {
	if r.nc != nil {
		r.nc.Close()
	}
	return nil
}
