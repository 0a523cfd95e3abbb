package relay

import (
	"testing"
	"time"

	"github.com/mcdev12/dynastydroid/go/internal/chat"
	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *server.Server {
	t.Helper()
	ns, err := server.NewServer(&server.Options{
		Port:   -1, // random
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)

	go ns.Start()
	require.True(t, ns.ReadyForConnections(10*time.Second), "nats server did not start")
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns
}

func connect(t *testing.T, ns *server.Server) *Relay {
	t.Helper()
	cfg := DefaultConfig()
	cfg.URL = ns.ClientURL()
	r, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRelay_PublishesPerRoomSubject(t *testing.T) {
	ns := startServer(t)
	r := connect(t, ns)

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	sub, err := nc.SubscribeSync("chat.rooms.room_1")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	r.Deliver("room_1", models.ChatMessage{ID: "m1", Content: "hello"}, chat.OriginPush)
	require.NoError(t, r.Flush())

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.Header.Get("Message-ID"))
	assert.Equal(t, "push", msg.Header.Get("Origin"))
	assert.Contains(t, string(msg.Data), `"content":"hello"`)
}

func TestRelay_SubscribeReceivesAllRooms(t *testing.T) {
	ns := startServer(t)
	r := connect(t, ns)

	got := make(chan Envelope, 2)
	sub, err := r.Subscribe(func(env Envelope) { got <- env })
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, r.Flush())

	require.NoError(t, r.Publish("room_1", models.ChatMessage{ID: "a"}, chat.OriginSend))
	require.NoError(t, r.Publish("room.2", models.ChatMessage{ID: "b"}, chat.OriginPush))

	var ids []string
	for range 2 {
		select {
		case env := <-got:
			ids = append(ids, env.RoomID+"/"+env.Message.ID)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for relayed message")
		}
	}
	assert.ElementsMatch(t, []string{"room_1/a", "room.2/b"}, ids)
}

func TestRelay_SubjectEscapesRoomID(t *testing.T) {
	r := &Relay{config: Config{SubjectPrefix: "chat.rooms"}}
	assert.Equal(t, "chat.rooms.room_1", r.Subject("room_1"))
	assert.Equal(t, "chat.rooms.a_b_c_", r.Subject("a.b*c>"))
}

func TestConnect_FailsWithoutServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "nats://127.0.0.1:1"
	_, err := Connect(cfg)
	assert.Error(t, err)
}
