package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mcdev12/dynastydroid/go/internal/chat"
	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/mcdev12/dynastydroid/go/internal/relay"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	chatCmd.Flags().String("league", "", "league whose room to join")
	chatCmd.Flags().String("room", "", "explicit room id")
	chatCmd.Flags().String("room-type", string(models.RoomTypeLeague), "room type used with --league")
	chatCmd.Flags().Bool("read-only", false, "watch without sending")
	rootCmd.AddCommand(chatCmd)
}

const chatHelp = `Type a message and press enter to send.
  /react <message-id>  thumbs-up a message
  /reconnect           reopen the live stream
  /quit                leave the room`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Join a chat room",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		leagueID, _ := flags.GetString("league")
		roomID, _ := flags.GetString("room")
		roomType, _ := flags.GetString("room-type")
		readOnly, _ := flags.GetBool("read-only")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := chat.Config{
			RoomID:       roomID,
			RoomType:     models.RoomType(roomType),
			EntityID:     leagueID,
			HistoryLimit: rt.cfg.HistoryLimit,
		}
		if !readOnly {
			if bot := rt.bots.Current(ctx); bot != nil {
				cfg.Viewer = &chat.Viewer{BotID: bot.ID, BotName: bot.DisplayName}
			}
		}

		var sinks []chat.Sink
		if rc, ok := rt.cfg.RelayConfig(); ok {
			r, err := relay.Connect(rc)
			if err != nil {
				log.Warn().Err(err).Msg("chat relay unavailable, continuing without it")
			} else {
				defer r.Close()
				sinks = append(sinks, r)
			}
		}

		sess := chat.NewSession(rt.client, chat.NewClientDialer(rt.client), cfg, chat.WithSinks(sinks...))
		defer sess.Close()

		if err := sess.Open(ctx); err != nil {
			return err
		}
		return runChat(ctx, sess, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// runChat prints the room and relays typed lines until the input ends,
// the operator quits or ctx is done.
func runChat(ctx context.Context, sess *chat.Session, in io.Reader, out io.Writer) error {
	room := sess.Room()
	fmt.Fprintf(out, "%s (%s)\n", room.Name, room.ID)
	if sess.State() == chat.StateReadOnly {
		fmt.Fprintln(out, "Read-only: register a bot to send messages.")
	} else {
		fmt.Fprintln(out, chatHelp)
	}

	printed := 0
	flush := func() {
		msgs := sess.Messages()
		for _, m := range msgs[printed:] {
			printMessage(out, m)
		}
		printed = len(msgs)
	}
	flush()
	if sess.State() == chat.StateStreaming && !sess.Connected() {
		fmt.Fprintln(out, "Live updates unavailable, type /reconnect to retry.")
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	updates := sess.Updates()
	for {
		select {
		case <-ctx.Done():
			return nil

		case u, ok := <-updates:
			if !ok {
				return nil
			}
			switch u.Kind {
			case chat.UpdateMessage:
				flush()
			case chat.UpdateConnectivity:
				if u.Connected {
					fmt.Fprintln(out, "* connected")
				} else {
					fmt.Fprintln(out, "* disconnected, type /reconnect to retry")
				}
			}

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := handleLine(ctx, sess, out, line); quit {
				return nil
			}
			flush()
		}
	}
}

func handleLine(ctx context.Context, sess *chat.Session, out io.Writer, line string) (quit bool) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case line == "/quit":
		return true
	case line == "/reconnect":
		if err := sess.Reconnect(ctx); err != nil {
			fmt.Fprintf(out, "! reconnect failed: %v\n", err)
		}
	case strings.HasPrefix(line, "/react"):
		id := strings.TrimSpace(strings.TrimPrefix(line, "/react"))
		if id == "" {
			fmt.Fprintln(out, "! usage: /react <message-id>")
			return false
		}
		msg, err := sess.React(ctx, id)
		if err != nil {
			fmt.Fprintf(out, "! reaction failed: %v\n", err)
			return false
		}
		total := 0
		for _, bots := range msg.Reactions {
			total += len(bots)
		}
		fmt.Fprintf(out, "* reacted to %s (%d reactions)\n", msg.ID, total)
	default:
		if _, err := sess.Send(ctx, line); err != nil {
			if errors.Is(err, chat.ErrSendDisabled) && sess.State() == chat.StateStreaming {
				fmt.Fprintln(out, "! not connected, type /reconnect first")
				return false
			}
			fmt.Fprintf(out, "! %v\n", err)
		}
	}
	return false
}
