package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcdev12/dynastydroid/go/internal/chat"
	"github.com/mcdev12/dynastydroid/go/internal/dashboard"
	"github.com/mcdev12/dynastydroid/go/internal/relay"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (default DASHBOARD_PORT)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := rt.cfg.Addr()
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			addr = fmt.Sprintf(":%d", port)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		hub := dashboard.NewHub(dashboard.DefaultHubConfig())
		go hub.Run(ctx)

		if rc, ok := rt.cfg.RelayConfig(); ok {
			r, err := relay.Connect(rc)
			if err != nil {
				return fmt.Errorf("failed to connect chat relay: %w", err)
			}
			defer r.Close()

			sub, err := r.Subscribe(hub.HandleRelay)
			if err != nil {
				return err
			}
			defer sub.Unsubscribe()
			log.Info().Str("subject", rc.SubjectPrefix+".>").Msg("relaying chat to browsers")
		}

		botApp := rt.bots
		rooms := dashboard.NewRooms(dashboard.SessionOpener{
			Client: rt.client,
			Dialer: chat.NewClientDialer(rt.client),
			Viewer: func(ctx context.Context) *chat.Viewer {
				bot := botApp.Current(ctx)
				if bot == nil {
					return nil
				}
				return &chat.Viewer{BotID: bot.ID, BotName: bot.DisplayName}
			},
			HistoryLimit: rt.cfg.HistoryLimit,
		}, hub)
		defer rooms.Close()

		server := dashboard.NewServer(dashboard.Deps{
			Leagues:  rt.leagues,
			Rosters:  rt.rosters,
			Bots:     rt.bots,
			Identity: rt.session,
			Hub:      hub,
			Rooms:    rooms,
		}).HTTPServer(addr)

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", server.Addr).Msg("dashboard server starting")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		case err := <-errCh:
			return fmt.Errorf("dashboard server failed: %w", err)
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("dashboard server shutdown failed")
		}
		cancel()

		log.Info().Msg("dashboard shutdown complete")
		return nil
	},
}
