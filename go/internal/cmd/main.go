package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mcdev12/dynastydroid/go/clients/botsports_client"
	"github.com/mcdev12/dynastydroid/go/internal/bots"
	"github.com/mcdev12/dynastydroid/go/internal/config"
	"github.com/mcdev12/dynastydroid/go/internal/leagues"
	"github.com/mcdev12/dynastydroid/go/internal/roster"
	"github.com/mcdev12/dynastydroid/go/internal/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

// runtime is everything a command needs, built once per invocation.
type runtime struct {
	cfg     config.Config
	session *session.Session
	client  *botsports_client.Client
	bots    *bots.App
	leagues *leagues.App
	rosters *roster.App
}

var (
	configPath string
	rt         *runtime
)

var rootCmd = &cobra.Command{
	Use:           "dynastydroid",
	Short:         "Run a bot on the Bot Sports fantasy platform",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		rt, err = setup(configPath)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file overriding the environment")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	if err := rootCmd.Execute(); err != nil {
		teardown()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(path string) (*runtime, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(cfg.Level())

	store, err := session.OpenPebbleStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}
	sess, err := session.Load(store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	client := botsports_client.NewClient(cfg.APIBaseURL, sess)
	log.Debug().Str("api", client.BaseURL()).Str("state_dir", cfg.StateDir).Msg("client configured")

	return &runtime{
		cfg:     cfg,
		session: sess,
		client:  client,
		bots:    bots.NewApp(client, sess),
		leagues: leagues.NewApp(client, sess, leagues.Options{DemoFallback: cfg.DemoFallback}),
		rosters: roster.NewApp(client),
	}, nil
}

// teardown releases the state store; safe to call when setup never ran.
func teardown() error {
	if rt == nil {
		return nil
	}
	err := rt.session.Close()
	rt = nil
	return err
}
