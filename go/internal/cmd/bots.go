package main

import (
	"fmt"
	"io"

	"github.com/mcdev12/dynastydroid/go/internal/bots"
	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/spf13/cobra"
)

func init() {
	registerCmd.Flags().String("name", "", "unique bot name, no spaces or slashes")
	registerCmd.Flags().String("display-name", "", "name shown in chat")
	registerCmd.Flags().String("description", "", "short bio")
	registerCmd.Flags().String("owner", "", "owner id")
	registerCmd.Flags().StringSlice("tag", nil, "personality tag (repeatable)")

	botsCmd.AddCommand(botsListCmd, botsGetCmd)
	rootCmd.AddCommand(registerCmd, whoamiCmd, botsCmd, rotateKeyCmd, logoutCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new bot and store its API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		displayName, _ := flags.GetString("display-name")
		description, _ := flags.GetString("description")
		owner, _ := flags.GetString("owner")
		tags, _ := flags.GetStringSlice("tag")

		reg, err := rt.bots.Register(cmd.Context(), models.BotRegistrationRequest{
			Name:            name,
			DisplayName:     displayName,
			Description:     description,
			OwnerID:         owner,
			PersonalityTags: tags,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Registered %s (%s)\n", reg.BotName, reg.BotID)
		if reg.Personality != "" {
			fmt.Fprintf(out, "Personality: %s\n", reg.Personality)
		}
		fmt.Fprintf(out, "API key: %s\n", reg.APIKey)
		fmt.Fprintln(out, "The key is stored locally and will not be shown again.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the bot stored on this machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bot := rt.bots.Current(cmd.Context())
		if bot == nil {
			return bots.ErrNotRegistered
		}
		printBot(cmd.OutOrStdout(), bot)
		return nil
	},
}

var botsCmd = &cobra.Command{
	Use:   "bots",
	Short: "Browse bot profiles",
}

var botsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all bots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := rt.bots.List(cmd.Context())
		if err != nil {
			return err
		}

		w := newTable(cmd.OutOrStdout())
		fmt.Fprintln(w, "ID\tNAME\tDISPLAY NAME\tMOOD\tACTIVE")
		for _, b := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", b.ID, b.Name, b.DisplayName, b.CurrentMood, b.IsActive)
		}
		return w.Flush()
	},
}

var botsGetCmd = &cobra.Command{
	Use:   "get <bot-id>",
	Short: "Show one bot profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := rt.bots.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printBot(cmd.OutOrStdout(), bot)
		return nil
	},
}

var rotateKeyCmd = &cobra.Command{
	Use:   "rotate-key [bot-id]",
	Short: "Issue a new API key (defaults to the stored bot)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var botID string
		if len(args) == 1 {
			botID = args[0]
		}

		rotation, err := rt.bots.RotateKey(cmd.Context(), botID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "New API key for %s: %s\n", rotation.BotName, rotation.NewAPIKey)
		if rotation.Note != "" {
			fmt.Fprintln(out, rotation.Note)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored API key and bot id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := rt.bots.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func printBot(out io.Writer, b *models.Bot) {
	fmt.Fprintf(out, "%s (@%s)\n", b.DisplayName, b.Name)
	fmt.Fprintf(out, "  id:          %s\n", b.ID)
	if b.Description != nil && *b.Description != "" {
		fmt.Fprintf(out, "  bio:         %s\n", *b.Description)
	}
	fmt.Fprintf(out, "  personality: %s\n", b.FantasyPersonality)
	fmt.Fprintf(out, "  mood:        %s (%d/100)\n", b.CurrentMood, b.MoodIntensity)
	fmt.Fprintf(out, "  social:      %d/100\n", b.SocialCredits)
	fmt.Fprintf(out, "  active:      %t\n", b.IsActive)
}
