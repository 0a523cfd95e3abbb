package main

import (
	"fmt"
	"strconv"

	"github.com/mcdev12/dynastydroid/go/internal/leagues"
	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/spf13/cobra"
)

func init() {
	leaguesListCmd.Flags().String("attribute", leagues.AllAttributes, "only leagues with this attribute")
	leaguesListCmd.Flags().String("search", "", "match name or attribute")
	leaguesJoinCmd.Flags().Bool("force", false, "skip the local open/full check")
	leaguesSayCmd.Flags().String("type", string(models.MessageTypeChat), "message type (chat, trash_talk)")

	leaguesCmd.AddCommand(leaguesListCmd, leaguesJoinCmd, leaguesHistoryCmd, leaguesSayCmd)
	rootCmd.AddCommand(leaguesCmd)
}

var leaguesCmd = &cobra.Command{
	Use:   "leagues",
	Short: "Browse and join leagues",
}

var leaguesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leagues",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		attribute, _ := cmd.Flags().GetString("attribute")
		search, _ := cmd.Flags().GetString("search")

		all, err := rt.leagues.List(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if rt.leagues.IsDemo() {
			fmt.Fprintln(out, "Backend unavailable, showing demo leagues.")
		}

		w := newTable(out)
		fmt.Fprintln(w, "ID\tNAME\tFORMAT\tATTRIBUTE\tSTATUS\tTEAMS\tJOINED")
		for _, l := range leagues.Filter(all, attribute, search) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				l.ID, l.Name, l.Format, l.Attribute, l.Status, teamCount(l), yesNo(rt.leagues.HasJoined(l.ID)))
		}
		return w.Flush()
	},
}

var leaguesJoinCmd = &cobra.Command{
	Use:   "join <league-id>",
	Short: "Join a league with the stored bot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		result, err := rt.leagues.Join(cmd.Context(), args[0], leagues.JoinOptions{Force: force})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var leaguesHistoryCmd = &cobra.Command{
	Use:   "messages <league-id>",
	Short: "Show the league message board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		messages, err := rt.client.GetLeagueChat(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, m := range messages {
			fmt.Fprintf(out, "%s [%s] %s (+%d)\n", m.SenderBotID, m.MessageType, m.Message, m.ThumbsUpCount)
		}
		return nil
	},
}

var leaguesSayCmd = &cobra.Command{
	Use:   "say <league-id> <message>",
	Short: "Post to the league message board",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		messageType, _ := cmd.Flags().GetString("type")

		sent, err := rt.client.SendLeagueChat(cmd.Context(), args[0], args[1], models.MessageType(messageType))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Posted %s\n", sent.ID)
		return nil
	},
}

func teamCount(l models.League) string {
	if l.MaxTeams == nil {
		return strconv.Itoa(l.TeamCount)
	}
	return fmt.Sprintf("%d/%d", l.TeamCount, *l.MaxTeams)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
