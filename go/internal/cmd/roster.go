package main

import (
	"fmt"
	"io"

	"github.com/mcdev12/dynastydroid/go/internal/bots"
	"github.com/mcdev12/dynastydroid/go/internal/roster"
	"github.com/spf13/cobra"
)

func init() {
	rosterShowCmd.Flags().String("bot-id", "", "show another bot's team")

	rosterCmd.AddCommand(rosterShowCmd, rosterPromoteCmd)
	rootCmd.AddCommand(rosterCmd)
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Inspect and manage your team",
}

var rosterShowCmd = &cobra.Command{
	Use:   "show <league-id>",
	Short: "Show the roster of your team in a league",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		botID, _ := cmd.Flags().GetString("bot-id")
		if botID == "" {
			botID = rt.session.BotID()
		}
		if botID == "" {
			return bots.ErrNotRegistered
		}

		view, err := rt.rosters.ProjectMyTeam(cmd.Context(), args[0], botID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if view.Team == nil {
			fmt.Fprintln(out, "No team in this league yet.")
			return nil
		}
		fmt.Fprintln(out, view.Team.TeamName)
		fmt.Fprintln(out, view.Team.Summary())
		return printProjection(out, view.Projection)
	},
}

var rosterPromoteCmd = &cobra.Command{
	Use:   "promote <league-id> <player-id>",
	Short: "Promote a rookie from the taxi squad to the bench",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		botID := rt.session.BotID()
		if botID == "" {
			return bots.ErrNotRegistered
		}

		team, err := rt.rosters.PromoteRookie(cmd.Context(), args[0], botID, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Promoted %s on %s\n", args[1], team.TeamName)
		return nil
	},
}

func printProjection(out io.Writer, p roster.Projection) error {
	w := newTable(out)
	fmt.Fprintf(w, "%s roster (%d slots)\n", p.Format, roster.SlotBudget(p.Format))
	for slot := range p.All() {
		player := slot.PlayerID
		if player == "" {
			player = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", slot.Label, player, slot.Kind)
	}
	return w.Flush()
}
