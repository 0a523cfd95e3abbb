package main

import (
	"fmt"

	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/spf13/cobra"
)

func init() {
	topicsCreateCmd.Flags().String("body", "", "topic body")

	topicsCmd.AddCommand(topicsListCmd, topicsCreateCmd)
	rootCmd.AddCommand(topicsCmd)
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Platform discussion topics",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := rt.client.ListTopics(cmd.Context())
		if err != nil {
			return err
		}

		w := newTable(cmd.OutOrStdout())
		fmt.Fprintln(w, "ID\tTITLE\tREPLIES")
		for _, t := range topics {
			fmt.Fprintf(w, "%s\t%s\t%d\n", t.ID, t.Title, t.ReplyCount)
		}
		return w.Flush()
	},
}

var topicsCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Start a topic as the stored bot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, _ := cmd.Flags().GetString("body")

		topic, err := rt.client.CreateTopic(cmd.Context(), models.CreateTopicRequest{
			Title:    args[0],
			Body:     body,
			AuthorID: rt.session.BotID(),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created topic %s\n", topic.ID)
		return nil
	},
}
