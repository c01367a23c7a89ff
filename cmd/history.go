package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/session"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show scores from finished rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		var quizID string
		if topic, _ := cmd.Flags().GetString("topic"); topic != "" {
			b, err := rt.quiz.LoadTopic(ctx, topic)
			if err != nil {
				return errors.New(quiz.UserMessage(err))
			}
			quizID = b.ID
		}

		agg, err := rt.quiz.StoredHistory(ctx, quizID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if agg.TotalAnswered == 0 {
			fmt.Fprintln(out, "No rounds finished yet.")
			return nil
		}
		fmt.Fprintf(out, "Overall, you answered %s.\n", agg.Text())
		for _, t := range agg.Topics {
			fmt.Fprintf(out, "\n%s (%d rounds, %s%%)\n", t.Title, t.Sessions, session.FormatPercent(t.Percentage))
			for _, line := range t.Results {
				fmt.Fprintf(out, "  %s\n", line)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("topic", "", "Only show rounds for this topic (id or title)")
}
