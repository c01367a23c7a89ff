package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/quiz"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List, inspect and delete stored topics",
	RunE:  topicsListCmd.RunE,
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		banks, err := rt.quiz.ListTopics(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(banks) == 0 {
			fmt.Fprintln(out, "No topics yet.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-28s  %9s  %8s  %-12s  %s\n",
			"ID", "Title", "Questions", "Tranches", "Difficulty", "Updated")
		fmt.Fprintln(out, strings.Repeat("─", 112))
		for _, b := range banks {
			fmt.Fprintf(out, "%-36s  %-28s  %9d  %8d  %-12s  %s\n",
				b.ID,
				truncate(b.Title, 28),
				b.QuestionCount,
				b.Tranches,
				b.Difficulty,
				b.UpdatedAt.Local().Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}

var topicsShowCmd = &cobra.Command{
	Use:   "show <id-or-title>",
	Short: "Show a topic's questions and how they have gone",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		r, err := rt.quiz.BankReport(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return errors.New(quiz.UserMessage(err))
		}
		out := cmd.OutOrStdout()
		sum := r.Summary

		fmt.Fprintf(out, "%s\n", sum.Title)
		if sum.Description != "" {
			fmt.Fprintf(out, "%s\n", sum.Description)
		}
		fmt.Fprintf(out, "ID:          %s\n", sum.ID)
		fmt.Fprintf(out, "Difficulty:  %s\n", sum.Difficulty)
		if sum.Grade != "" {
			fmt.Fprintf(out, "Grade:       %s\n", sum.Grade)
		}
		fmt.Fprintf(out, "Questions:   %d in %d tranches\n\n", sum.QuestionCount, sum.Tranches)

		fmt.Fprintf(out, "%-56s  %7s  %7s  %7s  %5s\n", "Question", "Correct", "Wrong", "Skipped", "Rate")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, st := range r.Stats {
			rate := "-"
			if st.Attempts > 0 {
				rate = fmt.Sprintf("%d%%", st.SuccessRate)
			}
			fmt.Fprintf(out, "%-56s  %7d  %7d  %7d  %5s\n",
				truncate(st.Prompt, 56), st.Correct, st.Incorrect, st.Skipped, rate)
		}
		if r.Weakest != nil {
			fmt.Fprintf(out, "\nNeeds work: %s (%d of %d correct)\n", r.Weakest.Prompt, r.Weakest.Correct, r.Weakest.Attempts)
		}
		return nil
	},
}

var topicsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a topic and all of its rounds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		b, err := rt.quiz.LoadTopic(ctx, args[0])
		if err != nil {
			return errors.New(quiz.UserMessage(err))
		}
		if err := rt.quiz.DeleteTopic(ctx, b.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d questions).\n", b.Title, b.Len())
		return nil
	},
}

func init() {
	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsShowCmd)
	topicsCmd.AddCommand(topicsDeleteCmd)
}
