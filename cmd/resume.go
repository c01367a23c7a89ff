package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/prompter"
	"github.com/abhisek/quizgen/internal/quiz"
)

var resumeCmd = &cobra.Command{
	Use:   "resume [session-id]",
	Short: "Continue an unfinished round (the most recent one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		o := rt.quiz

		var id string
		if len(args) == 1 {
			id = args[0]
		} else {
			open, err := o.Unfinished(ctx)
			if err != nil {
				return err
			}
			if len(open) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No unfinished rounds.")
				return nil
			}
			id = open[0].ID
		}

		s, err := o.ResumeSession(ctx, id)
		if err != nil {
			return errors.New(quiz.UserMessage(err))
		}

		p := prompter.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
		p.Tell(fmt.Sprintf("Resuming %s: %d of %d questions left.", s.Title, s.Remaining(), len(s.Questions)))
		if err := o.RunInteractiveRound(ctx, s, p); err != nil {
			if errors.Is(err, prompter.ErrAborted) {
				p.Tell("\nRound paused again.")
				return nil
			}
			return err
		}
		out, err := finishRound(ctx, o, p, s)
		if err != nil {
			return err
		}
		p.Tell(fmt.Sprintf("\nYou answered %s.", out.Score.Text))
		return nil
	},
}
