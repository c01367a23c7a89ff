package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/quiz"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add questions from a JSON topic file",
	Long: `Add questions from a JSON topic file to the matching topic, or a new one.

The file holds a title, an optional description and difficulty, and a list
of questions, each with a prompt and its accepted answers:

  {"title": "Dogs", "questions": [{"prompt": "Largest breed", "answers": ["great dane"]}]}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read topic file: %w", err)
		}
		tf, err := questiongen.ParseTopicFile(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		rt, err := newRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		var diff bank.Difficulty
		if v, _ := cmd.Flags().GetString("difficulty"); v != "" {
			diff = bank.ParseDifficulty(v)
		}
		res, err := rt.quiz.Import(cmd.Context(), tf, diff)
		if err != nil {
			return errors.New(quiz.UserMessage(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d questions to %s (tranche %d, %d questions in total).\n",
			len(res.Added), res.Bank.Title, res.Tranche, res.Bank.Len())
		return nil
	},
}

func init() {
	importCmd.Flags().String("difficulty", "", "Override the file's difficulty")
}
