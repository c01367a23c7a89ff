package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/prompter"
	"github.com/abhisek/quizgen/internal/questiongen"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate questions for a topic and try them, without saving anything",
	Long: `Generate a set of questions for a topic and print them with their answers,
or answer them in the terminal with --play.

Nothing is written to the store. Useful for checking question quality with
a given provider, model or difficulty before playing for real.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("topic", "", "Topic to generate questions for (required)")
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
	previewCmd.Flags().String("difficulty", "", "Difficulty: easy, intermediate, advanced, expert or 1-10")
	previewCmd.Flags().String("grade", "", "Grade level to pitch the questions at")
	previewCmd.Flags().Bool("play", false, "Ask the questions instead of printing them")
	_ = previewCmd.MarkFlagRequired("topic")
}

func runPreview(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	count, _ := cmd.Flags().GetInt("count")
	diffVal, _ := cmd.Flags().GetString("difficulty")
	grade, _ := cmd.Flags().GetString("grade")
	play, _ := cmd.Flags().GetBool("play")

	rt, err := newRuntime(cmd, runtimeOptions{noStore: true})
	if err != nil {
		return err
	}
	defer rt.Close()
	if rt.generator == nil {
		return errors.New("preview needs an LLM provider; set llm.provider or one of the provider API keys")
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	diff := bank.ParseDifficulty(diffVal)

	fmt.Fprintf(out, "Topic: %s (%s)\n", topic, diff)
	fmt.Fprintf(out, "Generating %d questions...\n\n", count)

	set, err := rt.generator.Generate(ctx, questiongen.Request{
		Topic:      topic,
		Count:      count,
		Difficulty: diff,
		Grade:      grade,
	})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	fmt.Fprintf(out, "%s\n%s\n\n", set.Title, set.Description)

	if !play {
		for i, q := range set.Questions {
			fmt.Fprintf(out, "%d. %s\n   %v\n", i+1, q.Prompt, q.Answers)
		}
		return nil
	}

	p := prompter.NewTerminal(cmd.InOrStdin(), out)
	var correct int
	for i, q := range set.Questions {
		p.Tell(fmt.Sprintf("── Question %d/%d ──", i+1, len(set.Questions)))
		reply, err := p.Ask(ctx, q.Prompt)
		if errors.Is(err, prompter.ErrAborted) {
			break
		}
		if err != nil {
			return err
		}
		if reply == "" {
			p.Tell(fmt.Sprintf("Skipped. Answers: %v\n", q.Answers))
			continue
		}
		fb := bank.Evaluate(q.Answers, reply)
		if fb.Correct {
			correct++
		}
		p.Tell(fb.String() + "\n")
	}

	p.Tell(fmt.Sprintf("── Summary: %d/%d correct ──", correct, len(set.Questions)))
	return nil
}
