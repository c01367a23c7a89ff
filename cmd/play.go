package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/prompter"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/session"
	"github.com/abhisek/quizgen/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play rounds in the terminal, without the full-screen UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		opts, err := playOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		opts.defaultCount = rt.cfg.Quiz.Count
		if opts.difficulty == "" {
			opts.difficulty = bank.ParseDifficulty(rt.cfg.Quiz.Difficulty)
		}
		if opts.newCount == 0 {
			opts.newCount = rt.cfg.Quiz.NewCount
		}

		p := prompter.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
		return playLoop(cmd.Context(), rt.quiz, p, opts)
	},
}

func init() {
	f := playCmd.Flags()
	f.String("topic", "", "Topic to play; asked for when empty")
	f.String("policy", "", "Which questions to use: new, existing or mix")
	f.Int("count", 0, "Questions per round; asked for when 0")
	f.Int("new", 0, "Fresh questions to generate for a mix round")
	f.String("difficulty", "", "Difficulty: easy, intermediate, advanced, expert or 1-10")
	f.String("grade", "", "Grade level to pitch the questions at")
}

type playOptions struct {
	topic        string
	policy       session.Mode
	count        int
	defaultCount int
	newCount     int
	difficulty   bank.Difficulty
	grade        string
}

func playOptionsFromFlags(cmd *cobra.Command) (playOptions, error) {
	var opts playOptions
	f := cmd.Flags()
	opts.topic, _ = f.GetString("topic")
	opts.count, _ = f.GetInt("count")
	opts.newCount, _ = f.GetInt("new")
	opts.grade, _ = f.GetString("grade")
	if d, _ := f.GetString("difficulty"); d != "" {
		opts.difficulty = bank.ParseDifficulty(d)
	}
	if raw, _ := f.GetString("policy"); raw != "" {
		mode, err := session.ParseMode(raw)
		if err != nil {
			return opts, err
		}
		opts.policy = mode
	}
	return opts, nil
}

// playLoop runs rounds until the player leaves, then prints the run's
// overall result.
func playLoop(ctx context.Context, o *quiz.Orchestrator, p prompter.Prompter, opts playOptions) error {
	topic := opts.topic
	for {
		if topic == "" {
			t, err := askTopic(ctx, o, p)
			if errors.Is(err, prompter.ErrAborted) {
				break
			}
			if err != nil {
				return err
			}
			topic = t
		}

		cfg, err := roundSettings(ctx, o, p, topic, opts)
		if errors.Is(err, prompter.ErrAborted) {
			break
		}
		if err != nil {
			return err
		}

		round, err := o.StartNewTopicRound(ctx, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Tell(quiz.UserMessage(err))
			topic = ""
			continue
		}
		if n := len(round.Added); n > 0 {
			p.Tell(fmt.Sprintf("Added %d new questions to %s.", n, round.Bank.Title))
		}
		p.Tell(fmt.Sprintf("\n%s: %d questions. Press enter on an empty line to skip, or type %s to stop.",
			round.Session.Title, len(round.Session.Questions), prompter.QuitCommand))

		if err := o.RunInteractiveRound(ctx, round.Session, p); err != nil {
			if errors.Is(err, prompter.ErrAborted) {
				p.Tell("\nRound paused. Resume it with: quizgen resume " + round.Session.ID)
				break
			}
			return err
		}
		out, err := finishRound(ctx, o, p, round.Session)
		if err != nil {
			return err
		}
		p.Tell(fmt.Sprintf("\nYou answered %s.", out.Score.Text))

		choice, err := p.Ask(ctx, "\n[1] Same topic again.\n[2] Choose a different topic.\nAnything else exits.\n>")
		if err != nil || (choice != "1" && choice != "2") {
			break
		}
		if choice == "2" {
			topic = ""
		}
	}

	tellOverall(p, o.History().Aggregate())
	return nil
}

func askTopic(ctx context.Context, o *quiz.Orchestrator, p prompter.Prompter) (string, error) {
	if banks, err := o.ListTopics(ctx); err == nil && len(banks) > 0 {
		names := make([]string, len(banks))
		for i, b := range banks {
			names[i] = fmt.Sprintf("%s (%d)", b.Title, b.QuestionCount)
		}
		p.Tell("Stored topics: " + strings.Join(names, ", "))
	}
	for {
		topic, err := p.Ask(ctx, "Which topic would you like to be quizzed on?")
		if err != nil {
			return "", err
		}
		if topic != "" {
			return topic, nil
		}
		p.Tell("Please enter a topic.")
	}
}

// roundSettings fills in what the flags left open, asking the player.
func roundSettings(ctx context.Context, o *quiz.Orchestrator, p prompter.Prompter, topic string, opts playOptions) (quiz.RoundConfig, error) {
	cfg := quiz.RoundConfig{
		Topic:      topic,
		Policy:     opts.policy,
		Count:      opts.count,
		NewCount:   opts.newCount,
		Difficulty: opts.difficulty,
		Grade:      opts.grade,
	}

	available := 0
	b, err := o.ResolveTopic(ctx, topic)
	switch {
	case errors.Is(err, store.ErrNotFound):
		p.Tell(fmt.Sprintf("%q is a new topic.", topic))
		cfg.Policy = session.ModeNew
	case err != nil:
		return cfg, err
	default:
		available = b.Len()
		p.Tell(fmt.Sprintf("%s has %d questions.", b.Title, available))
		if cfg.Policy == "" && o.CanGenerate() {
			choice, err := prompter.AskChoice(ctx, p, "New, existing or a mix of questions?",
				[]string{string(session.ModeNew), string(session.ModeExisting), string(session.ModeMix)},
				string(session.ModeMix))
			if err != nil {
				return cfg, err
			}
			cfg.Policy = session.Mode(choice)
		}
	}

	if cfg.Count > 0 {
		return cfg, nil
	}
	hi := quiz.MaxGenerated
	switch {
	case !o.CanGenerate() || cfg.Policy == session.ModeExisting:
		hi = available
	case cfg.Policy == session.ModeMix:
		hi = available + quiz.MaxGenerated
	}
	if hi < 1 {
		// Nothing can be played; let the orchestrator report why.
		cfg.Count = 1
		return cfg, nil
	}
	def := opts.defaultCount
	if def <= 0 {
		def = quiz.DefaultCount
	}
	n, err := prompter.AskInt(ctx, p, "How many questions", 1, hi, min(def, hi))
	if err != nil {
		return cfg, err
	}
	cfg.Count = n
	return cfg, nil
}

// finishRound persists a finished round, offering to retry when storage
// fails. The session stays in memory meanwhile.
func finishRound(ctx context.Context, o *quiz.Orchestrator, p prompter.Prompter, s *session.QuizSession) (*quiz.Outcome, error) {
	for {
		out, err := o.FinishAndPersist(ctx, s)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, store.ErrUnavailable) {
			return nil, err
		}
		p.Tell(quiz.UserMessage(err))
		again, askErr := prompter.AskChoice(ctx, p, "Try saving again?", []string{"y", "n"}, "y")
		if askErr != nil || again != "y" {
			return nil, err
		}
	}
}

func tellOverall(p prompter.Prompter, agg session.Aggregate) {
	if len(agg.Topics) == 0 {
		return
	}
	p.Tell(fmt.Sprintf("\nOverall, you answered %s.", agg.Text()))
	for _, t := range agg.Topics {
		for _, r := range t.Results {
			p.Tell(r)
		}
	}
}
