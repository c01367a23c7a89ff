package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/quizgen/internal/prompter"
	"github.com/abhisek/quizgen/internal/session"
)

// RunInteractiveRound plays s through p until every question has been
// answered or skipped. An empty reply skips the question.
//
// When the player quits or ctx is cancelled the session is saved as it is
// and the abort error is returned; the session can be resumed later.
func (o *Orchestrator) RunInteractiveRound(ctx context.Context, s *session.QuizSession, p prompter.Prompter) error {
	if s.Status == session.StatusDraft {
		if err := o.Start(ctx, s); err != nil {
			return err
		}
	}
	total := len(s.Questions)
	for !s.Done() {
		q := s.Current()
		if q == nil {
			return fmt.Errorf("%w: no current question", session.ErrInvalidTransition)
		}
		p.Tell(fmt.Sprintf("\nQuestion %d of %d", s.QuestionIndex+1, total))
		reply, err := p.Ask(ctx, q.Prompt)
		if err != nil {
			if errors.Is(err, prompter.ErrAborted) || ctx.Err() != nil {
				if saveErr := o.Abort(context.WithoutCancel(ctx), s); saveErr != nil {
					return errors.Join(err, saveErr)
				}
			}
			return err
		}

		if reply == "" {
			if _, err := o.Skip(ctx, s); err != nil {
				return err
			}
			p.Tell("Skipped.")
			continue
		}
		out, err := o.Answer(ctx, s, reply)
		if err != nil {
			return err
		}
		p.Tell(out.Feedback.String())
	}
	return nil
}
