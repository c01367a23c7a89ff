package quiz

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/prompter"
	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/session"
	"github.com/abhisek/quizgen/internal/store"
)

// ErrNoGenerator is returned, wrapped in questiongen.ErrGenerationFailed,
// when a round needs new questions but no model provider is configured.
var ErrNoGenerator = errors.New("no LLM provider configured")

// UserMessage turns an orchestrator error into text for the player.
func UserMessage(err error) string {
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoGenerator):
		return "Question generation is not set up. Configure an LLM provider or play existing questions."
	case errors.Is(err, bank.ErrMalformedGeneration):
		return "The generated questions could not be used. Try again or choose a different topic."
	case errors.Is(err, questiongen.ErrGenerationFailed):
		return "Could not generate questions right now. Try again in a moment."
	case errors.Is(err, session.ErrNoQuestionsAvailable):
		return "There are no questions available for this round."
	case errors.Is(err, session.ErrInvalidTransition):
		return "That action is not possible at this point of the quiz."
	case errors.Is(err, store.ErrNotFound):
		return "That quiz could not be found."
	case errors.Is(err, store.ErrUnavailable):
		return "Your progress could not be saved. It is kept in memory; try again."
	case errors.Is(err, prompter.ErrUnsafeInput):
		return "That answer contains characters that are not allowed."
	case errors.As(err, &verrs):
		return fmt.Sprintf("Invalid round settings: %s.", verrs[0].Field())
	default:
		return "Something went wrong: " + err.Error()
	}
}
