package questiongen

import (
	"context"
	"errors"

	"github.com/abhisek/quizgen/internal/bank"
)

// ErrGenerationFailed is returned when the model could not be reached or
// refused the request. No bank has been touched when it is returned.
var ErrGenerationFailed = errors.New("question generation failed")

// Generator produces a set of new questions for a topic.
type Generator interface {
	// Generate returns between one and req.Count validated questions.
	// Unusable model output fails with bank.ErrMalformedGeneration and
	// transport failures with ErrGenerationFailed.
	Generate(ctx context.Context, req Request) (*bank.GeneratedSet, error)
}

// Request describes the questions wanted.
type Request struct {
	Topic      string
	Count      int
	Difficulty bank.Difficulty
	Grade      string

	// Existing are the prompts already in the bank, oldest first. The
	// most recent of them are shown to the model so it avoids repeats.
	Existing []string
}
