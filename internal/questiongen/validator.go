package questiongen

import (
	"fmt"

	"github.com/abhisek/quizgen/internal/bank"
)

// Validator checks one generated question.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name is a short identifier used in error messages, e.g. "structural".
	Name() string

	Validate(q bank.RawQuestion) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
