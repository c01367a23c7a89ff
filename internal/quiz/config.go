package quiz

import (
	"github.com/go-playground/validator/v10"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/session"
)

const (
	// DefaultCount is the round size when none is given.
	DefaultCount = 5

	// MaxGenerated caps how many questions one round may generate.
	MaxGenerated = 10
)

// RoundConfig describes the round a player asked for.
type RoundConfig struct {
	// Topic is a bank title, slug, or a new topic to generate.
	Topic string `json:"topic" validate:"required,max=200"`

	// Policy defaults to new for a new or empty bank, and to mix
	// otherwise (existing when no generator is configured). New topics
	// always use new.
	Policy session.Mode `json:"policy" validate:"omitempty,oneof=new existing mix"`

	// Count is the round size for existing and mix.
	Count int `json:"count" validate:"gte=0,lte=100"`

	// NewCount is how many questions to generate for new and mix.
	NewCount int `json:"new_count" validate:"gte=0,lte=10"`

	Difficulty bank.Difficulty `json:"difficulty" validate:"max=50"`
	Grade      string          `json:"grade" validate:"max=50"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field bounds.
func (c RoundConfig) Validate() error {
	return validate.Struct(c)
}
