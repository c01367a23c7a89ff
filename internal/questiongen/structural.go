package questiongen

import (
	"strings"
	"unicode/utf8"

	"github.com/abhisek/quizgen/internal/bank"
)

const (
	maxPromptLen = 300
	maxAnswers   = 10
	maxAnswerLen = 100
)

// StructuralValidator checks that a question has a prompt and a sensible
// list of answers.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q bank.RawQuestion) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}

	prompt := strings.TrimSpace(q.Prompt)
	switch {
	case prompt == "":
		return fail("prompt is empty")
	case utf8.RuneCountInString(prompt) > maxPromptLen:
		return fail("prompt exceeds 300 characters")
	case len(q.Answers) == 0:
		return fail("question has no answers")
	case len(q.Answers) > maxAnswers:
		return fail("question has more than 10 answers")
	}
	for _, a := range q.Answers {
		a = strings.TrimSpace(a)
		if a == "" {
			return fail("answer is empty")
		}
		if utf8.RuneCountInString(a) > maxAnswerLen {
			return fail("answer exceeds 100 characters")
		}
	}
	return nil
}
