package prompter

import (
	"errors"
	"regexp"
	"strings"

	"github.com/abhisek/quizgen/internal/bank"
)

var (
	// ErrUnsafeInput is returned for input that looks like a path or
	// contains reserved characters.
	ErrUnsafeInput = errors.New("input contains characters that are not allowed")

	reserved  = regexp.MustCompile(`[<>:"|?*]`)
	traversal = regexp.MustCompile(`(^|[/\\])\.\.([/\\]|$)`)
)

// Sanitize normalises a typed answer with bank.FoldAnswer, the same fold
// accepted answers are compared in. Trailing question marks are dropped;
// any other reserved character or a path traversal is rejected.
func Sanitize(s string) (string, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "?")
	if traversal.MatchString(s) || reserved.MatchString(s) {
		return "", ErrUnsafeInput
	}
	return bank.FoldAnswer(s), nil
}
