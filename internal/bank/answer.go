package bank

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	answerNoise = regexp.MustCompile(`[^\p{L}\p{N}\s\-.,!?/']`)
	answerSpace = regexp.MustCompile(`\s+`)
)

// FoldAnswer is the canonical form answers are compared in: lower case,
// accents removed, symbols other than basic punctuation dropped and
// whitespace collapsed. Typed replies and accepted answers both go
// through it, so "Café" matches "cafe" and "don't" matches "Don't".
func FoldAnswer(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		if !unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	folded := answerNoise.ReplaceAllString(b.String(), "")
	return strings.TrimSpace(answerSpace.ReplaceAllString(folded, " "))
}

// CheckAnswer reports whether answer matches one of the accepted answers
// once both are folded with FoldAnswer. Blank answers never match.
func CheckAnswer(accepted []string, answer string) bool {
	return matchIndex(accepted, answer) >= 0
}

func matchIndex(accepted []string, answer string) int {
	answer = FoldAnswer(answer)
	if answer == "" {
		return -1
	}
	return slices.IndexFunc(accepted, func(a string) bool {
		return FoldAnswer(a) == answer
	})
}

// Feedback is what the player is told after answering.
type Feedback struct {
	Correct bool `json:"correct"`

	// Answers holds the other accepted answers after a correct answer,
	// or every accepted answer after a wrong one. Both lists stay empty
	// for yes/no sets with several spellings.
	Answers []string `json:"answers,omitempty"`
}

// Evaluate checks answer and works out which accepted answers to show.
func Evaluate(accepted []string, answer string) Feedback {
	idx := matchIndex(accepted, answer)
	if idx < 0 {
		if len(accepted) > 1 && isYesNo(accepted) {
			return Feedback{}
		}
		return Feedback{Answers: slices.Clone(accepted)}
	}
	fb := Feedback{Correct: true}
	if len(accepted) > 1 && !isYesNo(accepted) {
		fb.Answers = make([]string, 0, len(accepted)-1)
		for i, a := range accepted {
			if i != idx {
				fb.Answers = append(fb.Answers, a)
			}
		}
	}
	return fb
}

// isYesNo is deliberately literal: only lower-case "yes"/"no" count.
func isYesNo(accepted []string) bool {
	return slices.Contains(accepted, "yes") || slices.Contains(accepted, "no")
}

// String renders the feedback the way the terminal front-ends print it.
func (f Feedback) String() string {
	var b strings.Builder
	if f.Correct {
		b.WriteString("Correct!")
		if len(f.Answers) > 0 {
			fmt.Fprintf(&b, "\nOther correct answers: %s", bracketList(f.Answers))
		}
		return b.String()
	}
	b.WriteString("Wrong!")
	switch len(f.Answers) {
	case 0:
	case 1:
		fmt.Fprintf(&b, "\nCorrect answer: %s", bracketList(f.Answers))
	default:
		fmt.Fprintf(&b, "\nCorrect answers: %s", bracketList(f.Answers))
	}
	return b.String()
}

func bracketList(items []string) string {
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = "[" + s + "]"
	}
	return strings.Join(parts, ", ")
}
