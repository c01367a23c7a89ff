package bank

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrMalformedGeneration is returned when a generated question set cannot
// be used. Nothing is merged when it is returned.
var ErrMalformedGeneration = errors.New("malformed generation result")

// RawQuestion is a generated prompt with its accepted answers.
type RawQuestion struct {
	Prompt  string   `json:"prompt"`
	Answers []string `json:"answers"`
}

// GeneratedSet is the payload produced by a question generator or read
// from a topic file.
type GeneratedSet struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Questions   []RawQuestion `json:"questions"`
}

// MergeOptions carries request-side values that the generated payload does
// not contain.
type MergeOptions struct {
	Topic      string
	Difficulty Difficulty
	Grade      string
}

// MergeResult is the outcome of a successful merge.
type MergeResult struct {
	Bank    *QuestionBank
	Added   []*Question
	Tranche int
}

// Merger folds generated question sets into banks.
type Merger struct {
	Now   func() time.Time
	NewID func() string
}

// NewMerger returns a Merger using wall-clock time and random UUIDs.
func NewMerger() *Merger {
	return &Merger{Now: time.Now, NewID: uuid.NewString}
}

// Merge appends every question of set to a copy of b as one new tranche.
// b itself is never modified, so a failed merge leaves no trace.
func (m *Merger) Merge(b *QuestionBank, set *GeneratedSet, opts MergeOptions) (*MergeResult, error) {
	if b == nil {
		return nil, errors.New("merge: nil bank")
	}
	raws, err := cleanSet(set)
	if err != nil {
		return nil, err
	}

	now := m.Now()
	out := b.Clone()
	tranche := b.MaxTranche() + 1
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = firstNonEmpty(b.Difficulty, DefaultDifficulty)
	}

	added := make([]*Question, 0, len(raws))
	for _, raw := range raws {
		q := &Question{
			ID:         m.NewID(),
			Prompt:     raw.Prompt,
			Answers:    raw.Answers,
			Tranche:    tranche,
			Difficulty: difficulty,
			CreatedAt:  now,
			Attempts:   []Attempt{},
		}
		out.Questions[q.ID] = q
		added = append(added, q)
	}

	out.Title = firstNonEmpty(strings.TrimSpace(b.Title), strings.TrimSpace(set.Title), strings.TrimSpace(opts.Topic))
	out.Description = firstNonEmpty(strings.TrimSpace(b.Description), strings.TrimSpace(set.Description))
	out.Difficulty = firstNonEmpty(b.Difficulty, difficulty)
	out.Grade = firstNonEmpty(strings.TrimSpace(b.Grade), strings.TrimSpace(opts.Grade))
	out.Slug = firstNonEmpty(b.Slug, Slugify(opts.Topic), Slugify(out.Title))
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}
	out.UpdatedAt = now

	return &MergeResult{Bank: out, Added: added, Tranche: tranche}, nil
}

// cleanSet validates the whole set before anything is merged. Answers are
// trimmed and de-duplicated case-insensitively, keeping the first spelling.
func cleanSet(set *GeneratedSet) ([]RawQuestion, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: empty result", ErrMalformedGeneration)
	}
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrMalformedGeneration)
	}
	out := make([]RawQuestion, 0, len(set.Questions))
	for i, raw := range set.Questions {
		prompt := strings.TrimSpace(raw.Prompt)
		if prompt == "" {
			return nil, fmt.Errorf("%w: question %d has an empty prompt", ErrMalformedGeneration, i+1)
		}
		var answers []string
		for _, a := range raw.Answers {
			a = strings.TrimSpace(a)
			if a == "" || matchIndex(answers, a) >= 0 {
				continue
			}
			answers = append(answers, a)
		}
		if len(answers) == 0 {
			return nil, fmt.Errorf("%w: question %d has no answers", ErrMalformedGeneration, i+1)
		}
		out = append(out, RawQuestion{Prompt: prompt, Answers: answers})
	}
	return out, nil
}

func firstNonEmpty[T ~string](vals ...T) T {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
