package bank

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// QuestionBank is the persistent, growable question collection for one topic.
type QuestionBank struct {
	ID          string               `json:"id"`
	Slug        string               `json:"slug"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Difficulty  Difficulty           `json:"difficulty"`
	Grade       string               `json:"grade"`
	Questions   map[string]*Question `json:"questions"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// Summary is the listing view of a bank.
type Summary struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Difficulty    Difficulty `json:"difficulty"`
	Grade         string     `json:"grade"`
	QuestionCount int        `json:"question_count"`
	Tranches      int        `json:"tranches"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// New returns an empty bank for topic. The title is left for the first
// merge to fill in; the slug records what the user typed.
func New(id, topic string, now time.Time) *QuestionBank {
	return &QuestionBank{
		ID:        id,
		Slug:      Slugify(topic),
		Questions: make(map[string]*Question),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Len returns the number of questions in the bank.
func (b *QuestionBank) Len() int {
	return len(b.Questions)
}

// MaxTranche returns the highest tranche number, or 0 for an empty bank.
func (b *QuestionBank) MaxTranche() int {
	highest := 0
	for _, q := range b.Questions {
		highest = max(highest, q.Tranche)
	}
	return highest
}

// List returns the questions ordered by tranche, creation time and id.
func (b *QuestionBank) List() []*Question {
	out := make([]*Question, 0, len(b.Questions))
	for _, q := range b.Questions {
		out = append(out, q)
	}
	slices.SortFunc(out, func(x, y *Question) int {
		return cmp.Or(
			cmp.Compare(x.Tranche, y.Tranche),
			x.CreatedAt.Compare(y.CreatedAt),
			cmp.Compare(x.ID, y.ID),
		)
	})
	return out
}

// Prompts returns the question prompts in List order.
func (b *QuestionBank) Prompts() []string {
	qs := b.List()
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Prompt
	}
	return out
}

// Matches reports whether topic names this bank, either by a
// case-insensitive title match or by slug.
func (b *QuestionBank) Matches(topic string) bool {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return false
	}
	if b.Title != "" && strings.EqualFold(b.Title, topic) {
		return true
	}
	return b.Slug != "" && b.Slug == Slugify(topic)
}

// Clone returns a deep copy of the bank.
func (b *QuestionBank) Clone() *QuestionBank {
	c := *b
	c.Questions = make(map[string]*Question, len(b.Questions))
	for id, q := range b.Questions {
		c.Questions[id] = q.Clone()
	}
	return &c
}

// Replace overwrites the bank's questions with same-id copies of qs.
// Questions unknown to the bank are added.
func (b *QuestionBank) Replace(qs []*Question, now time.Time) {
	if b.Questions == nil {
		b.Questions = make(map[string]*Question, len(qs))
	}
	for _, q := range qs {
		b.Questions[q.ID] = q.Clone()
	}
	b.UpdatedAt = now
}

// Summary returns the listing view of the bank.
func (b *QuestionBank) Summary() Summary {
	return Summary{
		ID:            b.ID,
		Slug:          b.Slug,
		Title:         b.Title,
		Description:   b.Description,
		Difficulty:    b.Difficulty,
		Grade:         b.Grade,
		QuestionCount: len(b.Questions),
		Tranches:      b.MaxTranche(),
		UpdatedAt:     b.UpdatedAt,
	}
}
