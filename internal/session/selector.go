package session

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/quizgen/internal/bank"
)

// Mode selects where a round's questions come from.
type Mode string

const (
	ModeNew      Mode = "new"
	ModeExisting Mode = "existing"
	ModeMix      Mode = "mix"
)

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNew, ModeExisting, ModeMix:
		return m, nil
	default:
		return "", fmt.Errorf("unknown question mix %q (want new, existing or mix)", s)
	}
}

// Policy controls question selection for one round.
type Policy struct {
	Mode Mode

	// Count is the requested round size. It is ignored for ModeNew, where
	// the freshly generated batch is the round.
	Count int
}

// Selector samples questions for a round.
// It is not safe for concurrent use.
type Selector struct {
	rng *rand.Rand
}

// NewSelector returns a Selector drawing from src, or from a randomly
// seeded source when src is nil.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Selector{rng: rand.New(src)}
}

// Select picks the round's questions from the bank's pre-existing
// questions and the ones merged for this round.
//
// For ModeMix every fresh question is used and the rest of Count is filled
// with distinct existing questions.
func (s *Selector) Select(existing, fresh []*bank.Question, p Policy) ([]*bank.Question, error) {
	switch p.Mode {
	case ModeNew:
		return slices.Clone(fresh), nil
	case ModeExisting:
		return s.Sample(existing, p.Count), nil
	case ModeMix:
		freshIDs := lo.SliceToMap(fresh, func(q *bank.Question) (string, struct{}) {
			return q.ID, struct{}{}
		})
		pool := lo.Filter(existing, func(q *bank.Question, _ int) bool {
			_, dup := freshIDs[q.ID]
			return !dup
		})
		out := slices.Clone(fresh)
		return append(out, s.Sample(pool, p.Count-len(fresh))...), nil
	default:
		return nil, fmt.Errorf("unknown question mix %q", p.Mode)
	}
}

// Sample returns min(k, len(pool)) distinct questions drawn uniformly
// without replacement. pool is not modified.
func (s *Selector) Sample(pool []*bank.Question, k int) []*bank.Question {
	k = min(max(k, 0), len(pool))
	picked := slices.Clone(pool)
	// Partial Fisher-Yates: after i steps picked[:i] is a uniform sample.
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:k:k]
}
