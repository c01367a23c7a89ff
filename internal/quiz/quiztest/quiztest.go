// Package quiztest provides an orchestrator backed by a temporary file
// store and a canned question generator, for tests of the outer layers.
package quiztest

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/store"
)

// Generator hands out its sets in order and fails once they run out.
type Generator struct {
	Sets     []*bank.GeneratedSet
	Requests []questiongen.Request
}

func (g *Generator) Generate(_ context.Context, req questiongen.Request) (*bank.GeneratedSet, error) {
	g.Requests = append(g.Requests, req)
	if len(g.Sets) == 0 {
		return nil, fmt.Errorf("%w: no canned set left", questiongen.ErrGenerationFailed)
	}
	set := g.Sets[0]
	g.Sets = g.Sets[1:]
	return set, nil
}

// Set returns n questions titled title. Question i asks "<title> question i?"
// and accepts "answer i" and "alt i".
func Set(title string, n int) *bank.GeneratedSet {
	set := &bank.GeneratedSet{Title: title, Description: "Questions about " + title + "."}
	for i := range n {
		set.Questions = append(set.Questions, bank.RawQuestion{
			Prompt:  fmt.Sprintf("%s question %d?", title, i+1),
			Answers: []string{fmt.Sprintf("answer %d", i+1), fmt.Sprintf("alt %d", i+1)},
		})
	}
	return set
}

// New returns an orchestrator over a file store in a temporary directory.
// A nil gen disables generation.
func New(t testing.TB, gen *Generator) *quiz.Orchestrator {
	t.Helper()
	fs, err := store.OpenFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { fs.Close() })

	opts := quiz.Options{Store: fs, Logger: zerolog.Nop()}
	if gen != nil {
		opts.Generator = gen
	}
	return quiz.New(opts)
}

// Round starts a round on a fresh topic and returns its draft session.
func Round(t testing.TB, o *quiz.Orchestrator, topic string, count int) *quiz.Round {
	t.Helper()
	r, err := o.StartNewTopicRound(context.Background(), quiz.RoundConfig{Topic: topic, Count: count})
	require.NoError(t, err)
	return r
}
