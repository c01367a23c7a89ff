package prompter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/bank"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Paris ", "paris"},
		{"Café", "cafe"},
		{"Ångström", "angstrom"},
		{"new   york", "new york"},
		{"rock & roll", "rock roll"},
		{"3/4", "3/4"},
		{"well, yes!", "well, yes!"},
		{"paris?", "paris"},
		{"Don't", "don't"},
		{"Straße", "straße"},
		{"東京", "東京"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := Sanitize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSanitize_MatchesAcceptedAnswers(t *testing.T) {
	tests := []struct {
		accepted []string
		typed    string
	}{
		{[]string{"don't"}, "don't"},
		{[]string{"Don't know"}, "DON'T KNOW"},
		{[]string{"café"}, "Café"},
		{[]string{"café"}, "cafe"},
		{[]string{"straße"}, "Straße"},
		{[]string{"東京"}, "東京"},
		{[]string{"rock & roll"}, "rock & roll"},
	}
	for _, tt := range tests {
		reply, err := Sanitize(tt.typed)
		require.NoError(t, err, tt.typed)
		assert.NotEmpty(t, reply, tt.typed)
		assert.True(t, bank.CheckAnswer(tt.accepted, reply), "%q against %q", reply, tt.accepted)
	}
}

func TestSanitize_RejectsUnsafe(t *testing.T) {
	for _, in := range []string{"../etc/passwd", `..\windows`, "a<b", "c:drive", `say "hi"`, "x|y", "wh*", "who? what"} {
		_, err := Sanitize(in)
		assert.ErrorIs(t, err, ErrUnsafeInput, in)
	}
}

func TestTerminalAsk(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("a<b\n  Nile \n"), &out)

	got, err := term.Ask(context.Background(), "Longest river?")
	require.NoError(t, err)
	assert.Equal(t, "nile", got)
	assert.Equal(t, 2, strings.Count(out.String(), "Longest river?"), "unsafe input should re-ask")
	assert.Contains(t, out.String(), "please try again")
}

func TestTerminalAsk_Abort(t *testing.T) {
	term := NewTerminal(strings.NewReader("/quit\n"), &bytes.Buffer{})
	_, err := term.Ask(context.Background(), "?")
	assert.ErrorIs(t, err, ErrAborted)

	term = NewTerminal(strings.NewReader(""), &bytes.Buffer{})
	_, err = term.Ask(context.Background(), "?")
	assert.ErrorIs(t, err, ErrAborted)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewTerminal(strings.NewReader("x\n"), &bytes.Buffer{}).Ask(ctx, "?")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAskInt(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("zero\n0\n11\n7\n"), &out)
	n, err := AskInt(context.Background(), term, "How many questions", 1, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, 3, strings.Count(out.String(), "Please enter a number from 1 to 10."))

	term = NewTerminal(strings.NewReader("\n"), &bytes.Buffer{})
	n, err = AskInt(context.Background(), term, "How many questions", 1, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestAskChoice(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("both\nMIX\n"), &out)
	got, err := AskChoice(context.Background(), term, "Questions", []string{"new", "existing", "mix"}, "new")
	require.NoError(t, err)
	assert.Equal(t, "mix", got)
	assert.Contains(t, out.String(), "Please choose one of: new, existing, mix.")
}
