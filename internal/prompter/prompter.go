// Package prompter reads answers from a human.
package prompter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrAborted is returned when the user quits or input ends.
var ErrAborted = errors.New("input aborted")

// QuitCommand ends an interactive round when typed as an answer.
const QuitCommand = "/quit"

// Prompter asks questions and shows messages.
type Prompter interface {
	// Ask shows prompt and returns the sanitized reply. An empty string
	// means the user just pressed enter.
	Ask(ctx context.Context, prompt string) (string, error)

	// Tell shows text without waiting for input.
	Tell(text string)
}

// Terminal is a line-oriented Prompter over a reader and a writer.
type Terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTerminal returns a Terminal reading lines from in.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out}
}

func (t *Terminal) Tell(text string) {
	fmt.Fprintln(t.out, text)
}

// Ask repeats the prompt until the reply passes Sanitize.
func (t *Terminal) Ask(ctx context.Context, prompt string) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintf(t.out, "%s ", prompt)
		if !t.in.Scan() {
			if err := t.in.Err(); err != nil {
				return "", fmt.Errorf("%w: %w", ErrAborted, err)
			}
			return "", ErrAborted
		}
		line := t.in.Text()
		if strings.EqualFold(strings.TrimSpace(line), QuitCommand) {
			return "", ErrAborted
		}
		answer, err := Sanitize(line)
		if err != nil {
			fmt.Fprintf(t.out, "%v, please try again.\n", err)
			continue
		}
		return answer, nil
	}
}

// AskInt asks for a whole number in [lo, hi]. An empty reply picks def.
func AskInt(ctx context.Context, p Prompter, prompt string, lo, hi, def int) (int, error) {
	label := fmt.Sprintf("%s (%d-%d, default %d):", prompt, lo, hi, def)
	for {
		reply, err := p.Ask(ctx, label)
		if err != nil {
			return 0, err
		}
		if reply == "" {
			return def, nil
		}
		n, err := strconv.Atoi(reply)
		if err != nil || n < lo || n > hi {
			p.Tell(fmt.Sprintf("Please enter a number from %d to %d.", lo, hi))
			continue
		}
		return n, nil
	}
}

// AskChoice asks until the reply is one of choices. An empty reply picks
// def.
func AskChoice(ctx context.Context, p Prompter, prompt string, choices []string, def string) (string, error) {
	label := fmt.Sprintf("%s [%s] (default %s):", prompt, strings.Join(choices, "/"), def)
	for {
		reply, err := p.Ask(ctx, label)
		if err != nil {
			return "", err
		}
		if reply == "" {
			return def, nil
		}
		for _, c := range choices {
			if reply == c {
				return c, nil
			}
		}
		p.Tell(fmt.Sprintf("Please choose one of: %s.", strings.Join(choices, ", ")))
	}
}
