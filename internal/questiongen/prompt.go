package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert quiz master writing questions for an interactive text quiz. The player types free-text answers, which are compared case-insensitively against your list of accepted answers.

Rules:
- Write exactly the number of questions requested, at the requested difficulty.
- Both questions and answers must be accurate. Skip facts that may have changed recently.
- Every answer is short and lower-case. List every answer a player could reasonably type: synonyms, alternative spellings, and digits as well as words for numbers.
- Three kinds of question are allowed: recall ("Name the...", "How many..."), choice with the options in square brackets ("Are dolphins [mammals] or [fish]?", at least one option wrong), and yes/no.
- For yes/no questions the answers are affirmative forms ("yes", "yep", "y", "correct") or negative forms ("no", "nope", "n", "wrong").
- The topic may be misspelled. Return it corrected and in title case as the title, with a one-sentence description of the set.
- Do not repeat or rephrase any question from the "already in this quiz" list.`

// buildUserMessage renders the request in the tagged form the system
// prompt expects.
func buildUserMessage(req Request, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<topic>%s</topic>\n", req.Topic)
	fmt.Fprintf(&b, "<question_count>%d</question_count>\n", req.Count)
	fmt.Fprintf(&b, "<difficulty>%s</difficulty>\n", req.Difficulty)
	if req.Grade != "" {
		fmt.Fprintf(&b, "<level>%s</level>\n", req.Grade)
	}

	b.WriteString("\nAlready in this quiz:\n")
	b.WriteString(buildExisting(req.Existing, cfg.MaxExisting))
	return b.String()
}

// buildExisting numbers the most recent max prompts, or returns "None".
func buildExisting(prompts []string, max int) string {
	if len(prompts) == 0 {
		return "None"
	}
	if max > 0 && len(prompts) > max {
		prompts = prompts[len(prompts)-max:]
	}

	var b strings.Builder
	for i, p := range prompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
