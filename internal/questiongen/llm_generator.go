package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/llm"
)

// LLMGenerator implements Generator using an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate asks the model for req.Count questions about req.Topic.
// Questions repeating an existing prompt, or each other, are dropped; if
// nothing is left the result counts as malformed.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*bank.GeneratedSet, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("%w: empty topic", ErrGenerationFailed)
	}
	req.Count = clampCount(req.Count, g.config.MaxQuestions)
	if req.Difficulty == "" {
		req.Difficulty = bank.DefaultDifficulty
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(req, g.config)}},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, classify(err)
	}

	var set bank.GeneratedSet
	if err := json.Unmarshal(resp.Content, &set); err != nil {
		return nil, fmt.Errorf("%w: parse model output: %w", bank.ErrMalformedGeneration, err)
	}

	for _, q := range set.Questions {
		for _, v := range g.config.Validators {
			if verr := v.Validate(q); verr != nil {
				return nil, fmt.Errorf("%w: %w", bank.ErrMalformedGeneration, verr)
			}
		}
	}

	set.Questions = dropRepeats(set.Questions, req.Existing)
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("%w: no new questions", bank.ErrMalformedGeneration)
	}
	if len(set.Questions) > req.Count {
		set.Questions = set.Questions[:req.Count]
	}
	return &set, nil
}

// classify maps provider errors onto the generator's error kinds. A reply
// that arrived but is unusable is malformed; anything else is a failure
// to generate.
func classify(err error) error {
	var invalid *llm.ErrInvalidResponse
	var truncated *llm.ErrMaxTokensExceeded
	if errors.As(err, &invalid) || errors.As(err, &truncated) {
		return fmt.Errorf("%w: %w", bank.ErrMalformedGeneration, err)
	}
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}

func clampCount(n, limit int) int {
	if limit <= 0 {
		limit = DefaultConfig().MaxQuestions
	}
	return min(max(n, 1), limit)
}

func dropRepeats(qs []bank.RawQuestion, existing []string) []bank.RawQuestion {
	seen := make(map[string]bool, len(existing)+len(qs))
	for _, p := range existing {
		seen[normalizePrompt(p)] = true
	}
	out := qs[:0:0]
	for _, q := range qs {
		key := normalizePrompt(q.Prompt)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}

func normalizePrompt(p string) string {
	return strings.Join(strings.Fields(strings.ToLower(p)), " ")
}
