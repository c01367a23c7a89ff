package questiongen

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/llm"
)

// TopicFile is a question set read from disk.
type TopicFile struct {
	Set *bank.GeneratedSet

	// Difficulty is empty when the file does not state one.
	Difficulty bank.Difficulty
}

type topicFileJSON struct {
	Title       string             `json:"title"`
	Topic       string             `json:"topic"`
	Description string             `json:"description"`
	Desc        string             `json:"desc"`
	Difficulty  json.RawMessage    `json:"difficulty"`
	Questions   []bank.RawQuestion `json:"questions"`
}

// ParseTopicFile validates and decodes a topic file. The questions go
// through the same validators as generated ones.
func ParseTopicFile(data []byte, validators ...Validator) (*TopicFile, error) {
	if len(validators) == 0 {
		validators = DefaultConfig().Validators
	}
	if err := llm.ValidateJSON(TopicFileSchema, data); err != nil {
		return nil, fmt.Errorf("%w: %w", bank.ErrMalformedGeneration, err)
	}

	var raw topicFileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", bank.ErrMalformedGeneration, err)
	}
	for i, q := range raw.Questions {
		for _, v := range validators {
			if verr := v.Validate(q); verr != nil {
				return nil, fmt.Errorf("%w: question %d: %w", bank.ErrMalformedGeneration, i+1, verr)
			}
		}
	}

	return &TopicFile{
		Set: &bank.GeneratedSet{
			Title:       firstNonEmpty(raw.Title, raw.Topic),
			Description: firstNonEmpty(raw.Description, raw.Desc),
			Questions:   raw.Questions,
		},
		Difficulty: parseFileDifficulty(raw.Difficulty),
	}, nil
}

func parseFileDifficulty(raw json.RawMessage) bank.Difficulty {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return bank.ParseDifficulty(s)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return bank.ParseDifficulty(strconv.Itoa(int(n)))
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
