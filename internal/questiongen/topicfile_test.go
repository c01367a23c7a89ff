package questiongen

import (
	"errors"
	"testing"

	"github.com/abhisek/quizgen/internal/bank"
)

func TestParseTopicFile(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		title      string
		desc       string
		difficulty bank.Difficulty
	}{
		{
			name:       "current keys",
			data:       `{"title":"Rivers","description":"World rivers","difficulty":"advanced","questions":[{"prompt":"Longest river?","answers":["nile"]}]}`,
			title:      "Rivers",
			desc:       "World rivers",
			difficulty: bank.Advanced,
		},
		{
			name:       "legacy keys with numeric difficulty",
			data:       `{"topic":"Dolphin facts","desc":"About dolphins","difficulty":2,"questions":[{"prompt":"Breathing hole?","answers":["blowhole"]}]}`,
			title:      "Dolphin facts",
			desc:       "About dolphins",
			difficulty: bank.Easy,
		},
		{
			name:       "legacy string number",
			data:       `{"topic":"Tides","difficulty":"9","questions":[{"prompt":"Cause of tides?","answers":["moon","the moon"]}]}`,
			title:      "Tides",
			difficulty: bank.Expert,
		},
		{
			name:  "no difficulty",
			data:  `{"title":"Lakes","questions":[{"prompt":"Deepest lake?","answers":["baikal"]}]}`,
			title: "Lakes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf, err := ParseTopicFile([]byte(tt.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tf.Set.Title != tt.title || tf.Set.Description != tt.desc {
				t.Errorf("metadata = %q / %q", tf.Set.Title, tf.Set.Description)
			}
			if tf.Difficulty != tt.difficulty {
				t.Errorf("difficulty = %q, want %q", tf.Difficulty, tt.difficulty)
			}
			if len(tf.Set.Questions) != 1 {
				t.Errorf("questions = %d", len(tf.Set.Questions))
			}
		})
	}
}

func TestParseTopicFile_Invalid(t *testing.T) {
	cases := map[string]string{
		"not json":       `questions: []`,
		"no title":       `{"questions":[{"prompt":"x?","answers":["y"]}]}`,
		"no questions":   `{"title":"Empty","questions":[]}`,
		"answers string": `{"title":"Bad","questions":[{"prompt":"x?","answers":"y"}]}`,
		"blank prompt":   `{"title":"Bad","questions":[{"prompt":" ","answers":["y"]}]}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTopicFile([]byte(data))
			if !errors.Is(err, bank.ErrMalformedGeneration) {
				t.Fatalf("expected ErrMalformedGeneration, got %v", err)
			}
		})
	}
}
