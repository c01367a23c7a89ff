package bank

import "testing"

func attempt(correct, skipped bool) Attempt {
	return Attempt{IsCorrect: correct, IsSkipped: skipped}
}

func questionWith(id string, attempts ...Attempt) *Question {
	q := &Question{ID: id, Prompt: id + "?", Answers: []string{"x"}, Tranche: 1}
	for _, a := range attempts {
		q.AddAttempt(a)
	}
	return q
}

func TestAddAttemptCounters(t *testing.T) {
	q := questionWith("q", attempt(true, false), attempt(false, false), attempt(false, true))
	if q.AttemptCount != 2 || q.CorrectCount != 1 || q.SkippedCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", q.AttemptCount, q.CorrectCount, q.SkippedCount)
	}
	if len(q.Attempts) != 3 {
		t.Errorf("attempts = %d, want 3", len(q.Attempts))
	}
}

func TestStatistics(t *testing.T) {
	tests := []struct {
		name string
		q    *Question
		want int
	}{
		{"never attempted", questionWith("a"), 0},
		{"only skipped", questionWith("b", attempt(false, true)), 0},
		{"half", questionWith("c", attempt(true, false), attempt(false, false)), 50},
		{"two thirds rounds up", questionWith("d", attempt(true, false), attempt(true, false), attempt(false, false)), 67},
		{"all correct", questionWith("e", attempt(true, false)), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Statistics(tt.q).SuccessRate; got != tt.want {
				t.Errorf("SuccessRate = %d, want %d", got, tt.want)
			}
		})
	}
}

func bankOf(qs ...*Question) *QuestionBank {
	b := New("b", "t", testNow)
	for _, q := range qs {
		b.Questions[q.ID] = q
	}
	return b
}

func TestWeakest(t *testing.T) {
	t.Run("no attempts", func(t *testing.T) {
		b := bankOf(questionWith("a"), questionWith("b", attempt(false, true)))
		if q, ok := Weakest(b); ok {
			t.Errorf("got %s, want none", q.ID)
		}
	})

	t.Run("most incorrect wins", func(t *testing.T) {
		b := bankOf(
			questionWith("a", attempt(false, false)),
			questionWith("b", attempt(false, false), attempt(false, false), attempt(true, false), attempt(true, false)),
		)
		q, ok := Weakest(b)
		if !ok || q.ID != "b" {
			t.Errorf("weakest = %v, want b", q)
		}
	})

	t.Run("tie broken by success rate", func(t *testing.T) {
		b := bankOf(
			questionWith("a", attempt(false, false), attempt(true, false)),
			questionWith("b", attempt(false, false)),
		)
		q, ok := Weakest(b)
		if !ok || q.ID != "b" {
			t.Errorf("weakest = %v, want b", q)
		}
	})
}

func TestParseDifficulty(t *testing.T) {
	tests := map[string]Difficulty{
		"":           DefaultDifficulty,
		"Easy":       Easy,
		" 2 ":        Easy,
		"5":          Intermediate,
		"8":          Advanced,
		"10":         Expert,
		"12th-grade": "12th-grade",
	}
	for in, want := range tests {
		if got := ParseDifficulty(in); got != want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugifyAndMatches(t *testing.T) {
	if got := Slugify("  Café & Crème Brûlée!! "); got != "cafe-creme-brulee" {
		t.Errorf("Slugify = %q", got)
	}
	b := New("b", "World Capitals", testNow)
	b.Title = "Capitals of the World"
	for _, topic := range []string{"capitals of the world", "WORLD CAPITALS", "world-capitals"} {
		if !b.Matches(topic) {
			t.Errorf("Matches(%q) = false", topic)
		}
	}
	if b.Matches("capitals") || b.Matches("") {
		t.Error("unexpected match")
	}
}
