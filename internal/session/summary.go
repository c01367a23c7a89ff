package session

import (
	"fmt"
	"math"
	"strconv"

	"github.com/samber/lo"
)

// Score is the result of one session.
type Score struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Text       string  `json:"text"`
}

// ScoreSession scores s against every question in the round, so skipped
// questions count as not correct. It has no side effects.
func ScoreSession(s *QuizSession) Score {
	total := len(s.Questions)
	pct := percentage(s.Correct, total)
	return Score{
		Correct:    s.Correct,
		Total:      total,
		Percentage: pct,
		Text:       fmt.Sprintf("%d out of %d (%s%%)", s.Correct, total, FormatPercent(pct)),
	}
}

// TopicSummary aggregates the completed sessions of one bank.
type TopicSummary struct {
	QuizID     string   `json:"quiz_id"`
	Title      string   `json:"title"`
	Sessions   int      `json:"sessions"`
	Correct    int      `json:"correct"`
	Total      int      `json:"total"`
	Percentage float64  `json:"percentage"`
	Results    []string `json:"results"`
}

// Aggregate summarises many sessions.
type Aggregate struct {
	TotalCorrect      int            `json:"total_correct"`
	TotalAnswered     int            `json:"total_answered"`
	OverallPercentage float64        `json:"overall_percentage"`
	Topics            []TopicSummary `json:"topics"`
}

// Text renders the aggregate as "X out of Y correctly (Z%)".
func (a Aggregate) Text() string {
	return fmt.Sprintf("%d out of %d correctly (%s%%)", a.TotalCorrect, a.TotalAnswered, FormatPercent(a.OverallPercentage))
}

// AggregateHistory sums the completed sessions in sessions, overall and per
// bank. Unfinished sessions are ignored since they can still be resumed.
func AggregateHistory(sessions []*QuizSession) Aggregate {
	done := lo.Filter(sessions, func(s *QuizSession, _ int) bool {
		return s.Status == StatusComplete
	})

	var agg Aggregate
	byQuiz := make(map[string]*TopicSummary)
	var order []string
	for _, s := range done {
		score := ScoreSession(s)
		agg.TotalCorrect += score.Correct
		agg.TotalAnswered += score.Total

		ts, ok := byQuiz[s.QuizID]
		if !ok {
			ts = &TopicSummary{QuizID: s.QuizID, Title: s.Title}
			byQuiz[s.QuizID] = ts
			order = append(order, s.QuizID)
		}
		ts.Sessions++
		ts.Correct += score.Correct
		ts.Total += score.Total
		ts.Results = append(ts.Results, fmt.Sprintf("%s: %s.", s.Title, score.Text))
	}
	agg.OverallPercentage = percentage(agg.TotalCorrect, agg.TotalAnswered)

	agg.Topics = make([]TopicSummary, 0, len(order))
	for _, id := range order {
		ts := byQuiz[id]
		ts.Percentage = percentage(ts.Correct, ts.Total)
		agg.Topics = append(agg.Topics, *ts)
	}
	return agg
}

// FormatPercent prints p without trailing zeros: 100, 66.67, 12.5.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(10000*float64(part)/float64(whole)) / 100
}
