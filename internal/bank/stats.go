package bank

import (
	"math"

	"github.com/samber/lo"
)

// QuestionStats summarises a question's attempt history.
type QuestionStats struct {
	QuestionID  string `json:"question_id"`
	Prompt      string `json:"prompt"`
	Attempts    int    `json:"attempts"`
	Correct     int    `json:"correct"`
	Incorrect   int    `json:"incorrect"`
	Skipped     int    `json:"skipped"`
	SuccessRate int    `json:"success_rate"`
}

// Statistics returns the stats for q. SuccessRate is a whole percentage
// of correct answers over non-skipped attempts, 0 when never attempted.
func Statistics(q *Question) QuestionStats {
	s := QuestionStats{
		QuestionID: q.ID,
		Prompt:     q.Prompt,
		Attempts:   q.AttemptCount,
		Correct:    q.CorrectCount,
		Incorrect:  q.AttemptCount - q.CorrectCount,
		Skipped:    q.SkippedCount,
	}
	if q.AttemptCount > 0 {
		s.SuccessRate = int(math.Round(100 * float64(q.CorrectCount) / float64(q.AttemptCount)))
	}
	return s
}

// BankStatistics returns per-question stats in List order.
func BankStatistics(b *QuestionBank) []QuestionStats {
	return lo.Map(b.List(), func(q *Question, _ int) QuestionStats {
		return Statistics(q)
	})
}

// Weakest returns the attempted question with the most wrong answers,
// preferring the lower success rate on a tie. It returns false when no
// question has been attempted.
func Weakest(b *QuestionBank) (*Question, bool) {
	attempted := lo.Filter(b.List(), func(q *Question, _ int) bool {
		return q.AttemptCount > 0
	})
	if len(attempted) == 0 {
		return nil, false
	}
	return lo.MaxBy(attempted, func(x, y *Question) bool {
		sa, sb := Statistics(x), Statistics(y)
		if sa.Incorrect != sb.Incorrect {
			return sa.Incorrect > sb.Incorrect
		}
		return sa.SuccessRate < sb.SuccessRate
	}), true
}
