package session

import (
	"github.com/abhisek/quizgen/internal/quiz"
)

// roundReadyMsg is sent when a round has been set up, or failed to be.
type roundReadyMsg struct {
	Round *quiz.Round
	Err   error
}

// startMsg asks the question screen to start its session.
type startMsg struct{}
