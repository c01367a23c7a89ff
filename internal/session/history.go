package session

import "sync"

// History is the set of sessions played during one run of a front-end.
// Adding a session that is already present replaces it.
type History struct {
	mu       sync.Mutex
	sessions []*QuizSession
}

// NewHistory returns a History holding sessions.
func NewHistory(sessions ...*QuizSession) *History {
	h := &History{}
	for _, s := range sessions {
		h.Add(s)
	}
	return h
}

// Add records s.
func (h *History) Add(s *QuizSession) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, existing := range h.sessions {
		if existing.ID == s.ID {
			h.sessions[i] = s
			return
		}
	}
	h.sessions = append(h.sessions, s)
}

// Sessions returns the recorded sessions in the order they were added.
func (h *History) Sessions() []*QuizSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*QuizSession, len(h.sessions))
	copy(out, h.sessions)
	return out
}

// Len returns the number of recorded sessions.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Aggregate scores every completed session in the history.
func (h *History) Aggregate() Aggregate {
	return AggregateHistory(h.Sessions())
}
