package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/quizgen/internal/prompter"
	"github.com/abhisek/quizgen/internal/quiz"
)

func (s *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return s.validate.Struct(v)
}

func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.quiz.ListTopics(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (s *Server) getTopic(w http.ResponseWriter, r *http.Request) {
	report, err := s.quiz.BankReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) deleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := s.quiz.DeleteTopic(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createRound(w http.ResponseWriter, r *http.Request) {
	var cfg quiz.RoundConfig
	if err := s.decode(r, &cfg); err != nil {
		s.fail(w, r, err)
		return
	}
	round, err := s.quiz.StartNewTopicRound(r.Context(), cfg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sv, err := newSessionView(round.Session)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, roundView{Session: sv, Added: len(round.Added), NewBank: round.NewBank})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.quiz.LoadSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sv, err := newSessionView(sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sv)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := s.quiz.LoadSession(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.quiz.Start(ctx, sess); err != nil {
		s.fail(w, r, err)
		return
	}
	sv, err := newSessionView(sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sv)
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req answerRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	answer, err := prompter.Sanitize(req.Answer)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.quiz.LoadSession(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var out *quiz.AnswerOutcome
	if answer == "" {
		out, err = s.quiz.Skip(ctx, sess)
	} else {
		out, err = s.quiz.Answer(ctx, sess, answer)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := newAnswerView(out, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) skip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := s.quiz.LoadSession(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.quiz.Skip(ctx, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := newAnswerView(out, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) finish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := s.quiz.LoadSession(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.quiz.FinishAndPersist(ctx, sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	agg, err := s.quiz.StoredHistory(r.Context(), r.URL.Query().Get("quiz_id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}
