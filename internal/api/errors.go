package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/prompter"
	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/session"
	"github.com/abhisek/quizgen/internal/store"
)

var errBadRequest = errors.New("malformed request body")

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNoQuestionsAvailable),
		errors.Is(err, bank.ErrMalformedGeneration),
		errors.Is(err, prompter.ErrUnsafeInput),
		errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, questiongen.ErrGenerationFailed):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := quiz.UserMessage(err)
	switch {
	case errors.Is(err, errBadRequest):
		msg = "The request body is not valid JSON."
	case errors.Is(err, prompter.ErrUnsafeInput):
		msg = "That answer contains characters that are not allowed."
	}
	if code >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, code, errorBody{Error: msg, Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
