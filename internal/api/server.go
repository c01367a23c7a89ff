// Package api serves the quiz over HTTP as JSON.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizgen/internal/quiz"
)

// Options configures the HTTP server.
type Options struct {
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// Server exposes one Orchestrator. Requests that change a session run one
// at a time since sessions belong to a single player.
type Server struct {
	quiz     *quiz.Orchestrator
	log      zerolog.Logger
	validate *validator.Validate

	mu sync.Mutex
}

// NewServer builds the router for o.
func NewServer(o *quiz.Orchestrator, opts Options) http.Handler {
	s := &Server{
		quiz:     o,
		log:      opts.Logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(s.log), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "generation": o.CanGenerate()})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(2 * time.Minute))

		r.Get("/topics", s.listTopics)
		r.Get("/topics/{id}", s.getTopic)
		r.With(s.serialize).Delete("/topics/{id}", s.deleteTopic)

		r.With(s.serialize).Post("/rounds", s.createRound)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Group(func(r chi.Router) {
				r.Use(s.serialize)
				r.Post("/start", s.startSession)
				r.Post("/answer", s.answer)
				r.Post("/skip", s.skip)
				r.Post("/finish", s.finish)
			})
		})

		r.Get("/history", s.history)
	})
	return r
}

func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			ev := log.Info()
			if ww.Status() >= http.StatusInternalServerError {
				ev = log.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("latency", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
