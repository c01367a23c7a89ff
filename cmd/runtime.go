package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/logging"
	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/store"
)

// flagOverrides maps persistent flags to config keys.
var flagOverrides = map[string]string{
	"store":     "store.backend",
	"db":        "store.path",
	"provider":  "llm.provider",
	"log-level": "log.level",
}

type runtimeOptions struct {
	// logToFile sends the log to a file so it does not draw over the TUI.
	logToFile bool

	// noStore skips opening the store, for commands that only generate.
	noStore bool
}

// runtime is everything a command needs, built from config and flags.
type runtime struct {
	cfg       *config.Config
	log       zerolog.Logger
	store     store.Store
	events    store.EventRepo
	provider  llm.Provider
	generator questiongen.Generator
	quiz      *quiz.Orchestrator

	closers []io.Closer
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := config.LoadOptions{Overrides: map[string]any{}}
	opts.ConfigFile, _ = cmd.Flags().GetString("config")
	opts.EnvFile, _ = cmd.Flags().GetString("env-file")
	for flag, key := range flagOverrides {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			opts.Overrides[key] = f.Value.String()
		}
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}

	// --data-dir relocates the default store; an explicit path still wins.
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" && cfg.Store.Path == "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
		cfg.Store.Path = filepath.Join(dir, "quizgen.db")
		if cfg.Store.Backend == store.BackendFile {
			cfg.Store.Path = filepath.Join(dir, "topics")
		}
	}
	return cfg, nil
}

func newRuntime(cmd *cobra.Command, opts runtimeOptions) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg}

	logCfg := cfg.Log
	if opts.logToFile && logCfg.File == "" {
		logCfg.File = logging.DefaultFile()
	}
	log, closer, err := logging.New(logCfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	rt.log = log
	rt.closers = append(rt.closers, closer)

	if !opts.noStore {
		st, err := cfg.OpenStore()
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		rt.store = st
		rt.closers = append(rt.closers, st)
		if sq, ok := st.(*store.SQLiteStore); ok {
			rt.events = sq.EventRepo()
		}
	}

	var recorder llm.EventRecorder
	if rt.events != nil {
		recorder = rt.events
	}
	provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, recorder, log.With().Str("component", "llm").Logger())
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Info().Msg("no LLM provider configured, generation disabled")
	case err != nil:
		rt.Close()
		return nil, err
	default:
		rt.provider = provider
		rt.generator = questiongen.New(provider, questiongen.DefaultConfig())
	}

	if rt.store != nil {
		qopts := quiz.Options{Store: rt.store, Logger: log.With().Str("component", "quiz").Logger()}
		if rt.generator != nil {
			qopts.Generator = rt.generator
		}
		rt.quiz = quiz.New(qopts)
	}
	return rt, nil
}

// Close releases the store and the log file, newest first.
func (rt *runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if rt.closers[i] != nil {
			errs = append(errs, rt.closers[i].Close())
		}
	}
	return errors.Join(errs...)
}

// requireEvents returns the LLM request log, which only the SQLite store
// keeps.
func (rt *runtime) requireEvents() (store.EventRepo, error) {
	if rt.events == nil {
		return nil, fmt.Errorf("the LLM request log needs the sqlite store backend (current: %s)", rt.cfg.Store.Backend)
	}
	return rt.events, nil
}
