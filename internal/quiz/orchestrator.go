// Package quiz coordinates rounds: it resolves topics, grows banks with
// generated questions, selects and plays sessions, and persists results.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/session"
	"github.com/abhisek/quizgen/internal/store"
)

// Options configures an Orchestrator. Store is required; a nil Generator
// limits rounds to questions already in the banks.
type Options struct {
	Store     store.Store
	Generator questiongen.Generator
	Logger    zerolog.Logger

	Selector  *session.Selector
	Lifecycle *session.Lifecycle
	Merger    *bank.Merger
	Now       func() time.Time
	NewID     func() string
}

// Orchestrator drives rounds for one player. Sessions are owned by the
// caller driving them; the orchestrator only keeps the run's history.
type Orchestrator struct {
	store     store.Store
	generator questiongen.Generator
	log       zerolog.Logger

	selector  *session.Selector
	lifecycle *session.Lifecycle
	merger    *bank.Merger
	history   *session.History
	now       func() time.Time
	newID     func() string
}

// New returns an Orchestrator, filling unset collaborators with defaults.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		store:     opts.Store,
		generator: opts.Generator,
		log:       opts.Logger,
		selector:  opts.Selector,
		lifecycle: opts.Lifecycle,
		merger:    opts.Merger,
		history:   session.NewHistory(),
		now:       opts.Now,
		newID:     opts.NewID,
	}
	if o.selector == nil {
		o.selector = session.NewSelector(nil)
	}
	if o.lifecycle == nil {
		o.lifecycle = session.NewLifecycle()
	}
	if o.merger == nil {
		o.merger = bank.NewMerger()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	return o
}

// CanGenerate reports whether new questions can be generated.
func (o *Orchestrator) CanGenerate() bool {
	return o.generator != nil
}

// History returns the sessions finished through this orchestrator.
func (o *Orchestrator) History() *session.History {
	return o.history
}

// Round is a freshly created draft session and the bank it was drawn from.
type Round struct {
	Bank    *bank.QuestionBank
	Session *session.QuizSession

	// Added are the questions merged into the bank for this round.
	Added []*bank.Question

	// NewBank is set when the topic did not exist before.
	NewBank bool
}

// ResolveTopic finds the bank named by topic, by title or slug. It returns
// store.ErrNotFound when no bank matches.
func (o *Orchestrator) ResolveTopic(ctx context.Context, topic string) (*bank.QuestionBank, error) {
	summaries, err := o.store.ListBanks(ctx)
	if err != nil {
		return nil, err
	}
	for _, sum := range summaries {
		probe := bank.QuestionBank{Title: sum.Title, Slug: sum.Slug}
		if probe.Matches(topic) {
			return o.store.LoadBank(ctx, sum.ID)
		}
	}
	return nil, fmt.Errorf("topic %q: %w", topic, store.ErrNotFound)
}

// StartNewTopicRound resolves cfg.Topic, generates and merges new questions
// when the policy needs them, selects the round and returns it as a draft
// session. The grown bank and the draft are both saved.
func (o *Orchestrator) StartNewTopicRound(ctx context.Context, cfg RoundConfig) (*Round, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b, err := o.ResolveTopic(ctx, cfg.Topic)
	isNew := errors.Is(err, store.ErrNotFound)
	switch {
	case isNew:
		b = bank.New(o.newID(), cfg.Topic, o.now())
	case err != nil:
		return nil, err
	}

	mode := o.resolveMode(cfg.Policy, b)
	log := o.log.With().Str("topic", cfg.Topic).Str("quiz_id", b.ID).Str("policy", string(mode)).Logger()
	log.Info().Bool("new_bank", isNew).Int("bank_size", b.Len()).Msg("round requested")

	existing := b.List()
	var added []*bank.Question
	if mode == session.ModeNew || mode == session.ModeMix {
		res, err := o.grow(ctx, b, cfg, mode)
		if err != nil {
			log.Warn().Err(err).Msg("question generation failed")
			return nil, err
		}
		b, added = res.Bank, res.Added
		if err := o.store.SaveBank(ctx, b); err != nil {
			log.Error().Err(err).Msg("save bank failed")
			return nil, err
		}
		log.Info().Int("count", len(added)).Int("tranche", res.Tranche).Msg("questions merged")
	}

	selected, err := o.selector.Select(existing, added, session.Policy{Mode: mode, Count: roundCount(cfg.Count)})
	if err != nil {
		return nil, err
	}
	s, err := o.lifecycle.Create(b, selected)
	if err != nil {
		log.Warn().Err(err).Msg("no questions selected")
		return nil, err
	}
	if err := o.store.SaveSession(ctx, s); err != nil {
		log.Error().Err(err).Str("session_id", s.ID).Msg("save session failed")
		return nil, err
	}
	log.Info().Str("session_id", s.ID).Int("count", len(s.Questions)).Msg("round created")

	return &Round{Bank: b, Session: s, Added: added, NewBank: isNew}, nil
}

// resolveMode applies the policy defaults. A bank with no questions can
// only be played with new questions.
func (o *Orchestrator) resolveMode(requested session.Mode, b *bank.QuestionBank) session.Mode {
	if b.Len() == 0 {
		return session.ModeNew
	}
	if requested != "" {
		return requested
	}
	if o.generator == nil {
		return session.ModeExisting
	}
	return session.ModeMix
}

func (o *Orchestrator) grow(ctx context.Context, b *bank.QuestionBank, cfg RoundConfig, mode session.Mode) (*bank.MergeResult, error) {
	if o.generator == nil {
		return nil, fmt.Errorf("%w: %w", questiongen.ErrGenerationFailed, ErrNoGenerator)
	}
	difficulty := cfg.Difficulty
	if difficulty == "" {
		difficulty = b.Difficulty
	}
	set, err := o.generator.Generate(ctx, questiongen.Request{
		Topic:      cfg.Topic,
		Count:      newCount(cfg, mode),
		Difficulty: difficulty,
		Grade:      cfg.Grade,
		Existing:   b.Prompts(),
	})
	if err != nil {
		return nil, err
	}
	return o.merger.Merge(b, set, bank.MergeOptions{
		Topic:      cfg.Topic,
		Difficulty: difficulty,
		Grade:      cfg.Grade,
	})
}

func roundCount(n int) int {
	if n <= 0 {
		return DefaultCount
	}
	return n
}

// newCount is how many questions to ask the generator for. A mix round
// generates half of the round unless told otherwise.
func newCount(cfg RoundConfig, mode session.Mode) int {
	n := cfg.NewCount
	if n <= 0 {
		n = roundCount(cfg.Count)
		if mode == session.ModeMix {
			n = max(1, n/2)
		}
	}
	return min(n, MaxGenerated)
}

// Start begins a draft session and saves it.
func (o *Orchestrator) Start(ctx context.Context, s *session.QuizSession) error {
	if err := o.lifecycle.Start(s); err != nil {
		return err
	}
	return o.store.SaveSession(ctx, s)
}

// AnswerOutcome is the result of answering or skipping one question.
type AnswerOutcome struct {
	Question *bank.Question `json:"question"`
	Attempt  *bank.Attempt  `json:"attempt"`
	Feedback *bank.Feedback `json:"feedback,omitempty"`
	Done     bool           `json:"done"`
}

// Answer records answer for the current question and saves the session.
// If the save fails the answer stays recorded in s and the error wraps
// store.ErrUnavailable.
func (o *Orchestrator) Answer(ctx context.Context, s *session.QuizSession, answer string) (*AnswerOutcome, error) {
	q := s.Current()
	a, err := o.lifecycle.RecordAnswer(s, answer)
	if err != nil {
		return nil, err
	}
	fb := bank.Evaluate(q.Answers, answer)
	out := &AnswerOutcome{Question: q, Attempt: a, Feedback: &fb, Done: s.Done()}
	return out, o.store.SaveSession(ctx, s)
}

// Skip records a skip for the current question and saves the session.
func (o *Orchestrator) Skip(ctx context.Context, s *session.QuizSession) (*AnswerOutcome, error) {
	q := s.Current()
	a, err := o.lifecycle.RecordSkip(s)
	if err != nil {
		return nil, err
	}
	out := &AnswerOutcome{Question: q, Attempt: a, Done: s.Done()}
	return out, o.store.SaveSession(ctx, s)
}

// Abort saves an unfinished session so it can be resumed later.
func (o *Orchestrator) Abort(ctx context.Context, s *session.QuizSession) error {
	if err := o.store.SaveSession(ctx, s); err != nil {
		return err
	}
	o.log.Info().Str("session_id", s.ID).Str("quiz_id", s.QuizID).
		Int("remaining", s.Remaining()).Msg("session paused")
	return nil
}

// ResumeSession loads a session that has not been completed yet.
func (o *Orchestrator) ResumeSession(ctx context.Context, id string) (*session.QuizSession, error) {
	s, err := o.store.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Done() {
		return nil, fmt.Errorf("%w: session %s is already complete", session.ErrInvalidTransition, id)
	}
	return s, nil
}

// LoadSession loads a session in any state.
func (o *Orchestrator) LoadSession(ctx context.Context, id string) (*session.QuizSession, error) {
	return o.store.LoadSession(ctx, id)
}

// Unfinished lists the sessions that can still be resumed, most recently
// played first.
func (o *Orchestrator) Unfinished(ctx context.Context) ([]*session.QuizSession, error) {
	sessions, err := o.store.ListSessions(ctx, "")
	if err != nil {
		return nil, err
	}
	open := lo.Filter(sessions, func(s *session.QuizSession, _ int) bool {
		return !s.Done()
	})
	slices.SortStableFunc(open, func(a, b *session.QuizSession) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return open, nil
}

// Outcome is what the player sees after a round.
type Outcome struct {
	Score     session.Score        `json:"score"`
	Stats     []bank.QuestionStats `json:"stats"`
	Aggregate session.Aggregate    `json:"aggregate"`
	Session   *session.QuizSession `json:"-"`
	Bank      *bank.QuestionBank   `json:"-"`
}

// FinishAndPersist scores a completed session, writes its question copies
// back into the bank and saves both. It can be retried after a storage
// failure without counting attempts twice.
func (o *Orchestrator) FinishAndPersist(ctx context.Context, s *session.QuizSession) (*Outcome, error) {
	score, err := o.lifecycle.Complete(s)
	if err != nil {
		return nil, err
	}
	log := o.log.With().Str("session_id", s.ID).Str("quiz_id", s.QuizID).Logger()

	b, err := o.store.LoadBank(ctx, s.QuizID)
	if err != nil {
		log.Error().Err(err).Msg("load bank failed")
		return nil, err
	}
	b.Replace(s.Questions, o.now())
	if err := o.store.SaveBank(ctx, b); err != nil {
		log.Error().Err(err).Msg("save bank failed")
		return nil, err
	}
	if err := o.store.SaveSession(ctx, s); err != nil {
		log.Error().Err(err).Msg("save session failed")
		return nil, err
	}
	o.history.Add(s)
	log.Info().Int("correct", score.Correct).Int("count", score.Total).Msg("session completed")

	stats := make([]bank.QuestionStats, len(s.Questions))
	for i, q := range s.Questions {
		stats[i] = bank.Statistics(b.Questions[q.ID])
	}
	return &Outcome{
		Score:     score,
		Stats:     stats,
		Aggregate: o.history.Aggregate(),
		Session:   s,
		Bank:      b,
	}, nil
}

// ListTopics lists every stored bank, most recently updated first.
func (o *Orchestrator) ListTopics(ctx context.Context) ([]bank.Summary, error) {
	return o.store.ListBanks(ctx)
}

// LoadTopic loads a bank by id, falling back to a title or slug match.
func (o *Orchestrator) LoadTopic(ctx context.Context, idOrTopic string) (*bank.QuestionBank, error) {
	b, err := o.store.LoadBank(ctx, idOrTopic)
	if errors.Is(err, store.ErrNotFound) {
		return o.ResolveTopic(ctx, idOrTopic)
	}
	return b, err
}

// DeleteTopic removes a bank and its sessions.
func (o *Orchestrator) DeleteTopic(ctx context.Context, id string) error {
	if err := o.store.DeleteBank(ctx, id); err != nil {
		return err
	}
	o.log.Info().Str("quiz_id", id).Msg("topic deleted")
	return nil
}

// StoredHistory aggregates the persisted sessions of one bank, or of all
// banks when quizID is empty.
func (o *Orchestrator) StoredHistory(ctx context.Context, quizID string) (session.Aggregate, error) {
	sessions, err := o.store.ListSessions(ctx, quizID)
	if err != nil {
		return session.Aggregate{}, err
	}
	return session.AggregateHistory(sessions), nil
}

// Report describes a bank and how each of its questions has gone.
type Report struct {
	Summary bank.Summary         `json:"summary"`
	Stats   []bank.QuestionStats `json:"stats"`
	Weakest *bank.QuestionStats  `json:"weakest,omitempty"`
}

// BankReport builds the report for a bank.
func (o *Orchestrator) BankReport(ctx context.Context, idOrTopic string) (*Report, error) {
	b, err := o.LoadTopic(ctx, idOrTopic)
	if err != nil {
		return nil, err
	}
	r := &Report{Summary: b.Summary(), Stats: bank.BankStatistics(b)}
	if q, ok := bank.Weakest(b); ok {
		st := bank.Statistics(q)
		r.Weakest = &st
	}
	return r, nil
}

// Import merges a parsed topic file into the matching bank, or a new one,
// as a new tranche and saves it.
func (o *Orchestrator) Import(ctx context.Context, tf *questiongen.TopicFile, difficulty bank.Difficulty) (*bank.MergeResult, error) {
	topic := tf.Set.Title
	b, err := o.ResolveTopic(ctx, topic)
	switch {
	case errors.Is(err, store.ErrNotFound):
		b = bank.New(o.newID(), topic, o.now())
	case err != nil:
		return nil, err
	}
	if difficulty == "" {
		difficulty = tf.Difficulty
	}
	res, err := o.merger.Merge(b, tf.Set, bank.MergeOptions{Topic: topic, Difficulty: difficulty})
	if err != nil {
		return nil, err
	}
	if err := o.store.SaveBank(ctx, res.Bank); err != nil {
		return nil, err
	}
	o.log.Info().Str("topic", topic).Str("quiz_id", res.Bank.ID).Int("count", len(res.Added)).Msg("topic imported")
	return res, nil
}
