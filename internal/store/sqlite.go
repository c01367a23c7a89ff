package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/session"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps banks, sessions and the LLM request log in one SQLite
// database. Banks and sessions are stored as JSON documents next to the
// columns needed to list them.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at dsn. It applies
// recommended pragmas and creates missing tables.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// EventRepo returns the LLM request log kept in this database.
func (s *SQLiteStore) EventRepo() EventRepo {
	return &eventRepo{db: s.db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS banks (
			id             TEXT PRIMARY KEY,
			slug           TEXT NOT NULL,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			difficulty     TEXT NOT NULL DEFAULT '',
			grade          TEXT NOT NULL DEFAULT '',
			question_count INTEGER NOT NULL DEFAULT 0,
			tranches       INTEGER NOT NULL DEFAULT 0,
			data           TEXT NOT NULL,
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS banks_slug ON banks (slug)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			quiz_id    TEXT NOT NULL REFERENCES banks (id) ON DELETE CASCADE,
			status     TEXT NOT NULL,
			data       TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sessions_quiz_id ON sessions (quiz_id)`,
		`CREATE TABLE IF NOT EXISTS llm_request_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     TEXT NOT NULL,
			provider      TEXT NOT NULL,
			model         TEXT NOT NULL,
			purpose       TEXT NOT NULL,
			input_tokens  INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms    INTEGER NOT NULL DEFAULT 0,
			success       INTEGER NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body  TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func (s *SQLiteStore) LoadBank(ctx context.Context, id string) (*bank.QuestionBank, error) {
	query, args := builder().
		Select("data").
		From(entsql.Table("banks")).
		Where(entsql.EQ("id", id)).
		Query()

	var data string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bank %s: %w", id, ErrNotFound)
		}
		return nil, unavailable("load bank", err)
	}
	var b bank.QuestionBank
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return nil, unavailable("decode bank", err)
	}
	if b.Questions == nil {
		b.Questions = make(map[string]*bank.Question)
	}
	return &b, nil
}

func (s *SQLiteStore) SaveBank(ctx context.Context, b *bank.QuestionBank) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode bank: %w", err)
	}
	sum := b.Summary()
	query, args := builder().
		Insert("banks").
		Columns("id", "slug", "title", "description", "difficulty", "grade",
			"question_count", "tranches", "data", "created_at", "updated_at").
		Values(b.ID, b.Slug, b.Title, b.Description, string(b.Difficulty), b.Grade,
			sum.QuestionCount, sum.Tranches, string(data), formatTime(b.CreatedAt), formatTime(b.UpdatedAt)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return unavailable("save bank", err)
	}
	return nil
}

func (s *SQLiteStore) ListBanks(ctx context.Context) ([]bank.Summary, error) {
	query, args := builder().
		Select("id", "slug", "title", "description", "difficulty", "grade",
			"question_count", "tranches", "updated_at").
		From(entsql.Table("banks")).
		OrderBy(entsql.Desc("updated_at")).
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list banks", err)
	}
	defer rows.Close()

	var out []bank.Summary
	for rows.Next() {
		var sum bank.Summary
		var difficulty, updated string
		if err := rows.Scan(&sum.ID, &sum.Slug, &sum.Title, &sum.Description, &difficulty,
			&sum.Grade, &sum.QuestionCount, &sum.Tranches, &updated); err != nil {
			return nil, unavailable("scan bank", err)
		}
		sum.Difficulty = bank.Difficulty(difficulty)
		sum.UpdatedAt = parseTime(updated)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list banks", err)
	}
	return out, nil
}

func (s *SQLiteStore) DeleteBank(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("delete bank", err)
	}
	defer tx.Rollback()

	query, args := builder().Delete("sessions").Where(entsql.EQ("quiz_id", id)).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return unavailable("delete sessions", err)
	}
	query, args = builder().Delete("banks").Where(entsql.EQ("id", id)).Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return unavailable("delete bank", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("bank %s: %w", id, ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("delete bank", err)
	}
	return nil
}

func (s *SQLiteStore) LoadSession(ctx context.Context, id string) (*session.QuizSession, error) {
	query, args := builder().
		Select("data").
		From(entsql.Table("sessions")).
		Where(entsql.EQ("id", id)).
		Query()

	var data string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, unavailable("load session", err)
	}
	return decodeSession(data)
}

func (s *SQLiteStore) SaveSession(ctx context.Context, qs *session.QuizSession) error {
	data, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	query, args := builder().
		Insert("sessions").
		Columns("id", "quiz_id", "status", "data", "created_at", "updated_at").
		Values(qs.ID, qs.QuizID, string(qs.Status), string(data), formatTime(qs.CreatedAt), formatTime(qs.UpdatedAt)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return unavailable("save session", err)
	}
	return nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context, quizID string) ([]*session.QuizSession, error) {
	sel := builder().
		Select("data").
		From(entsql.Table("sessions")).
		OrderBy("created_at", "id")
	if quizID != "" {
		sel = sel.Where(entsql.EQ("quiz_id", quizID))
	}
	query, args := sel.Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list sessions", err)
	}
	defer rows.Close()

	var out []*session.QuizSession
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, unavailable("scan session", err)
		}
		qs, err := decodeSession(data)
		if err != nil {
			return nil, err
		}
		out = append(out, qs)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list sessions", err)
	}
	return out, nil
}

func decodeSession(data string) (*session.QuizSession, error) {
	var qs session.QuizSession
	if err := json.Unmarshal([]byte(data), &qs); err != nil {
		return nil, unavailable("decode session", err)
	}
	return &qs, nil
}
