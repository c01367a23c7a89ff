package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/session"
)

var (
	// ErrNotFound is returned when no bank or session has the requested id.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable wraps every failure of the underlying storage. The
	// caller's in-memory state is untouched and the same call can be
	// retried.
	ErrUnavailable = errors.New("storage unavailable")
)

// Store persists question banks and quiz sessions. Saves are upserts keyed
// by the object's ID, so repeating a save is harmless.
type Store interface {
	LoadBank(ctx context.Context, id string) (*bank.QuestionBank, error)
	SaveBank(ctx context.Context, b *bank.QuestionBank) error
	ListBanks(ctx context.Context) ([]bank.Summary, error)

	// DeleteBank removes the bank and every session played on it.
	DeleteBank(ctx context.Context, id string) error

	LoadSession(ctx context.Context, id string) (*session.QuizSession, error)
	SaveSession(ctx context.Context, s *session.QuizSession) error

	// ListSessions returns the sessions of one bank, or of every bank when
	// quizID is empty, oldest first.
	ListSessions(ctx context.Context, quizID string) ([]*session.QuizSession, error)

	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Open opens the store for backend at path: a database file for sqlite, a
// directory for file.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(path)
	case BackendFile:
		return OpenFileStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZGEN_DB environment variable
// 2. $XDG_DATA_HOME/quizgen/quizgen.db
// 3. ~/.local/share/quizgen/quizgen.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("QUIZGEN_DB"); p != "" {
		return p, ensureDir(p)
	}
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "quizgen.db")
	return p, ensureDir(p)
}

// DefaultFileDir is the directory used by the file backend when none is
// configured.
func DefaultFileDir() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "topics"), nil
}

func dataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "quizgen"), nil
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
