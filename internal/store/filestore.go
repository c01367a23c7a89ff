package store

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/abhisek/quizgen/internal/bank"
	"github.com/abhisek/quizgen/internal/session"
)

// FileStore keeps one JSON document per bank and per session:
//
//	<dir>/banks/<id>.json
//	<dir>/sessions/<id>.json
//
// Each write goes to a temp file that is renamed over the target, so a
// reader never sees a half-written document.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

var _ Store = (*FileStore)(nil)

// OpenFileStore creates dir and its subdirectories if needed.
func OpenFileStore(dir string) (*FileStore, error) {
	for _, sub := range []string{"banks", "sessions"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, unavailable("create store dir", err)
		}
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(kind, id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid %s id %q", kind, id)
	}
	return filepath.Join(s.dir, kind, id+".json"), nil
}

func (s *FileStore) LoadBank(_ context.Context, id string) (*bank.QuestionBank, error) {
	var b bank.QuestionBank
	if err := s.read("banks", id, &b); err != nil {
		return nil, err
	}
	if b.Questions == nil {
		b.Questions = make(map[string]*bank.Question)
	}
	return &b, nil
}

func (s *FileStore) SaveBank(_ context.Context, b *bank.QuestionBank) error {
	return s.write("banks", b.ID, b)
}

func (s *FileStore) ListBanks(ctx context.Context) ([]bank.Summary, error) {
	ids, err := s.ids("banks")
	if err != nil {
		return nil, err
	}
	out := make([]bank.Summary, 0, len(ids))
	for _, id := range ids {
		b, err := s.LoadBank(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b.Summary())
	}
	slices.SortFunc(out, func(x, y bank.Summary) int {
		return y.UpdatedAt.Compare(x.UpdatedAt)
	})
	return out, nil
}

func (s *FileStore) DeleteBank(ctx context.Context, id string) error {
	p, err := s.path("banks", id)
	if err != nil {
		return err
	}
	sessions, err := s.ListSessions(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("bank %s: %w", id, ErrNotFound)
		}
		return unavailable("delete bank", err)
	}
	for _, qs := range sessions {
		sp, _ := s.path("sessions", qs.ID)
		if err := os.Remove(sp); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return unavailable("delete session", err)
		}
	}
	return nil
}

func (s *FileStore) LoadSession(_ context.Context, id string) (*session.QuizSession, error) {
	var qs session.QuizSession
	if err := s.read("sessions", id, &qs); err != nil {
		return nil, err
	}
	return &qs, nil
}

func (s *FileStore) SaveSession(_ context.Context, qs *session.QuizSession) error {
	return s.write("sessions", qs.ID, qs)
}

func (s *FileStore) ListSessions(ctx context.Context, quizID string) ([]*session.QuizSession, error) {
	ids, err := s.ids("sessions")
	if err != nil {
		return nil, err
	}
	var out []*session.QuizSession
	for _, id := range ids {
		qs, err := s.LoadSession(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if quizID == "" || qs.QuizID == quizID {
			out = append(out, qs)
		}
	}
	slices.SortFunc(out, func(x, y *session.QuizSession) int {
		return cmp.Or(x.CreatedAt.Compare(y.CreatedAt), cmp.Compare(x.ID, y.ID))
	})
	return out, nil
}

func (s *FileStore) read(kind, id string, v any) error {
	p, err := s.path(kind, id)
	if err != nil {
		return fmt.Errorf("%s %s: %w", strings.TrimSuffix(kind, "s"), id, ErrNotFound)
	}
	s.mu.Lock()
	data, err := os.ReadFile(p)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s %s: %w", strings.TrimSuffix(kind, "s"), id, ErrNotFound)
		}
		return unavailable("read "+kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return unavailable("decode "+p, err)
	}
	return nil
}

func (s *FileStore) write(kind, id string, v any) error {
	p, err := s.path(kind, id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(p), "."+id+".*.tmp")
	if err != nil {
		return unavailable("write "+kind, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return unavailable("write "+kind, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return unavailable("write "+kind, err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("write "+kind, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return unavailable("write "+kind, err)
	}
	return nil
}

func (s *FileStore) ids(kind string) ([]string, error) {
	s.mu.Lock()
	entries, err := os.ReadDir(filepath.Join(s.dir, kind))
	s.mu.Unlock()
	if err != nil {
		return nil, unavailable("list "+kind, err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
