package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONLStore appends records to a JSON Lines file. Later lines win when
// the same ID appears twice.
type JSONLStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONLStore creates the parent directory of path if needed.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if path == "" {
		return nil, fmt.Errorf("jsonl store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &JSONLStore{path: path}, nil
}

// Path returns the file the store appends to.
func (s *JSONLStore) Path() string {
	return s.path
}

func (s *JSONLStore) Put(ctx context.Context, rec *Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open store file: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("append record: %w", err)
	}
	return f.Close()
}

func (s *JSONLStore) Get(ctx context.Context, id string) (*Record, error) {
	var found *Record
	err := s.scan(func(rec *Record) {
		if rec.ID == id {
			found = rec
		}
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (s *JSONLStore) Run(ctx context.Context, runID string) ([]*Record, error) {
	byID := map[string]*Record{}
	var ids []string
	err := s.scan(func(rec *Record) {
		if rec.RunID != runID {
			return
		}
		if _, seen := byID[rec.ID]; !seen {
			ids = append(ids, rec.ID)
		}
		byID[rec.ID] = rec
	})
	if err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	sortByIndex(out)
	return out, nil
}

func (s *JSONLStore) Close(ctx context.Context) error { return nil }

// scan decodes every line in file order. A missing file is empty.
func (s *JSONLStore) scan(fn func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return fmt.Errorf("%s:%d: %w", s.path, line, err)
		}
		fn(&rec)
	}
	return sc.Err()
}

var _ Store = (*JSONLStore)(nil)
