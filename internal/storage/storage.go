package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"img-hist/internal/model"
)

var ErrNotFound = errors.New("render not found")

// Store persists render records in a JSON state file and the rendered PNGs
// in a renders/ directory beside it. Only the newest limit renders are kept.
type Store struct {
	path   string
	images string
	limit  int
	mu     sync.RWMutex
	state  model.StoredState
}

func NewStore(path string, limit int) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}
	if limit <= 0 {
		return nil, errors.New("store limit must be > 0")
	}
	images := filepath.Join(filepath.Dir(path), "renders")
	if err := os.MkdirAll(images, 0o755); err != nil {
		return nil, err
	}
	s := &Store{path: path, images: images, limit: limit}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.state = defaultState()
			return s.saveLocked()
		}
		return err
	}
	if len(b) == 0 {
		s.state = defaultState()
		return s.saveLocked()
	}

	var state model.StoredState
	if err := json.Unmarshal(b, &state); err != nil {
		return err
	}
	if state.Renders == nil {
		state.Renders = []model.Render{}
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now().UTC()
	}
	s.state = state
	return nil
}

func defaultState() model.StoredState {
	return model.StoredState{
		Renders:   []model.Render{},
		CreatedAt: time.Now().UTC(),
	}
}

func (s *Store) saveLocked() error {
	s.state.LastUpdatedUnixMS = time.Now().UnixMilli()
	b, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

func (s *Store) imagePath(id string) string {
	return filepath.Join(s.images, id+".png")
}

// AddRender writes png and appends r, evicting the oldest renders beyond
// the limit. Nothing changes unless the state file is saved.
func (s *Store) AddRender(r model.Render, png []byte) error {
	if r.ID == "" {
		return errors.New("render id is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.imagePath(r.ID), png, 0o600); err != nil {
		return err
	}
	prev := s.state.Renders
	next := append(append([]model.Render(nil), prev...), r)
	var evicted []model.Render
	if n := len(next) - s.limit; n > 0 {
		evicted, next = next[:n], next[n:]
	}
	s.state.Renders = next
	if err := s.saveLocked(); err != nil {
		s.state.Renders = prev
		_ = os.Remove(s.imagePath(r.ID))
		return err
	}
	for _, old := range evicted {
		_ = os.Remove(s.imagePath(old.ID))
	}
	return nil
}

// ListRenders returns records oldest first, without their bins.
func (s *Store) ListRenders() []model.Render {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Render, len(s.state.Renders))
	for i, r := range s.state.Renders {
		r.Bins = nil
		out[i] = r
	}
	return out
}

func (s *Store) GetRender(id string) *model.Render {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.state.Renders {
		if r.ID == id {
			cp := r
			cp.Bins = append([]int(nil), r.Bins...)
			return &cp
		}
	}
	return nil
}

func (s *Store) LatestRender() *model.Render {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.state.Renders) == 0 {
		return nil
	}
	r := s.state.Renders[len(s.state.Renders)-1]
	r.Bins = nil
	return &r
}

func (s *Store) ReadImage(id string) ([]byte, error) {
	if s.GetRender(id) == nil {
		return nil, ErrNotFound
	}
	b, err := os.ReadFile(s.imagePath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return b, err
}
