package memory

import (
	"context"
	"sync"

	"github.com/mcoot/sosgame/internal/model"
	"github.com/mcoot/sosgame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Matches are copied on the way in and out so callers never share state.
type Storage struct {
	mu      sync.RWMutex
	matches map[model.MatchCode]*model.Match
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		matches: make(map[model.MatchCode]*model.Match),
	}
}

var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.Code] = match.Clone()
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, code model.MatchCode) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[code]
	if !ok {
		return nil, model.ErrNotFound
	}
	return match.Clone(), nil
}

func (s *Storage) DeleteMatch(ctx context.Context, code model.MatchCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, code)
	return nil
}

func (s *Storage) MatchExists(ctx context.Context, code model.MatchCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.matches[code]
	return ok, nil
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	return s.collect(func(*model.Match) bool { return true }), nil
}

func (s *Storage) ListMatchesForPlayer(ctx context.Context, id model.PlayerID) ([]*model.Match, error) {
	return s.collect(func(m *model.Match) bool { return m.HasPlayer(id) }), nil
}

func (s *Storage) collect(keep func(*model.Match) bool) []*model.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		if keep(m) {
			result = append(result, m.Clone())
		}
	}
	storage.SortOldestFirst(result)
	return result
}
