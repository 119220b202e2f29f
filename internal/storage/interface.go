package storage

import (
	"cmp"
	"context"
	"slices"

	"github.com/mcoot/sosgame/internal/model"
)

// Storage defines the interface for match persistence
type Storage interface {
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, code model.MatchCode) (*model.Match, error)
	DeleteMatch(ctx context.Context, code model.MatchCode) error
	MatchExists(ctx context.Context, code model.MatchCode) (bool, error)

	// ListMatches returns every stored match, oldest first
	ListMatches(ctx context.Context) ([]*model.Match, error)

	// ListMatchesForPlayer returns the matches whose roster includes id
	ListMatchesForPlayer(ctx context.Context, id model.PlayerID) ([]*model.Match, error)
}

// SortOldestFirst orders matches by creation time, then code
func SortOldestFirst(matches []*model.Match) {
	slices.SortFunc(matches, func(a, b *model.Match) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
}
