package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/sosgame/internal/dependencies/random"
	"github.com/mcoot/sosgame/internal/model"
	"github.com/mcoot/sosgame/internal/services/match"
	"github.com/mcoot/sosgame/internal/storage"
)

const (
	// CodeLength is the length of generated match codes
	CodeLength = 6
	// CodeAlphabet is the characters used in match codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	maxCodeAttempts = 32
)

// ErrCodesExhausted is returned when no free match code could be drawn
var ErrCodesExhausted = errors.New("could not allocate a unique match code")

// Controller owns the set of live matches. Every operation holds the
// controller lock from read to write, so actions are applied one at a time.
type Controller struct {
	mu sync.Mutex

	storage      storage.Storage
	matchService *match.Service
	random       random.Random
	logger       *slog.Logger
}

// NewController creates a new registry Controller
func NewController(
	storage storage.Storage,
	matchService *match.Service,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:      storage,
		matchService: matchService,
		random:       random,
		logger:       logger,
	}
}

// RematchResult reports the state of a rematch vote
type RematchResult struct {
	// Match is the voted-on match with the vote recorded
	Match *model.Match
	// Replacement is set once both players voted; Match has then been deleted
	Replacement *model.Match
}

// Create opens a waiting match under a fresh code
func (c *Controller) Create(ctx context.Context, playerID model.PlayerID, name string, mode model.Mode) (*model.Match, error) {
	if mode != model.ModeSimple && mode != model.ModeGeneral {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidMode, mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	code, err := c.newCode(ctx)
	if err != nil {
		return nil, err
	}

	m := c.matchService.NewMatch(code, model.Player{ID: playerID, Name: name}, mode)
	if err := c.save(ctx, m); err != nil {
		return nil, err
	}

	c.logger.Info("match created",
		slog.String("match_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.String("mode", string(mode)),
	)
	return m, nil
}

// Join seats a second player
func (c *Controller) Join(ctx context.Context, code model.MatchCode, playerID model.PlayerID, name string) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.storage.GetMatch(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := c.matchService.AddPlayer(m, playerID, name); err != nil {
		return nil, err
	}
	if err := c.save(ctx, m); err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("match_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.String("status", string(m.Status)),
	)
	return m, nil
}

// Move applies a placement. Rejected moves change nothing.
func (c *Controller) Move(ctx context.Context, code model.MatchCode, playerID model.PlayerID, pos model.Position, letter model.Letter) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.storage.GetMatch(ctx, code)
	if err != nil {
		return nil, err
	}

	result, err := c.matchService.MakeMove(m, playerID, pos, letter)
	if err != nil {
		if errors.Is(err, model.ErrIllegalMove) {
			c.logger.Error("board rejected a validated move",
				slog.String("match_code", string(code)),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}
	if err := c.save(ctx, m); err != nil {
		return nil, err
	}

	if result.Scored() {
		c.logger.Info("move scored",
			slog.String("match_code", string(code)),
			slog.String("player_id", string(playerID)),
			slog.Int("completed", result.Count),
			slog.Int("score", m.GetPlayer(playerID).Score),
		)
	}
	return m, nil
}

// Rematch records a vote. When both players have voted it creates the
// replacement match and deletes the old code in the same critical section,
// so a vote pair yields exactly one replacement.
func (c *Controller) Rematch(ctx context.Context, code model.MatchCode, playerID model.PlayerID) (*RematchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.storage.GetMatch(ctx, code)
	if err != nil {
		return nil, err
	}

	complete, err := c.matchService.RequestRematch(m, playerID)
	if err != nil {
		return nil, err
	}
	if !complete {
		if err := c.save(ctx, m); err != nil {
			return nil, err
		}
		return &RematchResult{Match: m}, nil
	}

	newCode, err := c.newCode(ctx)
	if err != nil {
		return nil, err
	}
	next := c.matchService.Successor(m, newCode)
	if err := c.save(ctx, next); err != nil {
		return nil, err
	}
	if err := c.storage.DeleteMatch(ctx, code); err != nil {
		return nil, err
	}

	c.logger.Info("rematch started",
		slog.String("old_match_code", string(code)),
		slog.String("match_code", string(newCode)),
	)
	return &RematchResult{Match: m, Replacement: next}, nil
}

// Disconnect removes a player from every match they sit in. Matches that
// were already finished, or that nobody is left in, are deleted. The rest are
// force-finished and returned so the remaining player can be told.
func (c *Controller) Disconnect(ctx context.Context, playerID model.PlayerID) ([]*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matches, err := c.storage.ListMatchesForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	var affected []*model.Match
	var errs []error
	for _, m := range matches {
		wasFinished := m.IsFinished()
		if !c.matchService.RemovePlayer(m, playerID) {
			continue
		}

		if wasFinished || len(m.Players) == 0 {
			if err := c.storage.DeleteMatch(ctx, m.Code); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		if err := c.save(ctx, m); err != nil {
			errs = append(errs, err)
			continue
		}
		affected = append(affected, m)
	}

	c.logger.Info("player disconnected",
		slog.String("player_id", string(playerID)),
		slog.Int("matches", len(matches)),
		slog.Int("notified", len(affected)),
	)
	return affected, errors.Join(errs...)
}

// Get retrieves a match by code
func (c *Controller) Get(ctx context.Context, code model.MatchCode) (*model.Match, error) {
	return c.storage.GetMatch(ctx, code)
}

// List returns every live match, oldest first
func (c *Controller) List(ctx context.Context) ([]*model.Match, error) {
	return c.storage.ListMatches(ctx)
}

// newCode draws codes until one is unused. Callers hold c.mu.
func (c *Controller) newCode(ctx context.Context) (model.MatchCode, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := model.MatchCode(c.random.String(CodeLength, CodeAlphabet))
		if code == "" {
			continue
		}
		exists, err := c.storage.MatchExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodesExhausted
}

func (c *Controller) save(ctx context.Context, m *model.Match) error {
	if err := c.storage.SaveMatch(ctx, m); err != nil {
		c.logger.Error("failed to save match",
			slog.String("match_code", string(m.Code)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
