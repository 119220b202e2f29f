package match

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/sosgame/internal/dependencies/clock"
	"github.com/mcoot/sosgame/internal/model"
	"github.com/mcoot/sosgame/internal/services/board"
	"github.com/mcoot/sosgame/internal/services/scoring"
)

// Service runs the match state machine. It mutates the Match it is handed and
// never persists anything; the registry owns storage and serialisation.
type Service struct {
	boardService   board.ServiceInterface
	scoringService scoring.ServiceInterface
	clock          clock.Clock
	logger         *slog.Logger
}

// NewService creates a new match Service
func NewService(
	boardService board.ServiceInterface,
	scoringService scoring.ServiceInterface,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		boardService:   boardService,
		scoringService: scoringService,
		clock:          clock,
		logger:         logger,
	}
}

// NewMatch creates a waiting match with the creator in the first seat
func (s *Service) NewMatch(code model.MatchCode, creator model.Player, mode model.Mode) *model.Match {
	now := s.clock.Now()
	creator.Score = 0
	return &model.Match{
		Code:      code,
		Mode:      mode,
		Status:    model.MatchStatusWaiting,
		Players:   []model.Player{creator},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddPlayer seats a second player. The match starts when the roster fills.
func (s *Service) AddPlayer(m *model.Match, id model.PlayerID, name string) error {
	if m.HasPlayer(id) {
		return model.ErrAlreadyInMatch
	}
	if m.IsFull() || m.Status != model.MatchStatusWaiting {
		return model.ErrMatchFull
	}

	m.Players = append(m.Players, model.Player{ID: id, Name: name})
	if m.IsFull() {
		m.Status = model.MatchStatusPlaying
		m.TurnIndex = 0
	}
	m.UpdatedAt = s.clock.Now()
	return nil
}

// MakeMove validates and applies a placement. A rejected move leaves m
// untouched and returns an error wrapping ErrInvalidMove.
func (s *Service) MakeMove(m *model.Match, playerID model.PlayerID, pos model.Position, letter model.Letter) (scoring.Result, error) {
	if m.Status != model.MatchStatusPlaying {
		return scoring.Result{}, fmt.Errorf("%w: match is %s", model.ErrInvalidMove, m.Status)
	}
	current := m.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return scoring.Result{}, fmt.Errorf("%w: not this player's turn", model.ErrInvalidMove)
	}
	if err := s.boardService.Place(&m.Board, pos, letter, playerID); err != nil {
		return scoring.Result{}, err
	}

	result := s.scoringService.Detect(&m.Board, pos, letter)
	current.Score += result.Count
	m.LastScored = result.Triples
	m.TurnIndex = NextTurn(m.TurnIndex, result.Count, len(m.Players))
	m.UpdatedAt = s.clock.Now()

	if winner := s.outcome(m, playerID, result.Count); winner != nil {
		s.finish(m, winner)
	}

	return result, nil
}

// outcome applies the mode's termination rule. A full board always ends the
// match, so simple mode without any score finishes as a tie.
func (s *Service) outcome(m *model.Match, mover model.PlayerID, completed int) *model.Winner {
	var winner *model.Winner
	if m.Mode == model.ModeSimple {
		winner = SimpleModeOutcome(mover, completed)
	}
	if winner == nil {
		winner = GeneralModeOutcome(s.scoringService, &m.Board, m.Players)
	}
	return winner
}

func (s *Service) finish(m *model.Match, winner *model.Winner) {
	m.Status = model.MatchStatusFinished
	m.Winner = winner

	attrs := []any{
		slog.String("match_code", string(m.Code)),
		slog.String("mode", string(m.Mode)),
		slog.Bool("tie", winner.Tie),
	}
	if !winner.Tie {
		attrs = append(attrs, slog.String("winner", string(winner.PlayerID)))
	}
	s.logger.Info("match finished", attrs...)
}

// RequestRematch records a vote. It reports true once every seated player
// has voted; the caller then replaces the match.
func (s *Service) RequestRematch(m *model.Match, playerID model.PlayerID) (bool, error) {
	if !m.HasPlayer(playerID) {
		return false, model.ErrNotInMatch
	}
	if len(m.Players) != model.MaxPlayers {
		return false, model.ErrRematchUnavailable
	}

	if !m.HasVoted(playerID) {
		m.RematchVotes = append(m.RematchVotes, playerID)
		m.UpdatedAt = s.clock.Now()
	}

	for _, p := range m.Players {
		if !m.HasVoted(p.ID) {
			return false, nil
		}
	}
	return true, nil
}

// Successor builds the replacement match for a completed rematch vote,
// keeping seat order and mode with fresh scores and board.
func (s *Service) Successor(m *model.Match, code model.MatchCode) *model.Match {
	first := m.Players[0]
	next := s.NewMatch(code, model.Player{ID: first.ID, Name: first.Name}, m.Mode)
	for _, p := range m.Players[1:] {
		// The new match is waiting with a free seat, so this cannot fail
		_ = s.AddPlayer(next, p.ID, p.Name)
	}
	return next
}

// RemovePlayer drops a departing player. An unfinished match is forced to
// finish. Returns false if the player was not seated.
func (s *Service) RemovePlayer(m *model.Match, playerID model.PlayerID) bool {
	idx := m.PlayerIndex(playerID)
	if idx < 0 {
		return false
	}

	m.Players = append(m.Players[:idx:idx], m.Players[idx+1:]...)
	m.UpdatedAt = s.clock.Now()

	if !m.IsFinished() {
		s.finish(m, DepartureOutcome(m.Players))
	}
	return true
}
