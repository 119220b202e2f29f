package board

import (
	"fmt"

	"github.com/mcoot/sosgame/internal/model"
)

// Service validates moves against a board before any write happens
type Service struct{}

// New creates a new board Service
func New() *Service {
	return &Service{}
}

// ValidatePlacement checks that pos is on the board and still empty
func (s *Service) ValidatePlacement(board *model.Board, pos model.Position) error {
	if !pos.Valid() {
		return fmt.Errorf("%w: position (%d,%d) is off the board", model.ErrInvalidMove, pos.Row, pos.Col)
	}
	if !board.IsEmpty(pos) {
		return fmt.Errorf("%w: cell (%d,%d) is occupied", model.ErrInvalidMove, pos.Row, pos.Col)
	}
	return nil
}

// ValidateLetter checks that letter is S or O
func ValidateLetter(letter model.Letter) error {
	if !letter.Valid() {
		return fmt.Errorf("%w: %v", model.ErrInvalidMove, model.ErrInvalidLetter)
	}
	return nil
}

// Place validates and then writes the cell
func (s *Service) Place(board *model.Board, pos model.Position, letter model.Letter, owner model.PlayerID) error {
	if err := ValidateLetter(letter); err != nil {
		return err
	}
	if err := s.ValidatePlacement(board, pos); err != nil {
		return err
	}
	return board.Set(pos, letter, owner)
}

// ServiceInterface is the board contract used by the match service
type ServiceInterface interface {
	ValidatePlacement(board *model.Board, pos model.Position) error
	Place(board *model.Board, pos model.Position, letter model.Letter, owner model.PlayerID) error
}

var _ ServiceInterface = (*Service)(nil)
