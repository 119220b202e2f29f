package match

import (
	"github.com/mcoot/sosgame/internal/model"
	"github.com/mcoot/sosgame/internal/services/scoring"
)

// KeepsTurn is the chaining rule: a player who completes a sequence moves again
func KeepsTurn(completed int) bool {
	return completed > 0
}

// NextTurn applies the turn-advance rule to the current turn index
func NextTurn(turnIndex, completed, playerCount int) int {
	if KeepsTurn(completed) || playerCount == 0 {
		return turnIndex
	}
	return (turnIndex + 1) % playerCount
}

// SimpleModeOutcome ends the match on the first move that scores, with the
// mover as winner. Returns nil while the match continues.
func SimpleModeOutcome(mover model.PlayerID, completed int) *model.Winner {
	if completed > 0 {
		return model.WinnerPlayer(mover)
	}
	return nil
}

// GeneralModeOutcome ends the match only once the board is full, the higher
// score winning. Returns nil while the match continues.
func GeneralModeOutcome(scorer scoring.ServiceInterface, board *model.Board, players []model.Player) *model.Winner {
	if !board.IsFull() {
		return nil
	}
	return scorer.DetermineWinner(players)
}

// DepartureOutcome is the forced result when a player leaves an unfinished
// match: the last player standing wins, an empty roster is a tie.
func DepartureOutcome(remaining []model.Player) *model.Winner {
	if len(remaining) == 1 {
		return model.WinnerPlayer(remaining[0].ID)
	}
	return model.WinnerTie()
}
