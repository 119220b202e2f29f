package scoring

import (
	"github.com/mcoot/sosgame/internal/model"
)

// directions lists the 8 compass steps. The second half mirrors the first,
// index i+4 being the opposite of index i.
var directions = [8][2]int{
	{0, 1}, {1, 0}, {1, 1}, {1, -1},
	{0, -1}, {-1, 0}, {-1, -1}, {-1, 1},
}

// Result is what a single placement completed
type Result struct {
	Count   int
	Triples []model.Triple
}

// Scored reports whether the placement completed at least one sequence
func (r Result) Scored() bool {
	return r.Count > 0
}

// Service detects SOS sequences and decides winners
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// Detect finds the sequences completed by the letter just written at pos.
// Only sequences through pos are considered, so nothing that existed before
// the move is counted again.
func (s *Service) Detect(board *model.Board, pos model.Position, letter model.Letter) Result {
	switch letter {
	case model.LetterS:
		return detectFromEnd(board, pos)
	case model.LetterO:
		return detectFromMiddle(board, pos)
	default:
		return Result{}
	}
}

// detectFromEnd treats pos as the first S and looks outward in every direction
func detectFromEnd(board *model.Board, pos model.Position) Result {
	var result Result
	for _, d := range directions {
		mid := pos.Step(d[0], d[1], 1)
		end := pos.Step(d[0], d[1], 2)
		if board.LetterAt(mid) == model.LetterO && board.LetterAt(end) == model.LetterS {
			result.Triples = append(result.Triples, model.Triple{pos, mid, end})
			result.Count++
		}
	}
	return result
}

// detectFromMiddle treats pos as the O. Each axis is seen twice across the
// 8 directions, so the raw count is halved and only the first sighting of
// each axis is kept as a triple.
func detectFromMiddle(board *model.Board, pos model.Position) Result {
	var result Result
	raw := 0
	for i, d := range directions {
		before := pos.Step(d[0], d[1], -1)
		after := pos.Step(d[0], d[1], 1)
		if board.LetterAt(before) != model.LetterS || board.LetterAt(after) != model.LetterS {
			continue
		}
		raw++
		if i < len(directions)/2 {
			result.Triples = append(result.Triples, model.Triple{before, pos, after})
		}
	}
	result.Count = raw / 2
	return result
}

// DetermineWinner compares scores of a two player roster.
// Returns a tie on equal scores.
func (s *Service) DetermineWinner(players []model.Player) *model.Winner {
	switch {
	case len(players) == 0:
		return model.WinnerTie()
	case len(players) == 1:
		return model.WinnerPlayer(players[0].ID)
	}

	best := players[0]
	tied := false
	for _, p := range players[1:] {
		switch {
		case p.Score > best.Score:
			best = p
			tied = false
		case p.Score == best.Score:
			tied = true
		}
	}
	if tied {
		return model.WinnerTie()
	}
	return model.WinnerPlayer(best.ID)
}

// ServiceInterface is the scoring contract used by the match service
type ServiceInterface interface {
	Detect(board *model.Board, pos model.Position, letter model.Letter) Result
	DetermineWinner(players []model.Player) *model.Winner
}

var _ ServiceInterface = (*Service)(nil)
