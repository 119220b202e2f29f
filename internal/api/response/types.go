package response

import (
	"time"

	"github.com/mcoot/sosgame/internal/model"
)

// Player is a seated player
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// PlayerFromModel converts a model.Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:    string(p.ID),
		Name:  p.Name,
		Score: p.Score,
	}
}

// Cell is a written square
type Cell struct {
	Letter  string `json:"letter"`
	OwnerID string `json:"owner_id"`
}

// Position is a board coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Winner is either {"kind":"player","player_id":...} or {"kind":"tie"}
type Winner struct {
	Kind     string `json:"kind"`
	PlayerID string `json:"player_id,omitempty"`
}

const (
	WinnerKindPlayer = "player"
	WinnerKindTie    = "tie"
)

// WinnerFromModel converts a model.Winner, nil while the match is running
func WinnerFromModel(w *model.Winner) *Winner {
	if w == nil {
		return nil
	}
	if w.Tie {
		return &Winner{Kind: WinnerKindTie}
	}
	return &Winner{Kind: WinnerKindPlayer, PlayerID: string(w.PlayerID)}
}

// Match is the full snapshot of a match
type Match struct {
	Code       string                                  `json:"code"`
	Status     string                                  `json:"status"`
	Mode       string                                  `json:"mode"`
	Players    []Player                                `json:"players"`
	Board      [model.BoardSize][model.BoardSize]*Cell `json:"board"`
	Turn       string                                  `json:"turn"`
	TurnIndex  int                                     `json:"turn_index"`
	Winner     *Winner                                 `json:"winner"`
	LastScored [][3]Position                           `json:"last_scored"`
	CreatedAt  time.Time                               `json:"created_at"`
}

// MatchFromModel converts a model.Match into its snapshot
func MatchFromModel(m *model.Match) Match {
	players := make([]Player, len(m.Players))
	for i, p := range m.Players {
		players[i] = PlayerFromModel(p)
	}

	var board [model.BoardSize][model.BoardSize]*Cell
	for row := 0; row < model.BoardSize; row++ {
		for col := 0; col < model.BoardSize; col++ {
			if c := m.Board.Cells[row][col]; c != nil {
				board[row][col] = &Cell{Letter: string(c.Letter), OwnerID: string(c.OwnerID)}
			}
		}
	}

	lastScored := make([][3]Position, len(m.LastScored))
	for i, t := range m.LastScored {
		for j, p := range t {
			lastScored[i][j] = Position{Row: p.Row, Col: p.Col}
		}
	}

	var turn string
	if current := m.CurrentPlayer(); current != nil && !m.IsFinished() {
		turn = string(current.ID)
	}

	return Match{
		Code:       string(m.Code),
		Status:     string(m.Status),
		Mode:       string(m.Mode),
		Players:    players,
		Board:      board,
		Turn:       turn,
		TurnIndex:  m.TurnIndex,
		Winner:     WinnerFromModel(m.Winner),
		LastScored: lastScored,
		CreatedAt:  m.CreatedAt,
	}
}

// MatchSummary is a listing entry
type MatchSummary struct {
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	Mode      string    `json:"mode"`
	Players   []string  `json:"players"`
	CreatedAt time.Time `json:"created_at"`
}

// MatchSummaryFromModel converts a model.Match into a listing entry
func MatchSummaryFromModel(m *model.Match) MatchSummary {
	names := make([]string, len(m.Players))
	for i, p := range m.Players {
		names[i] = p.Name
	}
	return MatchSummary{
		Code:      string(m.Code),
		Status:    string(m.Status),
		Mode:      string(m.Mode),
		Players:   names,
		CreatedAt: m.CreatedAt,
	}
}

// MatchList is the response of the match listing endpoint
type MatchList struct {
	Matches []MatchSummary `json:"matches"`
}

// MatchListFromModel converts a list of matches
func MatchListFromModel(matches []*model.Match) MatchList {
	summaries := make([]MatchSummary, len(matches))
	for i, m := range matches {
		summaries[i] = MatchSummaryFromModel(m)
	}
	return MatchList{Matches: summaries}
}

// Health is the health check response
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
