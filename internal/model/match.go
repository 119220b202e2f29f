package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// MatchCode is the short shareable identifier of a match
type MatchCode string

// MatchStatus represents the current phase of a match
type MatchStatus string

const (
	MatchStatusWaiting  MatchStatus = "waiting"  // Fewer than two players
	MatchStatusPlaying  MatchStatus = "playing"  // Two players, moves accepted
	MatchStatusFinished MatchStatus = "finished" // Terminal, board and scores frozen
)

// Mode selects the termination rule, fixed at creation
type Mode string

const (
	ModeSimple  Mode = "simple"  // First score wins
	ModeGeneral Mode = "general" // Highest score once the board is full
)

// ParseMode accepts "simple" or "general"; empty input means general
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeGeneral:
		return ModeGeneral, nil
	case ModeSimple:
		return ModeSimple, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// MaxPlayers is the roster limit of every match
const MaxPlayers = 2

// Winner is the result of a finished match: either a tie or a player
type Winner struct {
	Tie      bool
	PlayerID PlayerID
}

// WinnerPlayer declares id the winner
func WinnerPlayer(id PlayerID) *Winner {
	return &Winner{PlayerID: id}
}

// WinnerTie declares a tie
func WinnerTie() *Winner {
	return &Winner{Tie: true}
}

// Match is one game instance and its full state
type Match struct {
	Code    MatchCode
	Mode    Mode
	Status  MatchStatus
	Players []Player
	Board   Board

	// TurnIndex points into Players and is only meaningful with two players
	TurnIndex int

	// Winner is set iff Status is finished
	Winner *Winner

	// LastScored holds the triples completed by the latest move
	LastScored []Triple

	// RematchVotes is a set of player ids, kept in vote order
	RematchVotes []PlayerID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlayerIndex returns the roster index of id, or -1
func (m *Match) PlayerIndex(id PlayerID) int {
	return slices.IndexFunc(m.Players, func(p Player) bool { return p.ID == id })
}

// HasPlayer reports whether id is on the roster
func (m *Match) HasPlayer(id PlayerID) bool {
	return m.PlayerIndex(id) >= 0
}

// GetPlayer returns a pointer into the roster, or nil
func (m *Match) GetPlayer(id PlayerID) *Player {
	idx := m.PlayerIndex(id)
	if idx < 0 {
		return nil
	}
	return &m.Players[idx]
}

// CurrentPlayer returns the player to move, or nil unless the roster is full
func (m *Match) CurrentPlayer() *Player {
	if len(m.Players) != MaxPlayers || m.TurnIndex < 0 || m.TurnIndex >= len(m.Players) {
		return nil
	}
	return &m.Players[m.TurnIndex]
}

// IsFull reports whether the roster has no free seat
func (m *Match) IsFull() bool {
	return len(m.Players) >= MaxPlayers
}

// IsFinished reports whether the match reached its terminal state
func (m *Match) IsFinished() bool {
	return m.Status == MatchStatusFinished
}

// HasVoted reports whether id has asked for a rematch
func (m *Match) HasVoted(id PlayerID) bool {
	return slices.Contains(m.RematchVotes, id)
}

// Opponents returns every player other than id
func (m *Match) Opponents(id PlayerID) []PlayerID {
	var ids []PlayerID
	for _, p := range m.Players {
		if p.ID != id {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// PlayerIDs returns the roster ids in seat order
func (m *Match) PlayerIDs() []PlayerID {
	ids := make([]PlayerID, len(m.Players))
	for i, p := range m.Players {
		ids[i] = p.ID
	}
	return ids
}

// Clone returns a copy that shares no mutable state with m.
// Written cells are immutable so their pointers are shared.
func (m *Match) Clone() *Match {
	c := *m
	c.Players = slices.Clone(m.Players)
	c.LastScored = slices.Clone(m.LastScored)
	c.RematchVotes = slices.Clone(m.RematchVotes)
	if m.Winner != nil {
		w := *m.Winner
		c.Winner = &w
	}
	return &c
}
