package model

// PlayerID is the session identifier of a connected player
type PlayerID string

// Player is a participant in one match
type Player struct {
	ID    PlayerID
	Name  string
	Score int
}
