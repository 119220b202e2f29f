package model

// Intent is a validated player action. The set of implementations is closed.
type Intent interface {
	Sender() PlayerID
	isIntent()
}

// CreateIntent opens a new match with the sender seated first
type CreateIntent struct {
	PlayerID   PlayerID
	PlayerName string
	Mode       Mode
}

// JoinIntent takes the second seat of an existing match
type JoinIntent struct {
	PlayerID   PlayerID
	Code       MatchCode
	PlayerName string
}

// MoveIntent places a letter
type MoveIntent struct {
	PlayerID PlayerID
	Code     MatchCode
	Position Position
	Letter   Letter
}

// RematchIntent votes for a fresh match with the same opponent
type RematchIntent struct {
	PlayerID PlayerID
	Code     MatchCode
}

// DisconnectIntent is raised by the transport when a session ends
type DisconnectIntent struct {
	PlayerID PlayerID
}

func (i CreateIntent) Sender() PlayerID     { return i.PlayerID }
func (i JoinIntent) Sender() PlayerID       { return i.PlayerID }
func (i MoveIntent) Sender() PlayerID       { return i.PlayerID }
func (i RematchIntent) Sender() PlayerID    { return i.PlayerID }
func (i DisconnectIntent) Sender() PlayerID { return i.PlayerID }

func (CreateIntent) isIntent()     {}
func (JoinIntent) isIntent()       {}
func (MoveIntent) isIntent()       {}
func (RematchIntent) isIntent()    {}
func (DisconnectIntent) isIntent() {}
