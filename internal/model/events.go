package model

import "time"

// EventType identifies the type of outbound event
type EventType string

const (
	// Session events
	EventWelcome EventType = "welcome"
	EventError   EventType = "error"

	// Match events
	EventGameCreated     EventType = "game_created"
	EventGameJoined      EventType = "game_joined"
	EventGameUpdated     EventType = "game_updated"
	EventGameOver        EventType = "game_over"
	EventRematchOffered  EventType = "rematch_offered"
	EventRematchStarting EventType = "rematch_starting"
	EventPlayerLeft      EventType = "player_left"
)

// Event is a message for one or more players
type Event struct {
	Type      EventType
	Timestamp time.Time

	// Match is a snapshot taken when the event was produced
	Match *Match

	// PlayerID is the assigned session id for welcome events and the
	// requester for rematch offers
	PlayerID   PlayerID
	PlayerName string

	// Err is set on error events. Message overrides the default text.
	Err     error
	Message string
}

// Notification addresses an event to a set of players
type Notification struct {
	To    []PlayerID
	Event Event
}
