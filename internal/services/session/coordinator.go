package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/sosgame/internal/dependencies/clock"
	"github.com/mcoot/sosgame/internal/model"
	"github.com/mcoot/sosgame/internal/services/registry"
)

// JoinFailedMessage is sent when a join is refused for a missing or full match
const JoinFailedMessage = "Game not found or is full."

// Coordinator turns intents into registry calls and decides who hears about
// the result. It holds no state of its own.
type Coordinator struct {
	registry *registry.Controller
	clock    clock.Clock
	logger   *slog.Logger
}

// NewCoordinator creates a new session Coordinator
func NewCoordinator(registry *registry.Controller, clock clock.Clock, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		registry: registry,
		clock:    clock,
		logger:   logger,
	}
}

// Handle applies one intent and returns the notifications it produced.
// Failures become a single error event addressed to the sender.
func (c *Coordinator) Handle(ctx context.Context, intent model.Intent) []model.Notification {
	switch in := intent.(type) {
	case model.CreateIntent:
		return c.create(ctx, in)
	case model.JoinIntent:
		return c.join(ctx, in)
	case model.MoveIntent:
		return c.move(ctx, in)
	case model.RematchIntent:
		return c.rematch(ctx, in)
	case model.DisconnectIntent:
		return c.disconnect(ctx, in)
	default:
		return c.fail(intent.Sender(), fmt.Errorf("%w: %T", model.ErrInvalidIntent, intent), "")
	}
}

func (c *Coordinator) create(ctx context.Context, in model.CreateIntent) []model.Notification {
	mode := in.Mode
	if mode == "" {
		mode = model.ModeGeneral
	}
	m, err := c.registry.Create(ctx, in.PlayerID, in.PlayerName, mode)
	if err != nil {
		return c.fail(in.PlayerID, err, "")
	}
	return []model.Notification{
		c.notify([]model.PlayerID{in.PlayerID}, model.EventGameCreated, m),
	}
}

func (c *Coordinator) join(ctx context.Context, in model.JoinIntent) []model.Notification {
	m, err := c.registry.Join(ctx, in.Code, in.PlayerID, in.PlayerName)
	if err != nil {
		var message string
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrMatchFull) || errors.Is(err, model.ErrAlreadyInMatch) {
			message = JoinFailedMessage
		}
		return c.fail(in.PlayerID, err, message)
	}
	return []model.Notification{
		c.notify([]model.PlayerID{in.PlayerID}, model.EventGameJoined, m),
		c.notify(m.PlayerIDs(), model.EventGameUpdated, m),
	}
}

func (c *Coordinator) move(ctx context.Context, in model.MoveIntent) []model.Notification {
	m, err := c.registry.Move(ctx, in.Code, in.PlayerID, in.Position, in.Letter)
	if err != nil {
		return c.fail(in.PlayerID, err, "")
	}
	notes := []model.Notification{
		c.notify(m.PlayerIDs(), model.EventGameUpdated, m),
	}
	if m.IsFinished() {
		notes = append(notes, c.notify(m.PlayerIDs(), model.EventGameOver, m))
	}
	return notes
}

func (c *Coordinator) rematch(ctx context.Context, in model.RematchIntent) []model.Notification {
	result, err := c.registry.Rematch(ctx, in.Code, in.PlayerID)
	if err != nil {
		return c.fail(in.PlayerID, err, "")
	}

	if result.Replacement != nil {
		next := result.Replacement
		return []model.Notification{
			c.notify(next.PlayerIDs(), model.EventRematchStarting, next),
		}
	}

	offer := c.notify(result.Match.Opponents(in.PlayerID), model.EventRematchOffered, result.Match)
	offer.Event.PlayerID = in.PlayerID
	if p := result.Match.GetPlayer(in.PlayerID); p != nil {
		offer.Event.PlayerName = p.Name
	}
	return []model.Notification{offer}
}

// disconnect never replies to the sender, whose connection is already gone
func (c *Coordinator) disconnect(ctx context.Context, in model.DisconnectIntent) []model.Notification {
	affected, err := c.registry.Disconnect(ctx, in.PlayerID)
	if err != nil {
		c.logger.Error("disconnect cleanup failed",
			slog.String("player_id", string(in.PlayerID)),
			slog.String("error", err.Error()),
		)
	}

	notes := make([]model.Notification, 0, len(affected))
	for _, m := range affected {
		n := c.notify(m.PlayerIDs(), model.EventPlayerLeft, m)
		n.Event.PlayerID = in.PlayerID
		notes = append(notes, n)
	}
	return notes
}

func (c *Coordinator) notify(to []model.PlayerID, eventType model.EventType, m *model.Match) model.Notification {
	return model.Notification{
		To: to,
		Event: model.Event{
			Type:      eventType,
			Timestamp: c.clock.Now(),
			Match:     m,
		},
	}
}

func (c *Coordinator) fail(to model.PlayerID, err error, message string) []model.Notification {
	c.logger.Debug("intent rejected",
		slog.String("player_id", string(to)),
		slog.String("error", err.Error()),
	)
	return []model.Notification{{
		To: []model.PlayerID{to},
		Event: model.Event{
			Type:      model.EventError,
			Timestamp: c.clock.Now(),
			Err:       err,
			Message:   message,
		},
	}}
}
