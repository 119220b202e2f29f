package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/sosgame/internal/dependencies/clock"
	"github.com/mcoot/sosgame/internal/model"
)

// Handler applies an intent and returns who should hear about it
type Handler interface {
	Handle(ctx context.Context, intent model.Intent) []model.Notification
}

type inboundMessage struct {
	client *Client
	data   []byte
}

// Hub owns every live connection. A single goroutine (Run) registers and
// unregisters clients, hands inbound frames to the handler and routes the
// resulting notifications, so intents are processed one at a time.
type Hub struct {
	handler Handler
	clock   clock.Clock
	logger  *slog.Logger

	clients map[model.PlayerID]*Client
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundMessage
	done       chan struct{}
}

// NewHub creates a new Hub
func NewHub(handler Handler, clock clock.Clock, logger *slog.Logger) *Hub {
	return &Hub{
		handler:    handler,
		clock:      clock,
		logger:     logger.With(slog.String("component", "ws")),
		clients:    make(map[model.PlayerID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundMessage, 64),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("ws hub started")
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("ws client registered",
				slog.String("player_id", string(client.id)),
				slog.Int("total_clients", count))
			h.deliver(model.Notification{
				To:    []model.PlayerID{client.id},
				Event: model.Event{Type: model.EventWelcome, Timestamp: h.clock.Now(), PlayerID: client.id},
			})

		case client := <-h.unregister:
			if !h.remove(client) {
				continue
			}
			h.logger.Info("ws client unregistered",
				slog.String("player_id", string(client.id)),
				slog.Duration("connection_duration", h.clock.Since(client.connectedAt)))
			h.dispatch(ctx, model.DisconnectIntent{PlayerID: client.id})

		case msg := <-h.inbound:
			h.mu.RLock()
			current := h.clients[msg.client.id] == msg.client
			h.mu.RUnlock()
			if !current {
				continue
			}
			intent, err := Decode(msg.client.id, msg.data)
			if err != nil {
				h.deliver(model.Notification{
					To:    []model.PlayerID{msg.client.id},
					Event: model.Event{Type: model.EventError, Timestamp: h.clock.Now(), Err: err},
				})
				continue
			}
			h.dispatch(ctx, intent)

		case <-ctx.Done():
			h.mu.Lock()
			count := len(h.clients)
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", count))
			return
		}
	}
}

func (h *Hub) remove(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.id] != client {
		return false
	}
	delete(h.clients, client.id)
	close(client.send)
	return true
}

func (h *Hub) dispatch(ctx context.Context, intent model.Intent) {
	for _, n := range h.handler.Handle(ctx, intent) {
		h.deliver(n)
	}
}

// deliver never blocks: a client whose queue is full misses the message
func (h *Hub) deliver(n model.Notification) {
	out := Encode(n.Event)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range n.To {
		client, ok := h.clients[id]
		if !ok {
			continue
		}
		select {
		case client.send <- out:
		default:
			h.logger.Warn("ws message dropped - client buffer full",
				slog.String("player_id", string(id)),
				slog.String("type", out.Type))
		}
	}
}

// Register adds a client. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and raises its disconnect
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Inbound queues a raw frame from client. It reports false once the hub has
// stopped.
func (h *Hub) Inbound(client *Client, data []byte) bool {
	select {
	case h.inbound <- inboundMessage{client: client, data: data}:
		return true
	case <-h.done:
		return false
	}
}

// Done is closed when Run returns
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
