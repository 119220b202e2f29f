package ws

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/mcoot/sosgame/internal/dependencies/clock"
	"github.com/mcoot/sosgame/internal/dependencies/random"
	"github.com/mcoot/sosgame/internal/model"
)

// Server upgrades HTTP requests and attaches the connections to a hub
type Server struct {
	hub      *Hub
	cfg      Config
	upgrader websocket.Upgrader
	random   random.Random
	clock    clock.Clock
	logger   *slog.Logger
}

// NewServer creates a new WebSocket Server
func NewServer(hub *Hub, cfg Config, random random.Random, clock clock.Clock, logger *slog.Logger) *Server {
	s := &Server{
		hub:    hub,
		cfg:    cfg,
		random: random,
		clock:  clock,
		logger: logger.With(slog.String("component", "ws")),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(s.cfg.AllowedOrigins, origin)
}

// ServeHTTP handles GET /ws
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		s.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := model.PlayerID(s.random.ID())
	client := newClient(id, s.hub, conn, s.cfg, s.clock.Now(), s.logger)
	if !s.hub.Register(client) {
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
