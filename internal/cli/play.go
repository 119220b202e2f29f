package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/sosgame/internal/model"
	"github.com/mcoot/sosgame/internal/transport/ws"
)

const playHelp = `Commands:
  create [simple|general]   open a new match (default general)
  join <code>               join a waiting match
  move <row> <col> <S|O>    write a letter in the current match
  rematch                   vote to play the current pairing again
  help                      show this help
  quit                      leave`

// ErrNoCurrentMatch is returned for commands that need a match before one is open
var ErrNoCurrentMatch = errors.New("not in a match, create or join one first")

const closeGrace = time.Second

func newPlayCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play interactively over a WebSocket",
		Long: `Connect to the server's WebSocket endpoint and play from stdin.

` + playHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := cfg.WebSocketURL()
			if err != nil {
				return err
			}
			conn, err := client.Dial(cmd.Context(), wsURL)
			if err != nil {
				return err
			}

			s := &playSession{
				name: name,
				conn: conn,
				out:  NewOutput(cfg.Output, cmd.OutOrStdout()),
			}
			return s.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&name, "name", cfg.PlayerName, "Display name (env: SOS_PLAYER_NAME)")

	return cmd
}

// playSession couples a stdin command loop to one WebSocket connection.
// Only run writes to conn; readLoop only reads.
type playSession struct {
	name string
	conn *websocket.Conn

	mu   sync.Mutex
	out  *Output
	code string
}

func (s *playSession) run(ctx context.Context, in io.Reader) error {
	defer func() { _ = s.conn.Close() }()

	readerDone := make(chan error, 1)
	go func() {
		readerDone <- s.readLoop()
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return s.close(readerDone)

		case err := <-readerDone:
			return err

		case line, ok := <-lines:
			if !ok {
				return s.close(readerDone)
			}

			command := strings.ToLower(strings.TrimSpace(firstField(line)))
			switch command {
			case "":
				continue
			case "quit", "exit":
				return s.close(readerDone)
			case "help":
				s.print(func(o *Output) { o.PrintMessage(playHelp) })
				continue
			}

			msg, err := parseCommand(line, s.name, s.currentCode())
			if err != nil {
				s.print(func(o *Output) { o.PrintError(err) })
				continue
			}
			if err := s.conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("send failed: %w", err)
			}
		}
	}
}

// readLoop prints every frame until the connection closes
func (s *playSession) readLoop() error {
	for {
		var frame ws.Outbound
		if err := s.conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}

		s.mu.Lock()
		if frame.Match != nil {
			switch model.EventType(frame.Type) {
			case model.EventGameCreated, model.EventGameJoined, model.EventGameUpdated,
				model.EventGameOver, model.EventRematchStarting:
				s.code = frame.Match.Code
			}
		}
		s.out.Print(frame)
		s.mu.Unlock()
	}
}

// close sends a close frame and waits briefly for the server to answer
func (s *playSession) close(readerDone <-chan error) error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace)); err != nil {
		// Already gone
		return nil
	}
	select {
	case <-readerDone:
	case <-time.After(closeGrace):
	}
	return nil
}

func (s *playSession) currentCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

func (s *playSession) print(fn func(o *Output)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.out)
}

// parseCommand turns one line of input into a frame. Moves and rematch
// votes go to the match the session is currently in.
func parseCommand(line, name, currentCode string) (ws.Inbound, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ws.Inbound{}, errors.New("empty command")
	}

	switch strings.ToLower(fields[0]) {
	case ws.TypeCreate:
		msg := ws.Inbound{Type: ws.TypeCreate, PlayerName: name}
		if len(fields) > 2 {
			return ws.Inbound{}, errors.New("usage: create [simple|general]")
		}
		if len(fields) == 2 {
			mode, err := model.ParseMode(fields[1])
			if err != nil {
				return ws.Inbound{}, err
			}
			msg.Mode = string(mode)
		}
		return msg, nil

	case ws.TypeJoin:
		if len(fields) != 2 {
			return ws.Inbound{}, errors.New("usage: join <code>")
		}
		return ws.Inbound{Type: ws.TypeJoin, PlayerName: name, Code: strings.ToUpper(fields[1])}, nil

	case ws.TypeMove:
		if len(fields) != 4 {
			return ws.Inbound{}, errors.New("usage: move <row> <col> <S|O>")
		}
		if currentCode == "" {
			return ws.Inbound{}, ErrNoCurrentMatch
		}
		row, err := strconv.Atoi(fields[1])
		if err != nil {
			return ws.Inbound{}, fmt.Errorf("row must be a number: %q", fields[1])
		}
		col, err := strconv.Atoi(fields[2])
		if err != nil {
			return ws.Inbound{}, fmt.Errorf("col must be a number: %q", fields[2])
		}
		letter, err := model.ParseLetter(fields[3])
		if err != nil {
			return ws.Inbound{}, err
		}
		return ws.Inbound{
			Type:   ws.TypeMove,
			Code:   currentCode,
			Row:    &row,
			Col:    &col,
			Letter: string(letter),
		}, nil

	case ws.TypeRematch:
		if currentCode == "" {
			return ws.Inbound{}, ErrNoCurrentMatch
		}
		return ws.Inbound{Type: ws.TypeRematch, Code: currentCode}, nil

	default:
		return ws.Inbound{}, fmt.Errorf("unknown command %q, type 'help' for a list", fields[0])
	}
}

func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
