package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcoot/sosgame/internal/api/response"
	"github.com/mcoot/sosgame/internal/model"
	"github.com/mcoot/sosgame/internal/transport/ws"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	// Frames stream one per line so they stay greppable
	if _, ok := data.(ws.Outbound); ok {
		_ = json.NewEncoder(o.w).Encode(data)
		return
	}
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		o.printHealth(v)
	case response.MatchList:
		o.printMatchList(v)
	case response.Match:
		o.printMatch(v)
	case ws.Outbound:
		o.printFrame(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printHealth(h response.Health) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	if h.Storage != "" {
		fmt.Fprintf(o.w, "Storage: %s\n", h.Storage)
	}
}

func (o *Output) printMatchList(l response.MatchList) {
	if len(l.Matches) == 0 {
		fmt.Fprintln(o.w, "No matches")
		return
	}
	for _, m := range l.Matches {
		fmt.Fprintf(o.w, "%s  %-8s %-8s %s\n", m.Code, m.Status, m.Mode, strings.Join(m.Players, ", "))
	}
}

func (o *Output) printMatch(m response.Match) {
	fmt.Fprintf(o.w, "Match: %s (%s)\n", m.Code, m.Mode)
	fmt.Fprintf(o.w, "Status: %s\n", m.Status)
	for _, p := range m.Players {
		marker := ""
		if p.ID == m.Turn {
			marker = " <- to move"
		}
		fmt.Fprintf(o.w, "  %s: %d%s\n", p.Name, p.Score, marker)
	}
	fmt.Fprintln(o.w)
	o.printBoard(m)

	if m.Winner != nil {
		fmt.Fprintf(o.w, "\nResult: %s\n", describeWinner(m))
	}
}

func (o *Output) printBoard(m response.Match) {
	scored := make(map[response.Position]bool)
	for _, t := range m.LastScored {
		for _, p := range t {
			scored[p] = true
		}
	}

	// Print column headers
	fmt.Fprint(o.w, "    ")
	for col := 0; col < model.BoardSize; col++ {
		fmt.Fprintf(o.w, " %d ", col)
	}
	fmt.Fprintln(o.w)

	border := "   +" + strings.Repeat("---", model.BoardSize) + "+"
	fmt.Fprintln(o.w, border)

	for row := 0; row < model.BoardSize; row++ {
		fmt.Fprintf(o.w, " %d |", row)
		for col := 0; col < model.BoardSize; col++ {
			cell := m.Board[row][col]
			switch {
			case cell == nil:
				fmt.Fprint(o.w, " . ")
			case scored[response.Position{Row: row, Col: col}]:
				fmt.Fprintf(o.w, "[%s]", cell.Letter)
			default:
				fmt.Fprintf(o.w, " %s ", cell.Letter)
			}
		}
		fmt.Fprintln(o.w, "|")
	}

	fmt.Fprintln(o.w, border)
}

func (o *Output) printFrame(f ws.Outbound) {
	switch model.EventType(f.Type) {
	case model.EventWelcome:
		fmt.Fprintf(o.w, "Connected as %s\n", f.PlayerID)
	case model.EventGameCreated:
		fmt.Fprintf(o.w, "Match created: %s\n", f.Match.Code)
		fmt.Fprintln(o.w, "Waiting for an opponent to join.")
	case model.EventGameJoined:
		fmt.Fprintf(o.w, "Joined match %s\n", f.Match.Code)
	case model.EventGameUpdated:
		o.printMatch(*f.Match)
	case model.EventGameOver:
		fmt.Fprintf(o.w, "Game over: %s\n", describeWinner(*f.Match))
		fmt.Fprintln(o.w, "Type 'rematch' to play again.")
	case model.EventRematchOffered:
		fmt.Fprintf(o.w, "%s wants a rematch. Type 'rematch' to accept.\n", f.PlayerName)
	case model.EventRematchStarting:
		fmt.Fprintf(o.w, "Rematch starting: %s\n", f.Match.Code)
		o.printMatch(*f.Match)
	case model.EventPlayerLeft:
		fmt.Fprintln(o.w, "Your opponent left the match.")
		if f.Match != nil && f.Match.Winner != nil {
			fmt.Fprintf(o.w, "Result: %s\n", describeWinner(*f.Match))
		}
	case model.EventError:
		if f.Error != nil {
			fmt.Fprintf(o.w, "Error: %s (%s)\n", f.Error.Message, f.Error.Code)
		}
	default:
		o.printJSON(f)
	}
}

func describeWinner(m response.Match) string {
	if m.Winner == nil {
		return "in progress"
	}
	if m.Winner.Kind == response.WinnerKindTie {
		return "tie"
	}
	for _, p := range m.Players {
		if p.ID == m.Winner.PlayerID {
			return p.Name + " wins"
		}
	}
	return m.Winner.PlayerID + " wins"
}
