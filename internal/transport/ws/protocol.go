package ws

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcoot/sosgame/internal/api/apierr"
	"github.com/mcoot/sosgame/internal/api/response"
	"github.com/mcoot/sosgame/internal/model"
)

// Inbound message types
const (
	TypeCreate  = "create"
	TypeJoin    = "join"
	TypeMove    = "move"
	TypeRematch = "rematch"
)

// Inbound is a frame sent by a client
type Inbound struct {
	Type       string `json:"type"`
	PlayerName string `json:"player_name,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Code       string `json:"code,omitempty"`
	Row        *int   `json:"row,omitempty"`
	Col        *int   `json:"col,omitempty"`
	Letter     string `json:"letter,omitempty"`
}

// Outbound is a frame sent to a client
type Outbound struct {
	Type       string           `json:"type"`
	Match      *response.Match  `json:"match,omitempty"`
	PlayerID   string           `json:"player_id,omitempty"`
	PlayerName string           `json:"player_name,omitempty"`
	Error      *apierr.APIError `json:"error,omitempty"`
}

// Decode parses a raw frame from the given session into an intent
func Decode(sender model.PlayerID, data []byte) (model.Intent, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: malformed message", model.ErrInvalidIntent)
	}
	return in.Intent(sender)
}

// Intent validates the frame and converts it
func (in Inbound) Intent(sender model.PlayerID) (model.Intent, error) {
	switch in.Type {
	case TypeCreate:
		name, err := playerName(in.PlayerName)
		if err != nil {
			return nil, err
		}
		mode, err := model.ParseMode(in.Mode)
		if err != nil {
			return nil, err
		}
		return model.CreateIntent{PlayerID: sender, PlayerName: name, Mode: mode}, nil

	case TypeJoin:
		name, err := playerName(in.PlayerName)
		if err != nil {
			return nil, err
		}
		code, err := matchCode(in.Code)
		if err != nil {
			return nil, err
		}
		return model.JoinIntent{PlayerID: sender, Code: code, PlayerName: name}, nil

	case TypeMove:
		code, err := matchCode(in.Code)
		if err != nil {
			return nil, err
		}
		if in.Row == nil || in.Col == nil {
			return nil, fmt.Errorf("%w: row and col are required", model.ErrInvalidMove)
		}
		pos := model.Position{Row: *in.Row, Col: *in.Col}
		if !pos.Valid() {
			return nil, fmt.Errorf("%w: position (%d,%d) is off the board", model.ErrInvalidMove, pos.Row, pos.Col)
		}
		letter, err := model.ParseLetter(in.Letter)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrInvalidMove, err)
		}
		return model.MoveIntent{PlayerID: sender, Code: code, Position: pos, Letter: letter}, nil

	case TypeRematch:
		code, err := matchCode(in.Code)
		if err != nil {
			return nil, err
		}
		return model.RematchIntent{PlayerID: sender, Code: code}, nil

	default:
		return nil, fmt.Errorf("%w: unknown message type %q", model.ErrInvalidIntent, in.Type)
	}
}

func playerName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: player_name is required", model.ErrInvalidIntent)
	}
	return name, nil
}

func matchCode(raw string) (model.MatchCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", fmt.Errorf("%w: code is required", model.ErrInvalidIntent)
	}
	return model.MatchCode(code), nil
}

// Encode converts an event into its wire frame
func Encode(ev model.Event) Outbound {
	out := Outbound{
		Type:       string(ev.Type),
		PlayerID:   string(ev.PlayerID),
		PlayerName: ev.PlayerName,
	}
	if ev.Match != nil {
		snapshot := response.MatchFromModel(ev.Match)
		out.Match = &snapshot
	}
	if ev.Type == model.EventError {
		apiErr := apierr.FromError(ev.Err)
		if ev.Message != "" {
			apiErr.Message = ev.Message
		}
		out.Error = &apiErr
	}
	return out
}
