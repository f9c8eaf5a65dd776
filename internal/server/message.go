package server

import (
	"encoding/json"
	"time"

	"github.com/lox/acpc/game"
	"github.com/lox/acpc/poker"
)

// MessageType identifies the payload carried by a Message.
type MessageType string

const (
	MessageTypeJoin           MessageType = "join"
	MessageTypeSeated         MessageType = "seated"
	MessageTypeHandStart      MessageType = "hand_start"
	MessageTypeActionRequired MessageType = "action_required"
	MessageTypeAction         MessageType = "action"
	MessageTypePlayerAction   MessageType = "player_action"
	MessageTypeRound          MessageType = "round"
	MessageTypeHandEnd        MessageType = "hand_end"
	MessageTypeMatchEnd       MessageType = "match_end"
	MessageTypeTimeout        MessageType = "timeout"
	MessageTypeError          MessageType = "error"
)

// Message is the envelope for every frame on the wire.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server

type JoinData struct {
	Name string `json:"name"`
	Seat *int   `json:"seat,omitempty"` // requested seat, first free when absent
}

type ActionData struct {
	Action string `json:"action"` // fold, call or raise
	Size   int    `json:"size,omitempty"`
}

// Server → Client

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SeatedData struct {
	Seat       int    `json:"seat"`
	NumPlayers int    `json:"numPlayers"`
	Betting    string `json:"betting"`
	Hands      int    `json:"hands"`
}

type HandStartData struct {
	HandID    uint32   `json:"handId"`
	Seat      int      `json:"seat"`
	HoleCards []string `json:"holeCards"`
	Blinds    []int    `json:"blinds"`
}

type RaiseBoundsData struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type ActionRequiredData struct {
	HandID         uint32           `json:"handId"`
	Seat           int              `json:"seat"`
	CanFold        bool             `json:"canFold"`
	RaiseBounds    *RaiseBoundsData `json:"raiseBounds,omitempty"`
	Pot            int              `json:"pot"`
	MaxSpent       int              `json:"maxSpent"`
	Board          []string         `json:"board"`
	TimeoutSeconds int              `json:"timeoutSeconds"`
}

type PlayerActionData struct {
	HandID uint32 `json:"handId"`
	Seat   int    `json:"seat"`
	Action string `json:"action"`
	Size   int    `json:"size,omitempty"`
	Pot    int    `json:"pot"`
}

type RoundData struct {
	HandID uint32   `json:"handId"`
	Round  int      `json:"round"`
	Board  []string `json:"board"`
}

type HandEndData struct {
	HandID    uint32     `json:"handId"`
	Board     []string   `json:"board"`
	HoleCards [][]string `json:"holeCards"` // nil entries stay hidden
	Values    []float64  `json:"values"`
}

type MatchEndData struct {
	Hands  int       `json:"hands"`
	Totals []float64 `json:"totals"`
}

type TimeoutData struct {
	HandID uint32 `json:"handId"`
	Seat   int    `json:"seat"`
	Action string `json:"action"` // the action substituted for the seat
}

func cardStrings(cards []poker.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func parseAction(data ActionData) (game.Action, error) {
	switch data.Action {
	case "fold":
		return game.FoldAction(), nil
	case "call":
		return game.CallAction(), nil
	case "raise":
		return game.RaiseTo(data.Size), nil
	default:
		return game.Action{Type: game.Invalid}, &UnknownActionError{Name: data.Action}
	}
}

// UnknownActionError reports an action name the protocol does not define.
type UnknownActionError struct {
	Name string
}

func (e *UnknownActionError) Error() string {
	return "unknown action " + e.Name
}
