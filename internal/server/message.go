package server

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of a WebSocket message.
type MessageType string

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

const (
	// Client -> Server
	MessageTypeBegin            MessageType = "begin"
	MessageTypeSelectDifficulty MessageType = "select_difficulty"
	MessageTypeSelectTileCount  MessageType = "select_tile_count"
	MessageTypeSelectTile       MessageType = "select_tile"
	MessageTypeSubmit           MessageType = "submit"
	MessageTypeNextRound        MessageType = "next_round"
	MessageTypeGoHome           MessageType = "go_home"

	// Server -> Client
	MessageTypeState       MessageType = "state"
	MessageTypeTimerTick   MessageType = "timer_tick"
	MessageTypeRoundResult MessageType = "round_result"
	MessageTypeError       MessageType = "error"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	var dataBytes []byte
	if data != nil {
		var err error
		dataBytes, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type SelectDifficultyData struct {
	Difficulty string `json:"difficulty"`
}

type SelectTileCountData struct {
	Count int `json:"count"`
}

type SelectTileData struct {
	Index int `json:"index"`
}

// Server → Client Messages

// StateData is the session snapshot pushed to the client after every
// transition. It never carries the changed index while a round is live; the
// reveal happens via RoundResultData once the round is resolved.
type StateData struct {
	SessionID   string `json:"sessionId"`
	Phase       string `json:"phase"`
	Difficulty  string `json:"difficulty"`
	TileCount   int    `json:"tileCount"`
	TotalScore  int    `json:"totalScore"`
	Selection   *int   `json:"selection,omitempty"`
	Layout      []int  `json:"layout,omitempty"`
	Feedback    string `json:"feedback,omitempty"`
	SecondsLeft int    `json:"secondsLeft,omitempty"`
}

type TimerTickData struct {
	SecondsLeft int `json:"secondsLeft"`
}

type RoundResultData struct {
	Correct      bool `json:"correct"`
	ChangedIndex int  `json:"changedIndex"`
	ChangedValue int  `json:"changedValue"`
	TotalScore   int  `json:"totalScore"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
