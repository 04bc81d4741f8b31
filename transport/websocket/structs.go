package websocket

import (
	"encoding/json"

	"github.com/whitagar/group-wordle-server/internal/entity"
)

// Message is a websocket frame: a named event and its JSON payload.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type UserData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type CreateRoomPayload struct {
	RoomID string `json:"roomId"`
}

type UserEnteredRoomPayload struct {
	UserData UserData `json:"userData"`
	RoomID   string   `json:"roomId"`
}

type SendMessagePayload struct {
	MessageData entity.ChatEvent `json:"messageData"`
	RoomID      string           `json:"roomId"`
}

// RoomPayload covers the events that carry only a room id.
type RoomPayload struct {
	RoomID string `json:"roomId"`
}

type SetWordPayload struct {
	RoomID string `json:"roomId"`
	Word   string `json:"word"`
}

type SetRoundScorePayload struct {
	RoomID  string `json:"roomId"`
	RoundID int    `json:"roundId"`
	Score   int    `json:"score"`
}
