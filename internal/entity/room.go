package entity

import "time"

// ChatEvent is one entry in a room's transcript. Immutable once appended.
// Timestamp is nil on the synthetic leave event.
type ChatEvent struct {
	Message   string     `json:"message"`
	Username  string     `json:"username"`
	UserID    string     `json:"userID"`
	Timestamp *time.Time `json:"timeStamp"`
}

// Room is an isolated game/chat session. Players holds player IDs in join
// order, which is also the turn order.
type Room struct {
	ID      string      `json:"id"`
	HostID  string      `json:"host_id,omitempty"`
	Players []string    `json:"players"`
	Chat    []ChatEvent `json:"chat"`
}

func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		Players: []string{},
		Chat:    []ChatEvent{},
	}
}

// AddPlayer appends a player to the roster. The first entrant becomes host.
// Re-adding an id already in the roster is a no-op.
func (that *Room) AddPlayer(playerID string) {
	if that.HasPlayer(playerID) {
		return
	}

	if len(that.Players) == 0 {
		that.HostID = playerID
	}

	that.Players = append(that.Players, playerID)
}

func (that *Room) RemovePlayer(playerID string) {
	players := that.Players[:0]
	for _, id := range that.Players {
		if id != playerID {
			players = append(players, id)
		}
	}

	that.Players = players
}

func (that *Room) HasPlayer(playerID string) bool {
	for _, id := range that.Players {
		if id == playerID {
			return true
		}
	}

	return false
}

func (that *Room) IsHost(playerID string) bool {
	return that.HostID != "" && that.HostID == playerID
}

func (that *Room) AppendChat(event ChatEvent) {
	that.Chat = append(that.Chat, event)
}

func (that *Room) ClearChat() {
	that.Chat = []ChatEvent{}
}
