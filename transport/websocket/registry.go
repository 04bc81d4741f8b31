package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Registry tracks which connection currently speaks for which player id.
// It is the delivery half of the messaging channel: the game manager fans
// events out through it without knowing about websockets.
type Registry struct {
	logger *slog.Logger

	mu          sync.RWMutex
	connections map[string]*client
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:      logger,
		connections: make(map[string]*client),
	}
}

func (that *Registry) Bind(playerID string, c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	c.playerID = playerID
	that.connections[playerID] = c
}

// Unbind drops the connection's binding and reports the player id it spoke
// for, if any.
func (that *Registry) Unbind(c *client) (string, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if c.playerID == "" {
		return "", false
	}

	bound, ok := that.connections[c.playerID]
	if !ok || bound != c {
		return "", false
	}

	delete(that.connections, c.playerID)

	return c.playerID, true
}

// Send delivers a named event to the player's connection, best-effort. An
// unknown or congested player is skipped.
func (that *Registry) Send(playerID, event string, payload any) {
	that.mu.RLock()
	c, ok := that.connections[playerID]
	that.mu.RUnlock()

	if !ok {
		that.logger.Warn("connection not found for player", "playerID", playerID, "event", event)
		return
	}

	msg, err := newMessage(event, payload)
	if err != nil {
		that.logger.Error("failed to marshal payload", "event", event, "error", err)
		return
	}

	if !c.trySend(msg) {
		that.logger.Warn("dropped event for player", "playerID", playerID, "event", event)
	}
}

func newMessage(event string, payload any) (Message, error) {
	msg := Message{Event: event}

	if payload == nil {
		return msg, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	msg.Payload = raw

	return msg, nil
}
