package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

func (that *Server) handleCreateRoom(ctx context.Context, _ *client, msg *Message) error {
	var payload CreateRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.game.CreateRoom(ctx, payload.RoomID); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

// handleUserEnteredRoom binds the connection to the player id it announced,
// then joins the room.
func (that *Server) handleUserEnteredRoom(ctx context.Context, c *client, msg *Message) error {
	var payload UserEnteredRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.registry.Bind(payload.UserData.ID, c)

	if err := that.game.JoinRoom(ctx, payload.RoomID, payload.UserData.ID, payload.UserData.Username); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	return nil
}

func (that *Server) handleSendMessage(ctx context.Context, _ *client, msg *Message) error {
	var payload SendMessagePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.game.SendMessage(ctx, payload.RoomID, payload.MessageData); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (that *Server) handleClearChat(ctx context.Context, _ *client, msg *Message) error {
	var payload RoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.game.ClearChat(ctx, payload.RoomID); err != nil {
		return fmt.Errorf("failed to clear chat: %w", err)
	}

	return nil
}

func (that *Server) handleHostStartGame(ctx context.Context, _ *client, msg *Message) error {
	var payload RoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.game.StartGame(ctx, payload.RoomID); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	return nil
}

func (that *Server) handleSetWord(ctx context.Context, c *client, msg *Message) error {
	var payload SetWordPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.game.SetWord(ctx, payload.RoomID, c.playerID, payload.Word); err != nil {
		return fmt.Errorf("failed to set word: %w", err)
	}

	return nil
}

func (that *Server) handleSetRoundScore(ctx context.Context, c *client, msg *Message) error {
	var payload SetRoundScorePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.game.SetRoundScore(ctx, payload.RoomID, c.playerID, payload.RoundID, payload.Score); err != nil {
		return fmt.Errorf("failed to set round score: %w", err)
	}

	return nil
}
