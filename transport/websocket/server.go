package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/whitagar/group-wordle-server/internal/apperror"
	"github.com/whitagar/group-wordle-server/internal/entity"
)

// EventRoomNotAvailable kicks a sender whose request referenced a room or
// player the server does not know.
const EventRoomNotAvailable = "RoomNotAvailable"

type gameService interface {
	CreateRoom(ctx context.Context, roomID string) error
	JoinRoom(ctx context.Context, roomID, playerID, username string) error
	SendMessage(ctx context.Context, roomID string, event entity.ChatEvent) error
	ClearChat(ctx context.Context, roomID string) error
	StartGame(ctx context.Context, roomID string) error
	SetWord(ctx context.Context, roomID, playerID, word string) error
	SetRoundScore(ctx context.Context, roomID, playerID string, roundID, score int) error
	Disconnect(ctx context.Context, playerID string) error
}

type Server struct {
	logger   *slog.Logger
	game     gameService
	registry *Registry
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, c *client, msg *Message) error
}

func New(logger *slog.Logger, game gameService, registry *Registry) *Server {
	server := &Server{
		logger:   logger,
		game:     game,
		registry: registry,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers["CreateRoom"] = server.handleCreateRoom
	server.handlers["UserEnteredRoom"] = server.handleUserEnteredRoom
	server.handlers["SendMessage"] = server.handleSendMessage
	server.handlers["ClearChat"] = server.handleClearChat
	server.handlers["HostStartGame"] = server.handleHostStartGame
	server.handlers["SetWord"] = server.handleSetWord
	server.handlers["SetRoundScore"] = server.handleSetRoundScore

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(conn)

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	go c.writePump()
	that.readPump(ctx, c)
}

// readPump processes inbound messages until the connection drops, then
// raises the disconnect signal.
func (that *Server) readPump(ctx context.Context, c *client) {
	log := that.logger.With("method", "readPump")

	defer func() {
		that.handleDisconnect(ctx, c)
		c.conn.Close()
		c.closeSend()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		handler, ok := that.handlers[msg.Event]
		if !ok {
			log.Warn("unknown event", "event", msg.Event)
			continue
		}

		if err := handler(ctx, c, &msg); err != nil {
			that.handleError(c, msg.Event, err)
		}
	}
}

// handleError maps domain errors onto wire behavior: unknown rooms and
// unregistered senders are kicked, everything else is logged only.
func (that *Server) handleError(c *client, event string, err error) {
	log := that.logger.With("method", "handleError")

	if errors.Is(err, apperror.ErrRoomNotFound) || errors.Is(err, apperror.ErrPlayerNotFound) {
		log.Info("room was not available, kicking sender", "event", event, "error", err)
		that.sendEvent(c, EventRoomNotAvailable, nil)
		return
	}

	log.Error("error processing message", "event", event, "error", err)
}

func (that *Server) handleDisconnect(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleDisconnect")

	playerID, ok := that.registry.Unbind(c)
	if !ok {
		return
	}

	if err := that.game.Disconnect(ctx, playerID); err != nil {
		log.Error("failed to disconnect player", "playerID", playerID, "error", err)
		return
	}

	log.Info("player disconnected", "playerID", playerID)
}

// sendEvent replies directly on a connection, bound or not.
func (that *Server) sendEvent(c *client, event string, payload any) {
	msg, err := newMessage(event, payload)
	if err != nil {
		that.logger.Error("failed to marshal payload", "event", event, "error", err)
		return
	}

	if !c.trySend(msg) {
		that.logger.Warn("dropped event", "event", event)
	}
}
