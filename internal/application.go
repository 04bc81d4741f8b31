package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/whitagar/group-wordle-server/internal/config"
	"github.com/whitagar/group-wordle-server/internal/repository"
	"github.com/whitagar/group-wordle-server/internal/repository/memory"
	"github.com/whitagar/group-wordle-server/internal/repository/storage"
	"github.com/whitagar/group-wordle-server/internal/usecase"
	"github.com/whitagar/group-wordle-server/transport/rest"
	"github.com/whitagar/group-wordle-server/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	playerRepo, roomRepo, cleanup, err := buildRepositories(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer cleanup()

	registry := websocket.NewRegistry(logger)
	gameManager := usecase.NewGameManager(logger, playerRepo, roomRepo, registry)
	wsServer := websocket.New(logger, gameManager, registry)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// buildRepositories picks the storage backend from config: in-process maps
// by default, redis when a deploy wants the shared storage layer.
func buildRepositories(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.PlayerRepository, repository.RoomRepository, func(), error) {
	log := logger.With("component", "storage")

	switch conf.Storage {
	case config.StorageMemory, "":
		log.Info("Using in-memory storage")
		return memory.NewPlayerRepository(), memory.NewRoomRepository(), func() {}, nil

	case config.StorageRedis:
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		log.Info("Using redis storage", "addr", conf.Redis.GetRedisAddr())

		cleanup := func() {
			if closeErr := redisStorage.Close(); closeErr != nil {
				log.Error("could not close redis storage", "error", closeErr)
			}
		}

		return repository.NewPlayerRepository(redisStorage.Connection), repository.NewRoomRepository(redisStorage.Connection), cleanup, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend: %q", conf.Storage)
	}
}
