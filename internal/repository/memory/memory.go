// Package memory provides in-process implementations of the repositories.
// It is the default storage backend: rooms and players are ephemeral and do
// not need to outlive the process.
package memory

import (
	"context"
	"sync"

	"github.com/whitagar/group-wordle-server/internal/apperror"
	"github.com/whitagar/group-wordle-server/internal/entity"
	"github.com/whitagar/group-wordle-server/internal/repository"
)

type playerRepository struct {
	mu      sync.RWMutex
	players map[string]*entity.Player
}

func NewPlayerRepository() repository.PlayerRepository {
	return &playerRepository{
		players: make(map[string]*entity.Player),
	}
}

func (that *playerRepository) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players[player.ID] = player

	return nil
}

func (that *playerRepository) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	player, ok := that.players[id]
	if !ok {
		return nil, apperror.ErrPlayerNotFound
	}

	return player, nil
}

func (that *playerRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.players, id)

	return nil
}

type roomRepository struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewRoomRepository() repository.RoomRepository {
	return &roomRepository{
		rooms: make(map[string]*entity.Room),
	}
}

func (that *roomRepository) CreateOrUpdate(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[room.ID] = room

	return nil
}

func (that *roomRepository) GetByID(_ context.Context, id string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room, nil
}

func (that *roomRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, id)

	return nil
}
