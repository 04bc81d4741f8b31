package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/whitagar/group-wordle-server/internal/apperror"
	"github.com/whitagar/group-wordle-server/internal/entity"
)

func TestPlayerRepository(t *testing.T) {
	ctx := context.Background()
	playerRepo := NewPlayerRepository()

	// When: a missing player is requested
	_, err := playerRepo.GetByID(ctx, "1")

	// Then: ErrPlayerNotFound is returned
	require.ErrorIs(t, err, apperror.ErrPlayerNotFound)

	// When: a player is registered
	player := &entity.Player{ID: "1", Username: "x"}
	require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

	// Then: it can be read back
	retrieved, err := playerRepo.GetByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "x", retrieved.Username)

	// When: it is deleted
	require.NoError(t, playerRepo.DeleteByID(ctx, "1"))

	// Then: it is gone
	_, err = playerRepo.GetByID(ctx, "1")
	require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
}

func TestRoomRepository(t *testing.T) {
	ctx := context.Background()
	roomRepo := NewRoomRepository()

	// When: a missing room is requested
	_, err := roomRepo.GetByID(ctx, "R1")

	// Then: ErrRoomNotFound is returned
	require.ErrorIs(t, err, apperror.ErrRoomNotFound)

	// When: a room is stored
	room := entity.NewRoom("R1")
	room.AddPlayer("1")
	require.NoError(t, roomRepo.CreateOrUpdate(ctx, room))

	// Then: it can be read back with its roster
	retrieved, err := roomRepo.GetByID(ctx, "R1")
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, retrieved.Players)

	// When: it is deleted
	require.NoError(t, roomRepo.DeleteByID(ctx, "R1"))

	// Then: it is gone and the id may be reused
	_, err = roomRepo.GetByID(ctx, "R1")
	require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	require.NoError(t, roomRepo.CreateOrUpdate(ctx, entity.NewRoom("R1")))
}
