package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/whitagar/group-wordle-server/internal/apperror"
	"github.com/whitagar/group-wordle-server/internal/entity"
)

// Outbound event names. The transport delivers them verbatim to clients.
const (
	EventRetrieveChatRoomData = "RetrieveChatRoomData"
	EventRetrievePlayersList  = "RetrievePlayersList"
	EventStartGame            = "StartGame"
	EventSetWordsMap          = "SetWordsMap"
	EventStartRound           = "StartRound"
	EventGameOver             = "GameOver"
	EventRoomDestroyed        = "RoomDestroyed"
)

// Notifier delivers a named event with a payload to a single connected
// player. Delivery is best-effort: a player who dropped mid-broadcast is
// skipped by the transport.
type Notifier interface {
	Send(playerID, event string, payload any)
}

type StartRoundPayload struct {
	Word     string `json:"word"`
	PlayerID string `json:"playerId"`
}

type GameOverPayload struct {
	AllScores       map[string]int `json:"allScores"`
	MaxScore        int            `json:"maxScore"`
	WinningUsername string         `json:"winningUsername"`
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	DeleteByID(ctx context.Context, id string) error
}

type roomRepo interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager owns all room and player policy: roster management, chat
// relay, word gating, turn rotation, score gating and win computation.
// A single mutex serializes handlers so no two of them interleave
// mid-mutation within or across rooms.
type GameManager struct {
	logger *slog.Logger

	mu         sync.Mutex
	playerRepo playerRepo
	roomRepo   roomRepo
	notifier   Notifier
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, roomRepo roomRepo, notifier Notifier) *GameManager {
	return &GameManager{
		logger: logger,

		playerRepo: playerRepo,
		roomRepo:   roomRepo,
		notifier:   notifier,
	}
}

// CreateRoom - creates an empty room. Creating an id that already exists is
// rejected instead of silently overwriting the live room.
func (that *GameManager) CreateRoom(ctx context.Context, roomID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, err := that.roomRepo.GetByID(ctx, roomID)
	if err == nil {
		return fmt.Errorf("%w: room id %s", apperror.ErrRoomAlreadyExists, roomID)
	}

	if !errors.Is(err, apperror.ErrRoomNotFound) {
		return fmt.Errorf("failed to get room by id: %w", err)
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, entity.NewRoom(roomID)); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	that.logger.Info("created room", "roomID", roomID)

	return nil
}

// JoinRoom - registers the player and appends it to the room roster. The
// first entrant becomes host. Registration is last-write-wins; any previous
// game state on the player record is discarded.
func (that *GameManager) JoinRoom(ctx context.Context, roomID, playerID, username string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room by id: %w", err)
	}

	// A player id lives in at most one roster at a time.
	if err = that.leaveCurrentRoom(ctx, playerID, roomID); err != nil {
		return err
	}

	player := &entity.Player{
		ID:       playerID,
		Username: username,
		RoomID:   roomID,
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to register player: %w", err)
	}

	now := time.Now()
	room.AppendChat(entity.ChatEvent{
		Message:   fmt.Sprintf("%s has entered the waiting room", username),
		Username:  username,
		UserID:    playerID,
		Timestamp: &now,
	})
	room.AddPlayer(playerID)

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcastChatRoomData(room)
	that.broadcastPlayersList(ctx, room)

	that.logger.Info("player entered room", "roomID", roomID, "playerID", playerID, "username", username)

	return nil
}

// SendMessage - appends a chat event to the transcript and rebroadcasts the
// entire transcript to every room member.
func (that *GameManager) SendMessage(ctx context.Context, roomID string, event entity.ChatEvent) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room by id: %w", err)
	}

	room.AppendChat(event)

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcastChatRoomData(room)

	return nil
}

// ClearChat - truncates the transcript and rebroadcasts it.
func (that *GameManager) ClearChat(ctx context.Context, roomID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room by id: %w", err)
	}

	room.ClearChat()

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcastChatRoomData(room)

	return nil
}

// StartGame - signals every room member to begin word entry. It does not
// validate roster size or advance any player state.
func (that *GameManager) StartGame(ctx context.Context, roomID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room by id: %w", err)
	}

	for _, id := range room.Players {
		that.notifier.Send(id, EventStartGame, nil)
	}

	that.logger.Info("game starting", "roomID", roomID)

	return nil
}

// SetWord - records the acting player's secret word. Once every roster
// player has a word, the id->word map is broadcast and the first round
// begins.
func (that *GameManager) SetWord(ctx context.Context, roomID, playerID, word string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room by id: %w", err)
	}

	player, err := that.rosterPlayer(ctx, room, playerID)
	if err != nil {
		return err
	}

	player.HasWord = true
	player.Word = word

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	that.logger.Info("player set word", "roomID", roomID, "playerID", playerID)

	players, err := that.rosterPlayers(ctx, room)
	if err != nil {
		return err
	}

	for _, p := range players {
		if !p.HasWord {
			return nil
		}
	}

	wordsMap := make(map[string]string, len(players))
	for _, p := range players {
		wordsMap[p.ID] = p.Word
	}

	for _, id := range room.Players {
		that.notifier.Send(id, EventSetWordsMap, wordsMap)
	}

	return that.startNextRound(ctx, room)
}

// SetRoundScore - records the acting player's score for a round. A round
// score is set at most once. Once every roster player has a score for the
// round, the next round begins.
func (that *GameManager) SetRoundScore(ctx context.Context, roomID, playerID string, roundID, score int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room by id: %w", err)
	}

	player, err := that.rosterPlayer(ctx, room, playerID)
	if err != nil {
		return err
	}

	if !player.SetScore(roundID, score) {
		return fmt.Errorf("%w: player %s round %d", apperror.ErrScoreAlreadySubmitted, playerID, roundID)
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	that.logger.Info("player scored", "roomID", roomID, "playerID", playerID, "roundID", roundID, "score", score)

	players, err := that.rosterPlayers(ctx, room)
	if err != nil {
		return err
	}

	for _, p := range players {
		if !p.HasScoreFor(roundID) {
			return nil
		}
	}

	return that.startNextRound(ctx, room)
}

// Disconnect - removes the player from its room, using the server-side room
// binding rather than anything client-supplied. A host leaving destroys the
// room. Unknown players are a no-op.
func (that *GameManager) Disconnect(ctx context.Context, playerID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, apperror.ErrPlayerNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get player by id: %w", err)
	}

	defer func() {
		if delErr := that.playerRepo.DeleteByID(ctx, playerID); delErr != nil {
			that.logger.Error("failed to unregister player", "playerID", playerID, "error", delErr)
		}
	}()

	if player.RoomID == "" {
		return nil
	}

	room, err := that.roomRepo.GetByID(ctx, player.RoomID)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get room by id: %w", err)
	}

	room.AppendChat(entity.ChatEvent{
		Message: fmt.Sprintf("%s has left the chat", player.Username),
	})
	room.RemovePlayer(playerID)

	if room.IsHost(playerID) {
		that.logger.Info("host left, destroying room", "roomID", room.ID, "playerID", playerID)
		return that.tearDownRoom(ctx, room)
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	that.broadcastChatRoomData(room)
	that.broadcastPlayersList(ctx, room)

	that.logger.Info("player left room", "roomID", room.ID, "playerID", playerID)

	return nil
}

// startNextRound either grants the turn to the first roster player who has
// not taken one, or, once everyone has, finishes the game.
func (that *GameManager) startNextRound(ctx context.Context, room *entity.Room) error {
	players, err := that.rosterPlayers(ctx, room)
	if err != nil {
		return err
	}

	for _, next := range players {
		if next.TurnTaken {
			continue
		}

		next.TurnTaken = true
		if err = that.playerRepo.CreateOrUpdate(ctx, next); err != nil {
			return fmt.Errorf("failed to update player: %w", err)
		}

		payload := StartRoundPayload{Word: next.Word, PlayerID: next.ID}
		for _, id := range room.Players {
			that.notifier.Send(id, EventStartRound, payload)
		}

		that.logger.Info("starting round", "roomID", room.ID, "playerID", next.ID)

		return nil
	}

	return that.finishGame(ctx, room, players)
}

// finishGame computes totals and the winner, then tears the room down.
// The winner scan keeps the running maximum with a greater-or-equal
// comparison in roster order, so ties resolve to the last player in join
// order with the maximum total. That is the designed rule, not an accident.
func (that *GameManager) finishGame(ctx context.Context, room *entity.Room, players []*entity.Player) error {
	allScores := make(map[string]int, len(players))
	maxScore := 0
	winningUsername := ""

	for _, p := range players {
		total := p.TotalScore()
		allScores[p.Username] = total

		if total >= maxScore {
			maxScore = total
			winningUsername = p.Username
		}
	}

	payload := GameOverPayload{
		AllScores:       allScores,
		MaxScore:        maxScore,
		WinningUsername: winningUsername,
	}
	for _, id := range room.Players {
		that.notifier.Send(id, EventGameOver, payload)
	}

	that.logger.Info("game over", "roomID", room.ID, "winner", winningUsername, "maxScore", maxScore)

	return that.tearDownRoom(ctx, room)
}

// tearDownRoom notifies the remaining roster, releases each player's room
// binding and deletes the room. Room id reuse afterwards is allowed.
func (that *GameManager) tearDownRoom(ctx context.Context, room *entity.Room) error {
	for _, id := range room.Players {
		that.notifier.Send(id, EventRoomDestroyed, nil)
	}

	for _, id := range room.Players {
		player, err := that.playerRepo.GetByID(ctx, id)
		if err != nil {
			continue
		}

		player.RoomID = ""
		player.ResetGameState()

		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			that.logger.Error("failed to release player from room", "playerID", id, "error", err)
		}
	}

	if err := that.roomRepo.DeleteByID(ctx, room.ID); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	that.logger.Info("room destroyed", "roomID", room.ID)

	return nil
}

// leaveCurrentRoom quietly removes the player from the roster of whatever
// room it is already in, if any.
func (that *GameManager) leaveCurrentRoom(ctx context.Context, playerID, nextRoomID string) error {
	existing, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, apperror.ErrPlayerNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get player by id: %w", err)
	}

	if existing.RoomID == "" || existing.RoomID == nextRoomID {
		return nil
	}

	previous, err := that.roomRepo.GetByID(ctx, existing.RoomID)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get room by id: %w", err)
	}

	previous.RemovePlayer(playerID)

	if err = that.roomRepo.CreateOrUpdate(ctx, previous); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	return nil
}

// rosterPlayer resolves the acting player and confirms it is a member of the
// room. A registry entry missing for a roster operation is treated the same
// as a missing room: the caller kicks the sender.
func (that *GameManager) rosterPlayer(ctx context.Context, room *entity.Room, playerID string) (*entity.Player, error) {
	if !room.HasPlayer(playerID) {
		return nil, fmt.Errorf("%w: player %s not in room %s", apperror.ErrPlayerNotFound, playerID, room.ID)
	}

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// rosterPlayers loads every registered roster player in join order. Entries
// evicted from the registry are skipped.
func (that *GameManager) rosterPlayers(ctx context.Context, room *entity.Room) ([]*entity.Player, error) {
	players := make([]*entity.Player, 0, len(room.Players))

	for _, id := range room.Players {
		player, err := that.playerRepo.GetByID(ctx, id)
		if errors.Is(err, apperror.ErrPlayerNotFound) {
			that.logger.Warn("roster player missing from registry", "roomID", room.ID, "playerID", id)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to get player by id: %w", err)
		}

		players = append(players, player)
	}

	return players, nil
}

func (that *GameManager) broadcastChatRoomData(room *entity.Room) {
	for _, id := range room.Players {
		that.notifier.Send(id, EventRetrieveChatRoomData, room.Chat)
	}
}

func (that *GameManager) broadcastPlayersList(ctx context.Context, room *entity.Room) {
	players, err := that.rosterPlayers(ctx, room)
	if err != nil {
		that.logger.Error("failed to load roster players", "roomID", room.ID, "error", err)
		return
	}

	for _, id := range room.Players {
		that.notifier.Send(id, EventRetrievePlayersList, players)
	}
}
