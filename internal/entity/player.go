package entity

// Player is the per-connection game record. One player exists per connected
// client while it remains in a room.
type Player struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	RoomID    string      `json:"room_id,omitempty"`
	HasWord   bool        `json:"has_word"`
	Word      string      `json:"word,omitempty"`
	Scores    map[int]int `json:"scores,omitempty"`
	TurnTaken bool        `json:"turn_taken"`
}

// TotalScore - sums the player's scores across all rounds.
func (that *Player) TotalScore() int {
	total := 0
	for _, score := range that.Scores {
		total += score
	}

	return total
}

// HasScoreFor reports whether the player already submitted a score for the round.
func (that *Player) HasScoreFor(roundID int) bool {
	_, ok := that.Scores[roundID]
	return ok
}

// SetScore records a round score. A round score is set at most once.
func (that *Player) SetScore(roundID, score int) bool {
	if that.HasScoreFor(roundID) {
		return false
	}

	if that.Scores == nil {
		that.Scores = make(map[int]int)
	}
	that.Scores[roundID] = score

	return true
}

// ResetGameState - clears word, turn and score state so a player surviving a
// finished game starts the next one clean.
func (that *Player) ResetGameState() {
	that.HasWord = false
	that.Word = ""
	that.Scores = nil
	that.TurnTaken = false
}
