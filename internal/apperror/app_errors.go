package apperror

import "errors"

var (
	ErrRoomNotFound          = errors.New("room not found")
	ErrRoomAlreadyExists     = errors.New("room already exists")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrScoreAlreadySubmitted = errors.New("score already submitted for this round")
)
