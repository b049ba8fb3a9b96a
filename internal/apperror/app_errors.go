package apperror

import "errors"

var (
	ErrNoActiveRound   = errors.New("no active round")
	ErrNegativeDelta   = errors.New("score delta must not be negative")
	ErrEmptyPlayerName = errors.New("player name is empty")
	ErrPlayerNotFound  = errors.New("player not found")
)
