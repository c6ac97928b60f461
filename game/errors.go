package game

import "errors"

var (
	ErrInvalidPhase  = errors.New("action not allowed in this phase")
	ErrInvalidSource = errors.New("invalid source")
	ErrInvalidTarget = errors.New("invalid target line")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrPlayerCount   = errors.New("a game needs 2 to 4 players")
)
