package state

import (
	"errors"

	"github.com/wfunc/mosaic/game"
)

var (
	ErrPendingPickExists   = errors.New("a pick is already pending")
	ErrNoPendingPick       = errors.New("no pending pick to place")
	ErrRoomFull            = errors.New("room is full")
	ErrNameTaken           = errors.New("player name is taken")
	ErrHostOnly            = errors.New("only the host can do that")
	ErrInsufficientPlayers = errors.New("at least two players are needed")
	ErrMalformedMessage    = errors.New("malformed message")
	ErrGameStarted         = errors.New("game already started")
	ErrNotJoined           = errors.New("join the room first")
	ErrAlreadyJoined       = errors.New("already joined")
)

// Code maps an error to the stable name sent in error replies.
func Code(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidPhase):
		return "InvalidPhase"
	case errors.Is(err, game.ErrInvalidSource):
		return "InvalidSource"
	case errors.Is(err, game.ErrInvalidTarget):
		return "InvalidTarget"
	case errors.Is(err, game.ErrNotYourTurn):
		return "NotYourTurn"
	case errors.Is(err, ErrPendingPickExists):
		return "PendingPickExists"
	case errors.Is(err, ErrNoPendingPick):
		return "NoPendingPick"
	case errors.Is(err, ErrRoomFull):
		return "RoomFull"
	case errors.Is(err, ErrNameTaken):
		return "NameTaken"
	case errors.Is(err, ErrHostOnly):
		return "HostOnly"
	case errors.Is(err, ErrInsufficientPlayers):
		return "InsufficientPlayers"
	case errors.Is(err, ErrMalformedMessage):
		return "MalformedMessage"
	case errors.Is(err, ErrGameStarted):
		return "GameStarted"
	case errors.Is(err, ErrNotJoined):
		return "NotJoined"
	case errors.Is(err, ErrAlreadyJoined):
		return "AlreadyJoined"
	}
	return "Internal"
}
