// state/interfaces.go
package state

import "github.com/wfunc/mosaic/game"

// Player defines the minimal interface for the sender of an action.
type Player interface {
	GetID() string
}

// GameSettings are the rules a room starts its games with.
type GameSettings struct {
	Variant game.Variant
	// NewRandom returns the shuffle source for a new game.
	NewRandom func() game.Random
	// CheckInvariants verifies tile conservation after every accepted move.
	CheckInvariants bool
}

// RoomContext defines the interface that a Room must implement to be managed by the state machine.
// This breaks the import cycle between room and state.
type RoomContext interface {
	GetID() string
	GetMaxPlayers() int
	GetSettings() GameSettings
	Roster() *Roster
	ChangeState(newState State) error
	SendTo(sessionID string, msgID uint16, payload any) error
}
