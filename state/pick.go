package state

import "github.com/wfunc/mosaic/game"

// pickState is the room's pending pick: idle, or tiles held by one player
// between a pickup and the placement that uses them up.
type pickState interface {
	isPickState()
}

type idlePick struct{}

type heldPick struct {
	owner string
	hand  game.Hand
}

func (idlePick) isPickState() {}
func (heldPick) isPickState() {}
