package state

import (
	"github.com/wfunc/mosaic/game"
	"github.com/wfunc/mosaic/logger"
	"github.com/wfunc/mosaic/network"
)

// FinishedState 结算状态: 保留最终局面，房主可以再开一局
type FinishedState struct {
	RoomStateBase
	game *game.Game
}

func NewFinishedState(room RoomContext, final *game.Game) *FinishedState {
	return &FinishedState{
		RoomStateBase: RoomStateBase{
			ID:   StateFinished,
			Room: room,
		},
		game: final,
	}
}

func (s *FinishedState) OnEnter() {
	logger.Log.Infof("房间 %s 进入结算状态", s.Room.GetID())
}

// OnExit runs once a rematch is allowed to start; seats left empty by
// disconnected players are released before the new deal.
func (s *FinishedState) OnExit() {
	for _, m := range s.Room.Roster().Prune() {
		logger.Log.Infof("Player %s dropped from room %s before rematch", m.Name, s.Room.GetID())
	}
}

func (s *FinishedState) Game() *game.Game {
	return s.game
}

func (s *FinishedState) Result() *game.Result {
	return s.game.Result
}

func (s *FinishedState) HandleAction(player Player, msgID uint16, data []byte) error {
	switch msgID {
	case network.MsgTypeJoin:
		return s.join(player, data, false)
	case network.MsgTypeLeave:
		return disconnect(&s.RoomStateBase, player)
	case network.MsgTypeStart:
		return startGame(&s.RoomStateBase, player)
	case network.MsgTypePickup, network.MsgTypePlace:
		return game.ErrInvalidPhase
	}
	return ErrMalformedMessage
}

func (s *FinishedState) Snapshot(viewerID string) network.StateMessage {
	msg := s.RoomStateBase.Snapshot(viewerID)
	msg.Snapshot.Game = gameSnapshot(s.Room.Roster(), s.game)
	return msg
}
