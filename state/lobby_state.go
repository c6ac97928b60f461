package state

import (
	"errors"

	"github.com/wfunc/mosaic/game"
	"github.com/wfunc/mosaic/logger"
	"github.com/wfunc/mosaic/network"
)

// LobbyState 等待玩家加入，房主开始游戏
type LobbyState struct {
	RoomStateBase
}

// NewLobbyState creates a new lobby state.
func NewLobbyState(room RoomContext) *LobbyState {
	return &LobbyState{
		RoomStateBase: RoomStateBase{
			ID:   StateLobby,
			Room: room,
		},
	}
}

func (s *LobbyState) OnEnter() {
	logger.Log.Infof("房间 %s 进入等待状态", s.Room.GetID())
}

func (s *LobbyState) HandleAction(player Player, msgID uint16, data []byte) error {
	switch msgID {
	case network.MsgTypeJoin:
		return s.join(player, data, true)
	case network.MsgTypeLeave:
		m, err := s.member(player)
		if err != nil {
			return err
		}
		s.Room.Roster().Remove(m.PlayerID)
		logger.Log.Infof("Player %s left room %s", m.Name, s.Room.GetID())
		return nil
	case network.MsgTypeStart:
		return startGame(&s.RoomStateBase, player)
	case network.MsgTypePickup, network.MsgTypePlace:
		return game.ErrInvalidPhase
	}
	return ErrMalformedMessage
}

// startGame moves the room into a new game. Only the host may start, and
// the registered transition condition enforces the player minimum.
func startGame(s *RoomStateBase, player Player) error {
	m, err := s.member(player)
	if err != nil {
		return err
	}
	if !s.Room.Roster().IsHost(m.PlayerID) {
		return ErrHostOnly
	}
	if err := s.Room.ChangeState(NewPlayingState(s.Room)); err != nil {
		if errors.Is(err, ErrTransitionNotAllowed) {
			return ErrInsufficientPlayers
		}
		return err
	}
	return nil
}
