package state

import (
	"errors"
	"fmt"

	"github.com/wfunc/mosaic/game"
	"github.com/wfunc/mosaic/logger"
	"github.com/wfunc/mosaic/network"
)

// PlayingState 游戏进行状态。
// Moves arrive as pickup then one or more place messages; between them the
// held tiles are the room's single pending pick.
type PlayingState struct {
	RoomStateBase
	game *game.Game
	pick pickState
}

// NewPlayingState creates the playing state. The game itself is dealt on
// entry, from the roster at that moment.
func NewPlayingState(room RoomContext) *PlayingState {
	return &PlayingState{
		RoomStateBase: RoomStateBase{
			ID:   StatePlaying,
			Room: room,
		},
		pick: idlePick{},
	}
}

// OnEnter 进入游戏状态
func (s *PlayingState) OnEnter() {
	settings := s.Room.GetSettings()
	g, err := game.New(s.Room.Roster().Seats(), game.Options{
		Variant: settings.Variant,
		Rand:    settings.NewRandom(),
	})
	if err != nil {
		logger.Log.Errorf("房间 %s 无法开始游戏: %v", s.Room.GetID(), err)
		return
	}
	s.game = g
	s.pick = idlePick{}
	logger.Log.Infof("房间 %s 进入游戏状态, %d 名玩家, 规则 %s", s.Room.GetID(), len(g.Players), g.Variant)
}

// OnExit 退出游戏状态
func (s *PlayingState) OnExit() {
	logger.Log.Infof("房间 %s 退出游戏状态", s.Room.GetID())
}

// Game returns the current rule state.
func (s *PlayingState) Game() *game.Game {
	return s.game
}

// HandleAction handles actions from players.
func (s *PlayingState) HandleAction(player Player, msgID uint16, data []byte) error {
	if s.game == nil {
		return game.ErrInvalidPhase
	}
	switch msgID {
	case network.MsgTypeJoin:
		return s.join(player, data, false)
	case network.MsgTypeLeave:
		return disconnect(&s.RoomStateBase, player)
	case network.MsgTypeStart:
		return ErrGameStarted
	case network.MsgTypePickup:
		return s.handlePickup(player, data)
	case network.MsgTypePlace:
		return s.handlePlace(player, data)
	}
	return ErrMalformedMessage
}

func (s *PlayingState) handlePickup(player Player, data []byte) error {
	m, err := s.member(player)
	if err != nil {
		return err
	}
	var req network.PickupRequest
	if err := network.Decode(data, &req); err != nil {
		return errors.Join(ErrMalformedMessage, err)
	}
	if req.Color == nil {
		return fmt.Errorf("%w: pickup without color", ErrMalformedMessage)
	}
	src, err := req.Source.GameSource()
	if err != nil {
		return errors.Join(ErrMalformedMessage, err)
	}
	if _, held := s.pick.(heldPick); held {
		return ErrPendingPickExists
	}
	seat, ok := s.game.PlayerIndex(m.PlayerID)
	if !ok || seat != s.game.Turn {
		return game.ErrNotYourTurn
	}

	next, hand, err := s.game.Pickup(seat, src, *req.Color)
	if err != nil {
		return err
	}
	s.game = next
	s.pick = heldPick{owner: m.PlayerID, hand: hand}
	s.checkInvariants()
	logger.Log.Infof("Room %s: %s picked %d %s from %s", s.Room.GetID(), m.Name, hand.Count, hand.Color, src)
	return nil
}

func (s *PlayingState) handlePlace(player Player, data []byte) error {
	m, err := s.member(player)
	if err != nil {
		return err
	}
	var req network.PlaceRequest
	if err := network.Decode(data, &req); err != nil {
		return errors.Join(ErrMalformedMessage, err)
	}
	if req.TargetLine == nil {
		return fmt.Errorf("%w: place without targetLine", ErrMalformedMessage)
	}
	held, ok := s.pick.(heldPick)
	if !ok {
		return ErrNoPendingPick
	}
	if held.owner != m.PlayerID {
		return game.ErrNotYourTurn
	}

	next, rest, err := s.game.Place(held.hand, *req.TargetLine)
	if err != nil {
		return err
	}
	if !rest.Empty() {
		s.game = next
		s.pick = heldPick{owner: held.owner, hand: rest}
		s.checkInvariants()
		logger.Log.Infof("Room %s: %s placed on line %d, %d %s still held", s.Room.GetID(), m.Name, *req.TargetLine, rest.Count, rest.Color)
		return nil
	}

	round := next.Round
	next, err = next.FinishTurn()
	if err != nil {
		return err
	}
	s.game = next
	s.pick = idlePick{}
	s.checkInvariants()
	logger.Log.Infof("Room %s: %s placed on line %d", s.Room.GetID(), m.Name, *req.TargetLine)

	if next.Phase == game.PhaseGameOver {
		logger.Log.Infof("房间 %s 游戏结束, 胜者 %v (%s)", s.Room.GetID(), next.Result.Winners, next.Result.Reason)
		return s.Room.ChangeState(NewFinishedState(s.Room, next))
	}
	if next.Round != round {
		logger.Log.Infof("Room %s: round %d begins", s.Room.GetID(), next.Round)
	}
	return nil
}

// checkInvariants panics on a tile-count mismatch: that is a defect in the
// rules, not a condition a client can cause.
func (s *PlayingState) checkInvariants() {
	if !s.Room.GetSettings().CheckInvariants {
		return
	}
	var held []game.Hand
	if h, ok := s.pick.(heldPick); ok {
		held = append(held, h.hand)
	}
	if err := s.game.CheckConservation(held...); err != nil {
		panic(fmt.Sprintf("room %s: %v", s.Room.GetID(), err))
	}
}

// Snapshot includes the game and, for the pick owner, the lines the held
// tiles may go to.
func (s *PlayingState) Snapshot(viewerID string) network.StateMessage {
	msg := s.RoomStateBase.Snapshot(viewerID)
	if s.game == nil {
		return msg
	}
	msg.Snapshot.Game = gameSnapshot(s.Room.Roster(), s.game)
	if held, ok := s.pick.(heldPick); ok {
		msg.Snapshot.Pending = &network.PendingPick{
			PlayerID: held.owner,
			Color:    held.hand.Color,
			Count:    held.hand.Count,
		}
		if held.owner == viewerID {
			msg.ValidTargetLines = s.game.ValidTargets(held.hand.Player, held.hand.Color)
		}
	}
	return msg
}

func gameSnapshot(roster *Roster, g *game.Game) *game.Snapshot {
	snap := g.Snapshot()
	for i := range snap.Players {
		m, ok := roster.ByPlayer(snap.Players[i].ID)
		snap.Players[i].Connected = ok && m.Connected
	}
	return snap
}

// disconnect marks the sender inactive; the seat stays theirs.
func disconnect(s *RoomStateBase, player Player) error {
	m, ok := s.Room.Roster().Disconnect(player.GetID())
	if !ok {
		return ErrNotJoined
	}
	logger.Log.Infof("Player %s left room %s, seat kept", m.Name, s.Room.GetID())
	return nil
}
