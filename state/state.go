package state

import (
	"errors"

	"github.com/wfunc/mosaic/logger"
	"github.com/wfunc/mosaic/network"
)

// 状态ID
const (
	StateLobby    = "lobby"
	StatePlaying  = "playing"
	StateFinished = "finished"
)

// 状态机接口
type StateMachine interface {
	ChangeState(state State) error
	GetCurrentState() State
	AddTransition(fromID, toID string, condition func() bool) error
}

// 状态接口
type State interface {
	OnEnter()
	OnExit()
	GetID() string
	HandleAction(player Player, msgID uint16, data []byte) error
	// Snapshot builds the state message for one viewer.
	Snapshot(viewerID string) network.StateMessage
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// BaseStateMachine is owned by a single room goroutine and is not safe for
// concurrent use.
type BaseStateMachine struct {
	currentState State
	transitions  map[string]map[string]func() bool // fromState -> toState -> condition
}

func NewBaseStateMachine(initialState State) *BaseStateMachine {
	machine := &BaseStateMachine{
		currentState: initialState,
		transitions:  make(map[string]map[string]func() bool),
	}
	initialState.OnEnter()
	return machine
}

// NewRoomStateMachine starts a room in the lobby with the room transitions
// registered: a game starts only with enough players.
func NewRoomStateMachine(room RoomContext) *BaseStateMachine {
	sm := NewBaseStateMachine(NewLobbyState(room))
	enoughPlayers := func() bool {
		return room.Roster().Len() >= MinPlayers
	}
	// 再开一局只算在线玩家，离线的座位在离开结算状态时清掉
	enoughConnected := func() bool {
		return room.Roster().ConnectedCount() >= MinPlayers
	}
	sm.AddTransition(StateLobby, StatePlaying, enoughPlayers)
	sm.AddTransition(StateFinished, StatePlaying, enoughConnected)
	return sm
}

func (sm *BaseStateMachine) ChangeState(newState State) error {
	currentID := sm.currentState.GetID()
	newID := newState.GetID()

	// 检查是否有转换条件
	if conditions, exists := sm.transitions[currentID]; exists {
		if condition, exists := conditions[newID]; exists {
			if condition != nil && !condition() {
				return ErrTransitionNotAllowed
			}
		}
	}

	sm.currentState.OnExit()
	sm.currentState = newState
	sm.currentState.OnEnter()

	return nil
}

func (sm *BaseStateMachine) GetCurrentState() State {
	return sm.currentState
}

func (sm *BaseStateMachine) AddTransition(fromID, toID string, condition func() bool) error {
	if _, exists := sm.transitions[fromID]; !exists {
		sm.transitions[fromID] = make(map[string]func() bool)
	}

	sm.transitions[fromID][toID] = condition
	return nil
}

// 房间状态基础结构
type RoomStateBase struct {
	ID   string
	Room RoomContext
}

func (s *RoomStateBase) GetID() string {
	return s.ID
}

func (s *RoomStateBase) OnEnter() {
	// 默认实现
}

func (s *RoomStateBase) OnExit() {
	// 默认实现
}

func (s *RoomStateBase) HandleAction(player Player, msgID uint16, data []byte) error {
	return ErrMalformedMessage
}

// Snapshot 默认只包含房间名单
func (s *RoomStateBase) Snapshot(viewerID string) network.StateMessage {
	return network.StateMessage{
		Snapshot:         s.roomSnapshot(),
		ValidTargetLines: []int{},
	}
}

func (s *RoomStateBase) roomSnapshot() network.RoomSnapshot {
	roster := s.Room.Roster()
	return network.RoomSnapshot{
		RoomID:  s.Room.GetID(),
		Status:  s.ID,
		HostID:  roster.Host(),
		Members: roster.Views(),
	}
}

// join handles join{playerName} for every state: a new seat in the lobby,
// or reattaching a disconnected identity by name once a game exists.
func (s *RoomStateBase) join(player Player, data []byte, allowNew bool) error {
	var req network.JoinRequest
	if err := network.Decode(data, &req); err != nil {
		return errors.Join(ErrMalformedMessage, err)
	}
	roster := s.Room.Roster()
	if _, ok := roster.BySession(player.GetID()); ok {
		return ErrAlreadyJoined
	}

	var (
		m   *Member
		err error
	)
	if allowNew {
		m, err = roster.Join(player.GetID(), req.PlayerName)
	} else {
		m, err = roster.Reattach(player.GetID(), req.PlayerName)
	}
	if err != nil {
		return err
	}
	// The seat is taken either way; a session that is already gone is
	// cleaned up by its own disconnect.
	if err := s.Room.SendTo(player.GetID(), network.MsgTypeJoined, network.JoinedMessage{
		PlayerID: m.PlayerID,
		RoomID:   s.Room.GetID(),
	}); err != nil {
		logger.Log.Warnf("joined reply to %s failed: %v", player.GetID(), err)
	}
	return nil
}

// member resolves the sender to a joined, connected member.
func (s *RoomStateBase) member(player Player) (*Member, error) {
	m, ok := s.Room.Roster().BySession(player.GetID())
	if !ok {
		return nil, ErrNotJoined
	}
	return m, nil
}
