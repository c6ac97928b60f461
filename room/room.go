// room/room.go
package room

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wfunc/mosaic/game"
	"github.com/wfunc/mosaic/logger"
	"github.com/wfunc/mosaic/monitor"
	"github.com/wfunc/mosaic/network"
	"github.com/wfunc/mosaic/state"
)

const (
	DefaultMaxPlayers = 4
	DefaultInboxSize  = 256
)

var ErrRoomClosed = errors.New("room closed")

// Envelope 投递给房间的一条客户端消息
type Envelope struct {
	SessionID string
	MsgID     uint16
	Data      []byte
	// internal envelopes come from the server (dropped sockets); they are
	// never answered with an error.
	internal bool
}

// Options 房间参数
type Options struct {
	MaxPlayers int
	InboxSize  int
	Settings   state.GameSettings
}

// Info is the lock-protected summary other goroutines may read.
type Info struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Players   int       `json:"players"`
	Connected int       `json:"connected"`
	Phase     string    `json:"phase,omitempty"`
	Round     int       `json:"round,omitempty"`
	IdleSince time.Time `json:"-"`
}

type sessionRef string

func (s sessionRef) GetID() string { return string(s) }

// Room 是游戏房间的核心结构。
// 一个房间一个 goroutine：所有消息按到达顺序串行处理，房间状态不加锁。
// Only Info is shared with other goroutines, behind statusMutex.
type Room struct {
	ID           string
	MaxPlayers   int
	StateMachine state.StateMachine
	CreatedAt    time.Time
	roster       *state.Roster
	settings     state.GameSettings
	sender       Sender
	monitor      *monitor.Monitor
	inbox        chan Envelope
	closeChan    chan struct{}
	closeOnce    sync.Once
	done         chan struct{}
	statusMutex  sync.RWMutex
	info         Info
}

// NewRoom 创建一个新房间并启动它的消息循环
func NewRoom(id string, opts Options, sender Sender, mon *monitor.Monitor) *Room {
	if opts.MaxPlayers < state.MinPlayers || opts.MaxPlayers > DefaultMaxPlayers {
		opts.MaxPlayers = DefaultMaxPlayers
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = DefaultInboxSize
	}
	if opts.Settings.NewRandom == nil {
		opts.Settings.NewRandom = TimeSeeded
	}
	r := &Room{
		ID:         id,
		MaxPlayers: opts.MaxPlayers,
		CreatedAt:  time.Now(),
		roster:     state.NewRoster(opts.MaxPlayers),
		settings:   opts.Settings,
		sender:     sender,
		monitor:    mon,
		inbox:      make(chan Envelope, opts.InboxSize),
		closeChan:  make(chan struct{}),
		done:       make(chan struct{}),
	}

	// 初始化状态机，将房间自身(room)作为上下文传入
	r.StateMachine = state.NewRoomStateMachine(r)
	r.refreshInfo()

	go r.loop()
	return r
}

// TimeSeeded is the default shuffle source for rooms without a fixed seed.
func TimeSeeded() game.Random {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
}

// Seeded returns a NewRandom func whose games replay deterministically.
// Rooms share it, so each call takes its own stream.
func Seeded(seed uint64) func() game.Random {
	var n atomic.Uint64
	return func() game.Random {
		return rand.New(rand.NewPCG(seed, n.Add(1)))
	}
}

// --- 实现 state.RoomContext 接口 ---

func (r *Room) GetID() string {
	return r.ID
}

func (r *Room) GetMaxPlayers() int {
	return r.MaxPlayers
}

func (r *Room) GetSettings() state.GameSettings {
	return r.settings
}

func (r *Room) Roster() *state.Roster {
	return r.roster
}

// ChangeState 改变房间的状态机状态
func (r *Room) ChangeState(newState state.State) error {
	return r.StateMachine.ChangeState(newState)
}

// SendTo encodes payload as JSON and sends it to one session.
func (r *Room) SendTo(sessionID string, msgID uint16, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return r.sender.SendToSession(sessionID, msgID, data)
}

// --- 房间核心逻辑 ---

// Submit queues a client message. It blocks while the inbox is full.
func (r *Room) Submit(env Envelope) error {
	select {
	case <-r.closeChan:
		return ErrRoomClosed
	default:
	}
	select {
	case r.inbox <- env:
		return nil
	case <-r.closeChan:
		return ErrRoomClosed
	}
}

// Disconnect tells the room a session's socket is gone; the member keeps
// their seat if a game is running.
func (r *Room) Disconnect(sessionID string) {
	_ = r.Submit(Envelope{SessionID: sessionID, MsgID: network.MsgTypeLeave, internal: true})
}

// loop 是房间的主循环，串行处理收件箱
func (r *Room) loop() {
	defer close(r.done)
	for {
		select {
		case env := <-r.inbox:
			r.process(env)
		case <-r.closeChan:
			return
		}
	}
}

func (r *Room) process(env Envelope) {
	start := time.Now()
	before := r.StateMachine.GetCurrentState().GetID()

	err := r.StateMachine.GetCurrentState().HandleAction(sessionRef(env.SessionID), env.MsgID, env.Data)
	r.refreshInfo()
	switch {
	case err != nil && env.internal:
		logger.Log.Debugf("Room %s: disconnect of %s: %v", r.ID, env.SessionID, err)
	case err != nil:
		code := state.Code(err)
		r.monitor.IncRejected(code)
		logger.Log.Warnf("Room %s rejected %s from %s: %v", r.ID, network.MsgName(env.MsgID), env.SessionID, err)
		if sendErr := r.SendTo(env.SessionID, network.MsgTypeError, network.ErrorMessage{
			Code:    code,
			Message: err.Error(),
		}); sendErr != nil {
			logger.Log.Debugf("Room %s: error reply to %s failed: %v", r.ID, env.SessionID, sendErr)
		}
	default:
		if before == state.StatePlaying && r.StateMachine.GetCurrentState().GetID() == state.StateFinished {
			r.monitor.IncGamesFinished()
		}
		r.broadcastState()
	}
	r.monitor.ObserveMessageLatency(time.Since(start))
}

// broadcastState sends every connected member the full state, with their own
// valid target lines.
func (r *Room) broadcastState() {
	current := r.StateMachine.GetCurrentState()
	for _, m := range r.roster.Members() {
		if !m.Connected {
			continue
		}
		if err := r.SendTo(m.SessionID, network.MsgTypeState, current.Snapshot(m.PlayerID)); err != nil {
			logger.Log.Debugf("Room %s: state to %s failed: %v", r.ID, m.Name, err)
		}
	}
}

func (r *Room) refreshInfo() {
	current := r.StateMachine.GetCurrentState()
	info := Info{
		ID:        r.ID,
		Status:    current.GetID(),
		Players:   r.roster.Len(),
		Connected: r.roster.ConnectedCount(),
	}
	if g := currentGame(current); g != nil {
		info.Phase = g.Phase.String()
		info.Round = g.Round
	}

	r.statusMutex.Lock()
	defer r.statusMutex.Unlock()
	switch {
	case info.Connected > 0:
		info.IdleSince = time.Time{}
	case r.info.IdleSince.IsZero():
		info.IdleSince = time.Now()
	default:
		info.IdleSince = r.info.IdleSince
	}
	r.info = info
}

func currentGame(s state.State) *game.Game {
	switch st := s.(type) {
	case *state.PlayingState:
		return st.Game()
	case *state.FinishedState:
		return st.Game()
	}
	return nil
}

// Info 获取房间概要，可在任意 goroutine 调用
func (r *Room) Info() Info {
	r.statusMutex.RLock()
	defer r.statusMutex.RUnlock()
	return r.info
}

// Close 关闭房间，停止主循环
func (r *Room) Close() {
	r.closeOnce.Do(func() { close(r.closeChan) })
}

// Done is closed once the loop has exited.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// --- 房间管理器 ---

// Manager 管理所有房间
type Manager struct {
	rooms   map[string]*Room
	mutex   sync.RWMutex
	opts    Options
	sender  Sender
	monitor *monitor.Monitor
}

// NewRoomManager 创建一个新的房间管理器, 新房间都用 opts
func NewRoomManager(opts Options, sender Sender, mon *monitor.Monitor) *Manager {
	return &Manager{
		rooms:   make(map[string]*Room),
		opts:    opts,
		sender:  sender,
		monitor: mon,
	}
}

// GetOrCreate returns the room with id, creating it on first use.
func (m *Manager) GetOrCreate(id string) (*Room, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[id]; exists {
		return room, false
	}
	room := NewRoom(id, m.opts, m.sender, m.monitor)
	m.rooms[id] = room
	m.monitor.SetActiveRooms(len(m.rooms))
	logger.Log.Infof("Room %s created", id)
	return room, true
}

// RemoveRoom 从管理器中移除并关闭一个房间
func (m *Manager) RemoveRoom(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[id]; exists {
		room.Close()
		delete(m.rooms, id)
		m.monitor.SetActiveRooms(len(m.rooms))
		logger.Log.Infof("Room %s closed", id)
	}
}

// GetRoom 从管理器中获取一个房间
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// List returns every room's summary ordered by id.
func (m *Manager) List() []Info {
	m.mutex.RLock()
	infos := make([]Info, 0, len(m.rooms))
	for _, room := range m.rooms {
		infos = append(infos, room.Info())
	}
	m.mutex.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// SweepIdle closes rooms that have had no connected member for at least
// timeout, and returns their ids.
func (m *Manager) SweepIdle(timeout time.Duration) []string {
	now := time.Now()
	var idle []string
	m.mutex.RLock()
	for id, room := range m.rooms {
		info := room.Info()
		if info.Connected == 0 && !info.IdleSince.IsZero() && now.Sub(info.IdleSince) >= timeout {
			idle = append(idle, id)
		}
	}
	m.mutex.RUnlock()

	for _, id := range idle {
		m.RemoveRoom(id)
	}
	sort.Strings(idle)
	return idle
}

// CloseAll closes every room, used on shutdown.
func (m *Manager) CloseAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for id, room := range m.rooms {
		room.Close()
		delete(m.rooms, id)
	}
	m.monitor.SetActiveRooms(0)
}
