package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/mosaic/broadcast"
	"github.com/wfunc/mosaic/config"
	"github.com/wfunc/mosaic/logger"
	"github.com/wfunc/mosaic/monitor"
	"github.com/wfunc/mosaic/network"
	"github.com/wfunc/mosaic/room"
	gamerpc "github.com/wfunc/mosaic/rpc"
	"github.com/wfunc/mosaic/session"
	"github.com/wfunc/mosaic/state"
	"github.com/wfunc/mosaic/timer"
	"golang.org/x/time/rate"
)

// HeartbeatInterval is how often clients are expected to send a heartbeat; a
// connection silent for twice as long is dropped.
const HeartbeatInterval = 30 * time.Second

type GameServer struct {
	cfg            *config.Config
	engine         *gin.Engine
	httpServer     *http.Server
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	rpcServer      *gamerpc.Server
	monitor        *monitor.Monitor
	timers         *timer.TimerManager
	mutex          sync.Mutex
	shutdownChan   chan struct{}
	shutdownOnce   sync.Once
}

// NewGameServer wires the room, session and metrics layers. Nothing listens
// until Start.
func NewGameServer(cfg *config.Config) *GameServer {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	s := &GameServer{
		cfg:            cfg,
		sessionManager: session.NewManager(),
		monitor:        monitor.NewMonitor("mosaic"),
		timers:         timer.NewTimerManager(time.Second),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化广播器
	s.broadcaster = broadcast.NewSessionBroadcaster(s.sessionManager)

	settings := state.GameSettings{
		Variant:         cfg.Variant(),
		CheckInvariants: cfg.Game.DebugInvariants,
	}
	if cfg.Game.Seed != 0 {
		settings.NewRandom = room.Seeded(cfg.Game.Seed)
	}
	s.roomManager = room.NewRoomManager(room.Options{
		MaxPlayers: cfg.Room.MaxPlayers,
		InboxSize:  cfg.Room.InboxSize,
		Settings:   settings,
	}, s.broadcaster, s.monitor)

	s.engine = s.routes()
	return s
}

func (s *GameServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/ws", s.handleWebSocket)
	r.GET("/rooms", s.handleListRooms)
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.monitor.Handler()))
	return r
}

// requestLogger 把 HTTP 请求记到 zap
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Log.Debugw("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// Handler exposes the HTTP routes, for tests and embedding.
func (s *GameServer) Handler() http.Handler {
	return s.engine
}

func (s *GameServer) Rooms() *room.Manager {
	return s.roomManager
}

// Start runs the gRPC health server, the idle-room sweep and the HTTP server.
// It returns once the HTTP server stops.
func (s *GameServer) Start() error {
	rpcServer, err := gamerpc.NewServer(s.cfg.Server.RPCAddress)
	if err != nil {
		return err
	}
	s.mutex.Lock()
	s.rpcServer = rpcServer
	s.httpServer = &http.Server{
		Addr:    s.cfg.Server.HTTPAddress,
		Handler: s.engine,
	}
	s.mutex.Unlock()
	go rpcServer.Start()

	interval := s.cfg.Room.SweepInterval
	s.timers.AddTimer(interval, interval, s.sweepIdleRooms)

	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown marks the server unhealthy, tells connected clients, and stops
// every listener and room.
func (s *GameServer) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)
		logger.Log.Info("Game server shutting down")

		s.mutex.Lock()
		rpcServer, httpServer := s.rpcServer, s.httpServer
		s.mutex.Unlock()

		if rpcServer != nil {
			rpcServer.SetServing(false)
		}
		s.timers.Stop()
		if httpServer != nil {
			err = httpServer.Shutdown(ctx)
		}

		notice, _ := json.Marshal(network.ErrorMessage{Code: network.CodeServerShutdown, Message: "server is shutting down"})
		_ = s.broadcaster.BroadcastToSessions(s.sessionManager.IDs(), network.MsgTypeError, notice)
		s.sessionManager.CloseAll()
		s.roomManager.CloseAll()

		if rpcServer != nil {
			rpcServer.Stop()
		}
	})
	return err
}

func (s *GameServer) shuttingDown() bool {
	select {
	case <-s.shutdownChan:
		return true
	default:
		return false
	}
}

func (s *GameServer) sweepIdleRooms() {
	closed := s.roomManager.SweepIdle(s.cfg.Room.IdleTimeout)
	if len(closed) > 0 {
		logger.Log.Infof("Closed %d idle rooms: %v", len(closed), closed)
	}
}

func (s *GameServer) handleListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": s.roomManager.List()})
}

func (s *GameServer) handleHealth(c *gin.Context) {
	status := http.StatusOK
	text := "ok"
	if s.shuttingDown() {
		status, text = http.StatusServiceUnavailable, "shutting down"
	}
	c.JSON(status, gin.H{
		"status":   text,
		"rooms":    s.roomManager.Count(),
		"sessions": s.sessionManager.Count(),
	})
}

// handleWebSocket upgrades /ws?room=<id>. Without a room id the client gets a
// fresh room.
func (s *GameServer) handleWebSocket(c *gin.Context) {
	if s.shuttingDown() {
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}
	roomID := c.Query("room")
	if roomID == "" {
		roomID = uuid.NewString()
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	rm, _ := s.roomManager.GetOrCreate(roomID)
	s.handleConnection(network.NewWSConnection(conn), rm)
}

func (s *GameServer) handleConnection(wsConn network.Connection, rm *room.Room) {
	limiter := rate.NewLimiter(rate.Limit(s.cfg.Client.RateLimit), s.cfg.Client.RateBurst)
	sess := session.NewSession(uuid.NewString(), wsConn, limiter)
	sess.SetRoomID(rm.ID)
	wsConn.SetHeartbeat(HeartbeatInterval)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlineSessions()

	logger.Log.Infof("New connection from %s, session ID: %s, room: %s", wsConn.RemoteAddr(), sess.GetID(), rm.ID)

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		rm.Disconnect(sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlineSessions()
		wsConn.Close()
	}()

	for {
		packet, err := wsConn.ReadPacket()
		if errors.Is(err, network.ErrMalformedFrame) {
			sess.Touch()
			s.monitor.IncRejected(state.Code(state.ErrMalformedMessage))
			s.replyError(sess, state.Code(state.ErrMalformedMessage), err.Error())
			continue
		}
		if err != nil {
			return
		}
		if err := s.handlePacket(sess, rm, packet); err != nil {
			s.replyError(sess, network.CodeRoomClosed, err.Error())
			return
		}
	}
}

// handlePacket answers heartbeats and rate-limit violations itself and hands
// everything else to the room.
func (s *GameServer) handlePacket(sess *session.Session, rm *room.Room, packet *network.Packet) error {
	sess.Touch()
	s.monitor.IncMessagesReceived(network.MsgName(packet.MsgID))

	if packet.MsgID == network.MsgTypeHeartbeat {
		if err := sess.Send(network.MsgTypeHeartbeat, nil); err != nil {
			logger.Log.Debugf("heartbeat to %s failed: %v", sess.GetID(), err)
		}
		return nil
	}
	if !sess.Allow() {
		s.monitor.IncRejected(network.CodeRateLimited)
		s.replyError(sess, network.CodeRateLimited, "too many messages")
		return nil
	}
	return rm.Submit(room.Envelope{
		SessionID: sess.GetID(),
		MsgID:     packet.MsgID,
		Data:      packet.Data,
	})
}

func (s *GameServer) replyError(sess *session.Session, code, message string) {
	data, _ := json.Marshal(network.ErrorMessage{Code: code, Message: message})
	if err := sess.Send(network.MsgTypeError, data); err != nil {
		logger.Log.Debugf("error reply to %s failed: %v", sess.GetID(), err)
	}
}
