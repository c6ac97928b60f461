package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/mosaic/config"
	"github.com/wfunc/mosaic/network"
	"github.com/wfunc/mosaic/state"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Room: config.RoomConfig{
			MaxPlayers:    4,
			InboxSize:     16,
			IdleTimeout:   time.Minute,
			SweepInterval: time.Minute,
		},
		Game:   config.GameConfig{Variant: "standard", Seed: 3, DebugInvariants: true},
		Client: config.ClientConfig{RateLimit: 100, RateBurst: 100},
		Log:    config.LogConfig{Level: "error"},
	}
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, ts *httptest.Server, roomID string) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?room=" + roomID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(msgID uint16, payload any) {
	c.t.Helper()
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		require.NoError(c.t, err)
	}
	raw, err := network.EncodePacket(msgID, data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteMessage(websocket.BinaryMessage, raw))
}

// expect reads until a packet with msgID arrives and decodes it into v.
func (c *testClient) expect(msgID uint16, v any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, raw, err := c.conn.ReadMessage()
		require.NoError(c.t, err)
		p, err := network.DecodePacket(raw)
		require.NoError(c.t, err)
		if p.MsgID != msgID {
			continue
		}
		if v != nil {
			require.NoError(c.t, json.Unmarshal(p.Data, v))
		}
		return
	}
}

func newTestServer(t *testing.T) (*GameServer, *httptest.Server) {
	t.Helper()
	s := NewGameServer(testConfig())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Shutdown(context.Background())
	})
	return s, ts
}

func TestWebSocketGame(t *testing.T) {
	s, ts := newTestServer(t)
	alice := dial(t, ts, "table")
	bob := dial(t, ts, "table")

	alice.send(network.MsgTypeJoin, network.JoinRequest{PlayerName: "Alice"})
	var joined network.JoinedMessage
	alice.expect(network.MsgTypeJoined, &joined)
	assert.Equal(t, "table", joined.RoomID)

	bob.send(network.MsgTypeJoin, network.JoinRequest{PlayerName: "Bob"})
	bob.expect(network.MsgTypeJoined, nil)

	bob.send(network.MsgTypeStart, nil)
	var reply network.ErrorMessage
	bob.expect(network.MsgTypeError, &reply)
	assert.Equal(t, "HostOnly", reply.Code)

	alice.send(network.MsgTypeStart, nil)
	var msg network.StateMessage
	for msg.Snapshot.Status != state.StatePlaying {
		bob.expect(network.MsgTypeState, &msg)
	}
	require.NotNil(t, msg.Snapshot.Game)
	assert.Len(t, msg.Snapshot.Game.Players, 2)

	bob.send(network.MsgTypeHeartbeat, nil)
	bob.expect(network.MsgTypeHeartbeat, nil)

	infos := s.Rooms().List()
	require.Len(t, infos, 1)
	assert.Equal(t, "table", infos[0].ID)
	assert.Equal(t, 2, infos[0].Players)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Client = config.ClientConfig{RateLimit: 0.001, RateBurst: 1}
	s := NewGameServer(cfg)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Shutdown(context.Background())

	c := dial(t, ts, "limited")
	c.send(network.MsgTypeJoin, network.JoinRequest{PlayerName: "Alice"})
	c.expect(network.MsgTypeJoined, nil)

	c.send(network.MsgTypeStart, nil)
	var reply network.ErrorMessage
	c.expect(network.MsgTypeError, &reply)
	assert.Equal(t, network.CodeRateLimited, reply.Code)
}

func TestHTTPRoutes(t *testing.T) {
	s, _ := newTestServer(t)
	s.Rooms().GetOrCreate("lobby-1")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Rooms []struct {
			ID      string `json:"id"`
			Status  string `json:"status"`
			Players int    `json:"players"`
		} `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rooms, 1)
	assert.Equal(t, "lobby-1", body.Rooms[0].ID)
	assert.Equal(t, state.StateLobby, body.Rooms[0].Status)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mosaic_active_rooms 1")

	require.NoError(t, s.Shutdown(context.Background()))
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMalformedFrameKeepsConnection(t *testing.T) {
	_, ts := newTestServer(t)
	c := dial(t, ts, "frames")
	c.send(network.MsgTypeJoin, network.JoinRequest{PlayerName: "Alice"})
	c.expect(network.MsgTypeJoined, nil)

	for _, frame := range [][]byte{
		{0, 201, 0, 50, '{'}, // declared length beyond the payload
		{0, 201},             // shorter than the header
	} {
		require.NoError(t, c.conn.WriteMessage(websocket.BinaryMessage, frame))
		var reply network.ErrorMessage
		c.expect(network.MsgTypeError, &reply)
		assert.Equal(t, "MalformedMessage", reply.Code)
	}

	c.send(network.MsgTypeHeartbeat, nil)
	c.expect(network.MsgTypeHeartbeat, nil)
}
