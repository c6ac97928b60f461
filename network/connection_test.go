package network

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/mosaic/game"
)

func TestEncodeDecodePacket(t *testing.T) {
	raw, err := EncodePacket(MsgTypePickup, []byte(`{"color":"red"}`))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 201, 0, 15}, raw[:4])

	p, err := DecodePacket(raw)
	require.NoError(t, err)
	assert.Equal(t, uint16(MsgTypePickup), p.MsgID)
	assert.Equal(t, uint16(15), p.Length)
	assert.Equal(t, `{"color":"red"}`, string(p.Data))
}

func TestDecodePacketShort(t *testing.T) {
	_, err := DecodePacket([]byte{0, 1})
	assert.ErrorIs(t, err, io.ErrShortBuffer)

	_, err = DecodePacket([]byte{0, 1, 0, 9, 'x'})
	assert.ErrorIs(t, err, io.ErrShortBuffer)
}

func TestEncodePacketTooLarge(t *testing.T) {
	_, err := EncodePacket(MsgTypeState, make([]byte, 70000))
	assert.ErrorIs(t, err, ErrPacketTooLarge)
}

func TestPickupRequestDecode(t *testing.T) {
	var req PickupRequest
	require.NoError(t, Decode([]byte(`{"source":{"type":"factory","factory":3},"color":"black"}`), &req))
	src, err := req.Source.GameSource()
	require.NoError(t, err)
	assert.Equal(t, game.Source(3), src)
	require.NotNil(t, req.Color)
	assert.Equal(t, game.Black, *req.Color)

	require.NoError(t, Decode([]byte(`{"source":{"type":"center"}}`), &req))
	src, err = req.Source.GameSource()
	require.NoError(t, err)
	assert.Equal(t, game.Center, src)

	var bad PickupRequest
	assert.Error(t, Decode([]byte(`{"color":"purple"}`), &bad))
	_, err = SourceRef{Type: "bag"}.GameSource()
	assert.Error(t, err)
}

func TestPlaceRequestMissingLine(t *testing.T) {
	var req PlaceRequest
	require.NoError(t, Decode(nil, &req))
	assert.Nil(t, req.TargetLine)

	require.NoError(t, Decode([]byte(`{"targetLine":-1}`), &req))
	require.NotNil(t, req.TargetLine)
	assert.Equal(t, -1, *req.TargetLine)
}

func TestMsgName(t *testing.T) {
	assert.Equal(t, "pickup", MsgName(MsgTypePickup))
	assert.Equal(t, "unknown", MsgName(999))
}

// wsPair returns the server side of a live websocket wrapped in a
// WSConnection, and the raw client side.
func wsPair(t *testing.T) (*WSConnection, *websocket.Conn) {
	t.Helper()
	accepted := make(chan *WSConnection, 1)
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted <- NewWSConnection(conn)
	}))
	t.Cleanup(ts.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case conn := <-accepted:
		t.Cleanup(func() { conn.Close() })
		return conn, client
	case <-time.After(5 * time.Second):
		t.Fatal("upgrade timed out")
		return nil, nil
	}
}

func TestReadPacketMalformedFrame(t *testing.T) {
	conn, client := wsPair(t)

	require.NoError(t, client.WriteMessage(websocket.BinaryMessage, []byte{0, 201, 0, 50, '{'}))
	_, err := conn.ReadPacket()
	assert.ErrorIs(t, err, ErrMalformedFrame)
	assert.ErrorIs(t, err, io.ErrShortBuffer)

	raw, err := EncodePacket(MsgTypeHeartbeat, nil)
	require.NoError(t, err)
	require.NoError(t, client.WriteMessage(websocket.BinaryMessage, raw))
	p, err := conn.ReadPacket()
	require.NoError(t, err, "the connection survives a bad frame")
	assert.Equal(t, uint16(MsgTypeHeartbeat), p.MsgID)
}

func TestSendTimesOutOnStalledPeer(t *testing.T) {
	conn, _ := wsPair(t)
	conn.SetWriteTimeout(50 * time.Millisecond)

	payload := make([]byte, 60000)
	done := make(chan error, 1)
	go func() {
		// the client never reads, so the socket buffers fill up
		for i := 0; i < 100000; i++ {
			if err := conn.Send(MsgTypeState, payload); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		var netErr net.Error
		require.ErrorAs(t, err, &netErr)
		assert.True(t, netErr.Timeout())
	case <-time.After(10 * time.Second):
		t.Fatal("send blocked past its write deadline")
	}
}
