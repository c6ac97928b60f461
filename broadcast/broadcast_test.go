package broadcast

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wfunc/mosaic/network"
	"github.com/wfunc/mosaic/session"
)

// MockConnection is a testify mock of network.Connection.
type MockConnection struct {
	mock.Mock
}

func (m *MockConnection) Send(msgID uint16, data []byte) error {
	return m.Called(msgID, data).Error(0)
}
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func TestSendToSession(t *testing.T) {
	sessions := session.NewManager()
	conn := &MockConnection{}
	conn.On("Send", uint16(network.MsgTypeState), []byte("{}")).Return(nil).Once()
	sessions.Add(session.NewSession("s1", conn, nil))

	b := NewSessionBroadcaster(sessions)
	assert.NoError(t, b.SendToSession("s1", network.MsgTypeState, []byte("{}")))
	assert.ErrorIs(t, b.SendToSession("missing", network.MsgTypeState, nil), ErrSessionNotFound)
	conn.AssertExpectations(t)
}

func TestBroadcastToSessionsContinuesPastFailures(t *testing.T) {
	sessions := session.NewManager()
	broken := &MockConnection{}
	broken.On("Send", mock.Anything, mock.Anything).Return(errors.New("closed"))
	ok := &MockConnection{}
	ok.On("Send", uint16(network.MsgTypeError), mock.Anything).Return(nil)
	sessions.Add(session.NewSession("broken", broken, nil))
	sessions.Add(session.NewSession("ok", ok, nil))

	b := NewSessionBroadcaster(sessions)
	err := b.BroadcastToSessions([]string{"broken", "ok"}, network.MsgTypeError, []byte(`{"code":"Internal"}`))
	assert.EqualError(t, err, "closed")
	ok.AssertNumberOfCalls(t, "Send", 1)
}
