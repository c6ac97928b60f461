// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/mosaic/logger"
	"github.com/wfunc/mosaic/session"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// 广播接口
type Broadcaster interface {
	SendToSession(sessionID string, msgID uint16, data []byte) error
	BroadcastToSessions(sessionIDs []string, msgID uint16, data []byte) error
}

// SessionBroadcaster 通过会话管理器把房间消息发给连接
type SessionBroadcaster struct {
	sessionManager *session.Manager
}

func NewSessionBroadcaster(sessionManager *session.Manager) *SessionBroadcaster {
	return &SessionBroadcaster{
		sessionManager: sessionManager,
	}
}

func (b *SessionBroadcaster) SendToSession(sessionID string, msgID uint16, data []byte) error {
	s, exists := b.sessionManager.Get(sessionID)
	if !exists {
		return ErrSessionNotFound
	}
	return s.Send(msgID, data)
}

// BroadcastToSessions sends to each session, skipping ones that fail; the
// first error is returned.
func (b *SessionBroadcaster) BroadcastToSessions(sessionIDs []string, msgID uint16, data []byte) error {
	var first error
	for _, id := range sessionIDs {
		if err := b.SendToSession(id, msgID, data); err != nil {
			logger.Log.Debugf("broadcast to %s failed: %v", id, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
