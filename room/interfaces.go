package room

// Sender delivers one encoded message to one session.
// This is defined here to break the import cycle between room and broadcast.
type Sender interface {
	SendToSession(sessionID string, msgID uint16, data []byte) error
}
