package network

// 消息ID，包头 2 字节
const (
	MsgTypeHeartbeat = 1

	// client -> room
	MsgTypeJoin   = 101
	MsgTypeLeave  = 102
	MsgTypeStart  = 103
	MsgTypePickup = 201
	MsgTypePlace  = 202

	// room -> client
	MsgTypeState  = 301
	MsgTypeJoined = 302
	MsgTypeError  = 303
)

// MsgName returns the protocol name of a message id, used in logs and metrics.
func MsgName(msgID uint16) string {
	switch msgID {
	case MsgTypeHeartbeat:
		return "heartbeat"
	case MsgTypeJoin:
		return "join"
	case MsgTypeLeave:
		return "leave"
	case MsgTypeStart:
		return "start"
	case MsgTypePickup:
		return "pickup"
	case MsgTypePlace:
		return "place"
	case MsgTypeState:
		return "state"
	case MsgTypeJoined:
		return "joined"
	case MsgTypeError:
		return "error"
	}
	return "unknown"
}
