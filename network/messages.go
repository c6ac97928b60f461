package network

import (
	"encoding/json"
	"fmt"

	"github.com/wfunc/mosaic/game"
)

// Source types in a pickup request.
const (
	SourceFactory = "factory"
	SourceCenter  = "center"
)

// JoinRequest join{playerName}
type JoinRequest struct {
	PlayerName string `json:"playerName"`
}

// SourceRef is factory(id) or center.
type SourceRef struct {
	Type    string `json:"type"`
	Factory int    `json:"factory,omitempty"`
}

// PickupRequest pickup{source, color}
type PickupRequest struct {
	Source SourceRef   `json:"source"`
	Color  *game.Color `json:"color"`
}

// PlaceRequest place{targetLine}, -1 is the floor.
type PlaceRequest struct {
	TargetLine *int `json:"targetLine"`
}

// JoinedMessage joined{playerId}
type JoinedMessage struct {
	PlayerID string `json:"playerId"`
	RoomID   string `json:"roomId"`
}

// Error codes raised by the server itself rather than a room.
const (
	CodeRateLimited    = "RateLimited"
	CodeRoomClosed     = "RoomClosed"
	CodeServerShutdown = "ServerShutdown"
)

// ErrorMessage error{message}; Code is the stable error name.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Member is one roster entry as seen by clients.
type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	Host      bool   `json:"host"`
}

// PendingPick 已拿起但尚未放完的瓷砖
type PendingPick struct {
	PlayerID string     `json:"playerId"`
	Color    game.Color `json:"color"`
	Count    int        `json:"count"`
}

// RoomSnapshot is the full room state sent in every state message.
type RoomSnapshot struct {
	RoomID  string         `json:"roomId"`
	Status  string         `json:"status"`
	HostID  string         `json:"hostId"`
	Members []Member       `json:"members"`
	Pending *PendingPick   `json:"pendingPick"`
	Game    *game.Snapshot `json:"game,omitempty"`
}

// StateMessage state{snapshot, validTargetLines}
type StateMessage struct {
	Snapshot         RoomSnapshot `json:"snapshot"`
	ValidTargetLines []int        `json:"validTargetLines"`
}

// GameSource converts the wire form into a game.Source.
func (s SourceRef) GameSource() (game.Source, error) {
	switch s.Type {
	case SourceCenter:
		return game.Center, nil
	case SourceFactory:
		if s.Factory < 0 {
			return 0, fmt.Errorf("negative factory id %d", s.Factory)
		}
		return game.Source(s.Factory), nil
	}
	return 0, fmt.Errorf("unknown source type %q", s.Type)
}

// Decode unmarshals a JSON payload. An empty payload decodes as {}.
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		data = []byte("{}")
	}
	return json.Unmarshal(data, v)
}
