package state

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wfunc/mosaic/game"
	"github.com/wfunc/mosaic/network"
)

// MinPlayers is the smallest table a game starts with.
const MinPlayers = 2

// Member 房间中的一个玩家身份。断线后保留，凭名字重连。
type Member struct {
	PlayerID  string
	Name      string
	SessionID string
	Connected bool
}

// Roster keeps members in join order; join order is seat order.
type Roster struct {
	members    []*Member
	hostID     string
	maxPlayers int
}

func NewRoster(maxPlayers int) *Roster {
	return &Roster{maxPlayers: maxPlayers}
}

func (r *Roster) Len() int {
	return len(r.members)
}

func (r *Roster) Host() string {
	return r.hostID
}

func (r *Roster) IsHost(playerID string) bool {
	return playerID != "" && r.hostID == playerID
}

// Join seats a new member, or reattaches a disconnected member with the same
// name. The first member becomes host.
func (r *Roster) Join(sessionID, name string) (*Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty player name", ErrMalformedMessage)
	}
	if m := r.byName(name); m != nil {
		if m.Connected {
			return nil, fmt.Errorf("%w: %q", ErrNameTaken, name)
		}
		r.attach(m, sessionID)
		return m, nil
	}
	if len(r.members) >= r.maxPlayers {
		return nil, ErrRoomFull
	}

	m := &Member{
		PlayerID:  uuid.NewString(),
		Name:      name,
		SessionID: sessionID,
		Connected: true,
	}
	r.members = append(r.members, m)
	if r.hostID == "" {
		r.hostID = m.PlayerID
	}
	return m, nil
}

// Reattach binds a new session to an existing, disconnected member.
func (r *Roster) Reattach(sessionID, name string) (*Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty player name", ErrMalformedMessage)
	}
	m := r.byName(name)
	if m == nil {
		return nil, fmt.Errorf("%w: %q is not part of this game", ErrGameStarted, name)
	}
	if m.Connected {
		return nil, fmt.Errorf("%w: %q", ErrNameTaken, name)
	}
	r.attach(m, sessionID)
	return m, nil
}

func (r *Roster) attach(m *Member, sessionID string) {
	m.SessionID = sessionID
	m.Connected = true
	if host, ok := r.ByPlayer(r.hostID); !ok || !host.Connected {
		r.hostID = m.PlayerID
	}
}

// Disconnect marks the member bound to sessionID inactive. A disconnected
// host hands the role to the first connected member, if there is one.
func (r *Roster) Disconnect(sessionID string) (*Member, bool) {
	m, ok := r.BySession(sessionID)
	if !ok {
		return nil, false
	}
	m.Connected = false
	m.SessionID = ""
	if r.hostID == m.PlayerID {
		if next := r.firstConnected(); next != nil {
			r.hostID = next.PlayerID
		}
	}
	return m, true
}

// Prune drops every disconnected member, so a new game seats only the
// players still at the table.
func (r *Roster) Prune() []Member {
	var dropped []Member
	kept := r.members[:0]
	for _, m := range r.members {
		if m.Connected {
			kept = append(kept, m)
			continue
		}
		dropped = append(dropped, *m)
	}
	r.members = kept
	if _, ok := r.ByPlayer(r.hostID); !ok {
		r.hostID = ""
		if len(r.members) > 0 {
			r.hostID = r.members[0].PlayerID
		}
	}
	return dropped
}

func (r *Roster) firstConnected() *Member {
	for _, m := range r.members {
		if m.Connected {
			return m
		}
	}
	return nil
}

// Remove drops a member entirely; the host role passes to the next member
// in join order.
func (r *Roster) Remove(playerID string) {
	for i, m := range r.members {
		if m.PlayerID != playerID {
			continue
		}
		r.members = append(r.members[:i], r.members[i+1:]...)
		if r.hostID == playerID {
			r.hostID = ""
			if len(r.members) > 0 {
				r.hostID = r.members[0].PlayerID
			}
		}
		return
	}
}

// BySession finds the connected member bound to sessionID.
func (r *Roster) BySession(sessionID string) (*Member, bool) {
	if sessionID == "" {
		return nil, false
	}
	for _, m := range r.members {
		if m.Connected && m.SessionID == sessionID {
			return m, true
		}
	}
	return nil, false
}

func (r *Roster) ByPlayer(playerID string) (*Member, bool) {
	for _, m := range r.members {
		if m.PlayerID == playerID {
			return m, true
		}
	}
	return nil, false
}

func (r *Roster) byName(name string) *Member {
	for _, m := range r.members {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// Members returns copies in join order.
func (r *Roster) Members() []Member {
	out := make([]Member, len(r.members))
	for i, m := range r.members {
		out[i] = *m
	}
	return out
}

func (r *Roster) ConnectedCount() int {
	n := 0
	for _, m := range r.members {
		if m.Connected {
			n++
		}
	}
	return n
}

// Seats lists the members as game seats in join order.
func (r *Roster) Seats() []game.Seat {
	seats := make([]game.Seat, len(r.members))
	for i, m := range r.members {
		seats[i] = game.Seat{ID: m.PlayerID, Name: m.Name}
	}
	return seats
}

func (r *Roster) Views() []network.Member {
	views := make([]network.Member, len(r.members))
	for i, m := range r.members {
		views[i] = network.Member{
			ID:        m.PlayerID,
			Name:      m.Name,
			Connected: m.Connected,
			Host:      m.PlayerID == r.hostID,
		}
	}
	return views
}
