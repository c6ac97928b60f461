package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wfunc/mosaic/logger"
	"github.com/wfunc/mosaic/network"
)

// wsClient speaks the framed protocol over one websocket.
type wsClient struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func (c *wsClient) send(msgID uint16, payload any) error {
	var data []byte
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return err
		}
	}
	packet, err := network.EncodePacket(msgID, data)
	if err != nil {
		return err
	}
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, packet)
}

func playNetworked(in *bufio.Scanner, out io.Writer, addr, roomID string) error {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	if roomID != "" {
		u.RawQuery = url.Values{"room": {roomID}}.Encode()
	}
	logger.Log.Infof("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	defer conn.Close()
	c := &wsClient{conn: conn}

	var outMutex sync.Mutex
	done := make(chan struct{})
	go func() {
		defer close(done)
		readLoop(conn, out, &outMutex)
	}()
	go heartbeat(c, done)

	fmt.Fprintln(out, "connected; type `join <name>` to take a seat")
	for in.Scan() {
		select {
		case <-done:
			return nil
		default:
		}
		cmd, err := parseCommand(in.Text())
		if err != nil {
			outMutex.Lock()
			fmt.Fprintln(out, err)
			outMutex.Unlock()
			continue
		}
		if err := sendCommand(c, cmd); err != nil {
			return err
		}
		if cmd.kind == "quit" {
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return nil
		}
	}
	return in.Err()
}

func sendCommand(c *wsClient, cmd command) error {
	switch cmd.kind {
	case "join":
		return c.send(network.MsgTypeJoin, network.JoinRequest{PlayerName: cmd.name})
	case "start":
		return c.send(network.MsgTypeStart, nil)
	case "leave":
		return c.send(network.MsgTypeLeave, nil)
	case "pick":
		src := network.SourceRef{Type: network.SourceFactory, Factory: int(cmd.source)}
		if cmd.source < 0 {
			src = network.SourceRef{Type: network.SourceCenter}
		}
		color := cmd.color
		return c.send(network.MsgTypePickup, network.PickupRequest{Source: src, Color: &color})
	case "place":
		line := cmd.line
		return c.send(network.MsgTypePlace, network.PlaceRequest{TargetLine: &line})
	case "move":
		return fmt.Errorf("move is for -local play; use pick and place")
	}
	return nil
}

func heartbeat(c *wsClient, done <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.send(network.MsgTypeHeartbeat, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func readLoop(conn *websocket.Conn, out io.Writer, outMutex *sync.Mutex) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			logger.Log.Infof("Read error: %v", err)
			return
		}
		p, err := network.DecodePacket(raw)
		if err != nil {
			logger.Log.Warnf("bad packet: %v", err)
			continue
		}
		outMutex.Lock()
		show(out, p)
		outMutex.Unlock()
	}
}

func show(out io.Writer, p *network.Packet) {
	switch p.MsgID {
	case network.MsgTypeJoined:
		var m network.JoinedMessage
		if json.Unmarshal(p.Data, &m) == nil {
			fmt.Fprintf(out, "joined room %s as %s\n", m.RoomID, m.PlayerID)
		}
	case network.MsgTypeError:
		var m network.ErrorMessage
		if json.Unmarshal(p.Data, &m) == nil {
			fmt.Fprintf(out, "error %s: %s\n", m.Code, m.Message)
		}
	case network.MsgTypeState:
		var m network.StateMessage
		if err := json.Unmarshal(p.Data, &m); err != nil {
			logger.Log.Warnf("bad state: %v", err)
			return
		}
		showState(out, m)
	}
}

func showState(out io.Writer, m network.StateMessage) {
	s := m.Snapshot
	if s.Game == nil {
		fmt.Fprintf(out, "\nroom %s (%s):", s.RoomID, s.Status)
		for _, mem := range s.Members {
			host := ""
			if mem.Host {
				host = " (host)"
			}
			fmt.Fprintf(out, " %s%s", mem.Name, host)
		}
		fmt.Fprintln(out)
		return
	}
	render(out, s.Game, s.Pending)
	if len(m.ValidTargetLines) > 0 {
		fmt.Fprintf(out, "place on one of %v (-1 is the floor)\n", m.ValidTargetLines)
	}
}
