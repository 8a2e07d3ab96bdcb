package handlers

import (
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kurb-simulator/peripheral/internal/gatt"
	ws "github.com/kurb-simulator/peripheral/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The simulator accepts any local tooling as a peer.
		return true
	},
}

// WebSocketUpgrade returns a handler that upgrades HTTP connections to
// WebSocket peers. A peer receives every attribute notification and
// may submit attribute writes.
func WebSocketUpgrade(hub *ws.Hub, bridge *gatt.Bridge) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		peer := ws.NewPeer(hub)
		hub.Register(peer)

		go writePump(conn, peer)
		go readPump(conn, peer, hub, bridge)
	}
}

// writePump pumps frames from the hub to the WebSocket connection.
func writePump(conn *websocket.Conn, peer *ws.Peer) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame, ok := <-peer.Send():
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump pumps frames from the WebSocket connection into the bridge.
func readPump(conn *websocket.Conn, peer *ws.Peer, hub *ws.Hub, bridge *gatt.Bridge) {
	defer func() {
		hub.Unregister(peer)
		conn.Close()
	}()

	conn.SetReadLimit(65536)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		handlePeerFrame(conn, frame, bridge)
	}
}

// handlePeerFrame processes one inbound peer frame. Attribute writes
// go through the bridge like any other transport write; anything the
// peer gets wrong is answered with an error frame, never a dropped
// connection.
func handlePeerFrame(conn *websocket.Conn, frame []byte, bridge *gatt.Bridge) {
	var msg ws.Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		sendPeerError(conn, "invalid_frame", "frame is not valid JSON")
		return
	}

	switch msg.Type {
	case ws.TypePing:
		reply, err := ws.NewMessage(ws.TypePong, nil)
		if err == nil {
			writePeerMessage(conn, reply)
		}

	case ws.TypeAttributeWrite:
		var payload ws.WritePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			sendPeerError(conn, "invalid_payload", "attribute.write payload is malformed")
			return
		}

		data, err := hex.DecodeString(payload.Data)
		if err != nil {
			sendPeerError(conn, "invalid_payload", "data must be hex encoded")
			return
		}

		bridge.HandleWrite(payload.Attribute, data)

	default:
		sendPeerError(conn, "unknown_type", "unsupported frame type "+string(msg.Type))
	}
}

func sendPeerError(conn *websocket.Conn, code, message string) {
	msg, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	writePeerMessage(conn, msg)
}

func writePeerMessage(conn *websocket.Conn, msg ws.Message) {
	frame, err := msg.JSON()
	if err != nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		log.Printf("WebSocket write error: %v", err)
	}
}
