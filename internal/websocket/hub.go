// Package websocket delivers attribute notifications to connected
// peers. A connected WebSocket client plays the role of the BLE
// central subscribed to the peripheral's characteristics.
package websocket

import (
	"log"
	"sync"
)

// Hub maintains the set of connected peers and broadcasts
// notification frames to all of them.
type Hub struct {
	// Connected peers
	peers map[*Peer]bool

	// Outbound frames for all peers
	broadcast chan []byte

	// Register requests from peers
	register chan *Peer

	// Unregister requests from peers
	unregister chan *Peer

	mu sync.RWMutex
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		peers:      make(map[*Peer]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Peer),
		unregister: make(chan *Peer),
	}
}

// Run starts the hub's main event loop. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case peer := <-h.register:
			h.mu.Lock()
			h.peers[peer] = true
			h.mu.Unlock()
			log.Printf("Peer connected (total: %d)", h.PeerCount())

		case peer := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.peers[peer]; ok {
				delete(h.peers, peer)
				close(peer.send)
			}
			h.mu.Unlock()
			log.Printf("Peer disconnected (total: %d)", h.PeerCount())

		case frame := <-h.broadcast:
			h.mu.Lock()
			for peer := range h.peers {
				select {
				case peer.send <- frame:
				default:
					// Peer send buffer full, drop the connection
					close(peer.send)
					delete(h.peers, peer)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a frame for all connected peers. Delivery is
// fire-and-forget; a full queue drops the frame.
func (h *Hub) Broadcast(frame []byte) {
	select {
	case h.broadcast <- frame:
	default:
		log.Println("Broadcast channel full, dropping frame")
	}
}

// Register adds a peer to the hub.
func (h *Hub) Register(peer *Peer) {
	h.register <- peer
}

// Unregister removes a peer from the hub.
func (h *Hub) Unregister(peer *Peer) {
	h.unregister <- peer
}

// PeerCount returns the number of connected peers.
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Peer represents one connected client.
type Peer struct {
	hub  *Hub
	send chan []byte
}

// NewPeer creates a peer bound to the hub.
func NewPeer(hub *Hub) *Peer {
	return &Peer{
		hub:  hub,
		send: make(chan []byte, 256),
	}
}

// Send returns the peer's outbound frame channel.
func (p *Peer) Send() chan []byte {
	return p.send
}
