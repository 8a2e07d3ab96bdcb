package websocket

import (
	"encoding/hex"
	"fmt"
)

// PeerNotifier implements the bridge's notification capability by
// broadcasting attribute pushes to every connected peer.
type PeerNotifier struct {
	hub *Hub
}

// NewPeerNotifier creates a notifier over the hub.
func NewPeerNotifier(hub *Hub) *PeerNotifier {
	return &PeerNotifier{hub: hub}
}

// SendNotification broadcasts one characteristic value push.
func (n *PeerNotifier) SendNotification(attrUUID string, payload []byte) error {
	msg, err := NewMessage(TypeAttributeNotified, NotificationPayload{
		Attribute: attrUUID,
		Data:      hex.EncodeToString(payload),
	})
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	frame, err := msg.JSON()
	if err != nil {
		return fmt.Errorf("encoding notification frame: %w", err)
	}

	n.hub.Broadcast(frame)
	return nil
}
