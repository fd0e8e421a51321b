package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/creatorlink/backend/internal/events"
	"github.com/creatorlink/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WSHub fans events out to connected clients. Notification and payout
// events are routed to their recipient only; campaign lifecycle events
// are broadcast.
type WSHub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*websocket.Conn]bool
	log     *zap.Logger
}

func NewWSHub(log *zap.Logger) *WSHub {
	return &WSHub{
		clients: make(map[uuid.UUID]map[*websocket.Conn]bool),
		log:     log,
	}
}

// Run subscribes the hub to the event streams. Returns after the
// subscriptions are registered; delivery runs on the subscriber's
// goroutines.
func (h *WSHub) Run(ctx context.Context, sub events.Subscriber) error {
	if err := sub.Subscribe(ctx, events.StreamNotifications, func(ev events.Event) {
		h.routeToRecipient(ev, "recipient_id")
	}); err != nil {
		return err
	}
	if err := sub.Subscribe(ctx, events.StreamPayouts, func(ev events.Event) {
		h.routeToRecipient(ev, "creator_id")
	}); err != nil {
		return err
	}
	return sub.Subscribe(ctx, events.StreamCampaigns, func(ev events.Event) {
		h.broadcast(ev)
	})
}

// Handler upgrades the authenticated request and pumps messages until
// the client goes away. The read loop only serves to detect close.
func (h *WSHub) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		userID, _ := conn.Locals(middleware.CtxUserID).(uuid.UUID)
		if userID == uuid.Nil {
			conn.Close()
			return
		}
		h.register(userID, conn)
		defer h.unregister(userID, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

func (h *WSHub) register(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
}

func (h *WSHub) unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[userID], conn)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

func (h *WSHub) routeToRecipient(ev events.Event, key string) {
	idStr, _ := ev.Payload[key].(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients[userID]))
	for conn := range h.clients[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("ws write failed", zap.Error(err))
		}
	}
}

func (h *WSHub) broadcast(ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	var conns []*websocket.Conn
	for _, set := range h.clients {
		for conn := range set {
			conns = append(conns, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("ws write failed", zap.Error(err))
		}
	}
}
