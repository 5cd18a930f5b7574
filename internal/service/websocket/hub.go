package websocket

import (
	"context"
	"encoding/json"
	"time"

	"agrorelay/internal/dto"
	"agrorelay/internal/logger"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type subscription struct {
	conn     *websocket.Conn
	deviceID string
}

type message struct {
	deviceID string
	payload  []byte
}

// HubService fans device events out to subscribed operator UIs. The Run
// goroutine owns the client set and performs every write.
type HubService struct {
	clients    map[*websocket.Conn]string
	broadcast  chan message
	register   chan subscription
	unregister chan *websocket.Conn
	logger     *logger.Logger
}

// NewHubService creates a hub; call Run before publishing.
func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]string),
		broadcast:  make(chan message, 64),
		register:   make(chan subscription),
		unregister: make(chan *websocket.Conn),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every remaining connection.
func (h *HubService) Run(ctx context.Context) {
	defer func() {
		for client := range h.clients {
			client.Close()
		}
		h.clients = make(map[*websocket.Conn]string)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case sub := <-h.register:
			h.clients[sub.conn] = sub.deviceID
			h.logger.Info("Event client connected for %s. Total: %d", sub.deviceID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
				h.logger.Info("Event client disconnected. Total: %d", len(h.clients))
			}

		case msg := <-h.broadcast:
			for client, deviceID := range h.clients {
				if deviceID != msg.deviceID {
					continue
				}
				client.SetWriteDeadline(time.Now().Add(writeWait))
				if err := client.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					h.logger.Error("Error sending event: %v", err)
					delete(h.clients, client)
					client.Close()
				}
			}
		}
	}
}

// Register subscribes conn to events of deviceID.
func (h *HubService) Register(ctx context.Context, conn *websocket.Conn, deviceID string) {
	select {
	case h.register <- subscription{conn: conn, deviceID: deviceID}:
	case <-ctx.Done():
		conn.Close()
	}
}

// Unregister removes conn and closes it.
func (h *HubService) Unregister(ctx context.Context, conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-ctx.Done():
	}
}

// Publish queues an event for subscribers of its device. Events are dropped
// when the queue is full so uploads never block on slow viewers.
func (h *HubService) Publish(event dto.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Error encoding event: %v", err)
		return
	}

	select {
	case h.broadcast <- message{deviceID: event.DeviceID, payload: payload}:
	default:
		h.logger.Warning("Event queue full - dropping %s event for %s", event.Type, event.DeviceID)
	}
}
