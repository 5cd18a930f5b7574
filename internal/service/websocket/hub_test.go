package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agrorelay/internal/dto"
	"agrorelay/internal/logger"

	"github.com/gorilla/websocket"
)

func startHubServer(t *testing.T, hub *HubService, ctx context.Context) (*httptest.Server, chan struct{}) {
	t.Helper()

	registered := make(chan struct{}, 4)
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(ctx, conn, r.URL.Query().Get("pi_id"))
		registered <- struct{}{}
	}))
	t.Cleanup(srv.Close)
	return srv, registered
}

func dial(t *testing.T, srv *httptest.Server, deviceID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?pi_id=" + deviceID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_DeliversEventsPerDevice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHubService(logger.Discard())
	go hub.Run(ctx)

	srv, registered := startHubServer(t, hub, ctx)

	a := dial(t, srv, "A")
	<-registered
	b := dial(t, srv, "B")
	<-registered

	hub.Publish(dto.Event{Type: dto.EventCommand, DeviceID: "A", Command: "CAPTURE", At: time.Now()})

	a.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := a.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	var event dto.Event
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("Invalid event JSON: %v", err)
	}
	if event.Type != dto.EventCommand || event.DeviceID != "A" || event.Command != "CAPTURE" {
		t.Errorf("Unexpected event: %+v", event)
	}

	b.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := b.ReadMessage(); err == nil {
		t.Error("Subscriber of B should not receive events for A")
	}
}

func TestHub_ClosesClientsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHubService(logger.Discard())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	srv, registered := startHubServer(t, hub, ctx)
	conn := dial(t, srv, "A")
	<-registered

	cancel()
	<-stopped

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to be closed after shutdown")
	}
}
