package websocket

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-recruit-sse/internal/infrastructure/hub"
	"go-recruit-sse/internal/infrastructure/logger"
)

func startServer(t *testing.T) (*httptest.Server, *hub.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := hub.New(&mockLogger{})
	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start hub: %v", err)
	}

	r := gin.New()
	InitWebSocketRouter(&mockLogger{}, h, 8, r.Group(""))
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		h.Stop(context.Background())
		srv.Close()
	})
	return srv, h
}

func readEvent(t *testing.T, conn *websocket.Conn) hub.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	var ev hub.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("Invalid event %q: %v", data, err)
	}
	return ev
}

func TestWebSocket_ReceivesRoutedEvents(t *testing.T) {
	srv, h := startServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?userId=u1&conversationId=c1"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	if ev := readEvent(t, conn); ev.Type != hub.EventTypeStatusChange {
		t.Fatalf("Expected status_change on connect, got %s", ev.Type)
	}

	if sent := h.NotifyKeyPoint("c1", map[string]string{"category": "Experience"}); sent != 1 {
		t.Fatalf("Expected 1 delivery, got %d", sent)
	}
	if ev := readEvent(t, conn); ev.Type != hub.EventTypeKeyPoint {
		t.Errorf("Expected key_point, got %s", ev.Type)
	}
}

func TestWebSocket_HubStopFlushesQueuedEvents(t *testing.T) {
	srv, h := startServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?userId=u1&conversationId=c1"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	readEvent(t, conn)

	h.NotifyStatusChange("c1", "active")
	h.NotifyKeyPoint("c1", map[string]string{"category": "Skills"})
	h.NotifyStatusChange("c1", "cancelled")
	h.Stop(context.Background())

	want := []hub.EventType{hub.EventTypeStatusChange, hub.EventTypeKeyPoint, hub.EventTypeStatusChange}
	for i, typ := range want {
		if ev := readEvent(t, conn); ev.Type != typ {
			t.Errorf("Event %d: expected %s, got %s", i, typ, ev.Type)
		}
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("Expected a normal close after the queued events, got %v", err)
	}
}

func TestWebSocket_ClientCloseUnregisters(t *testing.T) {
	srv, h := startServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?userId=u1"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	readEvent(t, conn)
	if h.CountForOwner("u1") != 1 {
		t.Fatalf("Expected 1 connection for u1, got %d", h.CountForOwner("u1"))
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.Count() != 0 {
		t.Errorf("Expected connection to be removed, got %d", h.Count())
	}
}

func TestWebSocket_RequiresUserID(t *testing.T) {
	srv, _ := startServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string)                              {}
func (m *mockLogger) Debugf(format string, args ...any)             {}
func (m *mockLogger) Info(msg string)                               {}
func (m *mockLogger) Infof(format string, args ...any)              {}
func (m *mockLogger) Warn(msg string)                               {}
func (m *mockLogger) Warnf(format string, args ...any)              {}
func (m *mockLogger) Error(msg string)                              {}
func (m *mockLogger) Errorf(format string, args ...any)             {}
func (m *mockLogger) Fatal(msg string)                              {}
func (m *mockLogger) Fatalf(format string, args ...any)             {}
func (m *mockLogger) WithField(key string, value any) logger.Logger { return m }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }
func (m *mockLogger) WithContext(ctx context.Context) logger.Logger { return m }
func (m *mockLogger) SetLevel(level logger.Level)                   {}
func (m *mockLogger) SetOutput(output io.Writer)                    {}
