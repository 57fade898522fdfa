package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-recruit-sse/internal/application/chat"
	"go-recruit-sse/internal/application/recruiting"
	"go-recruit-sse/internal/infrastructure/config"
	"go-recruit-sse/internal/infrastructure/hub"
	"go-recruit-sse/internal/infrastructure/logger"
	"go-recruit-sse/internal/infrastructure/server"
	"go-recruit-sse/internal/infrastructure/store"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to reserve a port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

func waitForServer(t *testing.T, url string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if resp, err := http.Get(url); err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Server at %s did not come up", url)
}

func TestApplication_ShutdownDeliversFinalStatusToOpenStreams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.Load()
	cfg.HTTP.Addr = freeAddr(t)
	cfg.HTTP.ShutdownWait = 5 * time.Second

	lcfg := logger.NewDefaultConfig()
	lcfg.Level = logger.LevelError
	log := logger.NewLogrusLogger(lcfg)

	st, err := store.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	h := hub.New(log)
	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start hub: %v", err)
	}

	// Long turns keep the conversation running until shutdown.
	chatCfg := chat.DefaultConfig()
	chatCfg.TurnDelay = time.Hour
	svc := recruiting.NewService(st, h, chat.NewSimulator(chatCfg, nil, st, h, log), log)

	httpSrv := server.NewHTTPServer(*cfg.HTTP, InitRouter(cfg, h, svc, log))
	app := newApplication(log, cfg, httpSrv, h, svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- app.Run(ctx) }()

	base := "http://" + cfg.HTTP.Addr
	waitForServer(t, base+"/hub/status")

	resp, err := http.Post(base+"/api/v1/conversations", "application/json",
		strings.NewReader(`{"userId":"u1","jobId":"job-devops"}`))
	if err != nil {
		t.Fatalf("Start conversation failed: %v", err)
	}
	var conv struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&conv)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || conv.ID == "" {
		t.Fatalf("Expected 201 with an id, got %d %+v", resp.StatusCode, conv)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	stream, err := client.Get(base + "/api/sse?userId=u1&conversationId=" + conv.ID)
	if err != nil {
		t.Fatalf("Open stream failed: %v", err)
	}
	defer stream.Body.Close()

	reader := bufio.NewReader(stream.Body)
	first, err := reader.ReadString('\n')
	if err != nil || !strings.Contains(first, `"status":"connected"`) {
		t.Fatalf("Expected the connected greeting, got %q (%v)", first, err)
	}

	// Same path as SIGINT: the run context is cancelled.
	cancel()

	rest, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("Stream did not end cleanly: %v", err)
	}
	if !strings.Contains(string(rest), `"status":"cancelled"`) {
		t.Errorf("Expected the cancelled status before the stream closed, got %q", rest)
	}
	if !strings.Contains(string(rest), `"type":"conversation_snapshot"`) {
		t.Errorf("Expected a final snapshot before the stream closed, got %q", rest)
	}

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after shutdown")
	}
}
