package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"go-recruit-sse/internal/infrastructure/logger"
)

// WebSocketSink delivers serialized events as WebSocket text messages.
type WebSocketSink struct {
	conn *websocket.Conn

	payloads chan []byte
	done     chan struct{}
	once     sync.Once

	logger logger.Logger

	writeTimeout time.Duration
	readLimit    int64
}

func NewWebSocketSink(conn *websocket.Conn, buffer int, log logger.Logger) *WebSocketSink {
	if buffer <= 0 {
		buffer = defaultSinkBuffer
	}

	s := &WebSocketSink{
		conn:         conn,
		payloads:     make(chan []byte, buffer),
		done:         make(chan struct{}),
		logger:       log.WithField("sink", "websocket"),
		writeTimeout: 10 * time.Second,
		readLimit:    64 * 1024,
	}

	go s.writePump()
	go s.readPump()

	return s
}

func (s *WebSocketSink) Send(payload []byte) error {
	select {
	case <-s.done:
		return ErrSinkClosed
	default:
	}

	select {
	case s.payloads <- payload:
		return nil
	case <-s.done:
		return ErrSinkClosed
	default:
		return ErrSinkFull
	}
}

// Close marks the sink closed. The write pump sends the close frame and
// releases the socket.
func (s *WebSocketSink) Close() error {
	s.once.Do(func() {
		close(s.done)
	})
	return nil
}

func (s *WebSocketSink) Done() <-chan struct{} {
	return s.done
}

func (s *WebSocketSink) writePump() {
	defer func() {
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(s.writeTimeout),
		)
		_ = s.conn.Close()
	}()
	defer s.Close()

	for {
		select {
		case payload := <-s.payloads:
			if err := s.write(payload); err != nil {
				return
			}

		case <-s.done:
			for {
				select {
				case payload := <-s.payloads:
					if err := s.write(payload); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (s *WebSocketSink) write(payload []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.logger.Warnf("Failed to write message: %v", err)
		return err
	}
	return nil
}

// readPump only exists to notice the client going away; inbound frames are
// discarded.
func (s *WebSocketSink) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(s.readLimit)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				s.logger.Warnf("WebSocket error: %v", err)
			}
			return
		}
	}
}
