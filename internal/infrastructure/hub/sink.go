package hub

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/gin-contrib/sse"
)

const defaultSinkBuffer = 64

// StreamSink buffers serialized events for a Server-Sent Events response.
// The HTTP handler goroutine drains it with Pump.
type StreamSink struct {
	payloads chan []byte
	done     chan struct{}
	once     sync.Once
}

func NewStreamSink(buffer int) *StreamSink {
	if buffer <= 0 {
		buffer = defaultSinkBuffer
	}
	return &StreamSink{
		payloads: make(chan []byte, buffer),
		done:     make(chan struct{}),
	}
}

func (s *StreamSink) Send(payload []byte) error {
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

// Close is idempotent. The payload channel is never closed so a racing Send
// cannot panic.
func (s *StreamSink) Close() error {
	s.once.Do(func() {
		close(s.done)
	})
	return nil
}

func (s *StreamSink) Done() <-chan struct{} {
	return s.done
}

// Pump writes queued events to w as event-stream frames until ctx is
// cancelled, the sink is closed, or a write fails. After Close it still
// writes whatever was queued. A write failure closes the sink before the
// error is returned.
func (s *StreamSink) Pump(ctx context.Context, w io.Writer) error {
	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.done:
			// Frames accepted before Close were counted as delivered.
			for {
				select {
				case payload := <-s.payloads:
					if err := s.write(w, flusher, payload); err != nil {
						return err
					}
				default:
					return nil
				}
			}

		case payload := <-s.payloads:
			if err := s.write(w, flusher, payload); err != nil {
				return err
			}
		}
	}
}

func (s *StreamSink) write(w io.Writer, flusher http.Flusher, payload []byte) error {
	if err := sse.Encode(w, sse.Event{Data: json.RawMessage(payload)}); err != nil {
		s.Close()
		return err
	}
	if flusher != nil {
		flusher.Flush()
	}
	return nil
}
