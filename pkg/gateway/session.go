// Package gateway owns one persistent duplex websocket connection and
// exposes it as an outbound send queue plus a broadcast hub of inbound
// frames. Transport errors are fatal to the whole process: the bridge
// offers no durability, so restarting from scratch under an external
// supervisor is simpler and safer than in-process reconnection.
package gateway

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/tinyland-inc/bridgeclaw/pkg/failsafe"
	"github.com/tinyland-inc/bridgeclaw/pkg/hub"
	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
)

// ErrSessionClosed is returned by Send once the session has terminated.
var ErrSessionClosed = errors.New("gateway session closed")

// outboundDepth bounds the send queue. Writes drain in submission order.
const outboundDepth = 64

// Frame is one inbound or outbound transport frame, opaque to this layer.
type Frame struct {
	Type int // websocket.TextMessage or websocket.BinaryMessage
	Data []byte
}

// TextFrame wraps a text payload in a Frame.
func TextFrame(data []byte) Frame {
	return Frame{Type: websocket.TextMessage, Data: data}
}

// Conn is the minimal websocket surface the session drives. Satisfied by
// *websocket.Conn; tests substitute a scripted fake.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Session pairs one Conn with a fan-out hub of inbound frames and a FIFO
// outbound queue. Both loops run until the first transport error, which
// trips the fatal switch.
type Session struct {
	name     string
	conn     Conn
	hub      *hub.Hub[Frame]
	initial  atomic.Pointer[hub.Subscription[Frame]]
	outbound chan Frame
	sw       *failsafe.Switch

	done     chan struct{}
	doneOnce sync.Once
}

// NewSession wraps conn. The read and write loops do not start until Start
// is called, so callers can register subscriptions first without racing
// the initial inbound frames.
func NewSession(name string, conn Conn, sw *failsafe.Switch) *Session {
	h, initial := hub.New[Frame]()
	s := &Session{
		name:     name,
		conn:     conn,
		hub:      h,
		outbound: make(chan Frame, outboundDepth),
		sw:       sw,
		done:     make(chan struct{}),
	}
	s.initial.Store(initial)
	return s
}

// Subscribe returns a fresh independent subscription to the inbound stream.
// The first call receives the hub's initial subscription.
func (s *Session) Subscribe() *hub.Subscription[Frame] {
	if sub := s.initial.Swap(nil); sub != nil {
		return sub
	}
	return s.hub.Subscribe()
}

// Start launches the transport read and write loops.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send enqueues a frame for writing and returns immediately. Frames are
// written in submission order. Fails only once the session has terminated.
func (s *Session) Send(f Frame) error {
	select {
	case s.outbound <- f:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// Done is closed when the session has terminated.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) readLoop() {
	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			s.fail(fmt.Errorf("read: %w", err))
			return
		}
		logger.DebugCF(s.name, "Inbound frame", map[string]any{
			"type": mt,
			"data": string(data),
		})
		s.hub.Publish(Frame{Type: mt, Data: data})
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case f := <-s.outbound:
			if err := s.conn.WriteMessage(f.Type, f.Data); err != nil {
				s.fail(fmt.Errorf("write: %w", err))
				return
			}
		case <-s.done:
			return
		}
	}
}

// fail terminates the session exactly once: the hub ends every inbound
// subscription, Send starts failing, and the fatal switch is tripped.
func (s *Session) fail(err error) {
	s.doneOnce.Do(func() {
		close(s.done)
		s.hub.Close()
		_ = s.conn.Close()
		s.sw.Trip(s.name, err)
	})
}
