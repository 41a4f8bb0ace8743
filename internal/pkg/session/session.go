package session

import (
	"sync"
	"sync/atomic"
	"time"

	"place/internal/pkg/log"
	"place/internal/pkg/protocol"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// State is the lifecycle state of a session.
type State int32

// Session lifecycle states.
const (
	// Connecting: raw transport accepted, no protocol exchanged yet.
	Connecting State = iota
	// Authenticating: a login request has been read, outcome pending.
	Authenticating
	// Joined: the session accepts and emits tile traffic.
	Joined
	// Closing: teardown has begun, queued sends are abandoned.
	Closing
	// Closed: the transport is closed.
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Authenticating:
		return "authenticating"
	case Joined:
		return "joined"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// DefaultQueueSize is the default outbound queue capacity per session.
const DefaultQueueSize = 64

const writeTimeout = 10 * time.Second

// Conn is the subset of the websocket connection a session drives.
// *websocket.Conn satisfies it; tests substitute in-memory fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Session is the server-side representative of one connected client. The
// outbound queue is owned by the session alone; other components only
// enqueue into it. A session whose queue overflows is closed rather than
// skipped, so a live session never misses a broadcast.
type Session struct {
	// ID correlates log lines for one connection.
	ID uuid.UUID
	// Name is the unique display name, set when the login is accepted.
	Name string

	conn  Conn
	out   chan protocol.Message
	done  chan struct{}
	state atomic.Int32

	closeOnce sync.Once
	onClose   func(*Session)

	logger logrus.FieldLogger
}

// New wraps an accepted connection in a Connecting session.
func New(conn Conn) *Session {
	id := uuid.New()
	return &Session{
		ID:     id,
		conn:   conn,
		out:    make(chan protocol.Message, DefaultQueueSize),
		done:   make(chan struct{}),
		logger: logger.WithField("session_id", id.String()),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// SetState records a lifecycle transition. Transitions into Closing or
// Closed are driven through Close.
func (s *Session) SetState(state State) {
	s.state.Store(int32(state))
}

// OnClose registers a callback invoked exactly once when the session
// closes. The broadcast core uses it to remove the session from the
// registry.
func (s *Session) OnClose(fn func(*Session)) {
	s.onClose = fn
}

// Enqueue places a message on the outbound queue without blocking. It
// returns false if the session is closing or its queue is full; the
// caller must treat false as a dead session.
func (s *Session) Enqueue(msg protocol.Message) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- msg:
		return true
	case <-s.done:
		return false
	default:
		s.logger.WithFields(log.MessageToFields(msg)).Warn("outbound queue full, dropping session")
		return false
	}
}

// Send writes a message synchronously, bypassing the queue. Only the
// connection's read goroutine may call it, and only before the session
// is joined (handshake replies and login errors).
func (s *Session) Send(msg protocol.Message) error {
	raw, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, raw)
}

// SetReadDeadline bounds the next Receive. The zero time clears it.
func (s *Session) SetReadDeadline(t time.Time) {
	s.conn.SetReadDeadline(t)
}

// Receive blocks reading the next inbound message from the transport.
func (s *Session) Receive() (protocol.Message, error) {
	_, raw, err := s.conn.ReadMessage()
	if err != nil {
		return protocol.Message{}, err
	}
	return protocol.Decode(raw)
}

// WriteLoop drains the outbound queue to the transport. It runs as the
// session's writer goroutine and exits when the session closes or a
// write fails.
func (s *Session) WriteLoop() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.out:
			raw, err := protocol.Encode(msg)
			if err != nil {
				s.logger.WithError(err).Error("encode outbound message failed")
				continue
			}
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				s.logger.WithError(err).Debug("write failed, closing session")
				s.Close()
				return
			}
		}
	}
}

// Close tears the session down: queued sends are abandoned, the
// transport is closed exactly once, and the close callback fires.
// Closing an already-closed session is a no-op.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.SetState(Closing)
		close(s.done)
		if err := s.conn.Close(); err != nil {
			s.logger.WithError(err).Debug("close transport failed")
		}
		s.SetState(Closed)
		if s.onClose != nil {
			s.onClose(s)
		}
		s.logger.WithField("name", s.Name).Info("session closed")
	})
}
