package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eleven-am/voice-client/internal/shared"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

type State int

const (
	StateConnecting State = iota
	StateOpen
	StateUpdating
	StateStreaming
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateUpdating:
		return "updating"
	case StateStreaming:
		return "streaming"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is one live realtime connection. The write half is owned
// exclusively by the outbound pump and the read half by the inbound
// reader, so wire ordering matches enqueue ordering in each direction.
// The connection is torn down exactly once, on explicit Close, a
// transport error, or server close; all background work stops with it.
type Session struct {
	ws  *websocket.Conn
	log *slog.Logger

	send   chan InputEvent
	events chan ReceivedEvent
	done   chan struct{}

	closeOnce sync.Once

	mu            sync.RWMutex
	state         State
	pendingUpdate int
	err           error
}

func newSession(ws *websocket.Conn, cfg Config, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}

	sendBuf := cfg.BufferSizes.SendQueue
	if sendBuf <= 0 {
		sendBuf = defaultSendQueue
	}
	eventBuf := cfg.BufferSizes.Events
	if eventBuf <= 0 {
		eventBuf = defaultEvents
	}

	s := &Session{
		ws:     ws,
		log:    log,
		send:   make(chan InputEvent, sendBuf),
		events: make(chan ReceivedEvent, eventBuf),
		done:   make(chan struct{}),
		state:  StateConnecting,
	}

	go s.writePump()
	go s.readPump()

	return s
}

// Send enqueues an input event for ordered delivery. It blocks when
// the pump's queue is full rather than dropping, since a dropped
// session-control event would desynchronize state. Audio buffer events
// are only valid while the session is open or streaming; the gate and
// the update bookkeeping are decided under one lock so a concurrent
// update cannot slip an audio event past the state change.
func (s *Session) Send(ctx context.Context, ev InputEvent) error {
	s.mu.Lock()
	st := s.state

	if st == StateClosing || st == StateClosed {
		s.mu.Unlock()
		return shared.ErrSessionClosed
	}

	switch ev.Type {
	case typeAppendAudio, typeCommitAudio, typeClearAudio:
		if st != StateOpen && st != StateStreaming {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s while %s", shared.ErrInvalidState, ev.Type, st)
		}
	case typeUpdateSession:
		s.pendingUpdate++
		if st == StateOpen || st == StateStreaming {
			s.state = StateUpdating
		}
	}
	s.mu.Unlock()

	select {
	case s.send <- ev:
		return nil
	case <-s.done:
		if ev.Type == typeUpdateSession {
			s.unwindUpdate()
		}
		return shared.ErrSessionClosed
	case <-ctx.Done():
		if ev.Type == typeUpdateSession {
			s.unwindUpdate()
		}
		return ctx.Err()
	}
}

// Events exposes the inbound stream. It preserves wire arrival order,
// silently skips malformed frames, and is closed when the connection
// ends. It is not restartable; a new Connect is required to
// re-subscribe.
func (s *Session) Events() <-chan ReceivedEvent {
	return s.events
}

// Done is closed when the session has begun tearing down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err reports the fatal transport error, if any, once Done is closed.
// A clean shutdown returns nil.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Close tears the connection down. It is idempotent and safe to call
// from any goroutine.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.state != StateClosed {
			s.state = StateClosing
		}
		s.mu.Unlock()

		close(s.done)

		deadline := time.Now().Add(writeWait)
		_ = s.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = s.ws.Close()
	})
	return nil
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	_ = s.Close()
}

// unwindUpdate rolls back the bookkeeping for an update that was never
// enqueued. Re-opening the gate keeps audio events flowing instead of
// leaving the session stuck in Updating with no ack coming.
func (s *Session) unwindUpdate() {
	s.mu.Lock()
	if s.pendingUpdate > 0 {
		s.pendingUpdate--
	}
	if s.pendingUpdate == 0 && s.state == StateUpdating {
		s.state = StateOpen
	}
	s.mu.Unlock()
}

func (s *Session) observe(ev ReceivedEvent) {
	s.mu.Lock()
	switch ev.(type) {
	case SessionCreated:
		if s.state == StateConnecting {
			if s.pendingUpdate > 0 {
				s.state = StateUpdating
			} else {
				s.state = StateOpen
			}
		}
	case SessionUpdated:
		if s.pendingUpdate > 0 {
			s.pendingUpdate--
		}
		if s.pendingUpdate == 0 && (s.state == StateUpdating || s.state == StateOpen) {
			s.state = StateStreaming
		}
	}
	s.mu.Unlock()
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-s.send:
			data, err := encodeInput(ev)
			if err != nil {
				s.log.Error("failed to encode input event", "type", ev.Type, "error", err)
				continue
			}
			_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				s.fail(&shared.TransportError{Op: "write", Err: err})
				return
			}

		case <-ticker.C:
			_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.fail(&shared.TransportError{Op: "ping", Err: err})
				return
			}

		case <-s.done:
			return
		}
	}
}

func (s *Session) readPump() {
	defer func() {
		_ = s.Close()
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		close(s.events)
	}()

	s.ws.SetReadLimit(maxMessageSize)
	_ = s.ws.SetReadDeadline(time.Now().Add(pongWait))
	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := s.ws.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.fail(&shared.TransportError{Op: "read", Err: err})
				}
			}
			return
		}
		_ = s.ws.SetReadDeadline(time.Now().Add(pongWait))

		if msgType != websocket.TextMessage {
			continue
		}

		ev, err := decodeReceived(data)
		if err != nil {
			s.log.Debug("dropping undecodable frame", "error", err)
			continue
		}

		s.observe(ev)

		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}
