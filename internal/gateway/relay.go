package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/eleven-am/voice-client/internal/realtime"
	"github.com/eleven-am/voice-client/internal/shared"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

// relay bridges one downstream client websocket to one upstream
// realtime session. Client text frames are forwarded as input events;
// decoded upstream events are re-serialized back to the client. Either
// side ending tears down both.
type relay struct {
	ws      *websocket.Conn
	session *realtime.Session
	log     *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

func newRelay(ws *websocket.Conn, session *realtime.Session, log *slog.Logger) *relay {
	if log == nil {
		log = slog.Default()
	}
	return &relay{
		ws:      ws,
		session: session,
		log:     log,
		done:    make(chan struct{}),
	}
}

func (r *relay) run(ctx context.Context) {
	go r.upstreamPump()
	r.clientPump(ctx)
	r.close()
}

func (r *relay) close() {
	r.closeOnce.Do(func() {
		close(r.done)
		_ = r.session.Close()
		_ = r.ws.Close()
	})
}

func (r *relay) clientPump(ctx context.Context) {
	defer r.close()

	r.ws.SetReadLimit(maxMessageSize)
	_ = r.ws.SetReadDeadline(time.Now().Add(pongWait))
	r.ws.SetPongHandler(func(string) error {
		return r.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := r.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.log.Error("client read error", "error", err)
			}
			return
		}
		_ = r.ws.SetReadDeadline(time.Now().Add(pongWait))

		if msgType != websocket.TextMessage {
			continue
		}

		var ev realtime.InputEvent
		if err := json.Unmarshal(data, &ev); err != nil || ev.Type == "" {
			r.log.Warn("dropping unparseable client frame")
			continue
		}

		if err := r.session.Send(ctx, ev); err != nil {
			if errors.Is(err, shared.ErrInvalidState) {
				r.log.Warn("dropping client event", "type", ev.Type, "error", err)
				continue
			}
			return
		}
	}
}

func (r *relay) upstreamPump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		r.close()
	}()

	for {
		select {
		case ev, ok := <-r.session.Events():
			if !ok {
				code, reason := websocket.CloseNormalClosure, ""
				if err := r.session.Err(); err != nil {
					code, reason = websocket.CloseInternalServerErr, "upstream failure"
					r.log.Error("upstream session failed", "error", err)
				}
				_ = r.ws.SetWriteDeadline(time.Now().Add(writeWait))
				_ = r.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(code, reason))
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				r.log.Error("failed to marshal upstream event", "error", err)
				continue
			}

			_ = r.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := r.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				r.log.Error("client write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = r.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := r.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-r.done:
			return
		}
	}
}
