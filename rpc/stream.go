package rpc

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"weidex/core/events"
)

const wsWriteTimeout = 10 * time.Second

// handleEventStream upgrades to a websocket and forwards committed events as
// JSON text frames. An optional type query parameter filters by event type.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "event stream disabled")
		return
	}
	filter := strings.TrimSpace(r.URL.Query().Get("type"))
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "stream closed")

	// The client never sends data frames; CloseRead services control frames
	// and cancels ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())
	updates, cancel := s.hub.Subscribe(events.DefaultSubscriberBuffer)
	defer cancel()

	if err := s.stream(ctx, conn, updates, filter); err != nil {
		if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
			s.logger.Debug("event stream ended",
				slog.String("request_id", r.Header.Get(HeaderRequestID)),
				slog.String("error", err.Error()))
			_ = conn.Close(websocket.StatusInternalError, "stream error")
		}
	}
}

func (s *Server) stream(ctx context.Context, conn *websocket.Conn, updates <-chan events.Event, filter string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-updates:
			if !ok {
				return nil
			}
			if filter != "" && evt.EventType() != filter {
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := wsjson.Write(writeCtx, conn, evt.Event())
			cancel()
			if err != nil {
				return err
			}
		}
	}
}
