package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"diamondprep/internal/diamonds"
	"diamondprep/internal/exporter"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// StreamDone is the last message of a stream
type StreamDone struct {
	Done  bool   `json:"done"`
	Mode  string `json:"mode"`
	Count int    `json:"count"`
}

// Stream handles GET /api/v1/stream?mode=. The configured source is
// normalized first so failures still answer with a problem document; only
// then is the connection upgraded and one {"id","record"} message sent per
// row, followed by a StreamDone message and a normal close.
func (h *DatasetHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, err := h.parseQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	seq, _, err := h.service.Generate(ctx, query.Mode)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	mode := query.Mode
	if mode == "" {
		mode = string(diamonds.ModeCut)
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already wrote the HTTP error
		h.logger.WarnContext(ctx, "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("origin", r.Header.Get("Origin")))
		return
	}
	defer conn.Close()

	h.logger.InfoContext(ctx, "WebSocket stream started",
		slog.String("mode", mode),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("request_id", middleware.GetReqID(ctx)))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Control frames are only processed while reading; a read error means
	// the peer went away.
	conn.SetReadLimit(maxMessageSize)
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	count := 0
	for id, row := range seq {
		if ctx.Err() != nil {
			h.logger.InfoContext(ctx, "WebSocket stream aborted by client",
				slog.Int("sent", count))
			return
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(exporter.Line{ID: id, Record: diamonds.ToMap(row)}); err != nil {
			h.logger.WarnContext(ctx, "WebSocket write failed",
				slog.Int("sent", count),
				slog.String("error", err.Error()))
			return
		}
		count++
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(StreamDone{Done: true, Mode: mode, Count: count}); err != nil {
		return
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream complete"),
		time.Now().Add(writeWait))

	h.logger.InfoContext(ctx, "WebSocket stream finished",
		slog.String("mode", mode),
		slog.Int("rows", count))
}

// checkOrigin allows same-host requests, requests without an Origin, and the
// configured origins.
func (h *DatasetHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return strings.EqualFold(strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://"), r.Host)
}
