package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/shipboard/pkg/logger"
	"github.com/okian/shipboard/pkg/metrics"
)

// Stream timing constants.
const (
	DefaultStreamInterval = 5 * time.Second
	streamWriteWait       = 10 * time.Second
)

// StreamHandler pushes metrics snapshots over a websocket.
type StreamHandler struct {
	deps     Dependencies
	interval time.Duration
	logger   logger.Logger
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a snapshot stream that ticks every interval.
func NewStreamHandler(deps Dependencies, interval time.Duration, log logger.Logger) *StreamHandler {
	if interval <= 0 {
		interval = DefaultStreamInterval
	}
	return &StreamHandler{
		deps:     deps,
		interval: interval,
		logger:   log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleStream handles GET /api/metrics/stream. The upgrade is counted once;
// each frame after that reads the counter without incrementing it. A failed
// host query sends an {"error": "..."} frame and the stream keeps going.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	metrics.IncStreamClients()
	defer metrics.DecStreamClients()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Client frames are discarded; a read error means the peer went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	count, ok := RequestCountFromContext(r.Context())
	if !ok {
		count = h.deps.RequestCount()
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.push(ctx, conn, count); err != nil {
			h.logger.Debug(ctx, "metrics stream closed", logger.Error(err))
			return
		}
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(streamWriteWait))
			return
		case <-ticker.C:
			count = h.deps.RequestCount()
		}
	}
}

func (h *StreamHandler) push(ctx context.Context, conn *websocket.Conn, count int64) error {
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
		return err
	}
	snap, err := h.deps.Snapshot(ctx, count)
	if err != nil {
		return conn.WriteJSON(errorResponse{Error: err.Error()})
	}
	return conn.WriteJSON(snap)
}
