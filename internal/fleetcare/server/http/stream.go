package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/autopeer-io/fleetcare/internal/pkg/metrics"
	"github.com/autopeer-io/fleetcare/pkg/log"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// streamTracking pushes a live sample every stream interval until the client
// goes away or the server shuts down.
func (h *Handler) streamTracking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["vehicleId"]
	logger := log.FromContext(r.Context()).WithValues("vehicle", id)

	base, err := h.svc.Tracker.Locate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already replied to the client.
		logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	metrics.TelemetryStreams.Inc()
	defer metrics.TelemetryStreams.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reading is only needed to notice the client closing the socket.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	logger.Info("Telemetry stream opened")
	for sample := range h.svc.Tracker.Watch(ctx, id, base, h.streamInterval) {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(toTracking(sample)); err != nil {
			logger.Debug("Telemetry stream write failed", "error", err)
			cancel()
			break
		}
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	logger.Info("Telemetry stream closed")
}
