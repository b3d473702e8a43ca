package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/navikt/roomalloc/internal/models"
	"github.com/r3labs/sse/v2"
	"github.com/sirupsen/logrus"
)

// UpdatesStream is the SSE stream carrying building state updates
const UpdatesStream = "updates"

// SSEManager pushes building updates to display clients as server-sent events
type SSEManager struct {
	server *sse.Server
}

// NewSSEManager creates a new server-sent events manager with the updates stream open
func NewSSEManager() *SSEManager {
	server := sse.New()
	// Displays fetch the grid on connect, so old events are not replayed
	server.AutoReplay = false
	server.AutoStream = false
	server.CreateStream(UpdatesStream)

	return &SSEManager{
		server: server,
	}
}

// ServeHTTP implements the http.Handler interface for SSE connections.
// Requests without a stream parameter subscribe to the updates stream.
func (sm *SSEManager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Set CORS headers to make SSE work in various environments
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Disable nginx proxy buffering
	w.Header().Set("X-Accel-Buffering", "no")

	query := r.URL.Query()
	if query.Get("stream") == "" {
		query.Set("stream", UpdatesStream)
		r.URL.RawQuery = query.Encode()
	}

	logrus.WithField("remote", r.RemoteAddr).Debug("SSE client connected")
	sm.server.ServeHTTP(w, r)
	logrus.WithField("remote", r.RemoteAddr).Debug("SSE client disconnected")
}

// NotifyUpdate publishes a state update to all connected clients
func (sm *SSEManager) NotifyUpdate(event models.UpdateEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("Error encoding SSE update")
		return
	}

	logrus.WithField("type", event.Type).Debug("Publishing SSE update event")

	sm.server.Publish(UpdatesStream, &sse.Event{
		ID:    []byte(strconv.FormatInt(time.Now().UnixNano(), 10)),
		Event: []byte(event.Type),
		Data:  data,
	})
}

// Shutdown closes all client connections
func (sm *SSEManager) Shutdown() {
	sm.server.Close()
}
