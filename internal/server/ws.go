package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/armascan/internal/scan"
)

const (
	statusBuffer = 16
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StatusHandler pushes scan status snapshots to WebSocket clients. Each
// client gets the current status on connect and then every published
// update. Slow clients drop updates rather than stall the pipeline.
type StatusHandler struct {
	pipeline Pipeline
}

// NewStatusHandler creates a new StatusHandler for the given pipeline.
func NewStatusHandler(p Pipeline) *StatusHandler {
	return &StatusHandler{pipeline: p}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	updates := make(chan scan.Status, statusBuffer)
	unsubscribe := h.pipeline.Subscribe(func(st scan.Status) {
		select {
		case updates <- st:
		default:
		}
	})
	defer unsubscribe()

	// Detect client disconnects by reading until an error.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, h.pipeline.Status()); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case st := <-updates:
			if err := h.write(conn, st); err != nil {
				return
			}
		}
	}
}

func (h *StatusHandler) write(conn *websocket.Conn, st scan.Status) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(st)
}
