package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/armascan/internal/scan"
	"github.com/ayusman/armascan/internal/sizing"
)

// SessionHandler exposes the scan session: its status, the selections that
// configure it, and start/stop/reset commands.
type SessionHandler struct {
	scanner Scanner
}

// NewSessionHandler creates a new SessionHandler driving scanner.
func NewSessionHandler(scanner Scanner) *SessionHandler {
	return &SessionHandler{scanner: scanner}
}

// ServeHTTP routes /api/session and /api/session/{command}.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/session")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, h.scanner.Status())
		case http.MethodPut:
			h.update(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var err error
	switch path {
	case "start":
		err = h.scanner.Start()
	case "stop":
		h.scanner.Stop()
	case "reset":
		err = h.scanner.Reset()
	default:
		writeError(w, http.StatusNotFound, "Unknown command")
		return
	}

	if err != nil {
		st := h.scanner.Status()
		msg := st.Error
		if msg == "" {
			msg = err.Error()
		}
		writeError(w, http.StatusServiceUnavailable, msg)
		return
	}
	writeJSON(w, http.StatusOK, h.scanner.Status())
}

type updateSessionRequest struct {
	GloveSize *string `json:"glove_size"`
	Sport     *string `json:"sport"`
	Mirrored  *bool   `json:"mirrored"`
}

func (h *SessionHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.GloveSize != nil {
		if err := h.scanner.SelectSize(*req.GloveSize); err != nil {
			if errors.Is(err, sizing.ErrUnknownSize) {
				writeError(w, http.StatusBadRequest, "Unknown glove size")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to select size")
			return
		}
	}

	if req.Sport != nil {
		if err := h.scanner.SelectSport(*req.Sport); err != nil {
			if errors.Is(err, sizing.ErrUnknownSport) {
				writeError(w, http.StatusBadRequest, "Unknown sport")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to select sport")
			return
		}
	}

	if req.Mirrored != nil {
		if err := h.scanner.SetMirrored(*req.Mirrored); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save camera setting")
			return
		}
	}

	writeJSON(w, http.StatusOK, h.scanner.Status())
}

// MeasurementsHandler serves the latest hand measurement.
type MeasurementsHandler struct {
	scanner Scanner
}

// NewMeasurementsHandler creates a new MeasurementsHandler.
func NewMeasurementsHandler(scanner Scanner) *MeasurementsHandler {
	return &MeasurementsHandler{scanner: scanner}
}

type measurementsResponse struct {
	SessionID    string             `json:"session_id"`
	GloveSize    string             `json:"glove_size,omitempty"`
	Done         bool               `json:"done"`
	Measurements *scan.Measurements `json:"measurements"`
}

// ServeHTTP handles GET /api/measurements.
func (h *MeasurementsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := h.scanner.Status()
	if st.Measurements == nil {
		writeError(w, http.StatusNotFound, "No measurements yet")
		return
	}

	writeJSON(w, http.StatusOK, measurementsResponse{
		SessionID:    st.SessionID,
		GloveSize:    st.GloveSize,
		Done:         st.Done,
		Measurements: st.Measurements,
	})
}
