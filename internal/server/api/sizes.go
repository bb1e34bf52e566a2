package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/armascan/internal/detector"
	"github.com/ayusman/armascan/internal/sizing"
	"github.com/ayusman/armascan/internal/store"
)

// SizesHandler serves the glove size catalog.
type SizesHandler struct {
	store *store.Store
}

// NewSizesHandler creates a new SizesHandler with the given store.
func NewSizesHandler(s *store.Store) *SizesHandler {
	return &SizesHandler{store: s}
}

// ServeHTTP routes /api/sizes and /api/sizes/{key}.
func (h *SizesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/sizes")
	key = strings.TrimPrefix(key, "/")

	if key == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, key)
	case http.MethodPut:
		h.put(w, r, key)
	case http.MethodDelete:
		h.delete(w, r, key)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type sizeRequest struct {
	Name            string             `json:"name"`
	PalmWidthCm     float64            `json:"palm_width_cm"`
	FingerLengthsCm map[string]float64 `json:"finger_lengths_cm"`
	ModelFile       string             `json:"model_file"`
}

type listSizesResponse struct {
	Sizes []*sizing.GloveSize `json:"sizes"`
}

func (h *SizesHandler) list(w http.ResponseWriter, r *http.Request) {
	sizes, err := h.store.Sizes().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sizes")
		return
	}
	if sizes == nil {
		sizes = []*sizing.GloveSize{}
	}
	writeJSON(w, http.StatusOK, listSizesResponse{Sizes: sizes})
}

func (h *SizesHandler) get(w http.ResponseWriter, r *http.Request, key string) {
	size, err := h.store.Sizes().GetByKey(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Size not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get size")
		return
	}
	writeJSON(w, http.StatusOK, size)
}

func (h *SizesHandler) put(w http.ResponseWriter, r *http.Request, key string) {
	var req sizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PalmWidthCm <= 0 {
		writeError(w, http.StatusBadRequest, "palm_width_cm must be positive")
		return
	}

	size := &sizing.GloveSize{
		Key:             key,
		Name:            req.Name,
		PalmWidthCm:     req.PalmWidthCm,
		FingerLengthsCm: make(map[detector.Finger]float64, len(req.FingerLengthsCm)),
		ModelFile:       req.ModelFile,
	}
	if size.Name == "" {
		size.Name = strings.ToUpper(key)
	}
	for name, v := range req.FingerLengthsCm {
		f := detector.Finger(strings.ToLower(name))
		if detector.Chain(f) == nil {
			writeError(w, http.StatusBadRequest, "Unknown finger: "+name)
			return
		}
		size.FingerLengthsCm[f] = v
	}

	if err := h.store.Sizes().Upsert(size); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save size")
		return
	}

	saved, err := h.store.Sizes().GetByKey(size.Key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get size")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *SizesHandler) delete(w http.ResponseWriter, r *http.Request, key string) {
	if err := h.store.Sizes().Delete(key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Size not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete size")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type listSportsResponse struct {
	Sports []sizing.SportInfo `json:"sports"`
}

// HandleSports serves GET /api/sports.
func HandleSports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, listSportsResponse{Sports: sizing.Sports()})
}
