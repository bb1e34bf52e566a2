package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ayusman/armascan/internal/store"
)

// ModelsHandler serves the 3D glove model for a size once a scan is done.
type ModelsHandler struct {
	scanner Scanner
	store   *store.Store
	dir     string
}

// NewModelsHandler creates a ModelsHandler serving model files from dir.
func NewModelsHandler(scanner Scanner, s *store.Store, dir string) *ModelsHandler {
	return &ModelsHandler{scanner: scanner, store: s, dir: dir}
}

// ServeHTTP handles GET /api/models/{size}.
func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/api/models")
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		writeError(w, http.StatusNotFound, "Size is required")
		return
	}

	size, err := h.store.Sizes().GetByKey(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Size not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get size")
		return
	}

	if !h.scanner.Status().Done {
		writeError(w, http.StatusConflict, "Scan both hands before downloading a model")
		return
	}

	name := filepath.Base(size.ModelFile)
	f, err := os.Open(filepath.Join(h.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "Model not available")
			return
		}
		log.Printf("Error opening model %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Failed to open model")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to open model")
		return
	}

	w.Header().Set("Content-Type", "model/stl")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}
