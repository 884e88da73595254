package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/avelar/graphdeck/internal/config"
)

// staticHandler serves the built single-page frontend. Requests for files
// that exist under the static directory are served directly; everything else
// falls back to the index document so client-side routing keeps working.
type staticHandler struct {
	dir       string
	indexPath string
	files     http.Handler
}

func newStaticHandler(cfg config.StaticConfig) *staticHandler {
	return &staticHandler{
		dir:       cfg.Dir,
		indexPath: filepath.Join(cfg.Dir, cfg.Index),
		files:     http.FileServer(http.Dir(cfg.Dir)),
	}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	// Clean with a leading slash so ".." segments cannot escape the root.
	rel := filepath.Clean("/" + r.URL.Path)
	full := filepath.Join(h.dir, rel)
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		h.files.ServeHTTP(w, r)
		return
	}

	http.ServeFile(w, r, h.indexPath)
}
