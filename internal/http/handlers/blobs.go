package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// BlobGet serves a registered in-memory blob. URLs minted by the registry
// point here; a revoked blob is simply gone.
func (a *App) BlobGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "blob_id")
	b, ok := a.Blobs.Get(id)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "blob not found")
		return
	}
	w.Header().Set("Content-Type", b.MIME)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Data)
}
