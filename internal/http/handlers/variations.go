package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pixstudio/internal/blob"
	"pixstudio/internal/storage"
	"pixstudio/internal/variation"
	"pixstudio/pkg/zip"
)

// mixCategory requests a random assortment instead of a single category.
const mixCategory = "mix"

type startVariationRequest struct {
	Category   string   `json:"category,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// VariationsStart kicks off ad-creative generation for one category, an
// explicit list of categories, or a random mix. Requests run independently;
// the response carries the in-flight records.
func (a *App) VariationsStart(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req startVariationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	category := strings.TrimSpace(req.Category)
	if category == "" && len(req.Categories) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "category or categories is required")
		return
	}
	cur, ok := s.Current()
	if !ok {
		a.error(w, http.StatusBadRequest, "no_image", "no image loaded")
		return
	}
	src := variation.Source{Data: cur.Data, MIME: cur.MIME}

	if len(req.Categories) > 0 {
		records, err := s.Variations().StartBatch(req.Categories, src)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		a.json(w, http.StatusAccepted, map[string]any{"items": records})
		return
	}

	if category == mixCategory {
		records, err := s.Variations().StartMix(src)
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		a.json(w, http.StatusAccepted, map[string]any{"items": records})
		return
	}

	rec, err := s.Variations().StartCategory(category, src)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{"items": []variation.Record{rec}})
}

func (a *App) VariationsList(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": s.Variations().List()})
}

// VariationImage streams one resolved variation's bytes.
func (a *App) VariationImage(w http.ResponseWriter, r *http.Request) {
	rec, b, ok := a.resolvedVariation(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", rec.MIME)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Data)
}

// VariationDownload streams one resolved variation as an attachment named
// from its category and timestamp.
func (a *App) VariationDownload(w http.ResponseWriter, r *http.Request) {
	rec, b, ok := a.resolvedVariation(w, r)
	if !ok {
		return
	}
	a.serveDownload(w, r, rec.Label, rec.MIME, b.Data)
}

// VariationsArchive zips every resolved variation for a bulk download.
func (a *App) VariationsArchive(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	var assets []zip.Asset
	for _, rec := range s.Variations().List() {
		if rec.URL == "" {
			continue
		}
		b, ok := a.Blobs.Get(strings.TrimPrefix(rec.URL, blob.URLPrefix))
		if !ok {
			continue
		}
		assets = append(assets, zip.Asset{
			Filename: storage.ExportFilename(rec.Label, rec.MIME, now),
			MIME:     rec.MIME,
			Data:     b.Data,
		})
	}
	if len(assets) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no resolved variations")
		return
	}
	archive := zip.ArchiveAssets(assets)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=variations-%d.zip", now.Unix()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func (a *App) resolvedVariation(w http.ResponseWriter, r *http.Request) (variation.Record, blob.Blob, bool) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return variation.Record{}, blob.Blob{}, false
	}
	vid := chi.URLParam(r, "variation_id")
	rec, ok := s.Variations().Get(vid)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "variation not found")
		return variation.Record{}, blob.Blob{}, false
	}
	if rec.InFlight {
		a.error(w, http.StatusConflict, "in_flight", "variation still generating")
		return variation.Record{}, blob.Blob{}, false
	}
	if rec.URL == "" {
		a.error(w, http.StatusConflict, "failed", rec.Err)
		return variation.Record{}, blob.Blob{}, false
	}
	b, ok := a.Blobs.Get(strings.TrimPrefix(rec.URL, blob.URLPrefix))
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "variation image released")
		return variation.Record{}, blob.Blob{}, false
	}
	return rec, b, true
}
