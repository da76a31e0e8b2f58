package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pixstudio/internal/imaging"
	"pixstudio/internal/session"
	"pixstudio/internal/storage"
)

type createSessionRequest struct {
	Image string `json:"image"`
	MIME  string `json:"mime"`
}

// SessionCreate uploads the original image and opens a fresh edit session.
func (a *App) SessionCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil || len(data) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "image must be non-empty base64")
		return
	}
	if _, _, err := imaging.Dimensions(data); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported image format")
		return
	}
	mime := req.MIME
	if mime == "" {
		mime = "image/png"
	}

	s := a.NewSession()
	s.LoadImage(data, mime)
	a.Sessions.Add(s)
	a.json(w, http.StatusCreated, s.Snapshot())
}

func (a *App) SessionGet(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, s.Snapshot())
}

func (a *App) SessionDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	a.Sessions.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) SessionUndo(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	s.Undo()
	a.json(w, http.StatusOK, s.Snapshot())
}

func (a *App) SessionRedo(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	s.Redo()
	a.json(w, http.StatusOK, s.Snapshot())
}

func (a *App) SessionReset(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	s.Reset()
	a.json(w, http.StatusOK, s.Snapshot())
}

type hotspotRequest struct {
	X             int `json:"x"`
	Y             int `json:"y"`
	DisplayWidth  int `json:"display_width"`
	DisplayHeight int `json:"display_height"`
}

// SessionHotspot records a retouch target from a display-space click,
// corrected into natural-pixel coordinates.
func (a *App) SessionHotspot(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req hotspotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	cur, ok := s.Current()
	if !ok {
		a.error(w, http.StatusBadRequest, "no_image", "no image loaded")
		return
	}
	naturalW, naturalH, err := imaging.Dimensions(cur.Data)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to read image dimensions")
		return
	}
	pt, err := imaging.ScaleHotspot(
		imaging.Point{X: req.X, Y: req.Y},
		req.DisplayWidth, req.DisplayHeight, naturalW, naturalH,
	)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "display dimensions must be positive")
		return
	}
	s.SetHotspot(session.Point{X: pt.X, Y: pt.Y})
	a.json(w, http.StatusOK, s.Snapshot())
}

type cropRequest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SessionCrop is a local operation: no upstream call is made.
func (a *App) SessionCrop(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req cropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	cur, ok := s.Current()
	if !ok {
		a.error(w, http.StatusBadRequest, "no_image", "no image loaded")
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		a.error(w, http.StatusBadRequest, "no_crop_region", "no crop region selected")
		return
	}
	rect := image.Rect(req.X, req.Y, req.X+req.Width, req.Y+req.Height)
	data, mime, err := imaging.Crop(cur.Data, rect)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	s.CommitEdit(data, mime)
	a.json(w, http.StatusOK, s.Snapshot())
}

// SessionImage streams the current image bytes.
func (a *App) SessionImage(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	cur, ok := s.Current()
	if !ok {
		a.error(w, http.StatusNotFound, "no_image", "no image loaded")
		return
	}
	w.Header().Set("Content-Type", cur.MIME)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(cur.Data)
}

// SessionDownload streams the current image as an attachment named from its
// category and timestamp, and mirrors a copy into the export store when one
// is configured.
func (a *App) SessionDownload(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	cur, ok := s.Current()
	if !ok {
		a.error(w, http.StatusNotFound, "no_image", "no image loaded")
		return
	}
	a.serveDownload(w, r, "edited", cur.MIME, cur.Data)
}

func (a *App) serveDownload(w http.ResponseWriter, r *http.Request, category, mime string, data []byte) {
	now := time.Now().UTC()
	filename := storage.ExportFilename(category, mime, now)
	if a.Exports != nil {
		if _, err := a.Exports.SaveExport(r.Context(), category, mime, now, data); err != nil {
			a.Logger.Warn().Err(err).Str("category", category).Msg("handlers: export copy failed")
		}
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *App) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "session_id"))
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session_id required")
		return nil, false
	}
	s, ok := a.Sessions.Get(id)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return nil, false
	}
	return s, true
}
