package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pixstudio/internal/middleware"
	"pixstudio/internal/providers/genai"
	"pixstudio/internal/session"
)

type editRequest struct {
	Instruction string `json:"instruction"`
}

// SessionEdit performs a localized retouch at the previously selected
// hotspot. Validation failures never reach the upstream service.
func (a *App) SessionEdit(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		a.error(w, http.StatusBadRequest, "empty_instruction", "instruction is required")
		return
	}
	cur, ok := s.Current()
	if !ok {
		a.error(w, http.StatusBadRequest, "no_image", "no image loaded")
		return
	}
	hotspot := s.Hotspot()
	if hotspot == nil {
		a.error(w, http.StatusBadRequest, "no_hotspot", "no edit area selected")
		return
	}

	prompt := genai.BuildRetouchPrompt(instruction, genai.Point{X: hotspot.X, Y: hotspot.Y})
	a.dispatchEdit(w, r, s, cur, prompt, "")
}

// SessionFilter applies a stylistic filter over the whole image.
func (a *App) SessionFilter(w http.ResponseWriter, r *http.Request) {
	a.globalEdit(w, r, genai.BuildFilterPrompt)
}

// SessionAdjust applies a global photorealistic adjustment.
func (a *App) SessionAdjust(w http.ResponseWriter, r *http.Request) {
	a.globalEdit(w, r, genai.BuildAdjustmentPrompt)
}

func (a *App) globalEdit(w http.ResponseWriter, r *http.Request, buildPrompt func(string) string) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		a.error(w, http.StatusBadRequest, "empty_instruction", "instruction is required")
		return
	}
	cur, ok := s.Current()
	if !ok {
		a.error(w, http.StatusBadRequest, "no_image", "no image loaded")
		return
	}
	a.dispatchEdit(w, r, s, cur, buildPrompt(instruction), "")
}

type resizeRequest struct {
	AspectRatio string `json:"aspect_ratio"`
}

// SessionResize recomposes the image onto a new canvas shape. The requested
// ratio is remapped onto the service enum before dispatch.
func (a *App) SessionResize(w http.ResponseWriter, r *http.Request) {
	s, ok := a.sessionFromRequest(w, r)
	if !ok {
		return
	}
	var req resizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	aspect := strings.TrimSpace(req.AspectRatio)
	if aspect == "" {
		a.error(w, http.StatusBadRequest, "empty_aspect_ratio", "aspect_ratio is required")
		return
	}
	cur, ok := s.Current()
	if !ok {
		a.error(w, http.StatusBadRequest, "no_image", "no image loaded")
		return
	}
	a.dispatchEdit(w, r, s, cur, genai.BuildResizePrompt(aspect), aspect)
}

func (a *App) dispatchEdit(w http.ResponseWriter, r *http.Request, s *session.Session, cur session.ImageState, prompt, aspect string) {
	res, err := a.Editor.EditImage(r.Context(), genai.EditRequest{
		Data:        cur.Data,
		MIME:        cur.MIME,
		Instruction: prompt,
		AspectRatio: aspect,
		RequestID:   middleware.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		a.upstreamError(w, err)
		return
	}
	s.CommitEdit(res.Data, res.MIME)
	a.json(w, http.StatusOK, s.Snapshot())
}

// upstreamError maps the adapter's failure taxonomy onto response codes. The
// classes stay distinct so the client can explain what happened.
func (a *App) upstreamError(w http.ResponseWriter, err error) {
	var policy *genai.PolicyBlockError
	var stop *genai.StopError
	var noImage *genai.NoImageError
	switch {
	case errors.As(err, &policy):
		a.error(w, http.StatusBadGateway, "policy_blocked", policy.Error())
	case errors.As(err, &stop):
		a.error(w, http.StatusBadGateway, "generation_stopped", stop.Error())
	case errors.As(err, &noImage):
		a.error(w, http.StatusBadGateway, "no_image_returned", noImage.Error())
	default:
		a.error(w, http.StatusBadGateway, "upstream_error", err.Error())
	}
}
