package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"pixstudio/internal/chat"
)

type chatSendRequest struct {
	Message string `json:"message"`
	Image   string `json:"image,omitempty"`
	MIME    string `json:"mime,omitempty"`
}

// ChatSend posts the user's message to the webhook and appends both sides of
// the exchange to the transcript. An attached image is base64 in the request
// and forwarded to the webhook the same way.
func (a *App) ChatSend(w http.ResponseWriter, r *http.Request) {
	var req chatSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" && req.Image == "" {
		a.error(w, http.StatusBadRequest, "empty_message", "message or image is required")
		return
	}

	var imageData []byte
	var imageURL string
	if req.Image != "" {
		data, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil || len(data) == 0 {
			a.error(w, http.StatusBadRequest, "bad_request", "image must be non-empty base64")
			return
		}
		imageData = data
		mime := req.MIME
		if mime == "" {
			mime = "image/png"
		}
		imageURL = a.Blobs.Allocate(data, mime)
	}

	userMsg := a.Transcript.Append(chat.SenderUser, message, imageURL)

	reply, err := a.Chat.Send(r.Context(), message, imageData)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("handlers: chat webhook failed")
		a.error(w, http.StatusBadGateway, "chat_failed", err.Error())
		return
	}
	assistantMsg := a.Transcript.Append(chat.SenderAssistant, reply, "")

	a.json(w, http.StatusOK, map[string]any{
		"items": []chat.Message{userMsg, assistantMsg},
	})
}

// ChatList returns the transcript in append order.
func (a *App) ChatList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": a.Transcript.List()})
}
