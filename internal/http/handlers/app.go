package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"pixstudio/internal/blob"
	"pixstudio/internal/chat"
	"pixstudio/internal/infra"
	"pixstudio/internal/providers/genai"
	"pixstudio/internal/session"
	"pixstudio/internal/storage"
	"pixstudio/internal/variation"
)

// Editor is the upstream image-editing surface the handlers depend on.
type Editor interface {
	EditImage(ctx context.Context, req genai.EditRequest) (genai.EditResult, error)
}

// ChatSender posts a user message to the chat webhook and returns the parsed
// reply text.
type ChatSender interface {
	Send(ctx context.Context, text string, imageData []byte) (string, error)
}

// App is the handler dependency container.
type App struct {
	Config     *infra.Config
	Logger     infra.Logger
	Blobs      *blob.Registry
	Sessions   *session.Registry
	Editor     Editor
	Catalog    *variation.Catalog
	Chat       ChatSender
	Transcript *chat.Transcript
	// Exports is optional; nil disables server-side export copies.
	Exports *storage.FileStore
}

// NewSession builds a session wired with its own variation orchestrator.
func (a *App) NewSession() *session.Session {
	orch := variation.NewOrchestrator(variationGenerator{editor: a.Editor}, a.Catalog, a.Blobs, a.Logger)
	return session.New(a.Blobs, orch)
}

// variationGenerator adapts the Editor to the orchestrator's Generator
// contract, staging the preset instruction as an ad-creative prompt.
type variationGenerator struct {
	editor Editor
}

func (g variationGenerator) Generate(ctx context.Context, instruction string, src variation.Source) (variation.Result, error) {
	res, err := g.editor.EditImage(ctx, genai.EditRequest{
		Data:        src.Data,
		MIME:        src.MIME,
		Instruction: genai.BuildVariationPrompt(instruction),
	})
	if err != nil {
		return variation.Result{}, err
	}
	return variation.Result{Data: res.Data, MIME: res.MIME}, nil
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}
