package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pixstudio/internal/blob"
	"pixstudio/internal/chat"
	"pixstudio/internal/http/handlers"
	"pixstudio/internal/http/httpapi"
	"pixstudio/internal/infra"
	"pixstudio/internal/profile"
	"pixstudio/internal/providers/genai"
	"pixstudio/internal/session"
	"pixstudio/internal/storage"
	"pixstudio/internal/variation"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	profiles, err := profile.Open(cfg.ProfileDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open profile store")
	}
	defer profiles.Close()

	chatSessionID, err := profiles.ChatSessionID(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load chat session id")
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamHTTPTimeout}
	editor, err := genai.NewClient(genai.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure gemini client")
	}

	chatClient, err := chat.NewClient(chat.Options{
		WebhookURL: cfg.ChatWebhookURL,
		SessionID:  chatSessionID,
		HTTPClient: httpClient,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure chat client")
	}

	catalog, err := variation.LoadCatalog(cfg.VariationPresets)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load variation presets")
	}

	var exports *storage.FileStore
	if cfg.ExportDir != "" {
		exports, err = storage.NewFileStore(cfg.ExportDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure export store")
		}
	}

	app := &handlers.App{
		Config:     cfg,
		Logger:     logger,
		Blobs:      blob.NewRegistry(),
		Sessions:   session.NewRegistry(),
		Editor:     editor,
		Catalog:    catalog,
		Chat:       chatClient,
		Transcript: chat.NewTranscript(),
		Exports:    exports,
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("model", editor.Model()).Msgf("API listening on %s", server.Addr())
	if err := server.Run(runCtx); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}
