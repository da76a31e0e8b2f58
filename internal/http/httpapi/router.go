package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pixstudio/internal/http/handlers"
	"pixstudio/internal/middleware"
)

// NewRouter wires the API surface. Generation endpoints sit behind a rate
// limit; everything else is unthrottled.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.CORSAllowedOrigins),
	)

	generate := middleware.RateLimit(app.Config.GenerateRateLimit, app.Config.GenerateRateWindow)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/blobs/{blob_id}", app.BlobGet)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.SessionCreate)
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", app.SessionGet)
			r.Delete("/", app.SessionDelete)

			r.Post("/hotspot", app.SessionHotspot)
			r.With(generate).Post("/edit", app.SessionEdit)
			r.With(generate).Post("/filter", app.SessionFilter)
			r.With(generate).Post("/adjust", app.SessionAdjust)
			r.With(generate).Post("/resize", app.SessionResize)
			r.Post("/crop", app.SessionCrop)

			r.Post("/undo", app.SessionUndo)
			r.Post("/redo", app.SessionRedo)
			r.Post("/reset", app.SessionReset)

			r.Get("/image", app.SessionImage)
			r.Get("/download", app.SessionDownload)

			r.With(generate).Post("/variations", app.VariationsStart)
			r.Get("/variations", app.VariationsList)
			r.Get("/variations/archive", app.VariationsArchive)
			r.Get("/variations/{variation_id}/image", app.VariationImage)
			r.Get("/variations/{variation_id}/download", app.VariationDownload)
		})
	})

	r.Route("/v1/chat", func(r chi.Router) {
		r.Post("/messages", app.ChatSend)
		r.Get("/messages", app.ChatList)
	})

	return r
}
