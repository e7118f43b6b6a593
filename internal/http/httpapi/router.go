package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"studio/internal/http/handlers"
	"studio/internal/infra"
	"studio/internal/middleware"
)

// RouterOptions carries the cross-cutting settings of the HTTP surface.
type RouterOptions struct {
	Logger          infra.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/presets", app.Presets)
		r.Get("/colors", app.Colors)
		r.Get("/stats", app.Stats)
		r.Get("/blobs/*", app.Blob)

		r.Route("/branding", func(r chi.Router) {
			r.Get("/", app.GetBranding)
			r.Put("/preset", app.SetPreset)
			r.Put("/color", app.SetColor)
			r.Put("/logo", app.UpdateLogo)
			r.Post("/logo/toggle", app.ToggleLogo)
			r.Put("/overlay", app.UpdateOverlay)
			r.With(middleware.RateLimit(opts.RateLimitPerMin)).Post("/logos", app.AddLogo)
		})

		r.Route("/images", func(r chi.Router) {
			r.Get("/", app.ListImages)
			r.Get("/archive", app.Archive)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(opts.RateLimitPerMin))
				r.Post("/", app.UploadImages)
				r.Post("/process", app.ProcessAll)
				r.Post("/{id}/process", app.ProcessImage)
			})
			r.Get("/{id}", app.GetImage)
			r.Delete("/{id}", app.DeleteImage)
			r.Get("/{id}/download", app.DownloadImage)
		})
	})

	return r
}
