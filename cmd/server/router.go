package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/spelldeck-api/internal/api"
	apiMiddleware "github.com/phrazzld/spelldeck-api/internal/api/middleware"
	"github.com/rs/cors"
)

// setupRouter creates the application router with all routes and middleware,
// wrapped in the CORS policy for the browser client.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	maxUploadBytes := int64(app.config.Server.MaxUploadMB) << 20

	api.Handlers{
		Batch: api.NewBatchHandler(app.batchService, app.config.Storage.TempDir, maxUploadBytes, app.logger),
		Word:  api.NewWordHandler(app.batchService, app.logger),
		Models: api.NewModelsHandler(
			app.ollama,
			app.openRouter,
			app.config.LLM.OpenRouterAPIKey,
			app.logger,
		),
	}.Mount(r)

	return newCORS(app.config.Server.AllowedOrigins).Handler(r)
}

// newCORS allows the configured browser origins to call every endpoint and
// read the download file name.
func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
}
