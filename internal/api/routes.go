package api

import (
	"net/http"

	"github.com/lumenlabs/lumen/internal/config"
	"github.com/lumenlabs/lumen/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Analyses.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Products.Handler().Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
	)
}
