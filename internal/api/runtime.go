package api

import (
	"github.com/lumenlabs/lumen/internal/config"
	"github.com/lumenlabs/lumen/internal/infrastructure"
	"github.com/lumenlabs/lumen/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Pipeline:  infra.Pipeline,
		},
		Pagination: cfg.API.Pagination,
	}
}
