// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, the analysis
// pipeline) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lumenlabs/lumen/internal/classifier"
	"github.com/lumenlabs/lumen/internal/config"
	"github.com/lumenlabs/lumen/internal/pipeline"
	"github.com/lumenlabs/lumen/pkg/database"
	"github.com/lumenlabs/lumen/pkg/lifecycle"
	"github.com/lumenlabs/lumen/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, file storage, and the dual-model pipeline.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Pipeline  *pipeline.Pipeline
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// The rich classifier is only constructed when dual analysis is enabled.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	pipe, err := newPipeline(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("pipeline init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Pipeline:  pipe,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	baseline := classifier.NewBaseline(&cfg.Pipeline.Baseline, logger)

	var opts []pipeline.Option
	if cfg.Pipeline.DualAnalysis {
		rich, err := classifier.NewRich(context.Background(), &cfg.Pipeline.Rich, logger)
		if err != nil {
			return nil, fmt.Errorf("rich classifier init failed: %w", err)
		}
		opts = append(opts, pipeline.WithRichAnalyzer(rich, cfg.Pipeline.Rich.TimeoutDuration()))
	}

	return pipeline.New(baseline, logger, opts...), nil
}
