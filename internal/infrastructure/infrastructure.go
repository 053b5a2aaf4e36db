// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, model artifacts)
// that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rolecast/rolecast/internal/config"
	"github.com/rolecast/rolecast/internal/engine"
	"github.com/rolecast/rolecast/pkg/database"
	"github.com/rolecast/rolecast/pkg/lifecycle"
	"github.com/rolecast/rolecast/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules:
// lifecycle coordination, logging, database access, dataset blob storage,
// and the model artifact cache.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Artifacts *engine.Cache
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
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

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Artifacts: engine.NewCache(engine.NewStore(cfg.ML.ModelDir)),
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
