package api

import (
	"github.com/rolecast/rolecast/internal/config"
	"github.com/rolecast/rolecast/internal/datasets"
	"github.com/rolecast/rolecast/internal/models"
	"github.com/rolecast/rolecast/internal/predictions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Datasets    datasets.System
	Models      models.System
	Predictions predictions.System
}

// NewDomain creates all domain systems from the API runtime. Training runs
// started by the models system are bound to the lifecycle context so they
// stop on shutdown.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	datasetsSystem := datasets.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	modelsSystem := models.New(
		runtime.Database.Connection(),
		datasetsSystem,
		runtime.Artifacts,
		cfg.ML.TrainConfig(),
		runtime.Lifecycle.Context(),
		runtime.Logger,
		runtime.Pagination,
	)

	predictionsSystem := predictions.New(
		runtime.Database.Connection(),
		runtime.Artifacts,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Datasets:    datasetsSystem,
		Models:      modelsSystem,
		Predictions: predictionsSystem,
	}
}
