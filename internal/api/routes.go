package api

import (
	"net/http"

	"github.com/rolecast/rolecast/internal/config"
	"github.com/rolecast/rolecast/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Datasets.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Models.Handler().Routes(),
		domain.Predictions.Handler().Routes(),
	)
}
