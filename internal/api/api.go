// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/rolecast/rolecast/internal/config"
	"github.com/rolecast/rolecast/internal/infrastructure"
	"github.com/rolecast/rolecast/pkg/middleware"
	"github.com/rolecast/rolecast/pkg/module"
	"github.com/rolecast/rolecast/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	specBytes, err := openapi.MarshalJSON(buildSpec(cfg))
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Auth(&cfg.API.Auth))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
