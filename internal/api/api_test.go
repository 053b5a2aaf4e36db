package api_test

import (
	"testing"

	"github.com/rolecast/rolecast/internal/api"
	"github.com/rolecast/rolecast/internal/config"
	"github.com/rolecast/rolecast/internal/infrastructure"
	"github.com/rolecast/rolecast/pkg/database"
	"github.com/rolecast/rolecast/pkg/middleware"
	"github.com/rolecast/rolecast/pkg/pagination"
	"github.com/rolecast/rolecast/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=rolecaststore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/rolecaststore;"

func validConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "5m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "rolecast",
			User:            "rolecast",
			Password:        "rolecast",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "datasets",
			ConnectionString: azuriteConnString,
		},
		ML: config.MLConfig{
			ModelDir: t.TempDir(),
		},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxUploadSize: "10MB",
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Auth: middleware.AuthConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T, cfg *config.Config) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max page size: got %d, want 100", runtime.Pagination.MaxPageSize)
	}
	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Database == nil {
		t.Error("runtime database is nil")
	}
	if runtime.Storage == nil {
		t.Error("runtime storage is nil")
	}
	if runtime.Lifecycle == nil {
		t.Error("runtime lifecycle is nil")
	}
	if runtime.Artifacts == nil {
		t.Error("runtime artifacts cache is nil")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)
	runtime := api.NewRuntime(cfg, infra)

	domain := api.NewDomain(cfg, runtime)
	if domain == nil {
		t.Fatal("NewDomain() returned nil")
	}
	if domain.Datasets == nil {
		t.Error("datasets system is nil")
	}
	if domain.Models == nil {
		t.Error("models system is nil")
	}
	if domain.Predictions == nil {
		t.Error("predictions system is nil")
	}
}
