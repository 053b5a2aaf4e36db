package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rolecast/rolecast/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "rolecast"
user = "rolecast"
password = "rolecast"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "datasets"
connection_string = "DefaultEndpointsProtocol=http;AccountName=rolecaststore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/rolecaststore;"

[api]
base_path = "/api"
max_upload_size = "50MB"

[api.pagination]
default_page_size = 25
max_page_size = 50

[ml]
model_dir = "models"
estimators = 150
max_depth = 12
holdout = 0.2
seed = 42
`

const overlayConfig = `
[server]
port = 9090

[ml]
estimators = 50
`

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadBase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr: got %s", cfg.Server.Addr())
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Database.Name != "rolecast" {
		t.Errorf("database name: got %s", cfg.Database.Name)
	}
	if cfg.API.MaxUploadSizeBytes() != 50*1024*1024 {
		t.Errorf("max upload size: got %d", cfg.API.MaxUploadSizeBytes())
	}
	if cfg.ML.Estimators != 150 {
		t.Errorf("estimators: got %d", cfg.ML.Estimators)
	}
	if cfg.ML.Seed != 42 {
		t.Errorf("seed: got %d", cfg.ML.Seed)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.test.toml", overlayConfig)
	t.Chdir(dir)
	t.Setenv(config.EnvRolecastEnv, "test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("overlay port: got %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("base host should survive overlay, got %s", cfg.Server.Host)
	}
	if cfg.ML.Estimators != 50 {
		t.Errorf("overlay estimators: got %d, want 50", cfg.ML.Estimators)
	}
	if cfg.ML.MaxDepth != 12 {
		t.Errorf("base max_depth should survive overlay, got %d", cfg.ML.MaxDepth)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)
	t.Setenv("ROLECAST_DB_HOST", "db.internal")
	t.Setenv(config.EnvMLModelDir, "/var/lib/rolecast/models")
	t.Setenv(config.EnvMLSeed, "7")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("db host: got %s", cfg.Database.Host)
	}
	if cfg.ML.ModelDir != "/var/lib/rolecast/models" {
		t.Errorf("model dir: got %s", cfg.ML.ModelDir)
	}
	if cfg.ML.Seed != 7 {
		t.Errorf("seed: got %d, want 7", cfg.ML.Seed)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROLECAST_STORAGE_CONNECTION_STRING", "test-conn")
	t.Setenv("ROLECAST_DB_NAME", "rolecast")
	t.Setenv("ROLECAST_DB_USER", "rolecast")
	t.Setenv("ROLECAST_DB_PASSWORD", "secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ML.Estimators != 150 {
		t.Errorf("default estimators: got %d", cfg.ML.Estimators)
	}
	if cfg.ML.ModelDir != "models" {
		t.Errorf("default model dir: got %s", cfg.ML.ModelDir)
	}
	if cfg.API.Pagination.DefaultPageSize == 0 {
		t.Error("pagination defaults should be applied")
	}
}

func TestMLValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MLConfig
	}{
		{"negative estimators", config.MLConfig{Estimators: -1, MaxDepth: 12, Holdout: 0.2}},
		{"holdout too large", config.MLConfig{Estimators: 10, MaxDepth: 12, Holdout: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestTrainConfigConversion(t *testing.T) {
	cfg := config.MLConfig{
		Estimators:     100,
		MaxDepth:       8,
		MinSamplesLeaf: 2,
		Holdout:        0.25,
		Seed:           7,
		Workers:        4,
	}

	tc := cfg.TrainConfig()
	if tc.Estimators != 100 || tc.MaxDepth != 8 || tc.Seed != 7 {
		t.Errorf("conversion mismatch: %+v", tc)
	}
}
