package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rolecast/rolecast/internal/engine"
)

const (
	EnvMLModelDir       = "ROLECAST_ML_MODEL_DIR"
	EnvMLEstimators     = "ROLECAST_ML_ESTIMATORS"
	EnvMLMaxDepth       = "ROLECAST_ML_MAX_DEPTH"
	EnvMLMinSamplesLeaf = "ROLECAST_ML_MIN_SAMPLES_LEAF"
	EnvMLHoldout        = "ROLECAST_ML_HOLDOUT"
	EnvMLSeed           = "ROLECAST_ML_SEED"
	EnvMLWorkers        = "ROLECAST_ML_WORKERS"
)

// MLConfig holds the model directory and training parameters.
type MLConfig struct {
	ModelDir       string  `toml:"model_dir"`
	Estimators     int     `toml:"estimators"`
	MaxDepth       int     `toml:"max_depth"`
	MinSamplesLeaf int     `toml:"min_samples_leaf"`
	Holdout        float64 `toml:"holdout"`
	Seed           int64   `toml:"seed"`
	Workers        int     `toml:"workers"`
}

// TrainConfig converts the section into the engine's training configuration.
func (c *MLConfig) TrainConfig() engine.TrainConfig {
	return engine.TrainConfig{
		Estimators:     c.Estimators,
		MaxDepth:       c.MaxDepth,
		MinSamplesLeaf: c.MinSamplesLeaf,
		Holdout:        c.Holdout,
		Seed:           c.Seed,
		Workers:        c.Workers,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *MLConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *MLConfig) Merge(overlay *MLConfig) {
	if overlay.ModelDir != "" {
		c.ModelDir = overlay.ModelDir
	}
	if overlay.Estimators != 0 {
		c.Estimators = overlay.Estimators
	}
	if overlay.MaxDepth != 0 {
		c.MaxDepth = overlay.MaxDepth
	}
	if overlay.MinSamplesLeaf != 0 {
		c.MinSamplesLeaf = overlay.MinSamplesLeaf
	}
	if overlay.Holdout != 0 {
		c.Holdout = overlay.Holdout
	}
	if overlay.Seed != 0 {
		c.Seed = overlay.Seed
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

func (c *MLConfig) loadDefaults() {
	if c.ModelDir == "" {
		c.ModelDir = "models"
	}
	if c.Estimators == 0 {
		c.Estimators = 150
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = 12
	}
	if c.MinSamplesLeaf == 0 {
		c.MinSamplesLeaf = 1
	}
	if c.Holdout == 0 {
		c.Holdout = 0.2
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
}

func (c *MLConfig) loadEnv() {
	if v := os.Getenv(EnvMLModelDir); v != "" {
		c.ModelDir = v
	}
	if v := os.Getenv(EnvMLEstimators); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Estimators = n
		}
	}
	if v := os.Getenv(EnvMLMaxDepth); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxDepth = n
		}
	}
	if v := os.Getenv(EnvMLMinSamplesLeaf); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinSamplesLeaf = n
		}
	}
	if v := os.Getenv(EnvMLHoldout); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Holdout = f
		}
	}
	if v := os.Getenv(EnvMLSeed); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
	if v := os.Getenv(EnvMLWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}

func (c *MLConfig) validate() error {
	if c.Estimators < 1 {
		return fmt.Errorf("estimators must be positive")
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive")
	}
	if c.Holdout <= 0 || c.Holdout >= 1 {
		return fmt.Errorf("holdout must be between 0 and 1 exclusive")
	}
	return nil
}
