// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/poiesic/rendezvous/ai"
	"github.com/poiesic/rendezvous/core"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "RENDEZVOUS_"

	// ConfigPathEnvVar names a YAML file to load when Load is given no path.
	ConfigPathEnvVar = "RENDEZVOUS_CONFIG"
)

// Config is the complete rendezvous configuration.
type Config struct {
	Database DatabaseConfig     `koanf:"database"`
	AI       ai.Config          `koanf:"ai"`
	Scoring  core.ScoringConfig `koanf:"scoring"`
	Pipeline PipelineConfig     `koanf:"pipeline"`
	Metrics  MetricsConfig      `koanf:"metrics"`
	Log      LogConfig          `koanf:"log"`
}

type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// PipelineConfig tunes scoring and AI batch work.
type PipelineConfig struct {
	PoolSize int `koanf:"pool_size" validate:"gte=1"`
	// BatchSize is the number of matches written per transaction.
	BatchSize int `koanf:"batch_size" validate:"gte=1"`
	// EmbedBatchSize is the number of profiles sent per embedding request.
	EmbedBatchSize int           `koanf:"embed_batch_size" validate:"gte=1"`
	MaxRetries     int           `koanf:"max_retries" validate:"gte=1,lte=10"`
	RetryDelay     time.Duration `koanf:"retry_delay" validate:"gte=0"`
}

type MetricsConfig struct {
	// Textfile is where run metrics are written after each command; empty disables export.
	Textfile string `koanf:"textfile"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "rendezvous.db"},
		AI:       *ai.DefaultConfig(),
		Scoring:  core.DefaultScoringConfig(),
		Pipeline: PipelineConfig{
			PoolSize:       4,
			BatchSize:      500,
			EmbedBatchSize: 64,
			MaxRetries:     3,
			RetryDelay:     time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, the YAML file at path (or the
// one named by RENDEZVOUS_CONFIG when path is empty) and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadScoring reads a per-event scoring configuration from a YAML file.
// Keys missing from the file keep their default values.
func LoadScoring(path string) (*core.ScoringConfig, error) {
	k := koanf.New(".")

	defaults := core.DefaultScoringConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load scoring file %s: %w", path, err)
	}

	cfg := &core.ScoringConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scoring configuration: %w", err)
	}
	if err := core.ValidateScoringConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks struct constraints, then the AI and scoring sections.
// The AI section is normalized in place.
func (c *Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.AI.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := core.ValidateScoringConfig(&c.Scoring); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// envTransformFunc maps RENDEZVOUS_SECTION_KEY to section.key. Scoring weights
// sit one level deeper: RENDEZVOUS_SCORING_WEIGHTS_INTENT -> scoring.weights.intent.
// The config path variable itself is not a setting and is dropped.
func envTransformFunc(key string) string {
	if key == ConfigPathEnvVar {
		return ""
	}
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	if section == "scoring" {
		if weight, found := strings.CutPrefix(rest, "weights_"); found {
			return "scoring.weights." + weight
		}
	}
	return section + "." + rest
}
