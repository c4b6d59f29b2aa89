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


package rendezvous

import (
	"io"
	"log/slog"

	"github.com/poiesic/rendezvous/ai"
	"github.com/poiesic/rendezvous/ai/openai"
	"github.com/poiesic/rendezvous/pipeline"
	"github.com/poiesic/rendezvous/similarity"
	"github.com/poiesic/rendezvous/storage"
	"github.com/poiesic/rendezvous/storage/badger"
)

// Database bundles the badger store, its repositories and the AI services.
type Database struct {
	backend      *badger.Backend
	participants storage.ParticipantRepository
	matches      storage.MatchRepository
	configs      storage.EventConfigRepository
	provider     ai.AIProvider
	logger       *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the settings used to build the OpenAI-compatible provider.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithAIProvider uses provider instead of building one. The Database takes
// ownership and closes it.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all data in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewDatabase opens (or creates) the store at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	participants, err := badger.NewParticipantRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	matches, err := badger.NewMatchRepository(backend)
	if err != nil {
		participants.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			matches.Close()
			participants.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:      backend,
		participants: participants,
		matches:      matches,
		configs:      badger.NewEventConfigRepository(backend),
		provider:     provider,
		logger:       options.logger.With("component", "database"),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.matches.Close(); err != nil {
		db.logger.Error("error closing match repository", "err", err)
		return err
	}
	if err := db.participants.Close(); err != nil {
		db.logger.Error("error closing participant repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) Participants() storage.ParticipantRepository {
	return db.participants
}

func (db *Database) Matches() storage.MatchRepository {
	return db.matches
}

func (db *Database) EventConfigs() storage.EventConfigRepository {
	return db.configs
}

func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

// NewPipeline creates a scoring pipeline over the database, with the
// provider's intent classifier enabled.
func (db *Database) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	opts = append([]pipeline.Option{pipeline.WithClassifier(db.provider.IntentClassifier())}, opts...)
	return pipeline.NewPipeline(db.participants, db.matches, db.configs, opts...)
}

// NewRefresher creates an embedding refresher using the provider's embedder.
func (db *Database) NewRefresher(cfg *similarity.Config, progress io.Writer) *similarity.Refresher {
	return similarity.NewRefresher(db.participants, db.provider.Embedder(), cfg, progress)
}
