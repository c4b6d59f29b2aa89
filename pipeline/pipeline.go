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


package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/rendezvous/ai"
	"github.com/poiesic/rendezvous/core"
	"github.com/poiesic/rendezvous/metrics"
	"github.com/poiesic/rendezvous/scoring"
	"github.com/poiesic/rendezvous/similarity"
	"github.com/poiesic/rendezvous/storage"
)

// DefaultBatchSize is the number of matches written per transaction.
const DefaultBatchSize = 500

// Pipeline scores events and classifies participants against one store.
type Pipeline struct {
	participants   storage.ParticipantRepository
	matches        storage.MatchRepository
	configs        storage.EventConfigRepository
	classifier     ai.IntentClassifier
	pool           *ants.Pool
	poolSize       int
	batchSize      int
	maxRetries     int
	retryDelay     time.Duration
	defaultScoring core.ScoringConfig
	metrics        *metrics.Recorder
	logger         *slog.Logger
	now            func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size used for scoring and classification.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		p.poolSize = max(size, 1)
		return nil
	}
}

// WithBatchSize sets how many matches are written per transaction.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithRetries sets the attempts and base backoff delay for classifier calls.
func WithRetries(attempts int, delay time.Duration) Option {
	return func(p *Pipeline) error {
		if attempts < 1 {
			attempts = 1
		}
		p.maxRetries = attempts
		p.retryDelay = delay
		return nil
	}
}

// WithClassifier enables Classify.
func WithClassifier(classifier ai.IntentClassifier) Option {
	return func(p *Pipeline) error {
		p.classifier = classifier
		return nil
	}
}

// WithDefaultScoringConfig sets the configuration used for events that have
// none stored. Default is core.DefaultScoringConfig().
func WithDefaultScoringConfig(cfg core.ScoringConfig) Option {
	return func(p *Pipeline) error {
		if err := core.ValidateScoringConfig(&cfg); err != nil {
			return err
		}
		p.defaultScoring = cfg
		return nil
	}
}

// WithMetrics sets the recorder runs are reported to.
// Default is a private recorder, reachable through Metrics().
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(p *Pipeline) error {
		if recorder != nil {
			p.metrics = recorder
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "pipeline")
		return nil
	}
}

// WithClock overrides the time source stamped on match candidates.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) error {
		if now != nil {
			p.now = now
		}
		return nil
	}
}

// NewPipeline creates a new pipeline over the given repositories.
func NewPipeline(
	participants storage.ParticipantRepository,
	matches storage.MatchRepository,
	configs storage.EventConfigRepository,
	opts ...Option,
) (*Pipeline, error) {
	if participants == nil {
		return nil, ErrParticipantRepositoryRequired
	}
	if matches == nil {
		return nil, ErrMatchRepositoryRequired
	}
	if configs == nil {
		return nil, ErrEventConfigRepositoryRequired
	}

	p := &Pipeline{
		participants:   participants,
		matches:        matches,
		configs:        configs,
		poolSize:       max(runtime.NumCPU()/2, 1),
		batchSize:      DefaultBatchSize,
		maxRetries:     3,
		retryDelay:     time.Second,
		defaultScoring: core.DefaultScoringConfig(),
		metrics:        metrics.NewRecorder(),
		logger:         slog.Default().With("component", "pipeline"),
		now:            time.Now,
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			return nil, optErr
		}
	}

	pool, err := ants.NewPool(p.poolSize)
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return p, nil
}

// Metrics returns the recorder runs are reported to.
func (p *Pipeline) Metrics() *metrics.Recorder {
	return p.metrics
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// RunSummary describes one scoring run.
type RunSummary struct {
	RunID             string
	EventID           string
	Config            core.ScoringConfig
	ConfigSource      string
	Participants      int
	Evaluated         int
	Excluded          int
	BelowThreshold    int
	Matches           int
	VectorsRecomputed int
	HasEmbeddings     bool
	Weights           core.Weights
	Duration          time.Duration
}

// Config sources reported in RunSummary.ConfigSource.
const (
	ConfigSourceEvent   = "event"
	ConfigSourceDefault = "default"
)

// Run scores every pair of an event's participants and replaces the event's
// stored matches with the ranked survivors. Freshly computed intent vectors
// are written back to the participants so later runs can reuse them.
func (p *Pipeline) Run(ctx context.Context, eventID string) (*RunSummary, error) {
	if eventID == "" {
		return nil, core.ErrEmptyEventID
	}

	summary := &RunSummary{RunID: uuid.NewString(), EventID: eventID}
	logger := p.logger.With("run", summary.RunID, "event", eventID)
	start := time.Now()

	if err := p.run(ctx, summary, logger); err != nil {
		p.metrics.ObserveFailure(eventID)
		logger.Error("scoring run failed", "err", err)
		return nil, err
	}
	summary.Duration = time.Since(start)

	p.metrics.ObserveRun(metrics.RunStats{
		EventID:           eventID,
		Duration:          summary.Duration,
		Evaluated:         summary.Evaluated,
		Excluded:          summary.Excluded,
		BelowThreshold:    summary.BelowThreshold,
		VectorsRecomputed: summary.VectorsRecomputed,
		Matches:           summary.Matches,
	})
	logger.Info("scoring run complete",
		"participants", summary.Participants,
		"matches", summary.Matches,
		"evaluated", summary.Evaluated,
		"config", summary.ConfigSource,
		"duration", summary.Duration)
	return summary, nil
}

func (p *Pipeline) run(ctx context.Context, summary *RunSummary, logger *slog.Logger) error {
	eventID := summary.EventID

	cfg, err := p.configs.LoadScoringConfig(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load scoring config: %w", err)
	}
	summary.ConfigSource = ConfigSourceEvent
	if cfg == nil {
		summary.ConfigSource = ConfigSourceDefault
		defaults := p.defaultScoring
		cfg = &defaults
	}
	summary.Config = *cfg

	participants, err := p.participants.ListParticipants(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to list participants: %w", err)
	}
	summary.Participants = len(participants)

	sims := similarity.BuildIndex(participants)
	logger.Debug("similarity index built", "pairs", len(sims))

	engine, err := scoring.NewEngine(*cfg,
		scoring.WithPool(p.pool),
		scoring.WithLogger(p.logger),
		scoring.WithClock(p.now))
	if err != nil {
		return err
	}
	defer engine.Release()

	result, err := engine.Score(ctx, participants, sims)
	if err != nil {
		return err
	}

	if len(result.Refreshed) > 0 {
		if err := p.participants.UpdateIntentEstimates(ctx, eventID, result.Refreshed); err != nil {
			return fmt.Errorf("failed to store intent vectors: %w", err)
		}
	}

	if err := p.matches.ReplaceMatches(ctx, eventID, result.Candidates, p.batchSize); err != nil {
		return fmt.Errorf("failed to store matches: %w", err)
	}

	summary.Evaluated = result.Evaluated
	summary.Excluded = result.Excluded
	summary.BelowThreshold = result.BelowThreshold
	summary.Matches = len(result.Candidates)
	summary.VectorsRecomputed = len(result.Refreshed)
	summary.HasEmbeddings = result.HasEmbeddings
	summary.Weights = result.Weights
	return nil
}
