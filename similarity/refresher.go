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


package similarity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/rendezvous/ai"
	"github.com/poiesic/rendezvous/storage"
)

// Config holds configuration for an embedding refresh.
type Config struct {
	// BatchSize is the number of participants embedded per request
	BatchSize int

	// ReportInterval is how often to report progress (number of participants)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Force re-embeds participants that already have an embedding
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      64,
		ReportInterval: 64,
		MaxRetries:     3,
		RetryDelay:     time.Second,
	}
}

// RefreshSummary describes one Refresher run.
type RefreshSummary struct {
	Participants int
	Embedded     int
	// Skipped counts participants left alone: already embedded, or no profile text.
	Skipped int
	Elapsed time.Duration
}

// Refresher embeds the profile text of an event's participants and stores
// the normalized vectors.
type Refresher struct {
	repo     storage.ParticipantRepository
	embedder ai.Embedder
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewRefresher creates a new refresher.
// progress: where to write progress output (typically os.Stderr, nil for none)
func NewRefresher(repo storage.ParticipantRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Refresher {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Refresher{
		repo:     repo,
		embedder: embedder,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "similarity-refresher"),
	}
}

type pending struct {
	id   string
	text string
}

// Run embeds every participant of eventID that lacks an embedding, or all of
// them when Force is set. Each batch is stored in its own transaction, so a
// failed run keeps the batches completed before the failure.
func (r *Refresher) Run(ctx context.Context, eventID string) (*RefreshSummary, error) {
	participants, err := r.repo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	summary := &RefreshSummary{Participants: len(participants)}
	var todo []pending
	for _, p := range participants {
		if len(p.Embedding) > 0 && !r.config.Force {
			summary.Skipped++
			continue
		}
		text := ProfileText(p)
		if text == "" {
			summary.Skipped++
			continue
		}
		todo = append(todo, pending{id: p.ID, text: text})
	}

	if len(todo) == 0 {
		fmt.Fprintf(r.progress, "No participants need embeddings in event %s (%d participants)\n", eventID, len(participants))
		return summary, nil
	}

	batchSize := max(r.config.BatchSize, 1)
	fmt.Fprintf(r.progress, "Embedding %d participants of event %s (batch size: %d)\n", len(todo), eventID, batchSize)

	tracker := NewProgressTracker(r.progress, len(todo), r.config.ReportInterval, "participants")
	tracker.Start()

	for batch := range slices.Chunk(todo, batchSize) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := r.processBatch(ctx, eventID, batch); err != nil {
			return summary, fmt.Errorf("failed to process batch: %w", err)
		}
		summary.Embedded += len(batch)
		tracker.Update(summary.Embedded)
	}

	tracker.Finish()
	summary.Elapsed = tracker.Elapsed()
	fmt.Fprintf(r.progress, "Embedding complete. Embedded %d participants in %v\n",
		summary.Embedded, summary.Elapsed.Round(time.Millisecond))

	r.logger.Info("embeddings refreshed",
		"event", eventID,
		"embedded", summary.Embedded,
		"skipped", summary.Skipped)
	return summary, nil
}

func (r *Refresher) processBatch(ctx context.Context, eventID string, batch []pending) error {
	texts := make([]string, len(batch))
	for i, item := range batch {
		texts[i] = item.text
	}

	vectors, err := embedWithRetry(ctx, r.embedder, texts, r.config.MaxRetries, r.config.RetryDelay, r.logger)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", r.config.MaxRetries, err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(batch), len(vectors))
	}

	updates := make(map[string][]float32, len(batch))
	for i, item := range batch {
		updates[item.id] = NormalizeVector(vectors[i])
	}
	return r.repo.UpdateEmbeddings(ctx, eventID, updates)
}

