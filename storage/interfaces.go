package storage

import (
	"context"

	"github.com/poiesic/rendezvous/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// ParticipantRepository provides operations for managing participant profiles.
// Participants are scoped to an event: the same participant ID may exist in
// several events as independent records.
type ParticipantRepository interface {
	Repository
	// AddParticipants stores participants, replacing any existing record with
	// the same event and ID. InsertedAt is kept from the existing record.
	// Returns ErrInvalidRecord (wrapping the validation error) for bad input.
	AddParticipants(ctx context.Context, participants ...*core.Participant) ([]*core.Participant, error)

	// UpdateParticipants updates existing participants.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any participant doesn't exist.
	UpdateParticipants(ctx context.Context, participants ...*core.Participant) ([]*core.Participant, error)

	// DeleteParticipants removes participants of an event by ID.
	// Returns ErrNotFound if any participant doesn't exist.
	DeleteParticipants(ctx context.Context, eventID string, ids ...string) error

	// GetParticipant retrieves one participant.
	// Returns ErrNotFound if the participant doesn't exist.
	GetParticipant(ctx context.Context, eventID, id string) (*core.Participant, error)

	// ListParticipants returns every participant of an event ordered by ID.
	ListParticipants(ctx context.Context, eventID string) ([]*core.Participant, error)

	// UpdateIntentEstimates stores freshly computed intent caches keyed by participant ID.
	// Returns ErrNotFound if any participant doesn't exist.
	UpdateIntentEstimates(ctx context.Context, eventID string, estimates map[string]core.IntentEstimate) error

	// UpdateEmbeddings stores profile embeddings keyed by participant ID.
	// Returns ErrNotFound if any participant doesn't exist.
	UpdateEmbeddings(ctx context.Context, eventID string, embeddings map[string][]float32) error

	// UpdateClassifications stores AI intent classifications keyed by participant ID.
	// Returns ErrNotFound if any participant doesn't exist.
	UpdateClassifications(ctx context.Context, eventID string, classifications map[string]core.IntentEstimate) error
}

// MatchRepository provides operations for an event's match candidates.
type MatchRepository interface {
	Repository
	// ReplaceMatches removes every stored match of the event and inserts
	// candidates in chunks of batchSize, one transaction per chunk.
	// Candidates are stored in the given order, which ListMatches preserves.
	ReplaceMatches(ctx context.Context, eventID string, candidates []*core.MatchCandidate, batchSize int) error

	// ListMatches returns up to limit matches in stored order.
	// A limit <= 0 returns all of them.
	ListMatches(ctx context.Context, eventID string, limit int) ([]*core.MatchCandidate, error)

	// ListMatchesForParticipant returns the stored matches involving participantID.
	ListMatchesForParticipant(ctx context.Context, eventID, participantID string) ([]*core.MatchCandidate, error)

	// DeleteMatches removes every match of the event and returns how many were removed.
	DeleteMatches(ctx context.Context, eventID string) (int, error)
}

// EventConfigRepository stores per-event scoring configuration.
type EventConfigRepository interface {
	// SaveScoringConfig persists cfg for the event, replacing any previous value.
	SaveScoringConfig(ctx context.Context, eventID string, cfg *core.ScoringConfig) error

	// LoadScoringConfig returns the event's configuration.
	// Returns nil, nil if none has been saved.
	LoadScoringConfig(ctx context.Context, eventID string) (*core.ScoringConfig, error)
}
