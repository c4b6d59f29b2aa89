package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/rendezvous/core"
	"github.com/poiesic/rendezvous/storage"
)

// DefaultMatchBatchSize is used when ReplaceMatches is given a batch size below 1.
const DefaultMatchBatchSize = 500

// MatchRepository implements storage.MatchRepository for BadgerDB.
type MatchRepository struct {
	backend *Backend
}

var _ storage.MatchRepository = (*MatchRepository)(nil)

// NewMatchRepository creates a new MatchRepository.
func NewMatchRepository(backend *Backend) (*MatchRepository, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &MatchRepository{
		backend: backend,
	}, nil
}

// Close releases resources. MatchRepository has no resources to release.
func (r *MatchRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MatchRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// ReplaceMatches clears the event's matches, then writes candidates in chunks.
// The clear is its own transaction; each chunk commits separately.
func (r *MatchRepository) ReplaceMatches(ctx context.Context, eventID string, candidates []*core.MatchCandidate, batchSize int) error {
	if err := checkEventID(eventID); err != nil {
		return err
	}
	if batchSize < 1 {
		batchSize = DefaultMatchBatchSize
	}

	if _, err := r.DeleteMatches(ctx, eventID); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}

	for start := 0; start < len(candidates); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+batchSize, len(candidates))
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for rank := start; rank < end; rank++ {
				c := candidates[rank]
				if c.EventID == "" {
					c.EventID = eventID
				}
				if err := tx.Set(makeMatchKey(eventID, rank), storage.MarshalMatchCandidate(c)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return fmt.Errorf("insert matches %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// ListMatches returns up to limit matches in stored order.
func (r *MatchRepository) ListMatches(ctx context.Context, eventID string, limit int) ([]*core.MatchCandidate, error) {
	return r.list(ctx, eventID, limit, nil)
}

// ListMatchesForParticipant returns the stored matches involving participantID.
func (r *MatchRepository) ListMatchesForParticipant(ctx context.Context, eventID, participantID string) ([]*core.MatchCandidate, error) {
	return r.list(ctx, eventID, 0, func(c *core.MatchCandidate) bool {
		return c.ParticipantA == participantID || c.ParticipantB == participantID
	})
}

func (r *MatchRepository) list(ctx context.Context, eventID string, limit int, keep func(*core.MatchCandidate) bool) ([]*core.MatchCandidate, error) {
	if err := checkEventID(eventID); err != nil {
		return nil, err
	}

	var results []*core.MatchCandidate
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, makeEventPrefix(matchPrefix, eventID), func(_, val []byte) error {
			if limit > 0 && len(results) >= limit {
				return errStopScan
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := storage.UnmarshalMatchCandidate(val)
			if err != nil {
				return err
			}
			if keep == nil || keep(c) {
				results = append(results, c)
			}
			return nil
		})
	}, false)
	if err != nil && err != errStopScan {
		return nil, err
	}
	return results, nil
}

// DeleteMatches removes every match of the event.
func (r *MatchRepository) DeleteMatches(ctx context.Context, eventID string) (int, error) {
	if err := checkEventID(eventID); err != nil {
		return 0, err
	}

	var keys [][]byte
	if err := r.backend.WithTx(func(tx *badger.Txn) error {
		keys = collectKeys(tx, makeEventPrefix(matchPrefix, eventID))
		return nil
	}, false); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	wb := r.backend.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}
	return len(keys), nil
}
