package badger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/rendezvous/core"
	"github.com/poiesic/rendezvous/storage"
)

// ParticipantRepository implements storage.ParticipantRepository for BadgerDB.
type ParticipantRepository struct {
	backend   *Backend
	batchSize int
}

// DefaultParticipantBatchSize is the number of participant records written
// per transaction. A record with a 3072-dimension embedding is about 12KB.
const DefaultParticipantBatchSize = 100

var _ storage.ParticipantRepository = (*ParticipantRepository)(nil)

// NewParticipantRepository creates a new ParticipantRepository.
func NewParticipantRepository(backend *Backend) (*ParticipantRepository, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &ParticipantRepository{
		backend:   backend,
		batchSize: DefaultParticipantBatchSize,
	}, nil
}

// Close releases resources. ParticipantRepository has no resources to release.
func (r *ParticipantRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ParticipantRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddParticipants stores participants, replacing records with the same key.
func (r *ParticipantRepository) AddParticipants(ctx context.Context, participants ...*core.Participant) ([]*core.Participant, error) {
	for _, p := range participants {
		if err := core.ValidateParticipant(p); err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrInvalidRecord, err)
		}
		if err := checkEventID(p.EventID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	err := r.writeInChunks(ctx, len(participants), func(tx *badger.Txn, i int) error {
		p := participants[i]
		key := makeParticipantKey(p.EventID, p.ID)

		old, err := readParticipant(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			p.InsertedAt = old.InsertedAt
		} else if p.InsertedAt.IsZero() {
			p.InsertedAt = now
		}
		p.UpdatedAt = now
		return tx.Set(key, storage.MarshalParticipant(p))
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// UpdateParticipants updates existing participants.
func (r *ParticipantRepository) UpdateParticipants(ctx context.Context, participants ...*core.Participant) ([]*core.Participant, error) {
	for _, p := range participants {
		if err := core.ValidateParticipant(p); err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrInvalidRecord, err)
		}
	}

	for _, p := range participants {
		if err := r.requireExisting(p.EventID, p.ID); err != nil {
			return nil, err
		}
	}

	err := r.writeInChunks(ctx, len(participants), func(tx *badger.Txn, i int) error {
		p := participants[i]
		key := makeParticipantKey(p.EventID, p.ID)
		old, err := readParticipant(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return fmt.Errorf("participant %s/%s: %w", p.EventID, p.ID, storage.ErrNotFound)
		}

		p.InsertedAt = old.InsertedAt
		p.UpdatedAt = time.Now().UTC()
		return tx.Set(key, storage.MarshalParticipant(p))
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// DeleteParticipants removes participants of an event by ID.
func (r *ParticipantRepository) DeleteParticipants(ctx context.Context, eventID string, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeParticipantKey(eventID, id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return fmt.Errorf("participant %s/%s: %w", eventID, id, storage.ErrNotFound)
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetParticipant retrieves one participant.
func (r *ParticipantRepository) GetParticipant(ctx context.Context, eventID, id string) (*core.Participant, error) {
	var result *core.Participant
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readParticipant(tx, makeParticipantKey(eventID, id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListParticipants returns every participant of an event ordered by ID.
func (r *ParticipantRepository) ListParticipants(ctx context.Context, eventID string) ([]*core.Participant, error) {
	if err := checkEventID(eventID); err != nil {
		return nil, err
	}

	var results []*core.Participant
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, makeEventPrefix(participantPrefix, eventID), func(_, val []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := storage.UnmarshalParticipant(val)
			if err != nil {
				return err
			}
			results = append(results, p)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateIntentEstimates stores freshly computed intent caches.
func (r *ParticipantRepository) UpdateIntentEstimates(ctx context.Context, eventID string, estimates map[string]core.IntentEstimate) error {
	return r.patch(ctx, eventID, slices.Sorted(maps.Keys(estimates)), func(p *core.Participant) {
		est := estimates[p.ID]
		p.Intent = &est
	})
}

// UpdateEmbeddings stores profile embeddings.
func (r *ParticipantRepository) UpdateEmbeddings(ctx context.Context, eventID string, embeddings map[string][]float32) error {
	return r.patch(ctx, eventID, slices.Sorted(maps.Keys(embeddings)), func(p *core.Participant) {
		p.Embedding = embeddings[p.ID]
	})
}

// UpdateClassifications stores AI intent classifications.
func (r *ParticipantRepository) UpdateClassifications(ctx context.Context, eventID string, classifications map[string]core.IntentEstimate) error {
	return r.patch(ctx, eventID, slices.Sorted(maps.Keys(classifications)), func(p *core.Participant) {
		est := classifications[p.ID]
		p.Classification = &est
	})
}

// patch applies apply to each listed participant. Every ID is checked up
// front so a missing participant fails the call before anything is written;
// the writes then commit in chunks of batchSize records.
func (r *ParticipantRepository) patch(ctx context.Context, eventID string, ids []string, apply func(p *core.Participant)) error {
	if len(ids) == 0 {
		return nil
	}
	if err := checkEventID(eventID); err != nil {
		return err
	}
	if err := r.requireExisting(eventID, ids...); err != nil {
		return err
	}

	now := time.Now().UTC()
	return r.writeInChunks(ctx, len(ids), func(tx *badger.Txn, i int) error {
		key := makeParticipantKey(eventID, ids[i])
		p, err := readParticipant(tx, key)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("participant %s/%s: %w", eventID, ids[i], storage.ErrNotFound)
		}
		apply(p)
		p.UpdatedAt = now
		return tx.Set(key, storage.MarshalParticipant(p))
	})
}

// writeInChunks calls write for every index in [0, n), committing a write
// transaction every batchSize records so large events stay under badger's
// transaction size limit.
func (r *ParticipantRepository) writeInChunks(ctx context.Context, n int, write func(tx *badger.Txn, i int) error) error {
	for start := 0; start < n; start += r.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+r.batchSize, n)
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for i := start; i < end; i++ {
				if err := write(tx, i); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return fmt.Errorf("write participants %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// requireExisting returns ErrNotFound for the first ID with no stored record.
func (r *ParticipantRepository) requireExisting(eventID string, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if _, err := tx.Get(makeParticipantKey(eventID, id)); err != nil {
				if err == badger.ErrKeyNotFound {
					return fmt.Errorf("participant %s/%s: %w", eventID, id, storage.ErrNotFound)
				}
				return err
			}
		}
		return nil
	}, false)
}

// readParticipant reads one participant. Returns nil, nil if the key is absent.
func readParticipant(tx *badger.Txn, key []byte) (*core.Participant, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var p *core.Participant
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		p, unmarshalErr = storage.UnmarshalParticipant(val)
		return unmarshalErr
	})
	return p, err
}

// checkEventID rejects event IDs that cannot form a key.
func checkEventID(eventID string) error {
	if eventID == "" {
		return fmt.Errorf("%w: empty event id", storage.ErrInvalidQuery)
	}
	if strings.IndexByte(eventID, keySep) >= 0 {
		return fmt.Errorf("%w: event id contains a NUL byte", storage.ErrInvalidQuery)
	}
	return nil
}
