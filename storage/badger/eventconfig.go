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
package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/rendezvous/core"
	"github.com/poiesic/rendezvous/storage"
)

// EventConfigRepository implements storage.EventConfigRepository for BadgerDB.
type EventConfigRepository struct {
	backend *Backend
}

var _ storage.EventConfigRepository = (*EventConfigRepository)(nil)

// NewEventConfigRepository creates a new EventConfigRepository.
func NewEventConfigRepository(backend *Backend) *EventConfigRepository {
	return &EventConfigRepository{
		backend: backend,
	}
}

// SaveScoringConfig persists the scoring configuration of an event.
func (r *EventConfigRepository) SaveScoringConfig(ctx context.Context, eventID string, cfg *core.ScoringConfig) error {
	if err := checkEventID(eventID); err != nil {
		return err
	}
	if err := core.ValidateScoringConfig(cfg); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrInvalidRecord, err)
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeEventConfigKey(eventID), storage.MarshalScoringConfig(cfg)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadScoringConfig retrieves the scoring configuration of an event.
// Returns nil, nil if no configuration exists.
func (r *EventConfigRepository) LoadScoringConfig(ctx context.Context, eventID string) (*core.ScoringConfig, error) {
	if err := checkEventID(eventID); err != nil {
		return nil, err
	}

	var cfg *core.ScoringConfig
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEventConfigKey(eventID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			cfg, unmarshalErr = storage.UnmarshalScoringConfig(val)
			return unmarshalErr
		})
	}, false)

	return cfg, err
}
