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

import "github.com/poiesic/rendezvous/storage"

// MemoryStore bundles in-memory repositories for tests.
type MemoryStore struct {
	Participants storage.ParticipantRepository
	Matches      storage.MatchRepository
	EventConfigs storage.EventConfigRepository
	Backend      *Backend
}

// Close closes the repositories and the backend.
func (s *MemoryStore) Close() error {
	s.Participants.Close()
	s.Matches.Close()
	return s.Backend.Close()
}

// NewMemoryStore creates in-memory participant, match and event config
// repositories for testing. Caller must Close the store when done.
func NewMemoryStore() (*MemoryStore, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	participants, err := NewParticipantRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	matches, err := NewMatchRepository(backend)
	if err != nil {
		participants.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryStore{
		Participants: participants,
		Matches:      matches,
		EventConfigs: NewEventConfigRepository(backend),
		Backend:      backend,
	}, nil
}
