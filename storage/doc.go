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
// Package storage provides the storage abstraction layer for rendezvous.
//
// This package defines repository interfaces that decouple persistence from
// the scoring core. The scoring packages never import storage; the pipeline
// reads participants and configuration through these interfaces, hands them to
// the engine and writes the results back.
//
// # Architecture
//
//   - ParticipantRepository: participant profiles plus the intent cache,
//     embeddings and AI classifications written back after each run
//   - MatchRepository: an event's ranked match candidates, replaced wholesale
//     on every run
//   - EventConfigRepository: per-event scoring configuration
//
// Records are encoded with MUS (see serialization.go). The BadgerDB
// implementation lives in the badger subpackage.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	participants, err := badger.NewParticipantRepository(backend)
//
// Use in tests with in-memory storage:
//
//	store, err := badger.NewMemoryStore()
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer store.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
