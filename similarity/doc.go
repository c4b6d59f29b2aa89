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


// Package similarity turns participant profiles into embeddings and
// embeddings into the pairwise profile similarities used by match scoring.
//
// The Refresher walks an event's participants in batches, embeds the text
// produced by ProfileText, normalizes the vectors to unit length and stores
// them. BuildIndex then computes the cosine similarity of every pair of
// participants that both carry an embedding.
//
// # Usage
//
//	refresher := similarity.NewRefresher(participants, provider.Embedder(), nil, os.Stderr)
//	summary, err := refresher.Run(ctx, "event-1")
//
//	list, err := participants.ListParticipants(ctx, "event-1")
//	sims := similarity.BuildIndex(list)
package similarity
