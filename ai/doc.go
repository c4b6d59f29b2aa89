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


// Package ai defines the AI services used around the match scoring engine.
//
// Two services are used:
//
//   - Embedder turns participant profile text into vectors, from which
//     pairwise profile similarities are computed
//   - IntentClassifier asks a chat model which intents a profile expresses;
//     its answers are stored for review only and do not feed intent fusion
//
// AIProvider aggregates both so callers can open them together.
//
// # Implementation Packages
//
//   - ai/openai: langchaingo clients for OpenAI-compatible servers
//   - ai/mock: deterministic test doubles
//
// Production constructors return interfaces. mock.NewMockProvider also returns
// the interface; NewMockProviderWithServices returns the concrete type so
// tests can reach call counts.
package ai
