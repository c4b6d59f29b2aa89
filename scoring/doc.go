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
// Package scoring evaluates every participant pair of an event and produces
// ranked match candidates.
//
// An Engine resolves each participant's intent estimate, then visits each
// unordered pair once. For every pair that survives the exclusion rules it
// computes five sub-scores:
//
//   - intent: pairwise compatibility of the two intent estimates
//   - industry: 100 for the same industry, 40 for different, 50 if unknown
//   - interest: expertise/interest overlap in both directions plus shared expertise
//   - complementarity: different roles and needs matched by offerings
//   - embedding: profile similarity when the run supplies it
//
// The composite is a weighted blend of the sub-scores. Candidates below the
// configured minimum are dropped and the rest receive short reasons.
//
// Work is spread over an ants pool. Each task writes only to its own slot and
// the slots are merged once all tasks finish, so scoring needs no locks.
package scoring
