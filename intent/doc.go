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
// Package intent turns participant evidence into intent estimates and scores
// how well two estimates pair up.
//
// Extractors convert one kind of evidence into a normalized IntentEstimate:
//
//   - FromExplicitIntents scores self-reported selections
//   - FromTextSignals runs fixed keyword tables over title and bio text
//   - LookingForOfferingText builds the synthetic body for the looking-for
//     and offering fields
//
// MergeSignals fuses weighted signals into one estimate, and
// ComputeParticipantVector wires the three extractors together with their
// source weights. ResolveVector decides between a cached estimate and a fresh
// computation without touching storage; the caller persists anything it
// recomputes.
//
// ComputeIntentCompatibility scores a pair of estimates against the fixed
// compatibility table returned by Compatibility. All functions here are pure
// and safe for concurrent use.
package intent
