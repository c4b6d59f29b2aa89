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
package scoring

import "errors"

var (
	// ErrZeroWeights indicates the effective weights sum to zero, so no
	// composite score can be computed.
	ErrZeroWeights = errors.New("scoring weights sum to zero")

	// ErrScoringCancelled indicates the context was cancelled mid-run.
	ErrScoringCancelled = errors.New("scoring run cancelled")

	// ErrPoolRequired indicates WithPool was given a nil pool.
	ErrPoolRequired = errors.New("worker pool is required")
)
