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

package core

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateParticipant validates a Participant according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - EventID must not be empty
//   - Cached and classified estimates, when present, must carry a confidence in [0,100]
//
// NOT validated (degrade to neutral defaults during scoring):
//   - ExplicitIntents (unknown values are dropped at extraction)
//   - Industry, Expertise, Interests, Role
//   - Embedding (can be empty until the embed step runs)
func ValidateParticipant(p *Participant) error {
	if p == nil {
		return fmt.Errorf("%w: participant is nil", ErrInvalidParticipant)
	}

	if p.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidParticipant, ErrEmptyParticipantID)
	}

	if p.EventID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidParticipant, ErrEmptyEventID)
	}

	for _, est := range []*IntentEstimate{p.Intent, p.Classification} {
		if est != nil && !IsValidConfidence(est.Confidence) {
			return fmt.Errorf("%w: %w", ErrInvalidParticipant, ErrInvalidConfidence)
		}
	}

	return nil
}

// ValidateScoringConfig checks weights are non-negative and the cutoffs are in range.
// A config whose weights sum to zero passes here; the scorer reports it at run time
// because the embedding weight may be dropped per run.
func ValidateScoringConfig(cfg *ScoringConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidScoringConfig)
	}
	if err := structValidator().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScoringConfig, err)
	}
	return nil
}

// IsValidConfidence reports whether c lies in [0,100].
func IsValidConfidence(c int) bool {
	return c >= 0 && c <= 100
}
