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

import "errors"

// Domain validation errors
var (
	// ErrInvalidParticipant indicates a Participant failed validation.
	ErrInvalidParticipant = errors.New("invalid participant")

	// ErrEmptyParticipantID indicates the participant ID is empty.
	ErrEmptyParticipantID = errors.New("participant id cannot be empty")

	// ErrEmptyEventID indicates the event ID is empty.
	ErrEmptyEventID = errors.New("event id cannot be empty")

	// ErrInvalidConfidence indicates a confidence outside [0,100].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 100")

	// ErrInvalidScoringConfig indicates a ScoringConfig failed validation.
	ErrInvalidScoringConfig = errors.New("invalid scoring config")
)
