package pipeline

import "errors"

var (
	// ErrParticipantRepositoryRequired is returned when a participant repository is not provided.
	ErrParticipantRepositoryRequired = errors.New("participant repository required")

	// ErrMatchRepositoryRequired is returned when a match repository is not provided.
	ErrMatchRepositoryRequired = errors.New("match repository required")

	// ErrEventConfigRepositoryRequired is returned when an event config repository is not provided.
	ErrEventConfigRepositoryRequired = errors.New("event config repository required")

	// ErrClassifierRequired is returned by Classify when no intent classifier was configured.
	ErrClassifierRequired = errors.New("intent classifier required")

	// ErrInvalidBatchSize is returned when the match batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")
)
