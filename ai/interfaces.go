package ai

import (
	"context"

	"github.com/poiesic/rendezvous/core"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// IntentClassifier asks a model which intents a participant profile expresses.
// Results are kept for review next to the participant and never take part in
// intent fusion.
type IntentClassifier interface {
	// ClassifyIntent returns a normalized intent estimate for the profile text.
	// A profile that expresses no intent yields a uniform estimate with zero confidence.
	ClassifyIntent(ctx context.Context, profile string) (core.IntentEstimate, error)
}

// AIProvider aggregates the AI services used by the engine.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// IntentClassifier returns the intent classification service.
	// The returned IntentClassifier is safe for concurrent use.
	IntentClassifier() IntentClassifier

	// Close releases resources held by the provider and its services.
	Close() error
}
