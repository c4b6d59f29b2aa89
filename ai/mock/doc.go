// Package mock provides test doubles for the ai service interfaces.
//
// The mocks are deterministic so tests can run without a model server:
//
//   - MockEmbedder returns unit vectors derived from a hash of the text
//   - MockIntentClassifier guesses intents from keywords such as "invest" or "partner"
//   - MockProvider aggregates both
//
// Behavior can be replaced per test through the exported func fields:
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("model offline")
//	}
package mock
