package mock

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/poiesic/rendezvous/ai"
	"github.com/poiesic/rendezvous/core"
)

// MockIntentClassifier is a test double for ai.IntentClassifier.
type MockIntentClassifier struct {
	// ClassifyIntentFunc is called by ClassifyIntent if set.
	// If nil, intents are guessed from keywords in the profile.
	ClassifyIntentFunc func(ctx context.Context, profile string) (core.IntentEstimate, error)

	callCount atomic.Int64
}

func NewMockIntentClassifier() *MockIntentClassifier {
	return &MockIntentClassifier{}
}

var keywordIntents = map[string]core.IntentKey{
	"buy":     core.IntentBuying,
	"sell":    core.IntentSelling,
	"invest":  core.IntentInvesting,
	"partner": core.IntentPartnering,
	"learn":   core.IntentLearning,
	"network": core.IntentNetworking,
}

func (m *MockIntentClassifier) ClassifyIntent(ctx context.Context, profile string) (core.IntentEstimate, error) {
	m.callCount.Add(1)

	if m.ClassifyIntentFunc != nil {
		return m.ClassifyIntentFunc(ctx, profile)
	}

	lower := strings.ToLower(profile)
	var found []ai.ClassifiedIntent
	for _, k := range core.IntentKeys {
		for word, intent := range keywordIntents {
			if intent == k && strings.Contains(lower, word) {
				found = append(found, ai.ClassifiedIntent{Intent: k, Strength: 1})
			}
		}
	}
	return ai.EstimateFromClassified(found, 50), nil
}

func (m *MockIntentClassifier) CallCount() int {
	return int(m.callCount.Load())
}

func (m *MockIntentClassifier) Reset() {
	m.callCount.Store(0)
	m.ClassifyIntentFunc = nil
}
