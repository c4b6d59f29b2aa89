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


package mock

import "github.com/poiesic/rendezvous/ai"

// MockProvider is a test double for ai.AIProvider.
type MockProvider struct {
	embedder   *MockEmbedder
	classifier *MockIntentClassifier
	closed     bool
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockClassifier() to reach the concrete types.
func NewMockProvider() ai.AIProvider {
	return NewMockProviderWithServices(NewMockEmbedder(), NewMockIntentClassifier())
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
func NewMockProviderWithServices(embedder *MockEmbedder, classifier *MockIntentClassifier) *MockProvider {
	return &MockProvider{
		embedder:   embedder,
		classifier: classifier,
	}
}

func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *MockProvider) IntentClassifier() ai.IntentClassifier {
	return p.classifier
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

func (p *MockProvider) GetMockClassifier() *MockIntentClassifier {
	return p.classifier
}
