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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/poiesic/rendezvous/ai"
	"github.com/poiesic/rendezvous/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// IntentClassifier implements ai.IntentClassifier using OpenAI-compatible chat APIs.
type IntentClassifier struct {
	client   llms.Model
	attempts int
	logger   *slog.Logger
}

// classifiedIntent and classification match the JSON the model is asked for.
type classifiedIntent struct {
	Intent   string  `json:"intent"`
	Strength float64 `json:"strength"`
}

type classification struct {
	Intents    []classifiedIntent `json:"intents"`
	Confidence int                `json:"confidence"`
}

// newIntentClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newIntentClassifier(config *ai.Config) (*IntentClassifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken("none"),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return newIntentClassifierWithModel(client, config.ParseAttempts), nil
}

func newIntentClassifierWithModel(model llms.Model, attempts int) *IntentClassifier {
	return &IntentClassifier{
		client:   model,
		attempts: max(attempts, 1),
		logger:   slog.Default().With("component", "openai-classifier"),
	}
}

// NewIntentClassifier creates a new intent classifier using the provided configuration.
//
// Returns ai.IntentClassifier interface to enforce abstraction.
func NewIntentClassifier(config *ai.Config) (ai.IntentClassifier, error) {
	return newIntentClassifier(config)
}

// ClassifyIntent asks the model for the intents expressed by a profile.
// Malformed JSON answers are retried up to the configured number of attempts.
func (c *IntentClassifier) ClassifyIntent(ctx context.Context, profile string) (core.IntentEstimate, error) {
	profile = scrubProfile(profile)
	if profile == "" {
		return core.UniformEstimate(), nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt())},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(profile)},
		},
	}

	var result classification
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			c.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return core.IntentEstimate{}, err
		}

		if len(response.Choices) < 1 {
			c.logger.Debug("no choices returned from model")
			return core.UniformEstimate(), nil
		}

		responseText := cleanResponse(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			c.logger.Warn("error parsing classifier response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		c.logger.Error("failed to parse classifier response after retries", "attempts", c.attempts, "err", lastErr)
		return core.IntentEstimate{}, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, lastErr)
	}

	intents := make([]ai.ClassifiedIntent, 0, len(result.Intents))
	for _, ci := range result.Intents {
		key := core.IntentKey(strings.ToLower(strings.TrimSpace(ci.Intent)))
		if !key.Valid() {
			c.logger.Debug("dropping unknown intent", "intent", ci.Intent)
			continue
		}
		intents = append(intents, ai.ClassifiedIntent{Intent: key, Strength: ci.Strength})
	}

	est := ai.EstimateFromClassified(intents, result.Confidence)
	c.logger.Debug("classified profile",
		"intents", len(intents),
		"dominant", est.Vector.Dominant(),
		"confidence", est.Confidence)
	return est, nil
}
