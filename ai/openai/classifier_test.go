package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/rendezvous/ai"
	"github.com/poiesic/rendezvous/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// scriptedModel answers GenerateContent with a fixed sequence of responses.
type scriptedModel struct {
	answers []string
	err     error
	calls   int
	prompts []string
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(messages) > 1 {
		if part, ok := messages[1].Parts[0].(llms.TextContent); ok {
			m.prompts = append(m.prompts, part.Text)
		}
	}
	if len(m.answers) == 0 {
		return &llms.ContentResponse{}, nil
	}
	answer := m.answers[0]
	if len(m.answers) > 1 {
		m.answers = m.answers[1:]
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: answer}}}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not supported")
}

func TestIntentClassifier_ClassifyIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("parses a fenced answer", func(t *testing.T) {
		model := &scriptedModel{answers: []string{"```json\n{\"intents\":[{\"intent\":\"Buying\",\"strength\":0.8},{\"intent\":\"networking\",\"strength\":0.2}],\"confidence\":70}\n```"}}
		c := newIntentClassifierWithModel(model, 3)

		est, err := c.ClassifyIntent(ctx, "Head of procurement\n\tevaluating vendors")
		require.NoError(t, err)
		assert.Equal(t, 0.8, est.Vector.Get(core.IntentBuying))
		assert.Equal(t, 0.2, est.Vector.Get(core.IntentNetworking))
		assert.Equal(t, 70, est.Confidence)
		assert.Equal(t, []string{"Head of procurement evaluating vendors"}, model.prompts)
	})

	t.Run("retries malformed json", func(t *testing.T) {
		model := &scriptedModel{answers: []string{
			"not json at all",
			`{intents: [{"intent":"investing","strength":1}], confidence": 55}`,
		}}
		c := newIntentClassifierWithModel(model, 3)

		est, err := c.ClassifyIntent(ctx, "angel investor")
		require.NoError(t, err)
		assert.Equal(t, 2, model.calls)
		assert.Equal(t, 1.0, est.Vector.Get(core.IntentInvesting))
		assert.Equal(t, 55, est.Confidence)
	})

	t.Run("gives up after the attempt limit", func(t *testing.T) {
		model := &scriptedModel{answers: []string{"{{{"}}
		c := newIntentClassifierWithModel(model, 2)

		_, err := c.ClassifyIntent(ctx, "anything")
		require.Error(t, err)
		assert.ErrorIs(t, err, ai.ErrMalformedResponse)
		assert.Equal(t, 2, model.calls)
	})

	t.Run("model errors are returned immediately", func(t *testing.T) {
		boom := errors.New("connection refused")
		model := &scriptedModel{err: boom}
		c := newIntentClassifierWithModel(model, 3)

		_, err := c.ClassifyIntent(ctx, "anything")
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, model.calls)
	})

	t.Run("unknown intents are dropped", func(t *testing.T) {
		model := &scriptedModel{answers: []string{`{"intents":[{"intent":"hiring","strength":1}],"confidence":90}`}}
		c := newIntentClassifierWithModel(model, 1)

		est, err := c.ClassifyIntent(ctx, "we are hiring")
		require.NoError(t, err)
		assert.Equal(t, core.UniformEstimate(), est)
	})

	t.Run("empty profile skips the model", func(t *testing.T) {
		model := &scriptedModel{}
		c := newIntentClassifierWithModel(model, 3)

		est, err := c.ClassifyIntent(ctx, "  \n ")
		require.NoError(t, err)
		assert.Equal(t, core.UniformEstimate(), est)
		assert.Zero(t, model.calls)
	})

	t.Run("no choices is uniform", func(t *testing.T) {
		model := &scriptedModel{}
		c := newIntentClassifierWithModel(model, 3)

		est, err := c.ClassifyIntent(ctx, "profile")
		require.NoError(t, err)
		assert.Equal(t, core.UniformEstimate(), est)
	})
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := buildSystemPrompt()
	for _, k := range core.IntentKeys {
		assert.Contains(t, prompt, `"`+string(k)+`"`)
		assert.Contains(t, prompt, ai.IntentDescriptions[k])
	}
	assert.NotContains(t, prompt, "%!")
}
