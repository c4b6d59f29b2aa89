package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/rendezvous/core"
	"github.com/poiesic/rendezvous/metrics"
	"github.com/poiesic/rendezvous/scoring"
	"github.com/poiesic/rendezvous/storage/badger"
)

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *badger.MemoryStore {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestPipeline(t *testing.T, store *badger.MemoryStore, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{
		WithPoolSize(2),
		WithBatchSize(2),
		WithRetries(2, time.Millisecond),
		WithClock(func() time.Time { return fixedTime }),
	}, opts...)
	p, err := NewPipeline(store.Participants, store.Matches, store.EventConfigs, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func seedEvent(t *testing.T, store *badger.MemoryStore) {
	t.Helper()
	_, err := store.Participants.AddParticipants(context.Background(),
		&core.Participant{
			ID: "a", EventID: "evt", Name: "Alice Smith",
			ExplicitIntents: []string{"selling"},
			Industry:        "Technology",
			Expertise:       []string{"AI"},
		},
		&core.Participant{
			ID: "b", EventID: "evt", Name: "Bob Jones",
			ExplicitIntents: []string{"buying"},
			Industry:        "Technology",
			Interests:       []string{"AI"},
		},
		&core.Participant{
			ID: "c", EventID: "evt", Name: "Carol White",
			Title:       "Student",
			CompanyName: "State University",
		},
	)
	require.NoError(t, err)
}

// runCount sums the runs counter for one result label.
func runCount(t *testing.T, p *Pipeline, result string) float64 {
	t.Helper()
	families, err := p.Metrics().Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, family := range families {
		if family.GetName() != "rendezvous_scoring_runs_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					total += m.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

func TestNewPipeline_RequiresRepositories(t *testing.T) {
	store := newTestStore(t)

	_, err := NewPipeline(nil, store.Matches, store.EventConfigs)
	assert.ErrorIs(t, err, ErrParticipantRepositoryRequired)
	_, err = NewPipeline(store.Participants, nil, store.EventConfigs)
	assert.ErrorIs(t, err, ErrMatchRepositoryRequired)
	_, err = NewPipeline(store.Participants, store.Matches, nil)
	assert.ErrorIs(t, err, ErrEventConfigRepositoryRequired)
	_, err = NewPipeline(store.Participants, store.Matches, store.EventConfigs, WithBatchSize(0))
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	bad := core.DefaultScoringConfig()
	bad.MinScore = 150
	_, err = NewPipeline(store.Participants, store.Matches, store.EventConfigs, WithDefaultScoringConfig(bad))
	assert.ErrorIs(t, err, core.ErrInvalidScoringConfig)
}

func TestPipeline_Run(t *testing.T) {
	store := newTestStore(t)
	seedEvent(t, store)
	p := newTestPipeline(t, store)
	ctx := context.Background()

	summary, err := p.Run(ctx, "evt")
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, ConfigSourceDefault, summary.ConfigSource)
	assert.Equal(t, 3, summary.Participants)
	assert.Equal(t, 3, summary.Evaluated)
	assert.Equal(t, 3, summary.VectorsRecomputed)
	assert.False(t, summary.HasEmbeddings)
	require.GreaterOrEqual(t, summary.Matches, 1)
	assert.Equal(t, summary.Matches+summary.BelowThreshold, summary.Evaluated)

	stored, err := store.Matches.ListMatches(ctx, "evt", 0)
	require.NoError(t, err)
	require.Len(t, stored, summary.Matches)
	assert.Equal(t, "a", stored[0].ParticipantA)
	assert.Equal(t, "b", stored[0].ParticipantB)
	assert.Equal(t, 83.75, stored[0].Composite)
	assert.Equal(t, fixedTime, stored[0].CreatedAt)

	alice, err := store.Participants.GetParticipant(ctx, "evt", "a")
	require.NoError(t, err)
	require.NotNil(t, alice.Intent, "fresh vectors are cached")
	assert.Equal(t, 1.0, alice.Intent.Vector.Get(core.IntentSelling))

	// the second run reads the cached vectors and replaces the matches
	again, err := p.Run(ctx, "evt")
	require.NoError(t, err)
	assert.NotEqual(t, summary.RunID, again.RunID)
	assert.Zero(t, again.VectorsRecomputed)
	restored, err := store.Matches.ListMatches(ctx, "evt", 0)
	require.NoError(t, err)
	assert.Len(t, restored, again.Matches)

	assert.Equal(t, 2.0, runCount(t, p, metrics.ResultSuccess))
}

func TestPipeline_RunUsesEventConfig(t *testing.T) {
	store := newTestStore(t)
	seedEvent(t, store)
	ctx := context.Background()

	strict := core.DefaultScoringConfig()
	strict.MinScore = 90
	require.NoError(t, store.EventConfigs.SaveScoringConfig(ctx, "evt", &strict))

	p := newTestPipeline(t, store)
	summary, err := p.Run(ctx, "evt")
	require.NoError(t, err)

	assert.Equal(t, ConfigSourceEvent, summary.ConfigSource)
	assert.Equal(t, 90.0, summary.Config.MinScore)
	assert.Zero(t, summary.Matches)
	assert.Equal(t, 3, summary.BelowThreshold)
}

func TestPipeline_RunUsesDefaultScoringOption(t *testing.T) {
	store := newTestStore(t)
	seedEvent(t, store)

	lenient := core.DefaultScoringConfig()
	lenient.MinScore = 0
	p := newTestPipeline(t, store, WithDefaultScoringConfig(lenient))

	summary, err := p.Run(context.Background(), "evt")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Matches)
}

func TestPipeline_RunWithEmbeddings(t *testing.T) {
	store := newTestStore(t)
	seedEvent(t, store)
	ctx := context.Background()

	require.NoError(t, store.Participants.UpdateEmbeddings(ctx, "evt", map[string][]float32{
		"a": {1, 0},
		"b": {1, 0},
	}))

	p := newTestPipeline(t, store)
	summary, err := p.Run(ctx, "evt")
	require.NoError(t, err)
	assert.True(t, summary.HasEmbeddings)
	assert.Greater(t, summary.Weights.Embedding, 0.0)

	stored, err := store.Matches.ListMatches(ctx, "evt", 1)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 100.0, stored[0].Scores.Embedding)
}

func TestPipeline_RunEmptyEvent(t *testing.T) {
	store := newTestStore(t)
	p := newTestPipeline(t, store)

	summary, err := p.Run(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, summary.Participants)
	assert.Zero(t, summary.Matches)

	_, err = p.Run(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrEmptyEventID)
}

func TestPipeline_RunZeroWeightsFails(t *testing.T) {
	store := newTestStore(t)
	seedEvent(t, store)
	ctx := context.Background()

	cfg := core.DefaultScoringConfig()
	cfg.Weights = core.Weights{}
	require.NoError(t, store.EventConfigs.SaveScoringConfig(ctx, "evt", &cfg))

	p := newTestPipeline(t, store)
	_, err := p.Run(ctx, "evt")
	assert.ErrorIs(t, err, scoring.ErrZeroWeights)
	assert.Equal(t, 1.0, runCount(t, p, metrics.ResultError))

	stored, err := store.Matches.ListMatches(ctx, "evt", 0)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestPipeline_RunSharesPool(t *testing.T) {
	store := newTestStore(t)
	seedEvent(t, store)
	p := newTestPipeline(t, store, WithPoolSize(3))
	assert.Equal(t, 3, p.pool.Cap())

	for range 2 {
		_, err := p.Run(context.Background(), "evt")
		require.NoError(t, err)
		assert.False(t, p.pool.IsClosed(), "scoring must not release the pipeline pool")
	}
}
