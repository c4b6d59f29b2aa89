package similarity

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/rendezvous/ai/mock"
	"github.com/poiesic/rendezvous/core"
	"github.com/poiesic/rendezvous/storage/badger"
)

func newTestStore(t *testing.T) *badger.MemoryStore {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig() *Config {
	return &Config{BatchSize: 2, ReportInterval: 1, MaxRetries: 3, RetryDelay: time.Millisecond}
}

func seed(t *testing.T, store *badger.MemoryStore, participants ...*core.Participant) {
	t.Helper()
	_, err := store.Participants.AddParticipants(context.Background(), participants...)
	require.NoError(t, err)
}

func TestRefresher_Run(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seed(t, store,
		&core.Participant{ID: "p1", EventID: "evt", Title: "CTO", Bio: "Logistics software"},
		&core.Participant{ID: "p2", EventID: "evt", Title: "VP Sales"},
		&core.Participant{ID: "p3", EventID: "evt", Bio: "Angel investor"},
		&core.Participant{ID: "p4", EventID: "evt", Name: "No Profile"},
		&core.Participant{ID: "p5", EventID: "evt", Title: "Done", Embedding: []float32{1, 0}},
	)

	embedder := mock.NewMockEmbedder()
	var out bytes.Buffer
	summary, err := NewRefresher(store.Participants, embedder, testConfig(), &out).Run(ctx, "evt")
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Participants)
	assert.Equal(t, 3, summary.Embedded)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 2, embedder.CallCount(), "three texts in batches of two")
	assert.Contains(t, out.String(), "Embedding 3 participants of event evt")
	assert.Contains(t, out.String(), "Embedding complete")

	list, err := store.Participants.ListParticipants(ctx, "evt")
	require.NoError(t, err)
	for _, p := range list {
		switch p.ID {
		case "p4":
			assert.Empty(t, p.Embedding)
		case "p5":
			assert.Equal(t, []float32{1, 0}, p.Embedding)
		default:
			assert.InDeltaSlice(t, NormalizeVector(mock.DeterministicVector(ProfileText(p), mock.DefaultDimensions)), p.Embedding, 1e-6)
		}
	}

	sims := BuildIndex(list)
	_, ok := sims.Lookup("p1", "p2")
	assert.True(t, ok)
	_, ok = sims.Lookup("p1", "p5")
	assert.False(t, ok, "embedding lengths differ")
}

func TestRefresher_Force(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, &core.Participant{ID: "p1", EventID: "evt", Title: "CTO", Embedding: []float32{1}})

	cfg := testConfig()
	cfg.Force = true
	summary, err := NewRefresher(store.Participants, mock.NewMockEmbedder(), cfg, nil).Run(context.Background(), "evt")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Embedded)

	got, err := store.Participants.GetParticipant(context.Background(), "evt", "p1")
	require.NoError(t, err)
	assert.Len(t, got.Embedding, mock.DefaultDimensions)
}

func TestRefresher_NothingToDo(t *testing.T) {
	store := newTestStore(t)
	embedder := mock.NewMockEmbedder()

	var out bytes.Buffer
	summary, err := NewRefresher(store.Participants, embedder, nil, &out).Run(context.Background(), "empty")
	require.NoError(t, err)
	assert.Zero(t, summary.Embedded)
	assert.Zero(t, embedder.CallCount())
	assert.Contains(t, out.String(), "No participants need embeddings")
}

func TestRefresher_RetriesTransientFailures(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, &core.Participant{ID: "p1", EventID: "evt", Title: "CTO"})

	var calls atomic.Int32
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("temporarily unavailable")
		}
		return [][]float32{{3, 4}}, nil
	}

	summary, err := NewRefresher(store.Participants, embedder, testConfig(), nil).Run(context.Background(), "evt")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Embedded)
	assert.Equal(t, int32(3), calls.Load())

	got, err := store.Participants.GetParticipant(context.Background(), "evt", "p1")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, got.Embedding, 1e-6)
}

func TestRefresher_GivesUp(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, &core.Participant{ID: "p1", EventID: "evt", Title: "CTO"})

	var calls atomic.Int32
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls.Add(1)
		return nil, errors.New("model offline")
	}

	_, err := NewRefresher(store.Participants, embedder, testConfig(), nil).Run(context.Background(), "evt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
	assert.Equal(t, int32(3), calls.Load())
}

func TestRefresher_CountMismatch(t *testing.T) {
	store := newTestStore(t)
	seed(t, store,
		&core.Participant{ID: "p1", EventID: "evt", Title: "CTO"},
		&core.Participant{ID: "p2", EventID: "evt", Title: "CEO"},
	)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	}

	_, err := NewRefresher(store.Participants, embedder, testConfig(), nil).Run(context.Background(), "evt")
	assert.ErrorIs(t, err, ErrEmbeddingCountMismatch)
}

func TestRefresher_InvalidAttempts(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, &core.Participant{ID: "p1", EventID: "evt", Title: "CTO"})

	cfg := testConfig()
	cfg.MaxRetries = 0
	_, err := NewRefresher(store.Participants, mock.NewMockEmbedder(), cfg, nil).Run(context.Background(), "evt")
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRefresher_Cancelled(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, &core.Participant{ID: "p1", EventID: "evt", Title: "CTO"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	embedder := mock.NewMockEmbedder()
	_, err := NewRefresher(store.Participants, embedder, testConfig(), nil).Run(ctx, "evt")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, embedder.CallCount())
}
