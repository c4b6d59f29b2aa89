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
package scoring

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/rendezvous/core"
	"github.com/poiesic/rendezvous/intent"
)

// Engine scores all participant pairs of one event under a fixed configuration.
// An Engine holds no state between runs and may be reused.
type Engine struct {
	config   core.ScoringConfig
	pool     *ants.Pool
	poolSize int
	ownsPool bool
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		e.poolSize = max(size, 1)
		return nil
	}
}

// WithPool runs tasks on a pool owned by the caller. Release leaves it open,
// and WithPoolSize is ignored.
func WithPool(pool *ants.Pool) Option {
	return func(e *Engine) error {
		if pool == nil {
			return ErrPoolRequired
		}
		e.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "scoring")
		return nil
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		if now != nil {
			e.now = now
		}
		return nil
	}
}

// NewEngine creates an Engine for cfg.
func NewEngine(cfg core.ScoringConfig, opts ...Option) (*Engine, error) {
	if err := core.ValidateScoringConfig(&cfg); err != nil {
		return nil, err
	}

	e := &Engine{
		config:   cfg,
		poolSize: max(runtime.NumCPU()/2, 1),
		logger:   slog.Default().With("component", "scoring"),
		now:      time.Now,
	}

	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			return nil, optErr
		}
	}

	if e.pool == nil {
		pool, err := ants.NewPool(e.poolSize)
		if err != nil {
			return nil, err
		}
		e.pool = pool
		e.ownsPool = true
	}
	return e, nil
}

// Config returns the configuration the engine scores with.
func (e *Engine) Config() core.ScoringConfig {
	return e.config
}

// Release frees the worker pool unless it was supplied through WithPool.
func (e *Engine) Release() {
	if e.ownsPool && e.pool != nil {
		e.pool.Release()
	}
}

// Result is the outcome of one scoring run.
type Result struct {
	// Candidates are the surviving pairs ranked by composite, highest first.
	Candidates []*core.MatchCandidate
	// Refreshed holds freshly computed intent estimates keyed by participant
	// ID, for the caller to persist as a cache.
	Refreshed map[string]core.IntentEstimate
	// Evaluated counts pairs that were scored.
	Evaluated int
	// Excluded counts pairs skipped by same-company or same-role rules.
	Excluded int
	// BelowThreshold counts scored pairs dropped for a low composite.
	BelowThreshold int
	// Weights are the normalized weights actually applied.
	Weights core.Weights
	// HasEmbeddings reports whether similarity data took part in the run.
	HasEmbeddings bool
}

// run is the read-only state shared by all tasks of one Score call.
type run struct {
	cfg           core.ScoringConfig
	weights       core.Weights
	participants  []*core.Participant
	estimates     []core.IntentEstimate
	sims          core.Similarities
	hasEmbeddings bool
	createdAt     time.Time
}

// rowResult is what one task produces for all pairs (i, j>i).
type rowResult struct {
	candidates []*core.MatchCandidate
	evaluated  int
	excluded   int
	below      int
}

// Score evaluates every unordered pair of participants. sims may be nil, in
// which case the embedding sub-score and its weight are left out.
//
// Score returns ErrZeroWeights when no weight remains after renormalization,
// and ErrScoringCancelled if ctx is done before all tasks are submitted.
func (e *Engine) Score(ctx context.Context, participants []*core.Participant, sims core.Similarities) (*Result, error) {
	start := time.Now()
	hasEmbeddings := len(sims) > 0

	weights, err := EffectiveWeights(e.config.Weights, hasEmbeddings)
	if err != nil {
		return nil, err
	}

	ps := make([]*core.Participant, 0, len(participants))
	for _, p := range participants {
		if p != nil {
			ps = append(ps, p)
		}
	}

	estimates, refreshed, err := e.resolveAll(ctx, ps)
	if err != nil {
		return nil, err
	}

	r := &run{
		cfg:           e.config,
		weights:       weights,
		participants:  ps,
		estimates:     estimates,
		sims:          sims,
		hasEmbeddings: hasEmbeddings,
		createdAt:     e.now().UTC(),
	}

	rows := make([]rowResult, len(ps))
	if err := e.parallel(ctx, len(ps), func(i int) {
		rows[i] = r.scoreRow(i)
	}); err != nil {
		return nil, err
	}

	result := &Result{
		Refreshed:     refreshed,
		Weights:       weights,
		HasEmbeddings: hasEmbeddings,
	}
	for _, row := range rows {
		result.Candidates = append(result.Candidates, row.candidates...)
		result.Evaluated += row.evaluated
		result.Excluded += row.excluded
		result.BelowThreshold += row.below
	}
	RankCandidates(result.Candidates)

	e.logger.Debug("scoring run complete",
		"participants", len(ps),
		"evaluated", result.Evaluated,
		"excluded", result.Excluded,
		"below_threshold", result.BelowThreshold,
		"candidates", len(result.Candidates),
		"refreshed", len(refreshed),
		"embeddings", hasEmbeddings,
		"duration", time.Since(start))

	return result, nil
}

// resolveAll picks a cached or fresh estimate for every participant.
func (e *Engine) resolveAll(ctx context.Context, ps []*core.Participant) ([]core.IntentEstimate, map[string]core.IntentEstimate, error) {
	estimates := make([]core.IntentEstimate, len(ps))
	recomputed := make([]bool, len(ps))

	if err := e.parallel(ctx, len(ps), func(i int) {
		estimates[i], recomputed[i] = intent.ResolveVector(ps[i])
	}); err != nil {
		return nil, nil, err
	}

	refreshed := make(map[string]core.IntentEstimate)
	for i, p := range ps {
		if recomputed[i] {
			refreshed[p.ID] = estimates[i]
		}
	}
	return estimates, refreshed, nil
}

// parallel runs task(0..n-1) on the pool and waits for all of them.
// Cancellation is checked before each submission.
func (e *Engine) parallel(ctx context.Context, n int, task func(i int)) error {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return fmt.Errorf("%w: %w", ErrScoringCancelled, err)
		}
		wg.Add(1)
		if err := e.pool.Submit(func() {
			defer wg.Done()
			task(i)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit scoring task: %w", err)
		}
	}
	wg.Wait()
	return nil
}

// scoreRow evaluates the pairs (i, j) for every j > i.
func (r *run) scoreRow(i int) rowResult {
	var out rowResult
	p := r.participants[i]
	for j := i + 1; j < len(r.participants); j++ {
		q := r.participants[j]
		if p.ID == q.ID {
			continue
		}
		if r.excluded(p, q) {
			out.excluded++
			continue
		}
		out.evaluated++

		ai, bi := i, j
		if q.ID < p.ID {
			ai, bi = j, i
		}
		cand := r.evaluate(ai, bi)
		if cand.Composite < r.cfg.MinScore {
			out.below++
			continue
		}
		out.candidates = append(out.candidates, cand)
	}
	return out
}

// excluded applies the same-company and same-role rules.
func (r *run) excluded(p, q *core.Participant) bool {
	if r.cfg.ExcludeSameCompany && sameNonEmpty(p.CompanyName, q.CompanyName) {
		return true
	}
	if r.cfg.ExcludeSameRole && sameNonEmpty(p.Role, q.Role) {
		return true
	}
	return false
}

func sameNonEmpty(x, y string) bool {
	x, y = strings.TrimSpace(x), strings.TrimSpace(y)
	return x != "" && x == y
}

// evaluate scores the canonical pair (participants[ai], participants[bi]).
func (r *run) evaluate(ai, bi int) *core.MatchCandidate {
	a, b := r.participants[ai], r.participants[bi]
	ea, eb := r.estimates[ai], r.estimates[bi]

	sim, ok := r.sims.Lookup(a.ID, b.ID)
	scores := core.SubScores{
		Intent:          intent.ComputeIntentCompatibility(ea.Vector, ea.Confidence, eb.Vector, eb.Confidence).Final,
		Industry:        IndustryScore(a, b),
		Interest:        InterestScore(a, b),
		Complementarity: ComplementarityScore(a, b),
		Embedding:       EmbeddingScore(sim, ok),
	}

	pair := core.PairKey{A: a.ID, B: b.ID}
	cand := &core.MatchCandidate{
		Id:           core.MatchID(a.EventID, pair),
		EventID:      a.EventID,
		ParticipantA: a.ID,
		ParticipantB: b.ID,
		Scores:       scores,
		Composite:    Composite(scores, r.weights),
		CreatedAt:    r.createdAt,
	}
	if cand.Composite >= r.cfg.MinScore {
		cand.Reasons = buildReasons(pairView{
			a: a, b: b,
			va: ea.Vector, vb: eb.Vector,
			scores:        scores,
			hasEmbeddings: r.hasEmbeddings,
		})
	}
	return cand
}

// RankCandidates sorts by composite descending, then by pair ascending.
func RankCandidates(cands []*core.MatchCandidate) {
	slices.SortFunc(cands, func(x, y *core.MatchCandidate) int {
		if c := cmp.Compare(y.Composite, x.Composite); c != 0 {
			return c
		}
		if c := cmp.Compare(x.ParticipantA, y.ParticipantA); c != 0 {
			return c
		}
		return cmp.Compare(x.ParticipantB, y.ParticipantB)
	})
}
