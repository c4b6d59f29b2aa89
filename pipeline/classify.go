package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/poiesic/rendezvous/core"
	"github.com/poiesic/rendezvous/similarity"
)

// ClassifySummary describes one Classify call.
type ClassifySummary struct {
	Participants int
	Classified   int
	// Skipped counts participants already classified or without profile text.
	Skipped  int
	Failed   int
	Duration time.Duration
}

// Classify asks the intent classifier about every participant of eventID that
// has no stored classification, or about all of them when force is set.
// Participants run concurrently on the worker pool. A participant whose
// classification keeps failing is logged and counted, and does not stop the
// others; everything that succeeded is stored in one write.
func (p *Pipeline) Classify(ctx context.Context, eventID string, force bool) (*ClassifySummary, error) {
	if p.classifier == nil {
		return nil, ErrClassifierRequired
	}
	if eventID == "" {
		return nil, core.ErrEmptyEventID
	}

	start := time.Now()
	logger := p.logger.With("event", eventID)

	participants, err := p.participants.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	summary := &ClassifySummary{Participants: len(participants)}
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]core.IntentEstimate)
	)

	for _, participant := range participants {
		text := similarity.ProfileText(participant)
		if text == "" || (participant.Classification != nil && !force) {
			summary.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		id := participant.ID
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			est, err := p.classifyWithRetry(ctx, text)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				logger.Warn("classification failed", "participant", id, "err", err)
				return
			}
			results[id] = est
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to submit classification: %w", submitErr)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.participants.UpdateClassifications(ctx, eventID, results); err != nil {
		return nil, fmt.Errorf("failed to store classifications: %w", err)
	}

	summary.Classified = len(results)
	summary.Duration = time.Since(start)
	logger.Info("classification complete",
		"classified", summary.Classified,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", summary.Duration)
	return summary, nil
}

func (p *Pipeline) classifyWithRetry(ctx context.Context, profile string) (core.IntentEstimate, error) {
	return retry.DoWithData(
		func() (core.IntentEstimate, error) {
			return p.classifier.ClassifyIntent(ctx, profile)
		},
		retry.Context(ctx),
		retry.Attempts(uint(p.maxRetries)),
		retry.Delay(p.retryDelay),
		retry.MaxJitter(max(p.retryDelay/2, time.Microsecond)),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Debug("retrying classification", "attempt", n+1, "err", err)
		}),
	)
}
