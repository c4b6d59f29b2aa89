package similarity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/poiesic/rendezvous/ai"
)

// embedWithRetry asks the embedder for a batch of vectors, retrying transient
// failures with jittered exponential backoff. Context cancellation is not retried.
func embedWithRetry(ctx context.Context, embedder ai.Embedder, texts []string, maxAttempts int, baseDelay time.Duration, logger *slog.Logger) ([][]float32, error) {
	if maxAttempts <= 0 {
		return nil, ErrInvalidMaxAttempts
	}

	return retry.DoWithData(
		func() ([][]float32, error) {
			return embedder.EmbedTexts(ctx, texts)
		},
		retry.Context(ctx),
		retry.Attempts(uint(maxAttempts)),
		retry.Delay(baseDelay),
		retry.MaxJitter(max(baseDelay/2, time.Microsecond)),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("retrying embedding batch", "attempt", n+1, "texts", len(texts), "err", err)
		}),
	)
}

func isRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
