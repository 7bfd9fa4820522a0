package colors

import (
	"log/slog"
	"math/rand"
	"time"
)

// Retry is an explicit retry policy for transient failures: a bounded number
// of attempts with exponentially growing delays plus a small random jitter so
// concurrent clients do not retry in lockstep. Delays use real sleeps and are
// not cancellable mid-delay; the whole envelope stays short relative to the
// announcement cadence.
type Retry struct {
	Attempts   int
	Delay      time.Duration
	Multiplier int
	Jitter     time.Duration

	// Sleep is overridable for tests. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// DefaultRetry matches the fetcher's contract: 3 attempts starting at 2s,
// doubling, with up to 100ms of jitter.
func DefaultRetry() Retry {
	return Retry{Attempts: 3, Delay: 2 * time.Second, Multiplier: 2, Jitter: 100 * time.Millisecond}
}

// Do invokes fn until it succeeds or the attempts are exhausted. The final
// attempt's error propagates to the caller.
func (r Retry) Do(logger *slog.Logger, operation string, fn func() error) error {
	if logger == nil {
		logger = slog.Default()
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	delay := r.Delay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		wait := delay
		if r.Jitter > 0 {
			wait += time.Duration(rand.Int63n(int64(r.Jitter)))
		}
		logger.Error("operation failed, retrying",
			"operation", operation, "attempt", attempt, "delay", wait.Round(time.Millisecond).String(), "error", err)
		sleep(wait)
		if r.Multiplier > 1 {
			delay *= time.Duration(r.Multiplier)
		}
	}
	return err
}
