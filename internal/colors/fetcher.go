package colors

import (
	"context"
	"log/slog"

	"chime/internal/config"
)

// Fetcher applies the retry policy around a Source. It is the only piece the
// announcement loop talks to.
type Fetcher struct {
	Source Source
	Retry  Retry
	Logger *slog.Logger
}

// NewFetcher wires a source with the default retry policy.
func NewFetcher(source Source, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{Source: source, Retry: DefaultRetry(), Logger: logger}
}

// Fetch retrieves the current color mapping, retrying transient failures.
// After the policy is exhausted the last error propagates; the caller treats
// color data as best-effort and announces with defaults.
func (f *Fetcher) Fetch(ctx context.Context, creds config.Credentials) (map[string]string, error) {
	var result map[string]string
	err := f.Retry.Do(f.Logger, "fetch colors", func() error {
		mapping, fetchErr := f.Source.Fetch(ctx, creds)
		if fetchErr != nil {
			return fetchErr
		}
		result = mapping
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		f.Logger.Warn("color store returned no rows, announcing with defaults")
	}
	return result, nil
}
