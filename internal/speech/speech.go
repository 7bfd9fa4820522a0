// Package speech synthesizes announcement text into playable audio artifacts
// via an external text-to-speech service.
package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Synthesizer converts text to an audio artifact on disk and returns its
// path. The caller owns the artifact and removes it after playback.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) (string, error)
}

// HTTPDoer is the HTTP client surface the service needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures the HTTP service.
type Option func(*HTTPService)

// WithHTTPClient injects a custom client (primarily for tests).
func WithHTTPClient(client HTTPDoer) Option {
	return func(s *HTTPService) {
		if client != nil {
			s.client = client
		}
	}
}

// WithOutputFormat selects the audio container requested from the service.
func WithOutputFormat(format string) Option {
	return func(s *HTTPService) {
		if format != "" {
			s.format = strings.ToLower(format)
		}
	}
}

// HTTPService reaches a speech synthesis endpoint over HTTP. There is no
// retry here; the announcement loop treats synthesis as best-effort per
// event.
type HTTPService struct {
	endpoint string
	apiKey   string
	format   string
	workDir  string
	client   HTTPDoer
	logger   *slog.Logger
}

// NewHTTPService constructs the service. Artifacts are written into workDir.
func NewHTTPService(endpoint, apiKey, workDir string, timeout time.Duration, logger *slog.Logger, opts ...Option) *HTTPService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &HTTPService{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		apiKey:   strings.TrimSpace(apiKey),
		format:   "mp3",
		workDir:  workDir,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize posts SSML for the given voice and streams the audio response to
// a uniquely named artifact. An empty response body is a failure; the partial
// artifact is removed on every error path.
func (s *HTTPService) Synthesize(ctx context.Context, text, voiceID string) (string, error) {
	if s.endpoint == "" {
		return "", fmt.Errorf("synthesis endpoint not configured")
	}

	preview := text
	if len(preview) > 50 {
		preview = preview[:50]
	}
	s.logger.Info("synthesizing speech", "voice", voiceID, "text", preview)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(buildSSML(text, voiceID)))
	if err != nil {
		return "", fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Output-Format", s.format)
	if s.apiKey != "" {
		req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("synthesis service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	path := filepath.Join(s.workDir, fmt.Sprintf("announcement-%s.%s", uuid.NewString(), s.format))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if written == 0 {
		_ = os.Remove(path)
		return "", fmt.Errorf("synthesis produced an empty artifact")
	}

	s.logger.Debug("speech synthesis complete", "path", path, "bytes", written)
	return path, nil
}

func buildSSML(text, voiceID string) string {
	return fmt.Sprintf(
		`<speak version='1.0' xml:lang='en-US'><voice name='%s'>%s</voice></speak>`,
		voiceID, text,
	)
}
