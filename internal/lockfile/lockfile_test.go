package lockfile_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chime/internal/lockfile"
)

func TestWithSharedReadsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.ini")
	if err := os.WriteFile(path, []byte("[voice]\nvoice_id = alloy\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var got string
	err := lockfile.WithShared(path, func(f *os.File) error {
		data, readErr := io.ReadAll(f)
		got = string(data)
		return readErr
	})
	if err != nil {
		t.Fatalf("WithShared returned error: %v", err)
	}
	if !strings.Contains(got, "voice_id = alloy") {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestWithSharedMissingFileDoesNotInvokeCallback(t *testing.T) {
	called := false
	err := lockfile.WithShared(filepath.Join(t.TempDir(), "absent"), func(f *os.File) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if called {
		t.Fatal("callback must not run when open fails")
	}
}

func TestWithExclusiveWritesAndTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marker")
	if err := os.WriteFile(path, []byte("stale content that is longer"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	err := lockfile.WithExclusive(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, func(f *os.File) error {
		_, writeErr := f.WriteString("fresh")
		return writeErr
	})
	if err != nil {
		t.Fatalf("WithExclusive returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "fresh" {
		t.Fatalf("expected truncated rewrite, got %q", data)
	}
}

func TestWithExclusivepropagatesCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marker")
	want := errors.New("boom")
	err := lockfile.WithExclusive(path, os.O_WRONLY|os.O_CREATE, func(f *os.File) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected callback error, got %v", err)
	}
	// The file must still have been created and unlocked.
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected file to exist: %v", statErr)
	}
}
