package reload

import (
	"errors"
	"io"
	"os"
	"strings"

	"chime/internal/lockfile"
)

// MarkerFile is the conventional marker filename within the data directory.
const MarkerFile = "reload_config"

// Marker is the on-disk reload request. Its content, if any, names the
// configuration file that should become active.
type Marker struct {
	path string
}

// NewMarker returns a marker rooted at the given path.
func NewMarker(path string) *Marker {
	return &Marker{path: path}
}

// Path returns the marker's filesystem location.
func (m *Marker) Path() string { return m.path }

// Present reports whether a reload request is pending.
func (m *Marker) Present() bool {
	info, err := os.Stat(m.path)
	return err == nil && !info.IsDir()
}

// Deposit writes a reload request naming configPath (which may be empty,
// meaning "re-derive from the current date") under an exclusive lock.
func (m *Marker) Deposit(configPath string) error {
	return lockfile.WithExclusive(m.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, func(f *os.File) error {
		if configPath == "" {
			return nil
		}
		_, err := f.WriteString(configPath)
		return err
	})
}

// Take consumes a pending marker: it reads the requested path under a shared
// lock, then truncates and removes the file under an exclusive lock. Removal
// happens even when the content is empty or names a missing file, so a stale
// marker can never cause a reload loop. The returned content is valid even
// when removal failed.
func (m *Marker) Take() (string, bool, error) {
	var content string
	err := lockfile.WithShared(m.path, func(f *os.File) error {
		data, readErr := io.ReadAll(f)
		content = strings.TrimSpace(string(data))
		return readErr
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", true, err
	}

	err = lockfile.WithExclusive(m.path, os.O_WRONLY|os.O_TRUNC, func(f *os.File) error {
		return nil
	})
	if err == nil {
		err = os.Remove(m.path)
	}
	return content, true, err
}
