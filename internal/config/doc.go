// Package config loads, validates, and serializes announcement configuration.
//
// Configuration lives in day-specific INI-style files (mon.ini through
// sun.ini, with config.ini as the generic fallback) that a separate editor
// process may rewrite at any time. The Loader resolves which file is active,
// honouring a pending reload marker before falling back to the current
// weekday, and parses it under a shared advisory lock into an immutable
// Snapshot. Snapshots are never mutated after load; a reload produces a
// replacement.
//
// Validation is strict for credentials and the synthesis voice and lenient for
// the schedule: an empty schedule is a valid, idle configuration.
package config
