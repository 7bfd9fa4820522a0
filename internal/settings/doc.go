// Package settings loads the daemon's own configuration: directories, log
// output, collaborator endpoints, and loop tunables.
//
// This is distinct from the operator-facing announcement configuration in
// internal/config. Settings are read once at startup from a TOML file and do
// not participate in hot reload; the announcement INI files do.
package settings
