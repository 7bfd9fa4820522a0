// Package main hosts the chime CLI entrypoint and command graph.
//
// The Cobra-based command tree covers operator tasks around the chimed
// daemon: requesting schedule reloads through the marker protocol, inspecting
// the active announcement configuration, validating announcement files, and
// scaffolding daemon settings. The commands coordinate with a running daemon
// only through the filesystem (the reload marker and the instance lock), so
// every command works whether or not chimed is up.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
