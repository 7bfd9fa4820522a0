// Package announce drives the announcement loop: decide the next scheduled
// event, wait for it while watching for configuration reloads, fetch the
// current color rotation, render the announcement text, and hand it to the
// synthesis and playback collaborators.
//
// The loop is a single control thread. Configuration failures pause and
// retry; per-event failures (fetch, render, synthesis, playback) are logged
// and contained to that event. Every wait observes the shutdown context in
// bounded increments.
package announce
