// Package colors fetches the rotating wristband color assignments announced
// alongside the time.
//
// The source of truth is the park operations database: a fixed set of colors
// per ticket printer group, rotated one position every 30 minutes of elapsed
// time since the configured shift start. The fetch runs shortly before each
// announcement under a bounded retry policy; an empty result set means "no
// data" and the renderer substitutes placeholder text instead.
package colors
