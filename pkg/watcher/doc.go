// Package watcher keeps a preset tree continuously verified. A
// filesystem watcher re-verifies the tree after a debounced burst of
// JSON file changes, and an optional cron schedule triggers periodic
// full verification independent of filesystem events.
package watcher
