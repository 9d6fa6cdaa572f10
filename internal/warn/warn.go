// Package warn deduplicates the parameter-warning bucket of OldSpot's error
// taxonomy: things like a subthreshold VDD or a fallback to an unknown
// configuration are worth surfacing once, not once per Monte-Carlo
// iteration. Grounded on original_source/src/util.cc's warn(), which guards
// a stderr print with a static set of already-seen message strings; here
// the guard is the same but the sink is log/slog.
package warn

import (
	"log/slog"
	"sync"
)

// Deduper emits each distinct message at most once.
type Deduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDeduper returns an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]struct{})}
}

// Warn logs msg via slog.Warn the first time it is seen, and silently drops
// every subsequent identical message.
func (d *Deduper) Warn(msg string, args ...any) {
	d.mu.Lock()
	_, already := d.seen[msg]
	d.seen[msg] = struct{}{}
	d.mu.Unlock()

	if already {
		return
	}
	slog.Warn(msg, args...)
}

// Default is the process-wide deduper used by packages that have no
// natural place to thread a *Deduper through their call signatures (the
// mechanism library's degradation loops, in particular).
var Default = NewDeduper()

// Warn logs through Default.
func Warn(msg string, args ...any) {
	Default.Warn(msg, args...)
}
