// Package scanner is the server half of the barcode capture flow. The
// camera and decoding live in the client; decoded codes and manual entries
// both arrive on the scan endpoint, and this package collapses the burst of
// identical codes a held-steady scan produces into a single event.
package scanner

import (
	"sync"
	"time"
)

// DefaultWindow matches the hand-held scan cadence: the same code inside
// one second is the scanner re-reading a label, not a second article.
const DefaultWindow = time.Second

// Debouncer de-duplicates identical codes seen within a time window.
type Debouncer struct {
	mu       sync.Mutex
	window   time.Duration
	lastSeen map[string]time.Time
	now      func() time.Time
}

// NewDebouncer builds a debouncer with the given window. A zero or negative
// window falls back to DefaultWindow.
func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		window:   window,
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Accept reports whether the code should be processed. The first sighting
// of a code is accepted and re-arms its window; repeats inside the window
// are dropped without extending it.
func (d *Debouncer) Accept(code string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if seen, ok := d.lastSeen[code]; ok && now.Sub(seen) < d.window {
		return false
	}

	d.lastSeen[code] = now

	// Drop stale entries so a long session doesn't hoard every code ever scanned
	for c, t := range d.lastSeen {
		if now.Sub(t) >= d.window {
			delete(d.lastSeen, c)
		}
	}

	return true
}
