package usecase

import (
	"sync"
	"time"
)

const (
	// dedupLookback is subtracted from the tracking start so trades the
	// indexer surfaces late are not lost at session start.
	dedupLookback = 60 * time.Second

	// High-water mark and retained tail for the seen-signature set.
	dedupHighWater = 2000
	dedupRetain    = 1000
)

// DedupWindow tracks already-emitted trade signatures for the current
// tracked-token session. Admission is a single atomic check-and-insert,
// safe for concurrent pull and push ingestion paths.
type DedupWindow struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string // insertion order, oldest first
	floor int64    // ms, trades before this are never admitted
}

// NewDedupWindow creates an empty window with no time floor.
func NewDedupWindow() *DedupWindow {
	return &DedupWindow{seen: make(map[string]struct{})}
}

// Track sets the admission floor for a freshly tracked token and clears
// previously seen signatures.
func (w *DedupWindow) Track(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seen = make(map[string]struct{})
	w.order = w.order[:0]
	w.floor = now.Add(-dedupLookback).UnixMilli()
}

// Admit reports whether a trade with this signature and timestamp (ms) is
// newly seen and on/after the floor. Admitted signatures are marked seen.
func (w *DedupWindow) Admit(signature string, timestamp int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timestamp < w.floor {
		return false
	}
	if _, ok := w.seen[signature]; ok {
		return false
	}

	w.seen[signature] = struct{}{}
	w.order = append(w.order, signature)

	if len(w.order) > dedupHighWater {
		w.trimLocked()
	}
	return true
}

// trimLocked discards the oldest-inserted signatures, retaining the newest.
func (w *DedupWindow) trimLocked() {
	keep := w.order[len(w.order)-dedupRetain:]
	seen := make(map[string]struct{}, len(keep))
	for _, sig := range keep {
		seen[sig] = struct{}{}
	}
	w.seen = seen
	w.order = append(w.order[:0], keep...)
}

// Reset clears the seen set and the floor. Called on token switch.
func (w *DedupWindow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seen = make(map[string]struct{})
	w.order = w.order[:0]
	w.floor = 0
}

// Size returns the number of tracked signatures.
func (w *DedupWindow) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}
