package telemetry

import (
	"sync"
	"time"

	"officegw/internal/domain"
)

type limitRecord struct {
	count       int
	windowStart time.Time
	suppressed  int
}

// RateLimiter enforces the per-category error budget: at most threshold
// records per window, the rest counted as suppressed. When a new window
// opens with a nonzero suppressed count, the caller receives it once for a
// summary record.
type RateLimiter struct {
	mu        sync.Mutex
	threshold int
	window    time.Duration
	records   map[string]*limitRecord
	now       func() time.Time
}

func NewRateLimiter(threshold int, window time.Duration) *RateLimiter {
	if threshold <= 0 {
		threshold = domain.RateLimitThreshold
	}
	if window <= 0 {
		window = domain.RateLimitWindow
	}
	return &RateLimiter{
		threshold: threshold,
		window:    window,
		records:   make(map[string]*limitRecord),
		now:       time.Now,
	}
}

// Allow reports whether an error in category may be logged now. When the
// call opens a new window after suppression, suppressed carries the count
// of dropped records from the closed window.
func (l *RateLimiter) Allow(category string) (allowed bool, suppressed int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.records[category]
	if !ok {
		l.records[category] = &limitRecord{count: 1, windowStart: now}
		return true, 0
	}

	if now.Sub(rec.windowStart) >= l.window {
		suppressed = rec.suppressed
		rec.count = 1
		rec.windowStart = now
		rec.suppressed = 0
		return true, suppressed
	}

	// At the boundary count == threshold the offending call is dropped.
	if rec.count >= l.threshold {
		rec.suppressed++
		return false, 0
	}
	rec.count++
	return true, 0
}
