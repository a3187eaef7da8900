package servagri

import (
	"sync"
	"time"
)

// WriteLimiter rate-limits mutating API requests per client IP address.
type WriteLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewWriteLimiter creates a WriteLimiter that allows max requests per
// window. Call Stop to terminate its background cleanup goroutine.
func NewWriteLimiter(max int, window time.Duration) *WriteLimiter {
	l := &WriteLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		done:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Stop terminates the background cleanup goroutine. Safe to call more
// than once. The limiter itself keeps working; stale entries are still
// pruned on each Allow call.
func (l *WriteLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *WriteLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
		}
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for ip, hits := range l.attempts {
			kept := hits[:0]
			for _, t := range hits {
				if t.After(cutoff) {
					kept = append(kept, t)
				}
			}
			if len(kept) == 0 {
				delete(l.attempts, ip)
			} else {
				l.attempts[ip] = kept
			}
		}
		l.mu.Unlock()
	}
}

// Allow reports whether the IP is under the limit and records the request.
func (l *WriteLimiter) Allow(ip string) bool {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	hits := l.attempts[ip]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.max {
		l.attempts[ip] = kept
		return false
	}
	l.attempts[ip] = append(kept, time.Now())
	return true
}
