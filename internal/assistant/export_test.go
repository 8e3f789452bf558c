package assistant

import "time"

// SetBreakerClock replaces the breaker clock
func SetBreakerClock(b *Breaker, now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}
