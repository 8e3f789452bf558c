package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Backland-Labs/rosterdesk/internal/logger"
)

// BreakerState represents the state of the circuit breaker
type BreakerState int

const (
	// BreakerClosed allows all calls through
	BreakerClosed BreakerState = iota
	// BreakerOpen blocks all calls
	BreakerOpen
	// BreakerHalfOpen allows one probe call through
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return fmt.Sprintf("BreakerState(%d)", int(s))
	}
}

// Breaker is a Client decorator that stops calling the remote service after
// consecutive failures and probes it again once the recovery timeout passes.
// Caller cancellations do not count as failures.
type Breaker struct {
	inner Client

	mu               sync.Mutex
	state            BreakerState
	failures         int
	failureThreshold int
	recoveryTimeout  time.Duration
	openedAt         time.Time
	probing          bool
	now              func() time.Time
}

var _ Client = (*Breaker)(nil)

// NewBreaker wraps inner with a circuit breaker
func NewBreaker(inner Client, failureThreshold int, recoveryTimeout time.Duration) *Breaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	return &Breaker{
		inner:            inner,
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		now:              time.Now,
	}
}

// State returns the current breaker state
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		if b.now().Sub(b.openedAt) < b.recoveryTimeout {
			return false
		}
		b.state = BreakerHalfOpen
		b.probing = true
		return true
	default:
		// one probe at a time
		if b.probing {
			return false
		}
		b.probing = true
		return true
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probing = false

	switch {
	case err == nil:
		if b.state != BreakerClosed {
			logger.Info("Assistant circuit breaker closed")
		}
		b.failures = 0
		b.state = BreakerClosed
	case errors.Is(err, context.Canceled):
		// a cancelled probe leaves the breaker half-open for the next caller
	default:
		b.failures++
		if b.state == BreakerHalfOpen || b.failures >= b.failureThreshold {
			if b.state != BreakerOpen {
				logger.WithError(err).Warnf("Assistant circuit breaker opened after %d failures", b.failures)
			}
			b.state = BreakerOpen
			b.openedAt = b.now()
		}
	}
}

func guard[T any](b *Breaker, call func() (T, error)) (T, error) {
	if !b.allow() {
		var zero T
		return zero, ErrServiceUnavailable
	}
	v, err := call()
	b.record(err)
	return v, err
}

func (b *Breaker) EnsureAgent(ctx context.Context, spec AgentSpec) (Agent, error) {
	return guard(b, func() (Agent, error) { return b.inner.EnsureAgent(ctx, spec) })
}

func (b *Breaker) CreateThread(ctx context.Context) (Thread, error) {
	return guard(b, func() (Thread, error) { return b.inner.CreateThread(ctx) })
}

func (b *Breaker) PostMessage(ctx context.Context, threadID string, msg NewMessage) (Message, error) {
	return guard(b, func() (Message, error) { return b.inner.PostMessage(ctx, threadID, msg) })
}

func (b *Breaker) StartRun(ctx context.Context, threadID, agentID string) (Run, error) {
	return guard(b, func() (Run, error) { return b.inner.StartRun(ctx, threadID, agentID) })
}

func (b *Breaker) GetRun(ctx context.Context, threadID, runID string) (Run, error) {
	return guard(b, func() (Run, error) { return b.inner.GetRun(ctx, threadID, runID) })
}

func (b *Breaker) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (Run, error) {
	return guard(b, func() (Run, error) { return b.inner.SubmitToolOutputs(ctx, threadID, runID, outputs) })
}

func (b *Breaker) ListMessages(ctx context.Context, threadID, runID string, limit int) ([]Message, error) {
	return guard(b, func() ([]Message, error) { return b.inner.ListMessages(ctx, threadID, runID, limit) })
}

func (b *Breaker) DeleteThread(ctx context.Context, threadID string) error {
	_, err := guard(b, func() (struct{}, error) { return struct{}{}, b.inner.DeleteThread(ctx, threadID) })
	return err
}
