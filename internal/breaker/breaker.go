// Package breaker implements a per-provider circuit breaker as an explicit
// closed/open/half-open state machine built from plain configuration values.
package breaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without invoking the wrapped call while the circuit
// is open. Callers should treat it as a transient failure.
var ErrOpen = errors.New("circuit breaker is open")

// State of the breaker.
type State int

const (
	// Closed lets calls pass through while tracking the error rate.
	Closed State = iota
	// Open fails fast until the reset timeout elapses.
	Open
	// HalfOpen lets a single probe call through.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds breaker settings.
type Config struct {
	Timeout        time.Duration // per-call timeout; exceeding it counts as a failure
	ErrorThreshold float64       // error percentage that opens the circuit
	ResetTimeout   time.Duration // open -> half-open cool-down
	Window         time.Duration // rolling error-rate window
	MinRequests    int           // calls required in a window before the threshold applies
}

// Breaker guards calls to a single downstream provider. It is safe for
// concurrent use; the mutex protects only counter updates, not the
// provider call itself.
type Breaker struct {
	name string
	cfg  Config

	// now is stubbed in tests.
	now func() time.Time

	mu          sync.Mutex
	state       State
	openedAt    time.Time
	probing     bool
	windowStart time.Time
	total       int
	failures    int
}

// New creates a closed breaker for the named provider.
func New(name string, cfg Config) *Breaker {
	return &Breaker{
		name:  name,
		cfg:   cfg,
		now:   time.Now,
		state: Closed,
	}
}

// Name returns the provider name the breaker guards.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.currentState(b.now())
}

// Do runs fn under the breaker with the configured per-call timeout.
// It returns ErrOpen without calling fn while the circuit is open.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.acquire(); err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	err := fn(callCtx)
	if err == nil && callCtx.Err() != nil {
		// A wedged provider that ignores the context still counts as a failure.
		err = callCtx.Err()
	}

	b.record(err)

	return err
}

func (b *Breaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState(b.now()) {
	case Open:
		return ErrOpen
	case HalfOpen:
		if b.probing {
			// Only one probe at a time.
			return ErrOpen
		}
		b.probing = true
	}

	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()

	if b.state == HalfOpen && b.probing {
		b.probing = false

		if err != nil {
			// Probe failed: back to open, restart the reset timer.
			b.trip(now)
			return
		}

		b.reset(now)
		return
	}

	if b.state == Open {
		return
	}

	if now.Sub(b.windowStart) > b.cfg.Window {
		b.windowStart = now
		b.total = 0
		b.failures = 0
	}

	b.total++
	if err != nil {
		b.failures++
	}

	if b.total >= b.cfg.MinRequests && b.errorRate() >= b.cfg.ErrorThreshold {
		b.trip(now)
	}
}

// currentState resolves open -> half-open once the reset timeout elapsed.
// Caller must hold the mutex.
func (b *Breaker) currentState(now time.Time) State {
	if b.state == Open && now.Sub(b.openedAt) >= b.cfg.ResetTimeout {
		b.state = HalfOpen
	}

	return b.state
}

func (b *Breaker) trip(now time.Time) {
	b.state = Open
	b.openedAt = now
	b.total = 0
	b.failures = 0
}

func (b *Breaker) reset(now time.Time) {
	b.state = Closed
	b.windowStart = now
	b.total = 0
	b.failures = 0
}

func (b *Breaker) errorRate() float64 {
	if b.total == 0 {
		return 0
	}

	return float64(b.failures) / float64(b.total) * 100
}
