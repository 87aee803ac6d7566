// Package resilience provides the failover primitives the pipelines use
// around external services: a three-state circuit breaker and a typed
// fallback chain that tries alternate providers in order.
//
// lexibly calls correction and synthesis services in background jobs, so
// the goal is not low latency but not hammering a provider that is clearly
// down while an alternate (a cheaper model, a local server) can serve.
//
// All types are safe for concurrent use.
package resilience

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrBreakerOpen is returned by [Breaker.Do] while the breaker is open and
// the cool-down has not elapsed.
var ErrBreakerOpen = errors.New("breaker is open")

// ErrAllFailed is returned by [Try] when every entry in a [Chain] fails or
// is skipped with an open breaker.
var ErrAllFailed = errors.New("all providers failed")

// BreakerConfig holds tuning knobs for a [Breaker]. Zero fields take the
// defaults noted per field.
type BreakerConfig struct {
	// Name labels the breaker in log messages.
	Name string

	// Trip is the number of consecutive failures before the breaker opens.
	// Default: 5.
	Trip int

	// CoolDown is how long the breaker stays open before letting a single
	// probe call through. Default: 30s.
	CoolDown time.Duration
}

// Breaker is a circuit breaker with a single-probe recovery policy: after
// CoolDown one call is let through; success closes the breaker, failure
// re-opens it for another cool-down period.
type Breaker struct {
	name     string
	trip     int
	coolDown time.Duration

	mu       sync.Mutex
	failures int
	openedAt time.Time
	open     bool
	probing  bool
}

// NewBreaker creates a [Breaker] with the supplied configuration.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Trip <= 0 {
		cfg.Trip = 5
	}
	if cfg.CoolDown <= 0 {
		cfg.CoolDown = 30 * time.Second
	}
	return &Breaker{name: cfg.Name, trip: cfg.Trip, coolDown: cfg.CoolDown}
}

// Do runs fn unless the breaker rejects the call. While open and cooling
// down it returns [ErrBreakerOpen] without calling fn; after the cool-down
// exactly one probe call is admitted at a time.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.open {
		if time.Since(b.openedAt) < b.coolDown || b.probing {
			b.mu.Unlock()
			return ErrBreakerOpen
		}
		b.probing = true
		slog.Info("breaker probing", "name", b.name)
	}
	probe := b.probing
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if probe {
		b.probing = false
	}
	if err != nil {
		b.failures++
		if b.open || b.failures >= b.trip {
			b.open = true
			b.openedAt = time.Now()
			slog.Warn("breaker opened", "name", b.name, "failures", b.failures)
		}
		return err
	}
	b.open = false
	b.failures = 0
	return nil
}

// Open reports whether the breaker currently rejects calls.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open && time.Since(b.openedAt) < b.coolDown
}

// chainEntry pairs a provider value with its dedicated breaker.
type chainEntry[T any] struct {
	name    string
	value   T
	breaker *Breaker
}

// Chain wraps a primary and zero or more fallback instances of the same
// provider type, each behind its own [Breaker]. Entries are tried in
// registration order by [Try].
type Chain[T any] struct {
	entries []chainEntry[T]
	cfg     BreakerConfig
}

// NewChain creates a [Chain] with primary as the first entry.
func NewChain[T any](name string, primary T, cfg BreakerConfig) *Chain[T] {
	c := &Chain[T]{cfg: cfg}
	c.Add(name, primary)
	return c
}

// Add appends a fallback provider, tried after everything registered before
// it.
func (c *Chain[T]) Add(name string, fallback T) {
	cfg := c.cfg
	cfg.Name = name
	c.entries = append(c.entries, chainEntry[T]{
		name:    name,
		value:   fallback,
		breaker: NewBreaker(cfg),
	})
}

// Names returns the entry names in trial order.
func (c *Chain[T]) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

// Try runs fn against each chain entry in order until one succeeds. Entries
// with an open breaker are skipped. Returns [ErrAllFailed] wrapped with the
// last error when nothing succeeds. A package-level function because Go has
// no method-level type parameters.
func Try[T, R any](c *Chain[T], fn func(T) (R, error)) (R, error) {
	var (
		zero    R
		lastErr error
	)
	for i := range c.entries {
		entry := &c.entries[i]
		var result R
		err := entry.breaker.Do(func() error {
			var innerErr error
			result, innerErr = fn(entry.value)
			return innerErr
		})
		if err == nil {
			return result, nil
		}
		lastErr = err
		if errors.Is(err, ErrBreakerOpen) {
			slog.Debug("skipping provider (breaker open)", "provider", entry.name)
		} else {
			slog.Warn("provider failed, trying next", "provider", entry.name, "error", err)
		}
	}
	return zero, fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}
