package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrCircuitOpen is returned when the breaker rejects a load.
var ErrCircuitOpen = errors.New("catalog circuit breaker is open")

// CircuitBreakerState represents the state of the circuit breaker.
type CircuitBreakerState int

const (
	// CircuitClosed allows loads through.
	CircuitClosed CircuitBreakerState = iota
	// CircuitOpen rejects loads until the reset timeout elapses.
	CircuitOpen
	// CircuitHalfOpen allows probe loads.
	CircuitHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig holds configuration for the circuit breaker.
type CircuitBreakerConfig struct {
	MaxFailures      int
	ResetTimeout     time.Duration
	HalfOpenMaxCalls int
}

// CircuitBreaker stops hammering a failing provider.
type CircuitBreaker struct {
	mu              sync.Mutex
	state           CircuitBreakerState
	failureCount    int
	successCount    int
	lastFailureTime time.Time
	config          *CircuitBreakerConfig
	metrics         *MetricsRecorder
	logger          *zerolog.Logger
	name            string
	now             func() time.Time
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(name string, config *CircuitBreakerConfig, metrics *MetricsRecorder, logger *zerolog.Logger) *CircuitBreaker {
	if config == nil {
		config = DefaultConfig().CircuitBreakerConfig()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	cb := &CircuitBreaker{
		state:   CircuitClosed,
		config:  config,
		metrics: metrics,
		logger:  logger,
		name:    name,
		now:     time.Now,
	}
	cb.metrics.RecordCircuitState(name, CircuitClosed)
	return cb
}

// Allow reports whether a load may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if cb.now().Sub(cb.lastFailureTime) >= cb.config.ResetTimeout {
			cb.transitionTo(CircuitHalfOpen)
			cb.logger.Info().Str("circuit_breaker", cb.name).Msg("Circuit breaker transitioning to half-open")
			return true
		}
		return false
	case CircuitHalfOpen:
		return cb.successCount < cb.config.HalfOpenMaxCalls
	default:
		return false
	}
}

// RecordSuccess records a successful load.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		cb.failureCount = 0
	case CircuitHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.HalfOpenMaxCalls {
			cb.transitionTo(CircuitClosed)
			cb.logger.Info().
				Str("circuit_breaker", cb.name).
				Int("success_count", cb.successCount).
				Msg("Circuit breaker closing after successful recovery")
			cb.successCount = 0
			cb.failureCount = 0
		}
	}
}

// RecordFailure records a failed load.
func (cb *CircuitBreaker) RecordFailure(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = cb.now()

	cb.logger.Error().
		Err(err).
		Str("circuit_breaker", cb.name).
		Int("failure_count", cb.failureCount).
		Msg("Circuit breaker recording failure")

	switch cb.state {
	case CircuitClosed:
		if cb.failureCount >= cb.config.MaxFailures {
			cb.transitionTo(CircuitOpen)
			cb.logger.Warn().
				Str("circuit_breaker", cb.name).
				Dur("reset_timeout", cb.config.ResetTimeout).
				Msg("Circuit breaker opening after max failures")
		}
	case CircuitHalfOpen:
		cb.transitionTo(CircuitOpen)
		cb.successCount = 0
		cb.logger.Warn().Str("circuit_breaker", cb.name).Msg("Circuit breaker re-opening after failure in half-open state")
	}
}

func (cb *CircuitBreaker) transitionTo(state CircuitBreakerState) {
	cb.state = state
	cb.metrics.RecordCircuitState(cb.name, state)
}

// State returns the current state.
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// FailureCount returns the consecutive failure count.
func (cb *CircuitBreaker) FailureCount() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failureCount
}

// Reset closes the breaker.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.transitionTo(CircuitClosed)
	cb.failureCount = 0
	cb.successCount = 0
	cb.logger.Info().Str("circuit_breaker", cb.name).Msg("Circuit breaker manually reset to closed state")
}

// WarmupGate blocks readers until the first catalog has been loaded.
type WarmupGate struct {
	mu       sync.RWMutex
	ready    bool
	warmedCh chan struct{}
	logger   *zerolog.Logger
}

// NewWarmupGate creates a gate in the not-ready state.
func NewWarmupGate(logger *zerolog.Logger) *WarmupGate {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &WarmupGate{warmedCh: make(chan struct{}), logger: logger}
}

// Wait blocks until the gate opens or ctx is done. It returns false on cancellation.
func (g *WarmupGate) Wait(ctx context.Context) bool {
	g.mu.RLock()
	ready, ch := g.ready, g.warmedCh
	g.mu.RUnlock()
	if ready {
		return true
	}

	select {
	case <-ch:
		return true
	case <-ctx.Done():
		g.logger.Warn().Msg("Warmup gate: context cancelled while waiting for catalog")
		return false
	}
}

// Ready opens the gate. Calling it again is a no-op.
func (g *WarmupGate) Ready() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.ready {
		g.ready = true
		close(g.warmedCh)
		g.logger.Info().Msg("Warmup gate: catalog loaded, allowing requests")
	}
}

// IsReady reports whether the gate is open.
func (g *WarmupGate) IsReady() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ready
}
