// Package breaker implements a circuit breaker for calls to an external dependency.
package breaker

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the breaker rejects a call without running it.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// errAborted is recorded when op panics or exits its goroutine. It always
// counts as a failure.
var errAborted = errors.New("operation aborted")

const (
	defaultFailureThreshold = 5
	defaultRecoveryTimeout  = 60 * time.Second
)

// State is the breaker's current mode.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// Status is a point-in-time snapshot for health reporting.
type Status struct {
	Name             string     `json:"name"`
	State            string     `json:"state"`
	FailureCount     int        `json:"failure_count"`
	FailureThreshold int        `json:"failure_threshold"`
	LastFailure      *time.Time `json:"last_failure,omitempty"`
	NextAttempt      *time.Time `json:"next_attempt,omitempty"`
}

// Breaker tracks failures of one dependency and short-circuits calls once the
// failure threshold is reached. It is safe for concurrent use.
type Breaker struct {
	name             string
	failureThreshold int
	recoveryTimeout  time.Duration
	expected         func(error) bool
	now              func() time.Time
	log              *slog.Logger

	mu            sync.Mutex
	state         State
	failures      int
	lastFailure   time.Time
	trialInFlight bool
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many expected failures open the circuit.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithRecoveryTimeout sets how long the circuit stays open before a trial call.
func WithRecoveryTimeout(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.recoveryTimeout = d
		}
	}
}

// WithExpectedErrors limits failure counting to errors matching one of errs (errors.Is).
func WithExpectedErrors(errs ...error) Option {
	return func(b *Breaker) {
		b.expected = func(err error) bool {
			for _, e := range errs {
				if errors.Is(err, e) {
					return true
				}
			}
			return false
		}
	}
}

// WithClassifier sets an arbitrary predicate deciding which errors count as failures.
func WithClassifier(fn func(error) bool) Option {
	return func(b *Breaker) {
		b.expected = fn
	}
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

// WithLogger sets a logger for state transitions.
func WithLogger(log *slog.Logger) Option {
	return func(b *Breaker) {
		b.log = log
	}
}

// New creates a closed breaker. By default every non-nil error counts as a failure.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: defaultFailureThreshold,
		recoveryTimeout:  defaultRecoveryTimeout,
		expected:         func(err error) bool { return err != nil },
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = slog.New(slog.DiscardHandler)
	}
	b.log = b.log.With("breaker", name)
	return b
}

// Call runs op unless the circuit is open.
// Errors outside the expected set are returned unchanged and leave the breaker untouched.
// A panic in op counts as a failure and is re-raised.
func (b *Breaker) Call(op func() error) error {
	trial, err := b.admit()
	if err != nil {
		return err
	}

	returned := false
	defer func() {
		if !returned {
			b.record(errAborted, trial)
		}
	}()

	opErr := op()
	returned = true
	b.record(opErr, trial)
	return opErr
}

// Do runs op through b and returns its value.
func Do[T any](b *Breaker, op func() (T, error)) (T, error) {
	var out T
	err := b.Call(func() error {
		v, err := op()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// admit decides whether a call may proceed and reports if it is the half-open trial.
func (b *Breaker) admit() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.lastFailure) <= b.recoveryTimeout {
			return false, ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.trialInFlight = true
		b.log.Info("circuit half-open, allowing trial call")
		return true, nil
	case StateHalfOpen:
		if b.trialInFlight {
			return false, ErrCircuitOpen
		}
		b.trialInFlight = true
		return true, nil
	default:
		return false, nil
	}
}

func (b *Breaker) record(err error, trial bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if trial {
		b.trialInFlight = false
	}

	switch {
	case err == nil:
		if b.state != StateClosed {
			b.log.Info("circuit closed")
		}
		b.state = StateClosed
		b.failures = 0
	case errors.Is(err, errAborted) || b.expected(err):
		b.failures++
		b.lastFailure = b.now()
		if b.state == StateHalfOpen || b.failures >= b.failureThreshold {
			if b.state != StateOpen {
				b.log.Warn("circuit opened", "failures", b.failures, "error", err)
			}
			b.state = StateOpen
		}
	default:
		// Unexpected errors don't count, but a half-open trial that hit one
		// stays half-open so the next caller can retry the trial.
	}
}

// Reset forces the breaker closed with zero failures.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateClosed
	b.failures = 0
	b.lastFailure = time.Time{}
	b.trialInFlight = false
}

// State returns the current state. An open circuit past its recovery timeout
// still reports open until the next call moves it to half-open.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// FailureCount returns the number of recorded failures since the last success.
func (b *Breaker) FailureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// NextAttemptTime returns when an open circuit will admit a trial call.
// Returns nil unless the circuit is open.
func (b *Breaker) NextAttemptTime() *time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateOpen {
		return nil
	}
	t := b.lastFailure.Add(b.recoveryTimeout)
	return &t
}

// Status returns a snapshot of the breaker.
func (b *Breaker) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Status{
		Name:             b.name,
		State:            b.state.String(),
		FailureCount:     b.failures,
		FailureThreshold: b.failureThreshold,
	}
	if !b.lastFailure.IsZero() {
		t := b.lastFailure
		s.LastFailure = &t
	}
	if b.state == StateOpen {
		t := b.lastFailure.Add(b.recoveryTimeout)
		s.NextAttempt = &t
	}
	return s
}
