package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many probe calls while half-open")
)

// State of a breaker
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	}
	return "unknown"
}

// Settings configures a Breaker. Zero fields take the defaults listed.
type Settings struct {
	// MaxRequests is the number of probe calls let through while half-open,
	// and the number of successes that close the breaker again. Default 1.
	MaxRequests uint32
	// Interval is the length of a counting window while closed. Default 60s.
	Interval time.Duration
	// Timeout is how long the breaker stays open. Default 60s.
	Timeout time.Duration
	// ReadyToTrip decides, after a failure, whether to open. Default: more
	// than 5 consecutive failures.
	ReadyToTrip func(counts Counts) bool
	// IsSuccessful decides whether an error counts against the service.
	// Default: err == nil.
	IsSuccessful func(err error) bool
	// OnStateChange observes transitions
	OnStateChange func(name string, from, to State)
	// Clock replaces time.Now
	Clock func() time.Time
}

// Counts are the statistics of the current window
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRatio returns TotalFailures / Requests, or 0 with no requests
func (c Counts) FailureRatio() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

func (c *Counts) success() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) failure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// Breaker fails calls fast while the web service looks down
type Breaker struct {
	name string
	cfg  Settings

	mu         sync.Mutex
	state      State
	counts     Counts
	generation uint64
	deadline   time.Time // end of the closed window or of the open period
}

// New creates a closed breaker
func New(name string, settings Settings) *Breaker {
	if settings.MaxRequests == 0 {
		settings.MaxRequests = 1
	}
	if settings.Interval <= 0 {
		settings.Interval = 60 * time.Second
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 60 * time.Second
	}
	if settings.ReadyToTrip == nil {
		settings.ReadyToTrip = func(c Counts) bool { return c.ConsecutiveFailures > 5 }
	}
	if settings.IsSuccessful == nil {
		settings.IsSuccessful = func(err error) bool { return err == nil }
	}
	if settings.Clock == nil {
		settings.Clock = time.Now
	}

	return &Breaker{
		name:     name,
		cfg:      settings,
		deadline: settings.Clock().Add(settings.Interval),
	}
}

// Name returns the breaker's name
func (b *Breaker) Name() string { return b.name }

// State returns the state, moving on if a window or open period has ended
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance(b.cfg.Clock())
	return b.state
}

// Counts returns the statistics of the current window
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.counts
}

// Execute runs call when the breaker admits it and returns call's error
// unchanged. A call that ends because ctx was cancelled or timed out is not
// held against the service.
func (b *Breaker) Execute(ctx context.Context, call func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	generation, err := b.admit()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			b.settle(generation, outcomeFailure)
			panic(r)
		}
	}()

	err = call(ctx)
	switch {
	case err != nil && ctx.Err() != nil:
		b.settle(generation, outcomeIgnored)
	case b.cfg.IsSuccessful(err):
		b.settle(generation, outcomeSuccess)
	default:
		b.settle(generation, outcomeFailure)
	}
	return err
}

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeFailure
	outcomeIgnored
)

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance(b.cfg.Clock())

	switch {
	case b.state == StateOpen:
		return b.generation, ErrCircuitOpen
	case b.state == StateHalfOpen && b.counts.Requests >= b.cfg.MaxRequests:
		return b.generation, ErrTooManyRequests
	}

	b.counts.Requests++
	return b.generation, nil
}

func (b *Breaker) settle(generation uint64, result outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.cfg.Clock()
	b.advance(now)

	// the window rolled or the state changed while the call was in flight
	if generation != b.generation {
		return
	}

	switch result {
	case outcomeIgnored:
		b.counts.Requests--
	case outcomeSuccess:
		b.counts.success()
		if b.state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.cfg.MaxRequests {
			b.transition(StateClosed, now)
		}
	case outcomeFailure:
		b.counts.failure()
		if b.state == StateHalfOpen || b.cfg.ReadyToTrip(b.counts) {
			b.transition(StateOpen, now)
		}
	}
}

// advance rolls the closed window and ends the open period when due
func (b *Breaker) advance(now time.Time) {
	switch b.state {
	case StateClosed:
		if now.After(b.deadline) {
			b.reset(now.Add(b.cfg.Interval))
		}
	case StateOpen:
		if now.After(b.deadline) {
			b.transition(StateHalfOpen, now)
		}
	}
}

func (b *Breaker) reset(deadline time.Time) {
	b.generation++
	b.counts = Counts{}
	b.deadline = deadline
}

func (b *Breaker) transition(to State, now time.Time) {
	if b.state == to {
		return
	}

	from := b.state
	b.state = to

	switch to {
	case StateClosed:
		b.reset(now.Add(b.cfg.Interval))
	case StateOpen:
		b.reset(now.Add(b.cfg.Timeout))
	case StateHalfOpen:
		b.reset(time.Time{})
	}

	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.name, from, to)
	}
}
