package engine

import (
	"context"
	"errors"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

const keyBuffer = 64

// Ticker delivers countdown ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. Tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

type realTicker struct {
	t *time.Ticker
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock overrides the clock used for the countdown.
func WithClock(c Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// WithInterval overrides the tick interval.
func WithInterval(d time.Duration) RunnerOption {
	return func(r *Runner) { r.interval = d }
}

// WithLogf sets a hook for conditions worth logging, such as an exhausted sequence.
func WithLogf(logf func(format string, args ...any)) RunnerOption {
	return func(r *Runner) { r.logf = logf }
}

// Runner owns a Session and is its only writer. Key events and countdown
// ticks are applied in a single goroutine; observers get copies.
type Runner struct {
	session  *Session
	keys     chan Key
	updates  chan model.Snapshot
	clock    Clock
	interval time.Duration
	logf     func(format string, args ...any)
}

// NewRunner wraps a session. Call Run to start processing.
func NewRunner(s *Session, opts ...RunnerOption) *Runner {
	r := &Runner{
		session:  s,
		keys:     make(chan Key, keyBuffer),
		updates:  make(chan model.Snapshot, 1),
		clock:    realClock{},
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SessionID returns the ID of the owned session.
func (r *Runner) SessionID() string {
	return r.session.ID()
}

// Updates delivers the latest snapshot after every state change.
func (r *Runner) Updates() <-chan model.Snapshot {
	return r.updates
}

// Send queues a key event. It only blocks when the buffer is full.
func (r *Runner) Send(ctx context.Context, key Key) error {
	select {
	case r.keys <- key:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend queues a key event without blocking. It returns ErrInputBacklog
// when the buffer is full and the key was dropped.
func (r *Runner) TrySend(key Key) error {
	select {
	case r.keys <- key:
		return nil
	default:
		return ErrInputBacklog
	}
}

// Run processes events until ctx is canceled. The countdown starts with
// the first input change; after expiry further keys are rejected.
func (r *Runner) Run(ctx context.Context) error {
	var ticker Ticker
	var tickC <-chan time.Time
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tickC = nil
		}
	}
	defer stopTicker()

	r.publish()
	for {
		select {
		case <-ctx.Done():
			return nil
		case key := <-r.keys:
			out := HandleKey(r.session, key)
			r.report(out.Err)
			if !out.Changed {
				continue
			}
			if ticker == nil && r.session.Phase() == model.PhaseRunning {
				ticker = r.clock.NewTicker(r.interval)
				tickC = ticker.C()
			}
			r.publish()
		case <-tickC:
			if ctx.Err() != nil {
				return nil
			}
			if !r.session.Tick() {
				continue
			}
			if r.session.Phase() == model.PhaseExpired {
				stopTicker()
			}
			r.publish()
		}
	}
}

func (r *Runner) report(err error) {
	if err == nil || r.logf == nil {
		return
	}
	if errors.Is(err, ErrSequenceExhausted) {
		r.logf("word rejected: %v (cursor %d)\n", err, r.session.Cursor())
	}
}

// publish replaces any unread snapshot with the current one.
func (r *Runner) publish() {
	snap := r.session.Snapshot()
	select {
	case <-r.updates:
	default:
	}
	r.updates <- snap
}
