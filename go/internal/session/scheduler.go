package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// basePollInterval is the healthy polling cadence. The backoff tiers
// stretch it as consecutive failures accumulate.
const basePollInterval = 1200 * time.Millisecond

// backoffTiers maps consecutive-error streaks to discrete poll intervals,
// highest streak first.
var backoffTiers = []struct {
	minStreak int
	interval  time.Duration
}{
	{10, 6000 * time.Millisecond},
	{6, 4000 * time.Millisecond},
	{3, 2500 * time.Millisecond},
}

// BackoffInterval maps a consecutive-error streak to its polling interval.
func BackoffInterval(streak int) time.Duration {
	for _, t := range backoffTiers {
		if streak >= t.minStreak {
			return t.interval
		}
	}
	return basePollInterval
}

// Scheduler drives the repeating fetch cycle. One goroutine owns the
// ticker; each cycle runs on its own goroutine so a slow fetch never blocks
// the timer, and the running flag drops any tick that lands mid-cycle so
// two cycles never overlap.
type Scheduler struct {
	clock clockwork.Clock
	cycle func(context.Context)

	interval time.Duration // loop-goroutine owned after Start

	running  atomic.Bool // a cycle is in flight
	visible  atomic.Bool
	kickCh   chan struct{}
	adjustCh chan time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewScheduler builds a scheduler at the base interval. cycle is invoked
// with a context that is canceled when the scheduler stops.
func NewScheduler(clock clockwork.Clock, cycle func(context.Context)) *Scheduler {
	s := &Scheduler{
		clock:    clock,
		cycle:    cycle,
		interval: basePollInterval,
		kickCh:   make(chan struct{}, 1),
		adjustCh: make(chan time.Duration, 1),
		stopCh:   make(chan struct{}),
	}
	s.visible.Store(true)
	return s
}

// Start begins polling until ctx is done or Stop is called. The first
// cycle fires immediately rather than waiting out a full period.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.fire(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer func() { ticker.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.Chan():
			s.fire(ctx)
		case d := <-s.adjustCh:
			if d != s.interval {
				s.interval = d
				ticker.Stop()
				ticker = s.clock.NewTicker(d)
			}
		case <-s.kickCh:
			s.fire(ctx)
		}
	}
}

// fire starts one cycle unless the view is hidden or the previous cycle is
// still in flight.
func (s *Scheduler) fire(ctx context.Context) {
	if !s.visible.Load() {
		return
	}
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer s.running.Store(false)
		s.cycle(ctx)
	}()
}

// Reschedule moves the poll timer to d without waiting out the current
// period. Requests collapse to the newest value; equal periods are a no-op
// inside the loop.
func (s *Scheduler) Reschedule(d time.Duration) {
	for {
		select {
		case s.adjustCh <- d:
			return
		default:
		}
		select {
		case <-s.adjustCh:
		default:
		}
	}
}

// Kick requests one immediate cycle, used on regained visibility and for
// manual refresh. Duplicate kicks coalesce.
func (s *Scheduler) Kick() {
	select {
	case s.kickCh <- struct{}{}:
	default:
	}
}

// SetVisible pauses polling while the view is hidden. Regaining visibility
// fires one cycle immediately instead of waiting for the next tick.
func (s *Scheduler) SetVisible(visible bool) {
	was := s.visible.Swap(visible)
	if visible && !was {
		s.Kick()
	}
}

// Stop ends the loop and cancels the outstanding cycle's requests. Safe to
// call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
