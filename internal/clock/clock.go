// Package clock runs the single periodic tick that drives board updates.
package clock

import (
	"context"
	"sync"
	"time"
)

// Scheduler emits the current time to every subscriber once per interval.
type Scheduler struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	subs map[chan time.Time]struct{}
}

// New creates a scheduler ticking every interval.
func New(interval time.Duration) *Scheduler {
	return &Scheduler{
		interval: interval,
		now:      time.Now,
		subs:     make(map[chan time.Time]struct{}),
	}
}

// Subscribe returns a channel receiving ticks and a function that
// unsubscribes and closes it. A subscriber that falls behind only ever sees
// the latest tick.
func (s *Scheduler) Subscribe() (<-chan time.Time, func()) {
	ch := make(chan time.Time, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
			s.mu.Unlock()
		})
	}
}

func (s *Scheduler) publish(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- t:
		default:
			// Replace the unread tick with the fresh one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- t:
			default:
			}
		}
	}
}

// Run ticks until ctx is cancelled, then closes every subscription.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.closeAll()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.publish(s.now())
		}
	}
}

func (s *Scheduler) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}
