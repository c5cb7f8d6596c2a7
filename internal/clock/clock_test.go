package clock_test

import (
	"context"
	"testing"
	"time"

	"github.com/Tiliavir/exam-board/internal/clock"
)

func TestSchedulerDeliversTicks(t *testing.T) {
	s := clock.New(10 * time.Millisecond)
	ticks, cancelSub := s.Subscribe()
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never arrived", i)
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
	// Draining until closed proves Run closed the subscription.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ticks:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscription not closed after cancel")
		}
	}
}

func TestSchedulerSlowSubscriberDoesNotBlock(t *testing.T) {
	s := clock.New(5 * time.Millisecond)
	slow, cancelSlow := s.Subscribe()
	defer cancelSlow()
	fast, cancelFast := s.Subscribe()
	defer cancelFast()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// Nobody reads slow; fast must keep receiving.
	for i := 0; i < 5; i++ {
		select {
		case <-fast:
		case <-time.After(2 * time.Second):
			t.Fatalf("fast subscriber starved at tick %d", i)
		}
	}

	first := <-slow
	select {
	case second := <-slow:
		if second.Before(first) {
			t.Error("stale tick delivered after a newer one")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("slow subscriber received nothing further")
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	s := clock.New(time.Second)
	ch, unsubscribe := s.Subscribe()
	unsubscribe()
	unsubscribe()
	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}
}
