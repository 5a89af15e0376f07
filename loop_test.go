package eink

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAfter_RunsInDueOrder(t *testing.T) {
	s, _, clock := newTestStack(t, 10, 10)
	var order []int
	s.After(30*time.Millisecond, Handle{}, func() { order = append(order, 3) })
	s.After(10*time.Millisecond, Handle{}, func() { order = append(order, 1) })
	s.After(10*time.Millisecond, Handle{}, func() { order = append(order, 2) })
	s.After(time.Hour, Handle{}, func() { order = append(order, 4) })

	clock.Advance(30 * time.Millisecond)
	if n := s.Tick(); n != 3 {
		t.Errorf("Tick() = %d, want 3", n)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}
}

func TestPost_RunsOnTick(t *testing.T) {
	s, _, _ := newTestStack(t, 10, 10)
	ran := 0
	done := make(chan struct{})
	go func() {
		s.Post(func() { ran++ })
		close(done)
	}()
	<-done

	if n := s.Tick(); n != 1 || ran != 1 {
		t.Errorf("Tick() = %d, ran = %d, want 1, 1", n, ran)
	}
}

func TestPost_DropsWhenFull(t *testing.T) {
	s, _, _ := newTestStack(t, 10, 10, WithTaskQueueSize(1))
	ran := 0
	s.Post(func() { ran++ })
	s.Post(func() { ran++ })
	s.Tick()
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, _, _ := newTestStack(t, 10, 10)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	ran := make(chan struct{})
	s.Post(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("posted func did not run")
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if err := s.Run(context.Background()); !errors.Is(err, ErrStopped) {
		t.Errorf("Run() after stop error = %v, want ErrStopped", err)
	}
}

func TestStop_Idempotent(t *testing.T) {
	s, _, _ := newTestStack(t, 10, 10)
	s.Stop()
	s.Stop()
	select {
	case <-s.Done():
	default:
		t.Error("Done() should be closed after Stop")
	}
}

func TestRun_StartsWatchers(t *testing.T) {
	s, _, _ := newTestStack(t, 10, 10)
	ch := make(chan int)
	got := make(chan int, 1)
	s.Watch(Watch(ch, func(v int) {
		got <- v
		s.Stop()
	}))

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background()) }()
	ch <- 42

	select {
	case v := <-got:
		if v != 42 {
			t.Errorf("watcher got %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher handler did not run")
	}
	if err := <-errCh; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
