package eink

import (
	"container/heap"
	"context"
	"time"
)

// Clock tells the task queue the time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// task is a delayed callback. A task with a target runs only while the
// target handle is live.
type task struct {
	due    time.Time
	seq    uint64
	target Handle
	fn     func()
}

// taskQueue is a min-heap by due time, breaking ties in scheduling order.
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }
func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}
func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *taskQueue) Push(x any)   { *q = append(*q, x.(*task)) }
func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// After schedules fn to run on the loop once d has elapsed. If target is
// not the zero handle, fn is skipped when target is no longer attached.
func (s *Stack) After(d time.Duration, target Handle, fn func()) {
	s.taskSeq++
	heap.Push(&s.tasks, &task{
		due:    s.clock.Now().Add(d),
		seq:    s.taskSeq,
		target: target,
		fn:     fn,
	})
}

// Pending returns the number of scheduled tasks.
func (s *Stack) Pending() int {
	return len(s.tasks)
}

// Post enqueues fn to run on the loop. Safe to call from any goroutine.
func (s *Stack) Post(fn func()) {
	select {
	case s.eventQueue <- fn:
	case <-s.stopCh:
		// Stack is stopping, ignore
	default:
		s.log.Warn("event queue full, dropping posted func")
	}
}

// Tick drains the posted funcs, then runs every task that is due. It
// returns the number of callbacks run.
func (s *Stack) Tick() int {
	n := 0
	for {
		select {
		case fn := <-s.eventQueue:
			fn()
			n++
			continue
		default:
		}
		break
	}

	now := s.clock.Now()
	for len(s.tasks) > 0 && !s.tasks[0].due.After(now) {
		t := heap.Pop(&s.tasks).(*task)
		if !t.target.IsZero() && !s.arena.live(t.target) {
			s.log.Debugf("skip task for detached %s", t.target)
			continue
		}
		t.fn()
		n++
	}
	return n
}

// Run is the stack's loop. It starts the registered watchers, then runs
// posted funcs and due tasks until ctx is cancelled or Stop is called.
func (s *Stack) Run(ctx context.Context) error {
	select {
	case <-s.stopCh:
		return ErrStopped
	default:
	}
	s.running = true
	for _, w := range s.watchers {
		w.Start(s.eventQueue, s.stopCh)
	}

	for {
		s.Tick()

		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		if len(s.tasks) > 0 {
			timer = time.NewTimer(max(s.tasks[0].due.Sub(s.clock.Now()), 0))
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			s.Stop()
			return ctx.Err()
		case <-s.stopCh:
			stopTimer(timer)
			return nil
		case fn := <-s.eventQueue:
			fn()
		case <-timerC:
		}
		stopTimer(timer)
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

// Stop ends Run and signals every watcher to exit. It is idempotent.
func (s *Stack) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

// Done is closed once the stack has been stopped.
func (s *Stack) Done() <-chan struct{} {
	return s.stopCh
}
