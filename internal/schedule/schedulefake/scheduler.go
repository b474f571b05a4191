package schedulefake

import (
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/anpr-client/internal/schedule"
)

var _ schedule.Scheduler = (*Scheduler)(nil)

// Scheduler is a manual clock. Callbacks only run inside Advance, on the caller's goroutine.
type Scheduler struct {
	lock  sync.Mutex
	now   time.Duration
	seq   int
	tasks []*task
}

type task struct {
	scheduler *Scheduler
	seq       int
	interval  time.Duration
	due       time.Duration
	fn        func()
	stopped   bool
}

func New() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Every(interval time.Duration, fn func()) schedule.Task {
	return s.add(interval, interval, fn)
}

func (s *Scheduler) After(delay time.Duration, fn func()) schedule.Task {
	return s.add(0, delay, fn)
}

func (s *Scheduler) add(interval, delay time.Duration, fn func()) *task {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.seq++
	t := &task{scheduler: s, seq: s.seq, interval: interval, due: s.now + delay, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

func (t *task) Stop() {
	t.scheduler.lock.Lock()
	defer t.scheduler.lock.Unlock()
	t.stopped = true
}

// Advance moves the clock forward, firing every callback that falls due in order.
func (s *Scheduler) Advance(d time.Duration) {
	s.lock.Lock()
	target := s.now + d
	s.lock.Unlock()

	for {
		s.lock.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.lock.Unlock()
			return
		}
		s.now = next.due
		if next.interval > 0 {
			next.due += next.interval
		} else {
			next.stopped = true
		}
		fn := next.fn
		s.lock.Unlock()

		fn()
	}
}

// Pending returns the number of tasks that have not been stopped or fired.
func (s *Scheduler) Pending() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	count := 0
	for _, t := range s.tasks {
		if !t.stopped {
			count++
		}
	}
	return count
}

func (s *Scheduler) nextDue(target time.Duration) *task {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.tasks = live

	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].due == s.tasks[j].due {
			return s.tasks[i].seq < s.tasks[j].seq
		}
		return s.tasks[i].due < s.tasks[j].due
	})
	if len(s.tasks) == 0 || s.tasks[0].due > target {
		return nil
	}
	return s.tasks[0]
}
