package schedule

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Task is a handle on a scheduled callback. Stop is safe to call more than once.
type Task interface {
	Stop()
}

// Scheduler runs callbacks later or repeatedly. Callbacks may run on another goroutine.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
	After(delay time.Duration, fn func()) Task
}

// CronScheduler runs repeating work on a robfig/cron runner and one-shot work on time.AfterFunc.
// The first run comes one full interval after Every is called.
type CronScheduler struct {
	cron  *cron.Cron
	start sync.Once
}

var _ Scheduler = (*CronScheduler)(nil)

func NewCronScheduler() *CronScheduler {
	return &CronScheduler{cron: cron.New()}
}

func (s *CronScheduler) Every(interval time.Duration, fn func()) Task {
	s.start.Do(s.cron.Start)
	id := s.cron.Schedule(fixedDelay(interval), cron.FuncJob(fn))
	return &cronTask{cron: s.cron, id: id}
}

const minInterval = 10 * time.Millisecond

// fixedDelay is a cron.Schedule measured from the previous activation.
// cron.Every truncates to wall-clock seconds, which makes the first run early.
type fixedDelay time.Duration

func (d fixedDelay) Next(t time.Time) time.Time {
	interval := time.Duration(d)
	if interval < minInterval {
		interval = minInterval
	}
	return t.Add(interval)
}

func (s *CronScheduler) After(delay time.Duration, fn func()) Task {
	return &timerTask{timer: time.AfterFunc(delay, fn)}
}

// Shutdown stops the runner and waits for running callbacks to return.
func (s *CronScheduler) Shutdown() {
	<-s.cron.Stop().Done()
}

type cronTask struct {
	cron *cron.Cron
	id   cron.EntryID
	once sync.Once
}

func (t *cronTask) Stop() {
	t.once.Do(func() { t.cron.Remove(t.id) })
}

type timerTask struct {
	timer *time.Timer
}

func (t *timerTask) Stop() {
	t.timer.Stop()
}
