package schedule

import (
	"sync"
	"time"
)

// Countdown counts whole seconds down to zero on a Scheduler.
// onTick receives the remaining seconds after every decrement and onDone fires once at zero.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	done      bool
	task      Task
	onTick    func(remaining int)
	onDone    func()
}

// StartCountdown begins counting down from seconds. A non-positive start finishes immediately.
func StartCountdown(s Scheduler, seconds int, onTick func(remaining int), onDone func()) *Countdown {
	c := &Countdown{remaining: seconds, onTick: onTick, onDone: onDone}
	if seconds <= 0 {
		c.remaining = 0
		c.done = true
		if onDone != nil {
			onDone()
		}
		return c
	}

	c.mu.Lock()
	c.task = s.Every(time.Second, c.tick)
	c.mu.Unlock()
	return c
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Stop cancels the countdown without firing onDone.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = true
	if c.task != nil {
		c.task.Stop()
	}
}

func (c *Countdown) tick() {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.remaining--
	remaining := c.remaining
	finished := remaining <= 0
	if finished {
		c.remaining = 0
		remaining = 0
		c.done = true
		c.task.Stop()
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(remaining)
	}
	if finished && c.onDone != nil {
		c.onDone()
	}
}
