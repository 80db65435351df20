package navigator

import "time"

// Scheduler runs deferred continuations. Implementations must invoke fn on
// the same goroutine that drives the Navigator.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// SchedulerFunc adapts a plain function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, fn func())

func (f SchedulerFunc) After(d time.Duration, fn func()) { f(d, fn) }

// Immediate runs every continuation synchronously, ignoring the delay.
var Immediate Scheduler = SchedulerFunc(func(_ time.Duration, fn func()) { fn() })

// Manual queues continuations until a test fires them.
type Manual struct {
	queue []pending
}

type pending struct {
	delay time.Duration
	fn    func()
}

// After queues fn.
func (m *Manual) After(d time.Duration, fn func()) {
	m.queue = append(m.queue, pending{delay: d, fn: fn})
}

// Pending reports how many continuations are waiting.
func (m *Manual) Pending() int { return len(m.queue) }

// Delays returns the delays of the queued continuations in order.
func (m *Manual) Delays() []time.Duration {
	out := make([]time.Duration, len(m.queue))
	for i, p := range m.queue {
		out[i] = p.delay
	}
	return out
}

// Fire runs the oldest queued continuation. It reports false if the queue
// was empty.
func (m *Manual) Fire() bool {
	if len(m.queue) == 0 {
		return false
	}
	p := m.queue[0]
	m.queue = m.queue[1:]
	p.fn()
	return true
}

// FireAll runs continuations, including ones queued while running, until
// none remain.
func (m *Manual) FireAll() {
	for m.Fire() {
	}
}

// Drop discards every queued continuation without running it.
func (m *Manual) Drop() { m.queue = nil }
