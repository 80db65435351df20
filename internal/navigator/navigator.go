// Package navigator holds the presentation state machine: which slide is
// active, how many steps of each slide are revealed, and whether a slide
// transition is in flight.
//
// Every entry point silently ignores requests it cannot honor (out of range,
// at a boundary, or mid-transition). Nothing here ever returns a runtime
// error.
package navigator

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultExitDelay   = 50 * time.Millisecond
	DefaultSettleDelay = 300 * time.Millisecond
)

// ErrNoSlides is returned by New for an empty deck.
var ErrNoSlides = errors.New("navigator: deck has no slides")

type transitionStage int

const (
	stageExit transitionStage = iota + 1
	stageSettle
)

type transition struct {
	from, to int
	stage    transitionStage
	gen      uint64
}

// Navigator is not safe for concurrent use. All calls, including the
// continuations handed to the Scheduler, must come from one goroutine.
type Navigator struct {
	total     int
	index     int
	stepCount []int
	progress  []int

	locked   bool
	lockedAt time.Time
	current  *transition
	gen      uint64

	scene Scene

	sched       Scheduler
	exitDelay   time.Duration
	settleDelay time.Duration
	lockTimeout time.Duration
	now         func() time.Time
	log         *zap.Logger
}

type Option func(*Navigator)

// WithScheduler sets the scheduler for transition continuations. Without
// one, transitions complete synchronously.
func WithScheduler(s Scheduler) Option { return func(n *Navigator) { n.sched = s } }

// WithExitDelay sets the delay between leaving a slide and activating the
// next one.
func WithExitDelay(d time.Duration) Option { return func(n *Navigator) { n.exitDelay = d } }

// WithSettleDelay sets how long the lock stays held after the new slide is
// activated.
func WithSettleDelay(d time.Duration) Option { return func(n *Navigator) { n.settleDelay = d } }

// WithLockTimeout enables recovery from a transition whose continuation never
// fired. Zero disables it.
func WithLockTimeout(d time.Duration) Option { return func(n *Navigator) { n.lockTimeout = d } }

func WithClock(now func() time.Time) Option { return func(n *Navigator) { n.now = now } }

func WithLogger(l *zap.Logger) Option { return func(n *Navigator) { n.log = l } }

// New builds a navigator over a deck whose slide i has stepCounts[i]
// revealable steps. Slide 0 is active on return.
func New(stepCounts []int, opts ...Option) (*Navigator, error) {
	if len(stepCounts) == 0 {
		return nil, ErrNoSlides
	}
	n := &Navigator{
		total:       len(stepCounts),
		stepCount:   make([]int, len(stepCounts)),
		progress:    make([]int, len(stepCounts)),
		sched:       Immediate,
		exitDelay:   DefaultExitDelay,
		settleDelay: DefaultSettleDelay,
		now:         time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}

	n.scene = Scene{Active: -1, Exiting: -1, Revealed: make([][]bool, n.total)}
	for i, c := range stepCounts {
		if c < 0 {
			return nil, fmt.Errorf("navigator: slide %d has negative step count %d", i, c)
		}
		n.stepCount[i] = c
		n.scene.Revealed[i] = make([]bool, c)
	}

	n.scene.Active = 0
	n.updateUI()
	return n, nil
}

func (n *Navigator) Index() int { return n.index }
func (n *Navigator) Total() int { return n.total }
func (n *Navigator) Locked() bool { return n.locked }

func (n *Navigator) Phase() Phase {
	if n.locked {
		return Transitioning
	}
	return Idle
}

// StepCount returns the number of revealable steps on slide i, or 0 when i is
// out of range.
func (n *Navigator) StepCount(i int) int {
	if i < 0 || i >= n.total {
		return 0
	}
	return n.stepCount[i]
}

// StepProgress returns the number of revealed steps on slide i, or 0 when i
// is out of range.
func (n *Navigator) StepProgress(i int) int {
	if i < 0 || i >= n.total {
		return 0
	}
	return n.progress[i]
}

// Scene returns a copy of the visual state.
func (n *Navigator) Scene() Scene {
	s := n.scene.clone()
	s.Phase = n.Phase()
	return s
}

// Advance reveals the next step on the current slide, or moves to the next
// slide once every step is showing.
func (n *Navigator) Advance() {
	if n.busy() {
		return
	}
	cur := n.index
	if n.progress[cur] < n.stepCount[cur] {
		n.setRevealed(cur, n.progress[cur], true)
		n.progress[cur]++
		n.updateUI()
		return
	}
	if cur < n.total-1 {
		n.GoToSlide(cur+1, Forward)
	}
}

// Retreat hides the last revealed step on the current slide, or moves to the
// previous slide fully revealed when no step is showing.
func (n *Navigator) Retreat() {
	if n.busy() {
		return
	}
	cur := n.index
	if n.progress[cur] > 0 {
		n.progress[cur]--
		n.setRevealed(cur, n.progress[cur], false)
		n.updateUI()
		return
	}
	n.PreviousSlide()
}

// PreviousSlide jumps to the previous slide with all of its steps revealed.
func (n *Navigator) PreviousSlide() {
	if n.busy() || n.index == 0 {
		return
	}
	prev := n.index - 1
	n.progress[prev] = n.stepCount[prev]
	n.GoToSlide(prev, Backward)
	for j := range n.scene.Revealed[prev] {
		n.scene.Revealed[prev][j] = true
	}
}

// NextSlideDirectly jumps to the next slide regardless of unrevealed steps on
// the current one.
func (n *Navigator) NextSlideDirectly() {
	if n.busy() || n.index >= n.total-1 {
		return
	}
	n.GoToSlide(n.index+1, Forward)
}

// First jumps to slide 0.
func (n *Navigator) First() { n.jump(0) }

// Last jumps to the final slide.
func (n *Navigator) Last() { n.jump(n.total - 1) }

func (n *Navigator) jump(target int) {
	dir := Forward
	if target < n.index {
		dir = Backward
	}
	n.GoToSlide(target, dir)
}

// GoToSlide begins a transition to target. The new slide becomes active after
// the exit delay and the lock is released after a further settle delay.
func (n *Navigator) GoToSlide(target int, dir Direction) {
	if n.busy() {
		return
	}
	if target < 0 || target >= n.total {
		return
	}
	if target == n.index && n.scene.Active == target {
		return
	}
	n.beginTransition(target, dir)
}

func (n *Navigator) beginTransition(target int, dir Direction) {
	from := n.index
	n.gen++
	n.locked = true
	n.lockedAt = n.now()
	n.current = &transition{from: from, to: target, stage: stageExit, gen: n.gen}

	if n.scene.Active == from {
		n.scene.Active = -1
	}
	if dir == Forward {
		n.scene.Exiting = from
	}

	if target > from {
		n.progress[target] = 0
		for j := range n.scene.Revealed[target] {
			n.scene.Revealed[target][j] = false
		}
	}

	n.log.Debug("transition begin",
		zap.Int("from", from),
		zap.Int("to", target),
		zap.Stringer("direction", dir))

	gen := n.gen
	n.sched.After(n.exitDelay, func() { n.completeTransition(gen) })
}

func (n *Navigator) completeTransition(gen uint64) {
	t := n.current
	if t == nil || t.gen != gen || t.stage != stageExit {
		return
	}
	if n.scene.Exiting == t.from {
		n.scene.Exiting = -1
	}
	n.scene.Active = t.to
	n.index = t.to
	n.updateUI()
	t.stage = stageSettle

	n.sched.After(n.settleDelay, func() { n.settle(gen) })
}

func (n *Navigator) settle(gen uint64) {
	t := n.current
	if t == nil || t.gen != gen || t.stage != stageSettle {
		return
	}
	n.current = nil
	n.locked = false
	n.log.Debug("transition settled", zap.Int("slide", n.index))
}

// busy reports whether the lock is held, first recovering from a transition
// that outlived the lock timeout.
func (n *Navigator) busy() bool {
	if !n.locked {
		return false
	}
	if n.lockTimeout <= 0 || n.now().Sub(n.lockedAt) <= n.lockTimeout {
		return true
	}

	t := n.current
	n.log.Warn("transition lock timed out",
		zap.Int("from", t.from),
		zap.Int("to", t.to),
		zap.Duration("timeout", n.lockTimeout))
	if t.stage == stageExit {
		// completeTransition schedules the settle continuation; bumping the
		// generation afterwards makes it a no-op when it eventually runs.
		n.completeTransition(t.gen)
	}
	n.gen++
	n.current = nil
	n.locked = false
	return false
}

func (n *Navigator) setRevealed(slide, step int, v bool) {
	steps := n.scene.Revealed[slide]
	if step < 0 || step >= len(steps) {
		return
	}
	steps[step] = v
}

func (n *Navigator) updateUI() {
	cur := n.index
	n.scene.Status.Percent = float64(cur+1) / float64(n.total) * 100
	n.scene.Status.Counter = fmt.Sprintf("%d / %d", cur+1, n.total)
	if n.stepCount[cur] > 0 {
		n.scene.Status.StepIndicator = fmt.Sprintf("step %d/%d", n.progress[cur], n.stepCount[cur])
		n.scene.Status.StepIndicatorVisible = true
	} else {
		n.scene.Status.StepIndicatorVisible = false
	}
}
