// Package timeline runs a finite list of delayed actions on the frame loop.
package timeline

import "time"

// Step fires Action once Delay has elapsed since the previous step fired.
type Step struct {
	Delay  time.Duration
	Action func()
}

type Timeline struct {
	steps   []Step
	next    int
	elapsed time.Duration
}

func New(steps ...Step) *Timeline {
	return &Timeline{steps: steps}
}

// Then appends a step and returns the timeline for chaining.
func (t *Timeline) Then(delay time.Duration, action func()) *Timeline {
	t.steps = append(t.steps, Step{Delay: delay, Action: action})
	return t
}

func (t *Timeline) Len() int { return len(t.steps) }

func (t *Timeline) Done() bool { return t.next >= len(t.steps) }

// Advance moves the clock forward by dt and runs every step that came due,
// in order. Leftover time carries into the next step's delay.
func (t *Timeline) Advance(dt time.Duration) {
	if dt < 0 {
		return
	}
	t.elapsed += dt
	for t.next < len(t.steps) {
		s := t.steps[t.next]
		if t.elapsed < s.Delay {
			return
		}
		t.elapsed -= s.Delay
		t.next++
		if s.Action != nil {
			s.Action()
		}
	}
	t.elapsed = 0
}
