package ecs

import "math"

// DefaultMaxSubSteps caps fixed ticks per frame; time beyond it is dropped.
const DefaultMaxSubSteps = 5

// Scheduler runs frame systems once per Update and fixed systems once per
// elapsed physics tick, which may be zero or several times per Update.
type Scheduler struct {
	frame []System
	fixed []System

	step        float64
	maxSubSteps int
	accumulator float64
}

func NewScheduler(step float64) *Scheduler {
	if step <= 0 {
		step = 1.0 / 50.0
	}
	return &Scheduler{step: step, maxSubSteps: DefaultMaxSubSteps}
}

// SetMaxSubSteps overrides DefaultMaxSubSteps. Values < 1 are ignored.
func (s *Scheduler) SetMaxSubSteps(n int) {
	if n < 1 {
		return
	}
	s.maxSubSteps = n
}

func (s *Scheduler) AddFrame(system System) {
	if system == nil {
		return
	}
	s.frame = append(s.frame, system)
}

func (s *Scheduler) AddFixed(system System) {
	if system == nil {
		return
	}
	s.fixed = append(s.fixed, system)
}

// Step returns the fixed tick duration.
func (s *Scheduler) Step() float64 {
	return s.step
}

// Update advances the world by dt seconds and returns how many fixed ticks ran.
// Events from the previous pass are cleared first so renderers can read the
// events of this pass after Update returns.
func (s *Scheduler) Update(w *World, dt float64) int {
	if w == nil {
		return 0
	}
	if dt < 0 {
		dt = 0
	}
	w.events.flush()

	w.clock.Delta = dt
	w.clock.FixedDelta = s.step
	w.clock.Frame++
	for _, system := range s.frame {
		system.Update(w)
	}

	s.accumulator += dt
	ticks := 0
	for s.accumulator >= s.step && ticks < s.maxSubSteps {
		for _, system := range s.fixed {
			system.Update(w)
		}
		s.accumulator -= s.step
		w.clock.Ticks++
		ticks++
	}
	if s.accumulator >= s.step {
		s.accumulator = math.Mod(s.accumulator, s.step)
	}
	w.clock.Alpha = s.accumulator / s.step
	return ticks
}
