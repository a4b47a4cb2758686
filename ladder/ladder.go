// seehuhn.de/go/pageview - progressive rendering of PDF pages
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package ladder decides which resolution to render next for a page.
//
// A Ladder walks through the multipliers of a [Policy], one step per
// successful render.  Failed renders are counted, and once too many
// consecutive failures have been seen at or above the policy's retry floor,
// the ladder stops offering new steps.
//
// A Ladder is not safe for concurrent use.
package ladder

// Ladder tracks the rendering progress of a single page.
type Ladder struct {
	policy Policy

	current  int // index of the last successful step, -1 if none
	failures int // consecutive failures since the last success or reset
}

// New returns a Ladder in the unrendered state.
func New(p Policy) (*Ladder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Ladder{policy: p.clone(), current: -1}, nil
}

// ForDevice returns an unrendered Ladder using the built-in policy
// for the device class.
func ForDevice(c DeviceClass) *Ladder {
	return &Ladder{policy: PolicyFor(c), current: -1}
}

// Policy returns a copy of the ladder's policy.
func (l *Ladder) Policy() Policy {
	return l.policy.clone()
}

// Current returns the index of the last successfully rendered step.
// The second return value is false if nothing has been rendered yet.
func (l *Ladder) Current() (int, bool) {
	return l.current, l.current >= 0
}

// Failures returns the number of consecutive failed renders.
func (l *Ladder) Failures() int {
	return l.failures
}

// RecordSuccess advances the ladder by one step and clears the failure count.
//
// Callers only report success for the step returned by Next, so the index
// never needs to be clamped in practice.
func (l *Ladder) RecordSuccess() {
	if l.current+1 < len(l.policy.Steps) {
		l.current++
	}
	l.failures = 0
}

// RecordFailure counts a failed render.  The current step is unchanged.
func (l *Ladder) RecordFailure() {
	l.failures++
}

// Reset returns the ladder to the unrendered state.
func (l *Ladder) Reset() {
	l.current = -1
	l.failures = 0
}

// Next returns the multiplier which should be rendered next.
// The second return value is false if no further rendering should be done,
// either because the top of the ladder has been reached or because
// rendering has failed too often.
func (l *Ladder) Next() (float64, bool) {
	if l.Exhausted() {
		return 0, false
	}
	next := l.current + 1
	if next >= len(l.policy.Steps) {
		return 0, false
	}
	return l.policy.Steps[next], true
}

// Exhausted reports whether failures have permanently stopped the ladder.
// Reaching the top step does not count as exhaustion.
func (l *Ladder) Exhausted() bool {
	return l.failures > l.policy.FailureLimit && l.current >= l.policy.RetryFloor
}

// StepRatioAfterSuccessAt returns the ratio between step i+1 and step i.
// If there is no step above i, or i is out of range, the ratio is 1.
func (l *Ladder) StepRatioAfterSuccessAt(i int) float64 {
	steps := l.policy.Steps
	if i < 0 || i+1 >= len(steps) {
		return 1
	}
	return steps[i+1] / steps[i]
}

// NextZoomStep returns the zoom headroom offered by the current bitmap,
// i.e. StepRatioAfterSuccessAt for the current step.  A ratio of 1 means
// that no more resolution will become available.  The second return value
// is false if nothing has been rendered yet.
//
// For the steps [1, 3, 6] the ratios after rendering steps 0, 1 and 2
// are 3, 2 and 1.
func (l *Ladder) NextZoomStep() (float64, bool) {
	if l.current < 0 {
		return 0, false
	}
	if l.Exhausted() {
		return 1, true
	}
	return l.StepRatioAfterSuccessAt(l.current), true
}
