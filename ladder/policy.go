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

package ladder

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidPolicy is returned (wrapped) when a Policy cannot drive a Ladder.
var ErrInvalidPolicy = errors.New("invalid resolution policy")

// Policy describes how far the resolution of a page may be increased and
// when to give up after render failures.
type Policy struct {
	// Steps lists the width multipliers, relative to the width of the
	// device screen in pixels.  Steps[0] must be 1 and the values must be
	// strictly increasing.
	Steps []float64

	// FailureLimit is the number of consecutive failures which is
	// tolerated.  Once more failures than this have been seen, no further
	// steps are requested, provided RetryFloor has been reached.
	FailureLimit int

	// RetryFloor is the smallest step index which must have been rendered
	// successfully before failures can stop the ladder.  Below this index,
	// rendering is retried indefinitely.
	RetryFloor int
}

// Validate checks that p can be used to construct a Ladder.
func (p Policy) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidPolicy)
	}
	if p.Steps[0] != 1 {
		return fmt.Errorf("%w: first step is %g, not 1", ErrInvalidPolicy, p.Steps[0])
	}
	for i := 1; i < len(p.Steps); i++ {
		if !(p.Steps[i] > p.Steps[i-1]) {
			return fmt.Errorf("%w: steps not strictly increasing at index %d",
				ErrInvalidPolicy, i)
		}
	}
	if p.FailureLimit < 0 {
		return fmt.Errorf("%w: negative failure limit %d", ErrInvalidPolicy, p.FailureLimit)
	}
	if p.RetryFloor < 0 {
		return fmt.Errorf("%w: negative retry floor %d", ErrInvalidPolicy, p.RetryFloor)
	}
	return nil
}

func (p Policy) clone() Policy {
	p.Steps = slices.Clone(p.Steps)
	return p
}

// DeviceClass selects one of the built-in policies.
type DeviceClass int

// These are the supported device classes.
const (
	Tablet DeviceClass = iota
	Phone
)

func (c DeviceClass) String() string {
	switch c {
	case Tablet:
		return "tablet"
	case Phone:
		return "phone"
	default:
		return fmt.Sprintf("DeviceClass(%d)", int(c))
	}
}

// ParseDeviceClass converts a device class name, as used in configuration
// and on the command line, into a DeviceClass.
func ParseDeviceClass(s string) (DeviceClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tablet", "ipad", "":
		return Tablet, nil
	case "phone", "iphone":
		return Phone, nil
	}
	return 0, fmt.Errorf("unknown device class %q", s)
}

// policies are the built-in policies.  Tablets climb in smaller
// increments, up to eight screen widths.
var policies = map[DeviceClass]Policy{
	Phone:  {Steps: []float64{1, 3, 7}, FailureLimit: 2, RetryFloor: 1},
	Tablet: {Steps: []float64{1, 2, 4, 6, 8}, FailureLimit: 2, RetryFloor: 1},
}

// PolicyFor returns the built-in policy for the given device class.
// Unknown classes get the tablet policy.
func PolicyFor(c DeviceClass) Policy {
	p, ok := policies[c]
	if !ok {
		p = policies[Tablet]
	}
	return p.clone()
}
