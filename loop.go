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

package pageview

import (
	"context"
	"sync"
)

// A Dispatcher runs functions on the interaction thread.
//
// All state of a Slot, a Coordinator and a ZoomController is owned by the
// interaction thread.  Code running elsewhere, for example a rasterizer
// goroutine, must hand its results over using Post.
type Dispatcher interface {
	// Post schedules f to run on the interaction thread.  Post must not
	// block for long and may be called from any goroutine.
	Post(f func())
}

// Immediate is a Dispatcher which runs f directly on the calling goroutine.
// It is only correct if all events and all rasterizer callbacks arrive on
// the same goroutine.
type Immediate struct{}

// Post implements the [Dispatcher] interface.
func (Immediate) Post(f func()) { f() }

// Loop is a Dispatcher which serializes posted functions onto the
// goroutine executing Run.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
}

// NewLoop returns a Loop.  Functions can be posted before Run is called;
// they are executed once Run starts.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post implements the [Dispatcher] interface.
// Functions posted after Run has returned are dropped.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes posted functions in order until ctx is cancelled.
// Run must be called at most once.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
	}()

	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, f := range batch {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}
