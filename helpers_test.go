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
	"errors"
	"image"
	"testing"

	"seehuhn.de/go/pageview/ladder"
)

type testSource string

func (s testSource) String() string { return string(s) }

// call is a render request seen by fakeRasterizer.
type call struct {
	width int
	done  func(image.Image, error)
}

// fakeRasterizer records render requests.  Tests complete them explicitly.
type fakeRasterizer struct {
	calls       []*call
	outstanding int
	maxOverlap  int
}

func (r *fakeRasterizer) Render(_ context.Context, _ Source, width int, done func(image.Image, error)) {
	r.outstanding++
	r.maxOverlap = max(r.maxOverlap, r.outstanding)
	c := &call{width: width}
	c.done = func(img image.Image, err error) {
		r.outstanding--
		done(img, err)
	}
	r.calls = append(r.calls, c)
}

func (r *fakeRasterizer) last(t *testing.T) *call {
	t.Helper()
	if len(r.calls) == 0 {
		t.Fatal("no render requested")
	}
	return r.calls[len(r.calls)-1]
}

// succeed completes the last request with a blank bitmap of the requested
// width and a 4:3 portrait aspect ratio.
func (r *fakeRasterizer) succeed(t *testing.T) {
	t.Helper()
	c := r.last(t)
	c.done(bitmap(c.width), nil)
}

func (r *fakeRasterizer) fail(t *testing.T) {
	t.Helper()
	r.last(t).done(nil, errors.New("out of memory"))
}

func bitmap(width int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, width, width*4/3))
}

// queue is a Dispatcher which runs posted functions when the test says so.
type queue struct {
	pending []func()
}

func (q *queue) Post(f func()) {
	q.pending = append(q.pending, f)
}

func (q *queue) drain() {
	for len(q.pending) > 0 {
		f := q.pending[0]
		q.pending = q.pending[1:]
		f()
	}
}

var phonePolicy = ladder.Policy{Steps: []float64{1, 3, 7}, FailureLimit: 2, RetryFloor: 1}

func newTestCoordinator(t *testing.T, opt *Options) (*Coordinator, *fakeRasterizer, *queue) {
	t.Helper()
	r := &fakeRasterizer{}
	q := &queue{}
	if opt == nil {
		opt = &Options{BaseWidth: 100, Policy: &phonePolicy}
	}
	c, err := NewCoordinator(testSource("page 1"), r, q, opt)
	if err != nil {
		t.Fatal(err)
	}
	return c, r, q
}
