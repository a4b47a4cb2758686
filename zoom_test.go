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
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"
)

const eps = 1e-9

type zoomFixture struct {
	c  *Coordinator
	r  *fakeRasterizer
	q  *queue
	vp *HeadlessViewport
	zc *ZoomController
}

// newZoomFixture sets up a 400x600 view in front of a page with the phone
// ladder and a base width of 1200 pixels.
func newZoomFixture(t *testing.T, placeholderWidth int) *zoomFixture {
	t.Helper()
	opt := &Options{BaseWidth: 1200, Policy: &phonePolicy}
	if placeholderWidth > 0 {
		opt.Placeholder = bitmap(placeholderWidth)
	}
	c, r, q := newTestCoordinator(t, opt)
	vp := NewHeadlessViewport(400, 600)
	zc, err := NewZoomController(vp, c, nil)
	if err != nil {
		t.Fatal(err)
	}
	vp.OnZoom = zc.ZoomChanged
	return &zoomFixture{c: c, r: r, q: q, vp: vp, zc: zc}
}

// load renders and displays the first ladder step.
func (f *zoomFixture) load(t *testing.T) {
	t.Helper()
	f.zc.Show()
	f.zc.Start()
	f.r.succeed(t)
	f.q.drain()
	if !f.zc.Idle() {
		t.Fatal("controller not idle after loading")
	}
}

func TestZoomTriggersHighRes(t *testing.T) {
	f := newZoomFixture(t, 800)
	f.zc.Show()

	placeholder := f.c.Slot().Placeholder()
	if f.vp.Bitmap() != placeholder {
		t.Fatal("placeholder not shown")
	}
	if s := f.vp.ZoomScale(); math.Abs(s-0.5) > eps {
		t.Fatalf("fit scale = %g, want 0.5", s)
	}

	f.vp.SetZoomScale(1.2)
	f.vp.SetContentOffset(vec.Vec2{X: 100, Y: 150})
	f.vp.SetZoomScale(1.25) // still zooming, request already in flight

	if len(f.r.calls) != 1 {
		t.Fatalf("%d renders requested, want 1", len(f.r.calls))
	}
	if got := f.r.calls[0].width; got != 1200 {
		t.Errorf("render width = %d, want 1200 (step 1)", got)
	}
	if f.zc.Idle() {
		t.Error("controller idle while waiting for the bitmap")
	}

	f.r.succeed(t)
	f.q.drain()

	if !f.zc.Idle() {
		t.Error("controller not idle after completion")
	}
	main := f.c.Slot().Image()
	if f.vp.Bitmap() != main {
		t.Error("new bitmap not displayed")
	}
	// apparent size of the page is unchanged
	before := 800 * 1.25
	after := float64(main.Bounds().Dx()) * f.vp.ZoomScale()
	if math.Abs(before-after) > eps {
		t.Errorf("displayed width changed from %g to %g", before, after)
	}
	if off := f.vp.ContentOffset(); off != (vec.Vec2{X: 100, Y: 150}) {
		t.Errorf("content offset = %v, want {100 150}", off)
	}
	if f.c.Slot().onAvailable != nil {
		t.Error("available callback still registered")
	}
	if len(f.r.calls) != 1 {
		t.Errorf("rescaling triggered another render")
	}
}

func TestZoomBelowTrigger(t *testing.T) {
	f := newZoomFixture(t, 0)
	f.load(t)
	f.zc.ZoomChanged(1.05)
	if len(f.r.calls) != 1 {
		t.Error("zoom below the trigger requested a render")
	}
	f.zc.ZoomChanged(1.1)
	if len(f.r.calls) != 2 || f.r.last(t).width != 3600 {
		t.Error("zoom at the trigger did not request step 3")
	}
}

func TestZoomFailureKeepsBitmap(t *testing.T) {
	f := newZoomFixture(t, 0)
	f.load(t)
	shown := f.vp.Bitmap()
	scale := f.vp.ZoomScale()

	f.zc.ZoomChanged(1.5)
	f.r.fail(t)
	f.q.drain()
	if !f.zc.Idle() {
		t.Error("controller not idle after failure")
	}
	if f.vp.Bitmap() != shown || f.vp.ZoomScale() != scale {
		t.Error("failure changed the display")
	}

	// the next gesture tries again
	f.zc.ZoomChanged(1.5)
	if len(f.r.calls) != 3 {
		t.Errorf("%d renders, want 3", len(f.r.calls))
	}
}

func TestZoomStopsWhenLadderExhausted(t *testing.T) {
	f := newZoomFixture(t, 0)
	f.load(t)
	f.zc.ZoomChanged(1.5)
	f.r.succeed(t)
	f.q.drain()
	for range 3 {
		f.zc.ZoomChanged(1.5)
		f.r.fail(t)
		f.q.drain()
	}
	n := len(f.r.calls)
	f.zc.ZoomChanged(1.5)
	if len(f.r.calls) != n || !f.zc.Idle() {
		t.Error("exhausted ladder requested a render")
	}
}

func TestZoomFirstBitmapWithoutPlaceholder(t *testing.T) {
	f := newZoomFixture(t, 0)
	f.zc.Show()
	if f.vp.Bitmap() != nil {
		t.Fatal("something displayed before rendering")
	}
	f.zc.ZoomChanged(1.2)
	f.r.succeed(t)
	f.q.drain()

	main := f.c.Slot().Image()
	if f.vp.Bitmap() != main {
		t.Fatal("bitmap not displayed")
	}
	want := FitScale(f.vp.Size(), main)
	if math.Abs(f.vp.ZoomScale()-want) > eps {
		t.Errorf("zoom scale = %g, want fit scale %g", f.vp.ZoomScale(), want)
	}
}

func TestZoomForeignRender(t *testing.T) {
	f := newZoomFixture(t, 600)
	f.zc.Show()

	// the host asks the coordinator directly
	f.c.RequestNextResolution(nil)
	f.r.succeed(t)
	f.q.drain()

	main := f.c.Slot().Image()
	if f.vp.Bitmap() != main {
		t.Fatal("bitmap not displayed")
	}
	if f.c.Slot().onAvailable != nil {
		t.Error("one-shot callback still registered")
	}
	if lo, _ := f.vp.ZoomBounds(); f.vp.ZoomScale() != lo {
		t.Error("new bitmap not zoomed out")
	}
}

func TestDoubleTapLadder(t *testing.T) {
	f := newZoomFixture(t, 0)
	f.load(t)
	f.vp.OnZoom = nil

	s0 := f.vp.ZoomScale()
	if math.Abs(s0-1.0/3) > eps {
		t.Fatalf("fit scale = %g, want 1/3", s0)
	}

	// phone ladder after step 0: headroom 3
	tap := vec.Vec2{X: 200, Y: 300}
	f.zc.DoubleTap(tap)
	if s := f.vp.ZoomScale(); math.Abs(s-3) > eps {
		t.Errorf("zoom scale = %g, want 3", s)
	}
	if _, hi := f.vp.ZoomBounds(); hi != 3 {
		t.Errorf("max zoom = %g, want 3", hi)
	}
	// the tapped point is now in the middle of the view
	center := f.zc.toBitmap(vec.Vec2{X: 200, Y: 300})
	if math.Abs(center.X-600) > 1e-6 || math.Abs(center.Y-900) > 1e-6 {
		t.Errorf("view centered on %v, want {600 900}", center)
	}

	f.zc.DoubleTap(tap)
	if s := f.vp.ZoomScale(); math.Abs(s-s0) > eps {
		t.Errorf("second double tap: zoom scale = %g, want %g", s, s0)
	}
}

func TestDoubleTapFullyClimbed(t *testing.T) {
	f := newZoomFixture(t, 0)
	f.load(t)
	for range 2 {
		f.zc.ZoomChanged(1.5)
		f.r.succeed(t)
		f.q.drain()
	}
	f.vp.OnZoom = nil
	f.vp.SetZoomScale(0.5)

	f.zc.DoubleTap(vec.Vec2{X: 10, Y: 10})
	lo, _ := f.vp.ZoomBounds()
	if f.vp.ZoomScale() != lo {
		t.Errorf("zoom scale = %g, want minimum %g", f.vp.ZoomScale(), lo)
	}
}

// plainSource is a HighResSource without a ladder.
type plainSource struct {
	slot     *Slot
	requests int
	stopped  bool
}

func (p *plainSource) Slot() *Slot { return p.slot }

func (p *plainSource) RequestNextResolution(done func(bool)) {
	p.requests++
	done(false)
}

func (p *plainSource) Stop() { p.stopped = true }

func TestDoubleTapWithoutLadder(t *testing.T) {
	src := &plainSource{slot: NewSlot(nil)}
	src.slot.SetImage(bitmap(400))
	vp := NewHeadlessViewport(400, 600)
	zc, err := NewZoomController(vp, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	zc.Show()
	vp.SetZoomBounds(1, 5)

	zc.DoubleTap(vec.Vec2{X: 100, Y: 100})
	if s := vp.ZoomScale(); s != 2 {
		t.Errorf("zoom scale = %g, want 2", s)
	}
	if _, hi := vp.ZoomBounds(); hi != 5 {
		t.Errorf("max zoom = %g, not restored to 5", hi)
	}

	// without a ladder, every zoom past the trigger asks again
	zc.ZoomChanged(1.5)
	zc.ZoomChanged(1.5)
	if src.requests != 2 {
		t.Errorf("%d requests, want 2", src.requests)
	}
}

func TestTap(t *testing.T) {
	var gotX, gotY float64
	src := &plainSource{slot: NewSlot(nil)}
	src.slot.SetImage(bitmap(800))
	vp := NewHeadlessViewport(400, 600)
	zc, err := NewZoomController(vp, src, &ZoomOptions{
		OnTap: func(x, y float64) { gotX, gotY = x, y },
	})
	if err != nil {
		t.Fatal(err)
	}
	zc.Show() // scale 0.5, the page fills the view width

	zc.Tap(vec.Vec2{X: 100, Y: 400})
	if math.Abs(gotX-0.25) > eps || math.Abs(gotY-400.0/(0.5*1066)) > eps {
		t.Errorf("tap at (%g, %g), want (0.25, %g)", gotX, gotY, 400.0/533)
	}
}

func TestResize(t *testing.T) {
	f := newZoomFixture(t, 0)
	f.load(t)
	f.vp.Resize(800, 600)
	f.zc.Resize()
	lo, _ := f.vp.ZoomBounds()
	if math.Abs(lo-600.0/1600) > eps {
		t.Errorf("min zoom = %g, want %g", lo, 600.0/1600)
	}
	if f.vp.ZoomScale() != lo {
		t.Error("zoomed-out view did not stay zoomed out")
	}
}

func TestTeardown(t *testing.T) {
	f := newZoomFixture(t, 300)
	f.zc.Show()
	f.zc.ZoomChanged(1.5)
	f.zc.Teardown()
	f.zc.Teardown()

	f.r.succeed(t)
	f.q.drain()
	if !f.c.Stopped() || f.c.Slot().IsAvailable() {
		t.Error("coordinator not stopped")
	}
	if f.vp.Bitmap() != nil {
		t.Error("bitmap still displayed")
	}
	if f.c.Slot().onAvailable != nil {
		t.Error("callback still registered")
	}

	f.zc.ZoomChanged(1.5)
	f.zc.DoubleTap(vec.Vec2{})
	f.zc.Show()
	if len(f.r.calls) != 1 || f.vp.Bitmap() != nil {
		t.Error("events processed after teardown")
	}
}

func TestTriggerValidation(t *testing.T) {
	vp := NewHeadlessViewport(1, 1)
	src := &plainSource{slot: NewSlot(nil)}
	if _, err := NewZoomController(vp, src, &ZoomOptions{TriggerZoom: 0.9}); err == nil {
		t.Error("trigger zoom below 1 accepted")
	}
}

// TestZoomDuringHostRender zooms in while a render started by the host is
// still running.  The controller must stay idle and keep reacting to zoom
// changes afterwards.
func TestZoomDuringHostRender(t *testing.T) {
	f := newZoomFixture(t, 0)
	f.load(t)

	var hostDone results
	f.c.RequestHigherResolution(hostDone.done)
	f.vp.SetZoomScale(1.2)
	if !f.zc.Idle() {
		t.Error("controller waits for a request the coordinator ignored")
	}
	if len(f.r.calls) != 2 {
		t.Fatalf("%d renders, want 2", len(f.r.calls))
	}

	f.r.succeed(t)
	f.q.drain()
	if len(hostDone) != 1 || !hostDone[0] {
		t.Errorf("host completion %v, want [true]", hostDone)
	}
	if !f.zc.Idle() {
		t.Fatal("controller not idle after the host render")
	}

	f.vp.SetZoomScale(1.5)
	if len(f.r.calls) != 3 || f.zc.Idle() {
		t.Error("zooming in after the host render did not request a render")
	}
}

func TestReplaceSmallPlaceholder(t *testing.T) {
	f := newZoomFixture(t, 100)
	f.zc.Show()
	if s := f.vp.ZoomScale(); s != 1 {
		t.Fatalf("placeholder scale = %g, want 1", s)
	}

	f.zc.Start()
	f.r.succeed(t)
	f.q.drain()

	// 100/1200 is below the fit scale of the new bitmap
	if s := f.vp.ZoomScale(); math.Abs(s-1.0/3) > eps {
		t.Errorf("scale = %g, want 1/3", s)
	}
	if w := f.vp.ContentSize().X; math.Abs(w-400) > eps {
		t.Errorf("content width = %g, want 400", w)
	}
	if !f.zc.Idle() {
		t.Error("controller not idle")
	}
}
