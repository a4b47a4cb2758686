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
	"image"
	"log/slog"
	"math"

	"seehuhn.de/go/pageview/ladder"
)

// DefaultBaseWidth is the base width in pixels used when Options.BaseWidth
// is not set.  This is the pixel width of a typical phone screen.
const DefaultBaseWidth = 1080

// Options configure a Coordinator.  The zero value, or a nil pointer,
// selects the defaults.
type Options struct {
	// BaseWidth is the width in device pixels of a bitmap at ladder step 1,
	// normally the pixel width of the screen.
	BaseWidth int

	// Policy overrides the ladder policy selected by DeviceClass.
	Policy *ladder.Policy

	// DeviceClass selects the built-in ladder policy.
	DeviceClass ladder.DeviceClass

	// Placeholder is shown until the first bitmap has been rendered.
	Placeholder image.Image
}

// Coordinator renders one page at increasing resolutions.
//
// The Coordinator owns a [Slot], which holds the best bitmap rendered so
// far, and a [ladder.Ladder], which decides the next resolution.  Only one
// render is in flight at a time.  After Stop, results still arriving from
// the rasterizer are discarded.
//
// All methods must be called on the interaction thread.
type Coordinator struct {
	src       Source
	raster    Rasterizer
	post      Dispatcher
	baseWidth int

	slot   *Slot
	ladder *ladder.Ladder

	ctx    context.Context
	cancel context.CancelFunc

	inFlight   bool
	stopped    bool
	generation uint64 // incremented whenever the bitmap is discarded
}

// NewCoordinator returns a Coordinator which renders src using r and
// delivers results through d.
func NewCoordinator(src Source, r Rasterizer, d Dispatcher, opt *Options) (*Coordinator, error) {
	if opt == nil {
		opt = &Options{}
	}

	var l *ladder.Ladder
	if opt.Policy != nil {
		var err error
		l, err = ladder.New(*opt.Policy)
		if err != nil {
			return nil, err
		}
	} else {
		l = ladder.ForDevice(opt.DeviceClass)
	}

	baseWidth := opt.BaseWidth
	if baseWidth <= 0 {
		baseWidth = DefaultBaseWidth
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		src:       src,
		raster:    r,
		post:      d,
		baseWidth: baseWidth,
		slot:      NewSlot(opt.Placeholder),
		ladder:    l,
		ctx:       ctx,
		cancel:    cancel,
	}
	return c, nil
}

// log returns the current package logger, annotated with the page.
func (c *Coordinator) log() *slog.Logger {
	return Logger().With("page", c.src.String())
}

// Slot returns the slot holding the page bitmap.
func (c *Coordinator) Slot() *Slot {
	return c.slot
}

// Ladder returns the resolution ladder of the page.
func (c *Coordinator) Ladder() *ladder.Ladder {
	return c.ladder
}

// Stopped reports whether Stop has been called.
func (c *Coordinator) Stopped() bool {
	return c.stopped
}

// InFlight reports whether a render is currently outstanding.
func (c *Coordinator) InFlight() bool {
	return c.inFlight
}

// CanRequest reports whether RequestNextResolution would start a render.
func (c *Coordinator) CanRequest() bool {
	if c.stopped || c.inFlight {
		return false
	}
	_, ok := c.ladder.Next()
	return ok
}

// RequestNextResolution renders the next step of the ladder.
//
// If the coordinator is stopped or a render is already in flight, the call
// does nothing and done is never called.  If the ladder has nothing more to
// offer, done(false) is called immediately.  Otherwise done is called on the
// interaction thread once the render has finished, with true if a new
// bitmap has been stored in the slot.
//
// done may be nil.
func (c *Coordinator) RequestNextResolution(done func(ok bool)) {
	if c.stopped || c.inFlight {
		return
	}
	if done == nil {
		done = func(bool) {}
	}

	step, ok := c.ladder.Next()
	if !ok {
		if c.ladder.Exhausted() {
			c.log().Debug("ladder exhausted", "failures", c.ladder.Failures())
		}
		done(false)
		return
	}

	c.inFlight = true
	gen := c.generation
	width := int(math.Round(float64(c.baseWidth) * step))
	c.log().Debug("render requested", "step", step, "width", width)

	c.raster.Render(c.ctx, c.src, width, func(img image.Image, err error) {
		c.post.Post(func() {
			c.finish(gen, step, img, err, done)
		})
	})
}

// finish runs on the interaction thread.
func (c *Coordinator) finish(gen uint64, step float64, img image.Image, err error, done func(bool)) {
	if c.stopped {
		c.log().Debug("render result discarded", "step", step)
		return
	}
	c.inFlight = false
	if gen != c.generation {
		// The bitmap was invalidated while rendering.
		c.log().Debug("stale render result discarded", "step", step)
		done(false)
		return
	}

	if err != nil || img == nil || img.Bounds().Empty() {
		c.ladder.RecordFailure()
		c.log().Debug("render failed", "step", step, "failures", c.ladder.Failures(), "error", err)
		if c.ladder.Exhausted() {
			c.log().Info("giving up on higher resolution", "step", step)
		}
		done(false)
		return
	}

	c.ladder.RecordSuccess()
	c.slot.SetImage(img)
	c.log().Debug("render succeeded", "step", step, "width", img.Bounds().Dx())
	done(true)
}

// Stop ends rendering for this page and releases the bitmap.
// Results of a render in flight are discarded when they arrive.
// Stop can be called any number of times.
func (c *Coordinator) Stop() {
	if !c.stopped {
		c.log().Debug("stopped", "inFlight", c.inFlight)
	}
	c.stopped = true
	c.cancel()
	c.slot.Clear()
	c.ladder.Reset()
}

// Invalidate discards the current bitmap and starts the ladder again from
// the bottom.  The result of a render in flight is discarded when it
// arrives, and its completion reports false.  No new render can start before
// then.  Invalidate does nothing after Stop.
func (c *Coordinator) Invalidate() {
	if c.stopped {
		return
	}
	c.generation++
	c.slot.Clear()
	c.ladder.Reset()
}

// Display returns the main bitmap if available, otherwise the placeholder.
func (c *Coordinator) Display() image.Image {
	return c.slot.Display()
}

// NotifyWhenAvailable registers f to be called when a new bitmap arrives,
// replacing any earlier registration.
func (c *Coordinator) NotifyWhenAvailable(f func()) {
	c.slot.OnAvailable(f)
}

// RequestHigherResolution is the same as RequestNextResolution.
func (c *Coordinator) RequestHigherResolution(done func(ok bool)) {
	c.RequestNextResolution(done)
}

// Teardown is the same as Stop.
func (c *Coordinator) Teardown() {
	c.Stop()
}
