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
	"errors"
	"image"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pageview/ladder"
)

// DefaultTriggerZoom is the zoom scale from which on a ZoomController asks
// for more resolution, if ZoomOptions.TriggerZoom is not set.
const DefaultTriggerZoom = 1.1

// defaultMaxZoom bounds interactive zooming when the ladder gives no
// better limit.
const defaultMaxZoom = 2.0

// HighResSource is an image which can be asked for a better version of
// itself.  [Coordinator] implements this interface.
//
// If a HighResSource also has a method Ladder() *ladder.Ladder, the
// ZoomController uses the ladder to decide whether asking is worthwhile and
// how far the user may zoom in.
//
// If a HighResSource also has a method CanRequest() bool, the
// ZoomController only asks for more resolution while CanRequest returns
// true.  This must be provided by sources whose RequestNextResolution may
// ignore a call, for example because a render started by somebody else is
// still in flight.
type HighResSource interface {
	Slot() *Slot
	// RequestNextResolution must either ignore the call or call done
	// exactly once, on the interaction thread.
	RequestNextResolution(done func(ok bool))
	Stop()
}

type laddered interface {
	Ladder() *ladder.Ladder
}

type gated interface {
	CanRequest() bool
}

// ZoomOptions configure a ZoomController.
type ZoomOptions struct {
	// TriggerZoom is the zoom scale at or above which more resolution is
	// requested.  It must be greater than 1.  Zero selects
	// DefaultTriggerZoom.
	TriggerZoom float64

	// OnTap, if set, is called for single taps with the position of the tap
	// as a fraction of the bitmap width and height.
	OnTap func(x, y float64)
}

type zoomState int

const (
	zoomIdle zoomState = iota
	zoomAwaitingHighRes
	zoomDetached
)

// ZoomController connects a Viewport to a HighResSource.  It asks for more
// resolution when the user zooms in, swaps in new bitmaps without changing
// what the user sees, and implements double-tap zooming.
//
// The host view forwards its events to the ZoomChanged, Tap, DoubleTap,
// Resize and Teardown methods, on the interaction thread.
type ZoomController struct {
	vp      Viewport
	src     HighResSource
	ladder  *ladder.Ladder
	trigger float64
	onTap   func(x, y float64)

	state     zoomState
	displayed image.Image
}

// NewZoomController returns a controller for the given viewport and image.
// The controller does not display anything before Show is called.
func NewZoomController(vp Viewport, src HighResSource, opt *ZoomOptions) (*ZoomController, error) {
	if opt == nil {
		opt = &ZoomOptions{}
	}
	trigger := opt.TriggerZoom
	if trigger == 0 {
		trigger = DefaultTriggerZoom
	}
	if !(trigger > 1) {
		return nil, errors.New("trigger zoom must be greater than 1")
	}

	c := &ZoomController{
		vp:      vp,
		src:     src,
		trigger: trigger,
		onTap:   opt.OnTap,
	}
	if l, ok := src.(laddered); ok {
		c.ladder = l.Ladder()
	}
	lo, _ := vp.ZoomBounds()
	vp.SetZoomBounds(lo, defaultMaxZoom)
	return c, nil
}

// Idle reports whether no high-resolution request is outstanding.
func (c *ZoomController) Idle() bool {
	return c.state == zoomIdle
}

// Show displays the best available bitmap, zoomed out to fit the view.
// If only the placeholder is available, the main bitmap is shown as soon
// as it arrives.
func (c *ZoomController) Show() {
	if c.state == zoomDetached {
		return
	}
	slot := c.src.Slot()
	c.display(slot.Display())
	c.zoomOutAndCenter()
	if !slot.IsAvailable() {
		slot.OnAvailable(c.mainArrived)
	}
}

// Start asks for the first bitmap if none is available yet.
func (c *ZoomController) Start() {
	if c.state != zoomIdle || c.src.Slot().IsAvailable() {
		return
	}
	c.request()
}

// mainArrived handles bitmaps which were not requested by the controller.
// It is called at most once for each registration.
func (c *ZoomController) mainArrived() {
	if c.state != zoomIdle {
		// the completion of our own request takes over
		return
	}
	slot := c.src.Slot()
	slot.OnAvailable(nil)
	c.display(slot.Image())
	c.zoomOutAndCenter()
}

// ZoomChanged must be called whenever the zoom scale of the viewport
// changes.
func (c *ZoomController) ZoomChanged(scale float64) {
	if c.state != zoomIdle || scale < c.trigger {
		return
	}
	if c.ladder != nil {
		if _, ok := c.ladder.Next(); !ok {
			return
		}
	}
	c.request()
}

// request asks the source for the next resolution.  The controller only
// waits for an answer if the source accepts the request.
func (c *ZoomController) request() {
	if g, ok := c.src.(gated); ok && !g.CanRequest() {
		return
	}
	c.state = zoomAwaitingHighRes
	c.src.RequestNextResolution(c.highResDone)
}

func (c *ZoomController) highResDone(ok bool) {
	if c.state == zoomDetached {
		return
	}
	slot := c.src.Slot()
	if img := slot.Image(); ok && img != nil {
		c.replaceBitmap(img)
	}
	slot.OnAvailable(nil)
	c.state = zoomIdle
}

// replaceBitmap swaps in img while keeping the apparent magnification and
// the scroll position.
func (c *ZoomController) replaceBitmap(img image.Image) {
	old := c.displayed
	if old == nil || old.Bounds().Empty() {
		c.display(img)
		c.zoomOutAndCenter()
		return
	}

	offset := c.vp.ContentOffset()
	oldScale := c.vp.ZoomScale()
	c.display(img)
	newScale := float64(old.Bounds().Dx()) * oldScale / float64(img.Bounds().Dx())
	// The viewport clamps to the new minimum zoom.  If the old bitmap was
	// smaller than the view, its fit scale was capped at 1 and the
	// apparent size of the page grows here.
	c.vp.SetZoomScale(newScale)
	c.vp.SetContentOffset(offset)
	Logger().Debug("bitmap replaced",
		"oldWidth", old.Bounds().Dx(), "newWidth", img.Bounds().Dx(),
		"scale", newScale)
}

// display shows img and adjusts the minimum zoom scale to it.
func (c *ZoomController) display(img image.Image) {
	c.displayed = img
	c.vp.SetBitmap(img)
	c.updateMinimumZoom()
}

func (c *ZoomController) updateMinimumZoom() {
	lo := FitScale(c.vp.Size(), c.displayed)
	_, hi := c.vp.ZoomBounds()
	c.vp.SetZoomBounds(lo, max(hi, lo))
}

func (c *ZoomController) zoomOutAndCenter() {
	lo, _ := c.vp.ZoomBounds()
	c.vp.SetZoomScale(lo)
	c.vp.SetContentOffset(vec.Vec2{})
}

// toBitmap converts a point in view coordinates into bitmap pixels.
func (c *ZoomController) toBitmap(p vec.Vec2) vec.Vec2 {
	off := c.vp.ContentOffset()
	s := c.vp.ZoomScale()
	return vec.Vec2{X: (p.X + off.X) / s, Y: (p.Y + off.Y) / s}
}

// DoubleTap zooms in towards p, given in view coordinates, or zooms out if
// the view is already zoomed in.
//
// When zooming in, the zoom is limited by the headroom the ladder still
// offers for the current bitmap.  If the ladder has nothing more to offer,
// a double tap zooms out instead.
func (c *ZoomController) DoubleTap(p vec.Vec2) {
	if c.state == zoomDetached || c.displayed == nil {
		return
	}

	scale := c.vp.ZoomScale()
	lo, hi := c.vp.ZoomBounds()
	if scale == hi || scale >= defaultMaxZoom {
		c.vp.SetZoomScale(lo)
		return
	}

	if c.ladder != nil {
		if ratio, ok := c.ladder.NextZoomStep(); ok {
			if ratio == 1 {
				c.vp.SetZoomScale(lo)
				return
			}
			c.vp.SetZoomBounds(lo, ratio)
		}
	} else if hi > defaultMaxZoom {
		c.vp.SetZoomBounds(lo, defaultMaxZoom)
	}

	center := c.toBitmap(p)
	c.vp.ZoomToRect(rect.Rect{
		LLx: center.X - 0.5,
		LLy: center.Y - 0.5,
		URx: center.X + 0.5,
		URy: center.Y + 0.5,
	})

	if hi > defaultMaxZoom {
		lo, _ := c.vp.ZoomBounds()
		c.vp.SetZoomBounds(lo, hi)
	}
}

// Tap reports a single tap at p, given in view coordinates, to the OnTap
// callback.
func (c *ZoomController) Tap(p vec.Vec2) {
	if c.state == zoomDetached || c.onTap == nil || c.displayed == nil {
		return
	}
	b := c.displayed.Bounds()
	if b.Empty() {
		return
	}
	q := c.toBitmap(p)
	c.onTap(q.X/float64(b.Dx()), q.Y/float64(b.Dy()))
}

// Resize must be called after the size of the viewport has changed.
// If the view was zoomed out completely, it stays zoomed out.
func (c *ZoomController) Resize() {
	if c.state == zoomDetached {
		return
	}
	lo, _ := c.vp.ZoomBounds()
	wasMin := c.vp.ZoomScale() == lo
	c.updateMinimumZoom()
	lo, _ = c.vp.ZoomBounds()
	if wasMin || c.vp.ZoomScale() < lo {
		c.vp.SetZoomScale(lo)
	}
}

// Teardown must be called when the view is detached.  It stops rendering,
// releases the bitmap and ignores all further events.
func (c *ZoomController) Teardown() {
	if c.state == zoomDetached {
		return
	}
	c.state = zoomDetached
	c.src.Slot().OnAvailable(nil)
	c.src.Stop()
	c.displayed = nil
	c.vp.SetBitmap(nil)
}
