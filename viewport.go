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
	"image"
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Viewport is the zoomable view a ZoomController drives.
//
// Coordinates are in view units.  The content of the viewport is the
// bitmap, scaled by the zoom scale: one bitmap pixel covers ZoomScale view
// units.  The content offset is the position of the view's top-left corner
// within the scaled content.
type Viewport interface {
	// Size returns the size of the visible area.
	Size() vec.Vec2

	// SetBitmap replaces the displayed bitmap.  The zoom scale and
	// content offset are left unchanged.
	SetBitmap(img image.Image)

	ZoomScale() float64
	// SetZoomScale sets the zoom scale, clamped to the zoom bounds.
	SetZoomScale(s float64)

	ZoomBounds() (min, max float64)
	SetZoomBounds(min, max float64)

	ContentOffset() vec.Vec2
	SetContentOffset(off vec.Vec2)

	// ZoomToRect zooms and scrolls so that r, given in bitmap pixels,
	// fills the view as far as the zoom bounds allow.
	ZoomToRect(r rect.Rect)
}

// FitScale returns the zoom scale at which img fits into a view of the
// given size.  Bitmaps smaller than the view are not enlarged.  Without a
// bitmap, the result is 1.
func FitScale(size vec.Vec2, img image.Image) float64 {
	if img == nil {
		return 1
	}
	b := img.Bounds()
	if b.Empty() {
		return 1
	}
	sx := size.X / float64(b.Dx())
	sy := size.Y / float64(b.Dy())
	return min(sx, sy, 1)
}

// HeadlessViewport is an in-memory Viewport.  It implements the zoom and
// scroll geometry of a scroll view without drawing anything.
type HeadlessViewport struct {
	// OnZoom, if set, is called after every change of the zoom scale, in
	// the way a scroll view reports zoom changes to its delegate.
	OnZoom func(scale float64)

	size     vec.Vec2
	bitmap   image.Image
	scale    float64
	minScale float64
	maxScale float64
	offset   vec.Vec2
}

// NewHeadlessViewport returns a viewport of the given size, with zoom
// scale and zoom bounds 1.
func NewHeadlessViewport(width, height float64) *HeadlessViewport {
	return &HeadlessViewport{
		size:     vec.Vec2{X: width, Y: height},
		scale:    1,
		minScale: 1,
		maxScale: 1,
	}
}

// Size implements the [Viewport] interface.
func (v *HeadlessViewport) Size() vec.Vec2 {
	return v.size
}

// Resize changes the size of the visible area.
func (v *HeadlessViewport) Resize(width, height float64) {
	v.size = vec.Vec2{X: width, Y: height}
	v.SetContentOffset(v.offset)
}

// Bitmap returns the displayed bitmap.
func (v *HeadlessViewport) Bitmap() image.Image {
	return v.bitmap
}

// SetBitmap implements the [Viewport] interface.
func (v *HeadlessViewport) SetBitmap(img image.Image) {
	v.bitmap = img
}

// ZoomScale implements the [Viewport] interface.
func (v *HeadlessViewport) ZoomScale() float64 {
	return v.scale
}

// SetZoomScale implements the [Viewport] interface.
func (v *HeadlessViewport) SetZoomScale(s float64) {
	s = math.Max(v.minScale, math.Min(v.maxScale, s))
	if s == v.scale {
		return
	}
	v.scale = s
	v.SetContentOffset(v.offset)
	if v.OnZoom != nil {
		v.OnZoom(s)
	}
}

// ZoomBounds implements the [Viewport] interface.
func (v *HeadlessViewport) ZoomBounds() (float64, float64) {
	return v.minScale, v.maxScale
}

// SetZoomBounds implements the [Viewport] interface.
// The current zoom scale is not changed.
func (v *HeadlessViewport) SetZoomBounds(lo, hi float64) {
	v.minScale = lo
	v.maxScale = max(lo, hi)
}

// ContentOffset implements the [Viewport] interface.
func (v *HeadlessViewport) ContentOffset() vec.Vec2 {
	return v.offset
}

// SetContentOffset implements the [Viewport] interface.
// The offset is clamped so that the view stays within the content.
func (v *HeadlessViewport) SetContentOffset(off vec.Vec2) {
	content := v.ContentSize()
	v.offset = vec.Vec2{
		X: clamp(off.X, 0, math.Max(0, content.X-v.size.X)),
		Y: clamp(off.Y, 0, math.Max(0, content.Y-v.size.Y)),
	}
}

// ContentSize returns the size of the scaled bitmap.
func (v *HeadlessViewport) ContentSize() vec.Vec2 {
	if v.bitmap == nil {
		return vec.Vec2{}
	}
	b := v.bitmap.Bounds()
	return vec.Vec2{X: float64(b.Dx()) * v.scale, Y: float64(b.Dy()) * v.scale}
}

// ZoomToRect implements the [Viewport] interface.
func (v *HeadlessViewport) ZoomToRect(r rect.Rect) {
	w := r.URx - r.LLx
	h := r.URy - r.LLy
	if w <= 0 || h <= 0 {
		return
	}
	v.SetZoomScale(math.Min(v.size.X/w, v.size.Y/h))

	center := vec.Vec2{X: (r.LLx + r.URx) / 2, Y: (r.LLy + r.URy) / 2}
	v.SetContentOffset(vec.Vec2{
		X: center.X*v.scale - v.size.X/2,
		Y: center.Y*v.scale - v.size.Y/2,
	})
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
