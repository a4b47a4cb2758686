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
	"testing"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func TestFitScale(t *testing.T) {
	view := vec.Vec2{X: 400, Y: 600}
	tests := []struct {
		name string
		img  image.Image
		want float64
	}{
		{"none", nil, 1},
		{"empty", image.NewGray(image.Rectangle{}), 1},
		{"small", image.NewGray(image.Rect(0, 0, 100, 100)), 1},
		{"wide", image.NewGray(image.Rect(0, 0, 800, 100)), 0.5},
		{"tall", image.NewGray(image.Rect(0, 0, 100, 1200)), 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FitScale(view, tc.img); got != tc.want {
				t.Errorf("FitScale = %g, want %g", got, tc.want)
			}
		})
	}
}

func TestHeadlessClamping(t *testing.T) {
	v := NewHeadlessViewport(100, 100)
	v.SetBitmap(image.NewGray(image.Rect(0, 0, 400, 200)))
	v.SetZoomBounds(0.25, 2)

	var seen []float64
	v.OnZoom = func(s float64) { seen = append(seen, s) }

	v.SetZoomScale(5)
	v.SetZoomScale(5)
	v.SetZoomScale(0.1)
	if len(seen) != 2 || seen[0] != 2 || seen[1] != 0.25 {
		t.Errorf("zoom notifications %v, want [2 0.25]", seen)
	}

	v.SetZoomScale(1)
	v.SetContentOffset(vec.Vec2{X: 1000, Y: -5})
	if off := v.ContentOffset(); off != (vec.Vec2{X: 300, Y: 0}) {
		t.Errorf("offset = %v, want {300 0}", off)
	}

	// zooming out pulls the offset back into the content
	v.SetZoomScale(0.5)
	if off := v.ContentOffset(); off != (vec.Vec2{X: 100, Y: 0}) {
		t.Errorf("offset after zooming out = %v, want {100 0}", off)
	}

	v.SetZoomBounds(3, 1)
	if lo, hi := v.ZoomBounds(); lo != 3 || hi != 3 {
		t.Errorf("bounds = (%g, %g), want (3, 3)", lo, hi)
	}
}

func TestHeadlessZoomToRect(t *testing.T) {
	v := NewHeadlessViewport(200, 100)
	v.SetBitmap(image.NewGray(image.Rect(0, 0, 1000, 1000)))
	v.SetZoomBounds(0.1, 4)

	v.ZoomToRect(rect.Rect{LLx: 100, LLy: 100, URx: 300, URy: 400})
	if s := v.ZoomScale(); s != 1.0/3 {
		t.Errorf("scale = %g, want 1/3", s)
	}
	// the left edge of the content stops the centering
	wantY := 250.0/3 - 50
	if off := v.ContentOffset(); off.X != 0 || math.Abs(off.Y-wantY) > 1e-9 {
		t.Errorf("offset = %v, want {0 %g}", off, wantY)
	}

	// limited by the maximum zoom
	v.ZoomToRect(rect.Rect{LLx: 500, LLy: 500, URx: 501, URy: 501})
	if s := v.ZoomScale(); s != 4 {
		t.Errorf("scale = %g, want 4", s)
	}
	if off := v.ContentOffset(); off != (vec.Vec2{X: 1902, Y: 1952}) {
		t.Errorf("offset = %v, want {1902 1952}", off)
	}

	v.ZoomToRect(rect.Rect{})
	if s := v.ZoomScale(); s != 4 {
		t.Error("empty rectangle changed the zoom")
	}
}
