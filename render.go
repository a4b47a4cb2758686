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

// Package pageview shows large page bitmaps in a zoomable viewport,
// rendering them at increasing resolution as the user zooms in.
//
// A [Coordinator] owns the bitmap of one page, in a [Slot], and asks a
// [Rasterizer] for the next resolution allowed by its ladder (see package
// seehuhn.de/go/pageview/ladder).  At most one render per page is in flight
// at any time.  A [ZoomController] reacts to zoom gestures on a [Viewport]
// and requests more resolution when the user zooms in far enough.
//
// All types in this package are owned by a single interaction thread,
// represented by a [Dispatcher].  Rasterizers run elsewhere and post their
// results back.
package pageview

//go:generate go run ./testcases/genpdf

import (
	"context"
	"fmt"
	"image"
)

// Source identifies the page a Rasterizer renders.  The String method is
// used in log messages.
type Source interface {
	fmt.Stringer
}

// A Rasterizer turns a page into a bitmap of the given width in pixels.
//
// Render must return quickly and call done exactly once, on any goroutine,
// when the bitmap is ready or rendering has failed.  A failed render is
// reported either with an error or with a nil image.
type Rasterizer interface {
	Render(ctx context.Context, src Source, width int, done func(image.Image, error))
}

// RasterizerFunc adapts an ordinary function to the Rasterizer interface.
type RasterizerFunc func(ctx context.Context, src Source, width int, done func(image.Image, error))

// Render implements the [Rasterizer] interface.
func (f RasterizerFunc) Render(ctx context.Context, src Source, width int, done func(image.Image, error)) {
	f(ctx, src, width, done)
}
