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

package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pageview"
)

// flatness is the maximum distance, in pixels, between a curve and the
// polygon used to approximate it when stroking.
const flatness = 0.25

// Vector renders [*Page] sources into *image.Gray bitmaps.
type Vector struct {
	budget *budget
}

var _ pageview.Rasterizer = (*Vector)(nil)

// NewVector returns a rasterizer for display lists.
// If opt is nil, default options are used.
func NewVector(opt *Options) (*Vector, error) {
	b, err := newBudget(opt)
	if err != nil {
		return nil, err
	}
	return &Vector{budget: b}, nil
}

// Render implements the [pageview.Rasterizer] interface.
// The bitmap is drawn on a separate goroutine.  Requests which fail
// validation, and requests exceeding the memory budget, are completed
// before Render returns.
func (v *Vector) Render(ctx context.Context, src pageview.Source, width int, done func(image.Image, error)) {
	page, ok := src.(*Page)
	if !ok {
		done(nil, fmt.Errorf("%w: %s (%T)", ErrUnsupportedSource, src, src))
		return
	}
	w, h, err := page.PixelSize(width)
	if err != nil {
		done(nil, err)
		return
	}

	v.budget.run(ctx, int64(w)*int64(h), func() (image.Image, error) {
		img, err := page.draw(ctx, w, h)
		if err != nil {
			// avoid returning a typed nil
			return nil, err
		}
		return img, nil
	}, done)
}

// RenderPage draws the page synchronously, without using the memory
// budget.
func (v *Vector) RenderPage(ctx context.Context, page *Page, width int) (*image.Gray, error) {
	w, h, err := page.PixelSize(width)
	if err != nil {
		return nil, err
	}
	return page.draw(ctx, w, h)
}

// draw paints the page onto a white w×h bitmap.
func (p *Page) draw(ctx context.Context, w, h int) (*image.Gray, error) {
	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	// user space to device space, with the y-axis pointing down
	scale := float64(w) / (p.MediaBox.URx - p.MediaBox.LLx)
	ctm := matrix.Matrix{scale, 0, 0, -scale, -p.MediaBox.LLx * scale, p.MediaBox.URy * scale}

	z := vector.NewRasterizer(w, h)
	for i, item := range p.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if item.Path == nil {
			continue
		}

		z.Reset(w, h)
		switch op := item.Op.(type) {
		case Fill:
			fillPath(z, item.Path, ctm)
		case Stroke:
			s := newStroker(z, op, scale)
			s.stroke(item.Path, ctm)
		default:
			return nil, fmt.Errorf("page %q, item %d: unknown operation %T", p.Name, i, item.Op)
		}
		paint := image.NewUniform(color.Gray{Y: grayLevel(item.Gray)})
		z.Draw(img, img.Bounds(), paint, image.Point{})
	}
	return img, nil
}

// fillPath adds the outline of p to z, transformed by ctm.
func fillPath(z *vector.Rasterizer, p *path.Data, ctm matrix.Matrix) {
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			a := apply(ctm, p.Coords[k])
			z.MoveTo(float32(a.X), float32(a.Y))
			k++
		case path.CmdLineTo:
			a := apply(ctm, p.Coords[k])
			z.LineTo(float32(a.X), float32(a.Y))
			k++
		case path.CmdQuadTo:
			a := apply(ctm, p.Coords[k])
			b := apply(ctm, p.Coords[k+1])
			z.QuadTo(float32(a.X), float32(a.Y), float32(b.X), float32(b.Y))
			k += 2
		case path.CmdCubeTo:
			a := apply(ctm, p.Coords[k])
			b := apply(ctm, p.Coords[k+1])
			c := apply(ctm, p.Coords[k+2])
			z.CubeTo(float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(c.X), float32(c.Y))
			k += 3
		case path.CmdClose:
			z.ClosePath()
		}
	}
}

func apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

func grayLevel(g float64) uint8 {
	g = max(0, min(1, g))
	return uint8(g*255 + 0.5)
}
