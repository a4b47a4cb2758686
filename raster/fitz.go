//go:build fitz

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

	"github.com/gen2brain/go-fitz"

	"seehuhn.de/go/pageview"
)

// Fitz renders [PDFPage] sources using MuPDF.  The result is an
// *image.RGBA.
type Fitz struct {
	budget *budget
}

var _ pageview.Rasterizer = (*Fitz)(nil)

// NewFitz returns a rasterizer for pages of PDF files.
// If opt is nil, default options are used.
func NewFitz(opt *Options) (*Fitz, error) {
	b, err := newBudget(opt)
	if err != nil {
		return nil, err
	}
	return &Fitz{budget: b}, nil
}

// Render implements the [pageview.Rasterizer] interface.
//
// The PDF file is opened on a separate goroutine.  Once the page size is
// known, a bitmap which does not fit into the memory budget fails with
// ErrMemoryPressure without drawing anything.
func (f *Fitz) Render(ctx context.Context, src pageview.Source, width int, done func(image.Image, error)) {
	page, ok := src.(PDFPage)
	if !ok {
		done(nil, fmt.Errorf("%w: %s (%T)", ErrUnsupportedSource, src, src))
		return
	}
	if width <= 0 {
		done(nil, fmt.Errorf("%s: invalid bitmap width %d", page, width))
		return
	}

	go func() {
		img, err := f.render(ctx, page, width)
		if err != nil {
			done(nil, err)
			return
		}
		done(img, nil)
	}()
}

func (f *Fitz) render(ctx context.Context, page PDFPage, width int) (*image.RGBA, error) {
	if err := f.budget.workers.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.budget.workers.Release(1)

	doc, err := fitz.New(page.File)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", page, err)
	}
	defer doc.Close()

	bounds, err := pageBounds(doc, page)
	if err != nil {
		return nil, err
	}
	height := max(width*bounds.Dy()/bounds.Dx(), 1)
	need := 4 * int64(width) * int64(height)
	if err := f.budget.reserve(need); err != nil {
		return nil, fmt.Errorf("%s: %w", page, err)
	}
	defer f.budget.release(need)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dpi := 72 * float64(width) / float64(bounds.Dx())
	img, err := doc.ImageDPI(page.Index, dpi)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", page, err)
	}
	return img, nil
}

func pageBounds(doc *fitz.Document, page PDFPage) (image.Rectangle, error) {
	if page.Index < 0 || page.Index >= doc.NumPage() {
		return image.Rectangle{}, fmt.Errorf("%s: no such page (document has %d pages)", page, doc.NumPage())
	}
	b, err := doc.Bound(page.Index)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("%s: %w", page, err)
	}
	if b.Empty() {
		return image.Rectangle{}, fmt.Errorf("%s: empty page", page)
	}
	return b, nil
}
