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

// Package raster turns page descriptions into bitmaps for
// [seehuhn.de/go/pageview.Coordinator].
//
// [Vector] renders [Page] display lists in pure Go.  When the module is
// built with the "fitz" build tag, [Fitz] renders pages of PDF files using
// MuPDF.  Both share a memory budget: a render whose bitmap does not fit
// into the budget fails immediately with [ErrMemoryPressure], so that a
// Coordinator counts it as a failed attempt.
package raster

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics"
)

// Page is a display list for one page.  Coordinates are PDF user space
// units, with the origin in the lower-left corner of the media box.
type Page struct {
	Name     string
	MediaBox pdf.Rectangle
	Items    []Item
}

// String returns the name of the page.  This makes *Page a
// [seehuhn.de/go/pageview.Source].
func (p *Page) String() string {
	return p.Name
}

// PixelSize returns the size of a bitmap of the given width, keeping the
// aspect ratio of the media box.
func (p *Page) PixelSize(width int) (int, int, error) {
	w := p.MediaBox.URx - p.MediaBox.LLx
	h := p.MediaBox.URy - p.MediaBox.LLy
	if !(w > 0 && h > 0) {
		return 0, 0, fmt.Errorf("page %q: invalid media box %v", p.Name, p.MediaBox)
	}
	if width <= 0 {
		return 0, 0, fmt.Errorf("page %q: invalid bitmap width %d", p.Name, width)
	}
	height := max(int(math.Round(float64(width)*h/w)), 1)
	return width, height, nil
}

// Item is a path painted in a single gray level.
type Item struct {
	Path *path.Data
	Gray float64 // 0 is black, 1 is white
	Op   Operation
}

// Operation is the painting operation applied to the path of an Item.
type Operation interface {
	isOperation()
}

// Fill fills the path using the nonzero winding rule.
type Fill struct{}

func (Fill) isOperation() {}

// Stroke strokes the path.
type Stroke struct {
	Width      float64 // line width in user space units
	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64 // zero means 10, as in PDF
}

func (Stroke) isOperation() {}

// PDFPage identifies a page of a PDF file.  Pages are numbered from 0.
type PDFPage struct {
	File  string
	Index int
}

func (p PDFPage) String() string {
	return fmt.Sprintf("%s#%d", p.File, p.Index+1)
}
