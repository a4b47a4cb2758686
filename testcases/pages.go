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

// Package testcases provides sample pages for tests, benchmarks and the
// commands in the subdirectories.
package testcases

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/pageview/raster"
)

// A4 is the media box of an A4 page, in PDF points.
var A4 = pdf.Rectangle{URx: 595, URy: 842}

// Pages returns freshly built sample pages, sorted by name.
func Pages() []*raster.Page {
	return []*raster.Page{
		curves(),
		grid(),
		shapes(),
		strokes(),
	}
}

// Page returns the sample page with the given name.
func Page(name string) (*raster.Page, bool) {
	for _, p := range Pages() {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// shapes has filled areas with straight and curved outlines.
func shapes() *raster.Page {
	fill := raster.Fill{}
	return &raster.Page{
		Name:     "shapes",
		MediaBox: A4,
		Items: []raster.Item{
			{Path: rectangle(&path.Data{}, 50, 592, 545, 792), Gray: 0.85, Op: fill},
			{Path: star(&path.Data{}, 170, 692, 90), Gray: 0, Op: fill},
			{Path: ellipse(&path.Data{}, 420, 692, 100, 70), Gray: 0.4, Op: fill},
			{Path: ring(&path.Data{}, 297, 421, 180, 120), Gray: 0.2, Op: fill},
			{Path: star(&path.Data{}, 297, 421, 100), Gray: 0.6, Op: fill},
			{Path: rectangle(rectangle(&path.Data{}, 50, 50, 250, 200), 345, 50, 545, 200), Gray: 0.3, Op: fill},
		},
	}
}

// strokes shows all combinations of line caps and line joins.
func strokes() *raster.Page {
	caps := []graphics.LineCapStyle{graphics.LineCapButt, graphics.LineCapRound, graphics.LineCapSquare}
	joins := []graphics.LineJoinStyle{graphics.LineJoinMiter, graphics.LineJoinRound, graphics.LineJoinBevel}

	page := &raster.Page{Name: "strokes", MediaBox: A4}
	for i, c := range caps {
		y := 780 - 40*float64(i)
		page.Items = append(page.Items, raster.Item{
			Path: line(80, y, 515, y),
			Op:   raster.Stroke{Width: 20, Cap: c, Join: graphics.LineJoinMiter},
		})
	}
	for i, j := range joins {
		y := 560 - 130*float64(i)
		page.Items = append(page.Items, raster.Item{
			Path: zigzag(80, 515, y, 40, 6),
			Gray: 0.25,
			Op:   raster.Stroke{Width: 14, Cap: graphics.LineCapButt, Join: j, MiterLimit: 4},
		})
	}
	page.Items = append(page.Items, raster.Item{
		Path: rectangle(&path.Data{}, 60, 60, 535, 180),
		Gray: 0.5,
		Op:   raster.Stroke{Width: 0.5},
	})
	return page
}

// curves has stroked Bézier curves of both kinds.
func curves() *raster.Page {
	return &raster.Page{
		Name:     "curves",
		MediaBox: A4,
		Items: []raster.Item{
			{Path: spiral(297, 560, 5, 220, 6), Op: raster.Stroke{Width: 3, Cap: graphics.LineCapRound, Join: graphics.LineJoinRound}},
			{Path: wave(60, 535, 200, 40, 8), Gray: 0.3, Op: raster.Stroke{Width: 6, Cap: graphics.LineCapRound, Join: graphics.LineJoinRound}},
			{Path: ellipse(&path.Data{}, 297, 90, 200, 40), Gray: 0.5, Op: raster.Stroke{Width: 2}},
		},
	}
}

// grid is a landscape page full of small detail, which only becomes
// legible at high zoom.
func grid() *raster.Page {
	return &raster.Page{
		Name:     "grid",
		MediaBox: pdf.Rectangle{URx: 1190, URy: 842},
		Items: []raster.Item{
			{Path: gridPath(20, 20, 1170, 822, 60, 85, 1.5), Gray: 0.1, Op: raster.Fill{}},
		},
	}
}
