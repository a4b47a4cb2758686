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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// kappa is the control point distance for approximating a quarter circle
// of radius 1 by a cubic Bézier curve.
const kappa = 0.5522847498307936

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// rectangle appends a closed rectangle to p.
func rectangle(p *path.Data, x1, y1, x2, y2 float64) *path.Data {
	return p.
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}

// star appends a five-pointed star, drawn as a single self-intersecting
// polygon.  Under the nonzero rule the center is filled.
func star(p *path.Data, cx, cy, r float64) *path.Data {
	var corners [5]vec.Vec2
	for i := range corners {
		phi := float64(i)*2*math.Pi/5 + math.Pi/2
		corners[i] = pt(cx+r*math.Cos(phi), cy+r*math.Sin(phi))
	}
	p = p.MoveTo(corners[0])
	for _, i := range []int{2, 4, 1, 3} {
		p = p.LineTo(corners[i])
	}
	return p.Close()
}

// ellipse appends an ellipse made of four cubic Bézier curves.
func ellipse(p *path.Data, cx, cy, rx, ry float64) *path.Data {
	kx := rx * kappa
	ky := ry * kappa
	return p.
		MoveTo(pt(cx+rx, cy)).
		CubeTo(pt(cx+rx, cy+ky), pt(cx+kx, cy+ry), pt(cx, cy+ry)).
		CubeTo(pt(cx-kx, cy+ry), pt(cx-rx, cy+ky), pt(cx-rx, cy)).
		CubeTo(pt(cx-rx, cy-ky), pt(cx-kx, cy-ry), pt(cx, cy-ry)).
		CubeTo(pt(cx+kx, cy-ry), pt(cx+rx, cy-ky), pt(cx+rx, cy)).
		Close()
}

// ring appends an annulus.  The inner circle runs in the opposite
// direction, so that the hole stays empty under the nonzero rule.
func ring(p *path.Data, cx, cy, outer, inner float64) *path.Data {
	p = ellipse(p, cx, cy, outer, outer)
	k := inner * kappa
	return p.
		MoveTo(pt(cx+inner, cy)).
		CubeTo(pt(cx+inner, cy-k), pt(cx+k, cy-inner), pt(cx, cy-inner)).
		CubeTo(pt(cx-k, cy-inner), pt(cx-inner, cy-k), pt(cx-inner, cy)).
		CubeTo(pt(cx-inner, cy+k), pt(cx-k, cy+inner), pt(cx, cy+inner)).
		CubeTo(pt(cx+k, cy+inner), pt(cx+inner, cy+k), pt(cx+inner, cy)).
		Close()
}

// spiral returns an open Archimedean spiral with 32 line segments per
// turn.
func spiral(cx, cy, rMin, rMax, turns float64) *path.Data {
	steps := max(int(turns*32), 8)
	total := turns * 2 * math.Pi
	growth := (rMax - rMin) / total

	p := (&path.Data{}).MoveTo(pt(cx+rMin, cy))
	for i := 1; i <= steps; i++ {
		phi := float64(i) / float64(steps) * total
		r := rMin + growth*phi
		p = p.LineTo(pt(cx+r*math.Cos(phi), cy+r*math.Sin(phi)))
	}
	return p
}

// zigzag returns an open polyline alternating between cy+amplitude and
// cy-amplitude.
func zigzag(x1, x2, cy, amplitude float64, segments int) *path.Data {
	w := (x2 - x1) / float64(segments)
	p := (&path.Data{}).MoveTo(pt(x1, cy))
	for i := 1; i <= segments; i++ {
		y := cy + amplitude
		if i%2 == 0 {
			y = cy - amplitude
		}
		p = p.LineTo(pt(x1+float64(i)*w, y))
	}
	return p
}

// line returns a single open line segment.
func line(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).MoveTo(pt(x1, y1)).LineTo(pt(x2, y2))
}

// wave returns an open curve made of quadratic Bézier arcs.
func wave(x1, x2, y, amplitude float64, arcs int) *path.Data {
	w := (x2 - x1) / float64(arcs)
	p := (&path.Data{}).MoveTo(pt(x1, y))
	for i := range arcs {
		a := amplitude
		if i%2 == 1 {
			a = -amplitude
		}
		x := x1 + float64(i)*w
		p = p.QuadTo(pt(x+w/2, y+2*a), pt(x+w, y))
	}
	return p
}

// gridPath returns rows×cols rectangles covering the given area, separated
// by gaps.
func gridPath(x1, y1, x2, y2 float64, rows, cols int, gap float64) *path.Data {
	cellW := (x2 - x1) / float64(cols)
	cellH := (y2 - y1) / float64(rows)
	p := &path.Data{}
	for row := range rows {
		for col := range cols {
			p = rectangle(p,
				x1+float64(col)*cellW+gap, y1+float64(row)*cellH+gap,
				x1+float64(col+1)*cellW-gap, y1+float64(row+1)*cellH-gap)
		}
	}
	return p
}
