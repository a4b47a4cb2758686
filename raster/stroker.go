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
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

const defaultMiterLimit = 10

// stroker converts stroked paths into polygons for a vector.Rasterizer.
//
// All work happens in device space.  Every polygon is emitted with positive
// orientation, so that the nonzero winding rule of the rasterizer paints the
// union of the polygons.
type stroker struct {
	z          *vector.Rasterizer
	hw         float64 // half the line width, in pixels
	cap        graphics.LineCapStyle
	join       graphics.LineJoinStyle
	miterLimit float64

	pts   []vec.Vec2 // current subpath, flattened
	lines bool       // whether the current subpath has line segments
}

// newStroker prepares to stroke with op, given the scale factor from user
// space to device space.  Lines are at least one pixel wide.
func newStroker(z *vector.Rasterizer, op Stroke, scale float64) *stroker {
	miterLimit := op.MiterLimit
	if miterLimit <= 0 {
		miterLimit = defaultMiterLimit
	}
	return &stroker{
		z:          z,
		hw:         max(op.Width*scale, 1) / 2,
		cap:        op.Cap,
		join:       op.Join,
		miterLimit: miterLimit,
	}
}

func (s *stroker) stroke(p *path.Data, ctm matrix.Matrix) {
	var current, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			s.finish(false)
			current = apply(ctm, p.Coords[k])
			start = current
			s.pts = append(s.pts[:0], current)
			k++
		case path.CmdLineTo:
			current = apply(ctm, p.Coords[k])
			s.lineTo(current)
			k++
		case path.CmdQuadTo:
			c := apply(ctm, p.Coords[k])
			end := apply(ctm, p.Coords[k+1])
			flattenQuadratic(current, c, end, s.lineTo)
			current = end
			k += 2
		case path.CmdCubeTo:
			c1 := apply(ctm, p.Coords[k])
			c2 := apply(ctm, p.Coords[k+1])
			end := apply(ctm, p.Coords[k+2])
			flattenCubic(current, c1, c2, end, s.lineTo)
			current = end
			k += 3
		case path.CmdClose:
			s.finish(true)
			current = start
			s.pts = append(s.pts[:0], current)
		}
	}
	s.finish(false)
}

// lineTo extends the current subpath, dropping zero-length segments.
func (s *stroker) lineTo(v vec.Vec2) {
	s.lines = true
	if len(s.pts) > 0 && s.pts[len(s.pts)-1] == v {
		return
	}
	s.pts = append(s.pts, v)
}

// finish emits the polygons for the current subpath and clears it.
func (s *stroker) finish(closed bool) {
	pts := s.pts
	lines := s.lines
	s.pts = s.pts[:0]
	s.lines = false

	if closed && len(pts) > 1 && pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	switch len(pts) {
	case 0:
		return
	case 1:
		if lines && !closed {
			s.dot(pts[0])
		}
		return
	}

	for i := 1; i < len(pts); i++ {
		s.segment(pts[i-1], pts[i])
	}
	for i := 1; i < len(pts)-1; i++ {
		s.joinAt(pts[i], pts[i].Sub(pts[i-1]), pts[i+1].Sub(pts[i]))
	}

	n := len(pts)
	if closed {
		s.joinAt(pts[0], pts[0].Sub(pts[n-2]), pts[1].Sub(pts[0]))
		return
	}
	s.capAt(pts[0], unit(pts[0].Sub(pts[1])))
	s.capAt(pts[n-1], unit(pts[n-1].Sub(pts[n-2])))
}

// dot draws the caps of a zero-length open subpath.
func (s *stroker) dot(p vec.Vec2) {
	switch s.cap {
	case graphics.LineCapRound:
		s.circle(p)
	case graphics.LineCapSquare:
		h := s.hw
		s.polygon(
			vec.Vec2{X: p.X - h, Y: p.Y - h},
			vec.Vec2{X: p.X + h, Y: p.Y - h},
			vec.Vec2{X: p.X + h, Y: p.Y + h},
			vec.Vec2{X: p.X - h, Y: p.Y + h})
	}
}

func (s *stroker) segment(a, b vec.Vec2) {
	n := normal(b.Sub(a)).Mul(s.hw)
	s.polygon(a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
}

// capAt adds the line cap at the end point p of a subpath.  d is the unit
// vector pointing away from the line.
func (s *stroker) capAt(p, d vec.Vec2) {
	switch s.cap {
	case graphics.LineCapRound:
		s.circle(p)
	case graphics.LineCapSquare:
		n := normal(d).Mul(s.hw)
		e := d.Mul(s.hw)
		s.polygon(p.Add(n), p.Add(n).Add(e), p.Sub(n).Add(e), p.Sub(n))
	}
}

// joinAt fills the gap between two segments meeting at p.  d1 and d2 are
// the directions of the incoming and outgoing segment.
func (s *stroker) joinAt(p, d1, d2 vec.Vec2) {
	u1, u2 := unit(d1), unit(d2)
	cross := u1.X*u2.Y - u1.Y*u2.X
	dot := u1.X*u2.X + u1.Y*u2.Y
	if math.Abs(cross) < 1e-9 && dot > 0 {
		return
	}
	if s.join == graphics.LineJoinRound {
		s.circle(p)
		return
	}

	// offset points on the outer side of the turn
	side := s.hw
	if cross > 0 {
		side = -s.hw
	}
	a := p.Add(normal(u1).Mul(side))
	b := p.Add(normal(u2).Mul(side))

	if s.join == graphics.LineJoinMiter && 1+dot > 1e-12 {
		if ratio := 1 / math.Sqrt((1+dot)/2); ratio <= s.miterLimit {
			tip := p.Add(a.Sub(p).Add(b.Sub(p)).Mul(1 / (1 + dot)))
			s.polygon(p, a, tip, b)
			return
		}
	}
	s.polygon(p, a, b)
}

func (s *stroker) circle(c vec.Vec2) {
	r := s.hw
	n := min(max(int(math.Ceil(2*math.Pi*math.Sqrt(r))), 8), 256)
	pts := make([]vec.Vec2, n)
	for i := range pts {
		phi := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = vec.Vec2{X: c.X + r*math.Cos(phi), Y: c.Y + r*math.Sin(phi)}
	}
	s.polygon(pts...)
}

// polygon adds a closed polygon to the rasterizer, reversing it if needed
// so that its signed area is positive.
func (s *stroker) polygon(pts ...vec.Vec2) {
	var area float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		area += p.X*q.Y - q.X*p.Y
	}
	if area == 0 {
		return
	}
	if area < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	s.z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		s.z.LineTo(float32(p.X), float32(p.Y))
	}
	s.z.ClosePath()
}

// flattenQuadratic approximates a quadratic Bézier curve by line segments,
// calling lineTo for every segment end point.  The start point p0 is not
// emitted.
func flattenQuadratic(p0, p1, p2 vec.Vec2, lineTo func(vec.Vec2)) {
	e := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)
	n := 1
	if d := e.Length(); d > flatness {
		n = int(math.Ceil(math.Sqrt(d / flatness)))
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		lineTo(p0.Mul(u * u).Add(p1.Mul(2 * u * t)).Add(p2.Mul(t * t)))
	}
}

// flattenCubic approximates a cubic Bézier curve by line segments.  The
// number of segments follows Wang's formula.
func flattenCubic(p0, p1, p2, p3 vec.Vec2, lineTo func(vec.Vec2)) {
	d1 := p0.Sub(p1.Mul(2)).Add(p2)
	d2 := p1.Sub(p2.Mul(2)).Add(p3)
	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		n = max(int(math.Ceil(math.Sqrt(3*m/(4*flatness)))), 1)
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		lineTo(p0.Mul(u * u * u).
			Add(p1.Mul(3 * u * u * t)).
			Add(p2.Mul(3 * u * t * t)).
			Add(p3.Mul(t * t * t)))
	}
}

// normal returns v rotated by 90 degrees and scaled to unit length.
func normal(v vec.Vec2) vec.Vec2 {
	u := unit(v)
	return vec.Vec2{X: -u.Y, Y: u.X}
}

func unit(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l == 0 {
		return vec.Vec2{}
	}
	return vec.Vec2{X: v.X / l, Y: v.Y / l}
}
