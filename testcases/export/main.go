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

// Command export runs a headless zoom session for every sample page and
// writes each bitmap the session receives to a PNG file.
//
// The session starts zoomed out.  After every completed render it pinches
// to the maximum zoom, which makes the zoom controller ask for the next
// resolution, until the ladder has nothing more to offer.
//
// With the "fitz" build tag, the -pdf flag renders a page of a PDF file
// instead of the sample pages.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"seehuhn.de/go/pageview"
	"seehuhn.de/go/pageview/ladder"
	"seehuhn.de/go/pageview/raster"
	"seehuhn.de/go/pageview/testcases"
)

// maxFailures bounds the number of failed renders per page.  Below the
// retry floor, the ladder retries failed steps forever.
const maxFailures = 5

// pdfRasterizer is set when the command is built with MuPDF support.
var pdfRasterizer func(opt *raster.Options) (pageview.Rasterizer, error)

var (
	outDir    = flag.String("out", "testdata/export", "output directory")
	device    = flag.String("device", "tablet", "device class (phone or tablet)")
	baseWidth = flag.Int("width", 540, "bitmap width at ladder step 1, in pixels")
	budget    = flag.String("budget", raster.DefaultMaxBitmapBytes, "memory budget for bitmaps being rendered")
	viewW     = flag.Float64("view-width", 400, "width of the viewport")
	viewH     = flag.Float64("view-height", 600, "height of the viewport")
	pdfFile   = flag.String("pdf", "", "render a page of this PDF file (needs the fitz build tag)")
	pdfPage   = flag.Int("page", 1, "page number for -pdf")
	verbose   = flag.Bool("v", false, "log render decisions")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	pageview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "export:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	class, err := ladder.ParseDeviceClass(*device)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return err
	}
	rOpt := &raster.Options{MaxBitmapBytes: *budget}
	cOpt := pageview.Options{BaseWidth: *baseWidth, DeviceClass: class}

	if *pdfFile != "" {
		if pdfRasterizer == nil {
			return fmt.Errorf("built without MuPDF support, rebuild with -tags fitz")
		}
		r, err := pdfRasterizer(rOpt)
		if err != nil {
			return err
		}
		src := raster.PDFPage{File: *pdfFile, Index: *pdfPage - 1}
		name := fmt.Sprintf("%s-p%d", filepath.Base(*pdfFile), *pdfPage)
		return export(ctx, name, src, r, cOpt)
	}

	v, err := raster.NewVector(rOpt)
	if err != nil {
		return err
	}
	for _, page := range testcases.Pages() {
		thumb, err := v.RenderPage(ctx, page, max(*baseWidth/5, 1))
		if err != nil {
			return err
		}
		opt := cOpt
		if p := raster.Placeholder(thumb, *baseWidth/10); p != nil {
			opt.Placeholder = p
		}
		if err := export(ctx, page.Name, page, v, opt); err != nil {
			return fmt.Errorf("%s: %w", page.Name, err)
		}
	}
	return nil
}

// export runs a zoom session for one page.
func export(ctx context.Context, name string, src pageview.Source, r pageview.Rasterizer, opt pageview.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := pageview.NewLoop()
	go loop.Run(ctx)
	onLoop := func(f func()) {
		done := make(chan struct{})
		loop.Post(func() {
			f()
			close(done)
		})
		<-done
	}

	results := make(chan bool, 1)
	var s *session
	var err error
	onLoop(func() { s, err = newSession(src, r, loop, &opt, results) })
	if err != nil {
		return err
	}
	defer onLoop(s.zc.Teardown)

	onLoop(func() {
		s.zc.Show()
		s.zc.Start()
	})
	failed := 0
	for {
		var ok bool
		select {
		case ok = <-results:
		case <-ctx.Done():
			return ctx.Err()
		}

		var img image.Image
		var step int
		var more bool
		onLoop(func() {
			if ok {
				img = s.c.Slot().Image()
				step, _ = s.c.Ladder().Current()
			}
			more = s.pinch()
		})
		if !ok {
			failed++
			if failed > maxFailures {
				return fmt.Errorf("giving up after %d failed renders", failed)
			}
		}
		if img != nil {
			fname := filepath.Join(*outDir, fmt.Sprintf("%s-%d-%dpx.png", name, step+1, img.Bounds().Dx()))
			if err := writePNG(fname, img); err != nil {
				return err
			}
		}
		if !more {
			return nil
		}
	}
}

// session is the page being viewed.  It forwards to a Coordinator and
// reports every completed request.
type session struct {
	c       *pageview.Coordinator
	vp      *pageview.HeadlessViewport
	zc      *pageview.ZoomController
	results chan<- bool
}

func newSession(src pageview.Source, r pageview.Rasterizer, d pageview.Dispatcher, opt *pageview.Options, results chan<- bool) (*session, error) {
	c, err := pageview.NewCoordinator(src, r, d, opt)
	if err != nil {
		return nil, err
	}
	s := &session{
		c:       c,
		vp:      pageview.NewHeadlessViewport(*viewW, *viewH),
		results: results,
	}
	s.zc, err = pageview.NewZoomController(s.vp, s, nil)
	if err != nil {
		return nil, err
	}
	s.vp.OnZoom = s.zc.ZoomChanged
	return s, nil
}

func (s *session) Slot() *pageview.Slot   { return s.c.Slot() }
func (s *session) Ladder() *ladder.Ladder { return s.c.Ladder() }
func (s *session) Stop()                  { s.c.Stop() }

func (s *session) RequestNextResolution(done func(ok bool)) {
	s.c.RequestNextResolution(func(ok bool) {
		done(ok)
		s.results <- ok
	})
}

// pinch zooms out and then in as far as possible.  The result tells
// whether this made the controller ask for a new bitmap.
func (s *session) pinch() bool {
	lo, hi := s.vp.ZoomBounds()
	s.vp.SetZoomScale(lo)
	s.vp.SetZoomScale(hi)
	return !s.zc.Idle()
}

func writePNG(fname string, img image.Image) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
