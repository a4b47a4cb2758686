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

// Command genpdf writes the sample pages as PDF files.
//
// With -gs, every PDF is also rendered to PNG using Ghostscript, for
// comparison with the output of the export command.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/pageview/raster"
	"seehuhn.de/go/pageview/testcases"
)

var (
	outDir = flag.String("out", "testdata/pages", "output directory")
	useGS  = flag.Bool("gs", false, "render the PDF files with Ghostscript")
	dpi    = flag.Int("dpi", 72, "resolution for -gs")
)

func main() {
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		panic(err)
	}

	for _, page := range testcases.Pages() {
		pdfPath := filepath.Join(*outDir, page.Name+".pdf")
		if err := writePDF(page, pdfPath); err != nil {
			panic(fmt.Errorf("%s: %w", page.Name, err))
		}
		if !*useGS {
			continue
		}
		pngPath := filepath.Join(*outDir, page.Name+".png")
		if err := renderPNG(pdfPath, pngPath); err != nil {
			panic(fmt.Errorf("%s: %w", page.Name, err))
		}
	}
}

func writePDF(p *raster.Page, fname string) error {
	paper := p.MediaBox
	page, err := document.CreateSinglePage(fname, &paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	for _, item := range p.Items {
		if item.Path == nil {
			continue
		}
		gray := color.DeviceGray(item.Gray)

		// stroke parameters must be set before the path is constructed
		stroke, isStroke := item.Op.(raster.Stroke)
		if isStroke {
			page.SetStrokeColor(gray)
			page.SetLineWidth(stroke.Width)
			page.SetLineCap(stroke.Cap)
			page.SetLineJoin(stroke.Join)
			if stroke.MiterLimit > 0 {
				page.SetMiterLimit(stroke.MiterLimit)
			} else {
				page.SetMiterLimit(10)
			}
		} else {
			page.SetFillColor(gray)
		}

		// PDF has no quadratic curves
		for cmd, pts := range item.Path.Iter().ToCubic() {
			switch cmd {
			case path.CmdMoveTo:
				page.MoveTo(pts[0].X, pts[0].Y)
			case path.CmdLineTo:
				page.LineTo(pts[0].X, pts[0].Y)
			case path.CmdCubeTo:
				page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
			case path.CmdClose:
				page.ClosePath()
			}
		}

		if isStroke {
			page.Stroke()
		} else {
			page.Fill()
		}
	}

	return page.Close()
}

func renderPNG(pdfPath, pngPath string) error {
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		fmt.Sprintf("-r%d", *dpi),
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
