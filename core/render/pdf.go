// Package render — PDF renderer.
// Captures the section as a 2x bitmap and lays it out on letter pages:
//  1. Raster capture of the visual tree at the printable width
//  2. Slice the bitmap into page-height bands
//  3. Embed each band as a high-quality JPEG at the half-inch margin
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"math"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/raster"
	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidthIn  = 8.5
	pageHeightIn = 11.0
	marginIn     = 0.5
	cssPxPerIn   = 96
	jpegQuality  = 98
)

var errNoContent = errors.New("snapshot has no content")

// PDFRenderer renders a captured section as a paginated PDF.
type PDFRenderer struct {
	Scale float64
}

// NewPDFRenderer creates a PDFRenderer capturing at 2x.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Scale: raster.DefaultOptions.Scale}
}

// Render rasterizes the snapshot and returns PDF bytes.
func (r *PDFRenderer) Render(ctx context.Context, snap *core.Snapshot) ([]byte, error) {
	if snap == nil || snap.Root == nil {
		return nil, errNoContent
	}

	contentW := pageWidthIn - 2*marginIn
	contentH := pageHeightIn - 2*marginIn

	capture, err := raster.Layout(snap.Root, raster.Options{
		Width: contentW * cssPxPerIn,
		Scale: r.Scale,
	})
	if err != nil {
		return nil, fmt.Errorf("capturing section: %w", err)
	}

	pdf := gofpdf.New("P", "in", "Letter", "")
	pdf.SetMargins(marginIn, marginIn, marginIn)
	pdf.SetAutoPageBreak(false, marginIn)
	pdf.SetTitle(snap.Meta.Label, true)
	if snap.Meta.Topic != "" {
		pdf.SetSubject(snap.Meta.Topic, true)
	}

	devicePerIn := cssPxPerIn * capture.Scale()
	pageH := int(math.Floor(contentH * devicePerIn))
	_, total := capture.Size()

	if total == 0 {
		pdf.AddPage()
	}
	for top, page := 0, 1; top < total; top, page = top+pageH, page+1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h := min(pageH, total-top)
		var img bytes.Buffer
		if err := jpeg.Encode(&img, capture.Band(top, h), &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", page, err)
		}

		name := fmt.Sprintf("page-%d", page)
		opts := gofpdf.ImageOptions{ImageType: "JPG"}
		pdf.RegisterImageOptionsReader(name, opts, &img)

		pdf.AddPage()
		pdf.ImageOptions(name, marginIn, marginIn, contentW, float64(h)/devicePerIn, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}
