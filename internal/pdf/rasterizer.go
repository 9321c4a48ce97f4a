// Package pdf turns uploaded decks into per-page PNG buffers using MuPDF through go-fitz.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// ErrNoPages is returned when the document opens but has nothing to render.
var ErrNoPages = errors.New("document has no pages")

const DefaultDPI = 150.0

// Rasterizer renders every page of a document held in memory. MuPDF sniffs
// the content, so single JPEG images come back as a one-page document.
type Rasterizer struct {
	dpi     float64
	encoder png.Encoder
}

func NewRasterizer(dpi float64) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{
		dpi:     dpi,
		encoder: png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

// Rasterize returns one PNG buffer per page, in page order.
func (r *Rasterizer) Rasterize(ctx context.Context, data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to open document: empty input")
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, ErrNoPages
	}

	pages := make([][]byte, 0, pageCount)
	for n := 0; n < pageCount; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImageDPI(n, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", n+1, err)
		}

		var buf bytes.Buffer
		if err := r.encoder.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode page %d as PNG: %w", n+1, err)
		}
		pages = append(pages, buf.Bytes())
	}

	return pages, nil
}
