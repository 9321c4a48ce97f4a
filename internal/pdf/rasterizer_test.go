package pdf_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"slidecast-backend/internal/pdf"
)

// buildPDF writes a minimal document with blank US-letter pages and a correct xref table.
func buildPDF(pages int) []byte {
	var objects []string
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestRasterize_OnePNGPerPage(t *testing.T) {
	r := pdf.NewRasterizer(72)

	pages, err := r.Rasterize(context.Background(), buildPDF(3))
	require.NoError(t, err)
	require.Len(t, pages, 3)

	for i, page := range pages {
		img, err := png.Decode(bytes.NewReader(page))
		require.NoError(t, err, "page %d", i+1)
		assert.Equal(t, 612, img.Bounds().Dx())
		assert.Equal(t, 792, img.Bounds().Dy())
	}
}

func TestRasterize_JPEGIsSinglePage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	pages, err := pdf.NewRasterizer(72).Rasterize(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestRasterize_RejectsGarbage(t *testing.T) {
	_, err := pdf.NewRasterizer(72).Rasterize(context.Background(), []byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestRasterize_RejectsEmpty(t *testing.T) {
	_, err := pdf.NewRasterizer(72).Rasterize(context.Background(), nil)
	assert.Error(t, err)
}

func TestRasterize_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pdf.NewRasterizer(72).Rasterize(ctx, buildPDF(2))
	assert.ErrorIs(t, err, context.Canceled)
}
