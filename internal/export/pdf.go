package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/jung-kurt/gofpdf"

	"github.com/chemlabel/backend/internal/label"
)

// PDF captures the label at PDF scale and embeds it into a single A4
// page, sized to the raster's aspect ratio inside a fixed margin.
// Returns the document bytes and the download file name.
func (e *Exporter) PDF(ctx context.Context, st label.State) ([]byte, string, error) {
	raster, err := e.rasterizer.Render(ctx, st, e.pdfScale)
	if err != nil {
		return nil, "", err
	}

	var img bytes.Buffer
	if err := png.Encode(&img, raster); err != nil {
		return nil, "", fmt.Errorf("encode label raster: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	margin := e.pdfMarginMM
	width := pageWidth - margin*2
	bounds := raster.Bounds()
	height := width * float64(bounds.Dy()) / float64(bounds.Dx())

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("label", opts, &img)
	pdf.ImageOptions("label", margin, margin, width, height, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, "", fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), fileName(st, ".pdf"), nil
}
