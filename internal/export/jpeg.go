package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	"github.com/chemlabel/backend/internal/label"
)

// JPEG captures the label at the higher JPEG scale and composites it
// onto a larger white canvas, leaving a visible margin on every side.
// Returns the image bytes and the download file name.
func (e *Exporter) JPEG(ctx context.Context, st label.State) ([]byte, string, error) {
	raster, err := e.rasterizer.Render(ctx, st, e.jpegScale)
	if err != nil {
		return nil, "", err
	}

	margin := e.jpegMarginPX
	bounds := raster.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx()+margin*2, bounds.Dy()+margin*2))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	draw.Draw(canvas, bounds.Add(image.Pt(margin, margin)), raster, bounds.Min, draw.Over)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, canvas, &jpeg.Options{Quality: 100}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), fileName(st, ".jpg"), nil
}
