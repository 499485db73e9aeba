// Package export turns a rendered label into downloadable files: a
// single-page PDF and a margin-padded JPEG.
package export

import (
	"errors"

	"github.com/chemlabel/backend/internal/label"
	"github.com/chemlabel/backend/pkg/config"
)

// ErrNoLabel means no summary is loaded, so there is nothing to
// export. Handlers treat it as a silent no-op, not a user error.
var ErrNoLabel = errors.New("no label loaded")

const fallbackName = "default-filename"

// Exporter renders session state into files.
type Exporter struct {
	rasterizer *Rasterizer

	pdfMarginMM  float64
	pdfScale     int
	jpegMarginPX int
	jpegScale    int
}

func NewExporter(rasterizer *Rasterizer, cfg config.ExportConfig) *Exporter {
	e := &Exporter{
		rasterizer:   rasterizer,
		pdfMarginMM:  cfg.PDFMarginMM,
		pdfScale:     cfg.PDFScale,
		jpegMarginPX: cfg.JPEGMarginPX,
		jpegScale:    cfg.JPEGScale,
	}
	if e.pdfMarginMM <= 0 {
		e.pdfMarginMM = 5
	}
	if e.pdfScale <= 0 {
		e.pdfScale = 3
	}
	if e.jpegMarginPX <= 0 {
		e.jpegMarginPX = 30
	}
	if e.jpegScale <= 0 {
		e.jpegScale = 4
	}
	return e
}

// fileName derives the download name from the record title, falling
// back to a fixed default when no title is known.
func fileName(st label.State, ext string) string {
	if st.Summary != nil && st.Summary.TopLevelInfo.RecordTitle != "" {
		return st.Summary.TopLevelInfo.RecordTitle + ext
	}
	return fallbackName + ext
}
