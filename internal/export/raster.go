package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/chemlabel/backend/internal/label"
)

// Layout constants for the base (scale 1) canvas. The face is a fixed
// 7x13 bitmap font, so horizontal measure is advance * rune count.
const (
	baseWidth   = 600
	padX        = 16
	padY        = 20
	lineHeight  = 16
	blockGap    = 10
	charAdvance = 7
	badgeWidth  = 110
	badgeHeight = 24
	maxHeight   = 6000
)

var (
	white      = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	black      = color.RGBA{0x11, 0x11, 0x11, 0xFF}
	borderGray = color.RGBA{0xE4, 0xE4, 0xE7, 0xFF}

	toneColors = map[string]color.RGBA{
		label.ToneWarning: {0xF5, 0xA5, 0x24, 0xFF},
		label.ToneDanger:  {0xF3, 0x12, 0x60, 0xFF},
		label.ToneDefault: {0xD4, 0xD4, 0xD8, 0xFF},
	}
)

// Rasterizer draws a session's label card onto an image, the server-
// side stand-in for capturing the rendered DOM node.
type Rasterizer struct {
	loader *ImageLoader
	picto  int
}

func NewRasterizer(loader *ImageLoader, pictogramSize int) *Rasterizer {
	if pictogramSize <= 0 {
		pictogramSize = 70
	}
	return &Rasterizer{loader: loader, picto: pictogramSize}
}

// Render draws the label for st and returns it upscaled by scale.
// The summary must be loaded; callers translate ErrNoLabel into a
// silent no-op.
func (r *Rasterizer) Render(ctx context.Context, st label.State, scale int) (*image.RGBA, error) {
	if st.Summary == nil {
		return nil, ErrNoLabel
	}
	if scale < 1 {
		scale = 1
	}

	sum := st.Summary
	pictograms := r.loader.LoadAll(ctx, sum.HazardInformation)
	diamonds := r.loader.LoadAll(ctx, sum.NFPADiamonds)

	canvas := image.NewRGBA(image.Rect(0, 0, baseWidth, maxHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)

	c := &painter{canvas: canvas, y: padY}

	// Header: record title with the signal-word badge on the right.
	c.heading(sum.TopLevelInfo.RecordTitle)
	if sum.GHSInfo.SignalWord != "" {
		c.badge(sum.GHSInfo.SignalWord, toneColors[label.BadgeTone(sum.GHSInfo.SignalWord)])
	}
	c.rule()

	c.line(fmt.Sprintf("IUPAC: %s", sum.IUPACName))
	c.line(fmt.Sprintf("Pub Number: %d", sum.TopLevelInfo.RecordNumber))
	c.line(fmt.Sprintf("CAS Number: %s", sum.CASNumber))
	c.line(fmt.Sprintf("Common Name: %s", sum.CommonName))
	c.line(fmt.Sprintf("Molecular Formula: %s", sum.MolecularFormula))
	c.line(fmt.Sprintf("Molecular Weight: %v g/mol", float64(sum.MolecularWeight)))
	c.line(fmt.Sprintf("SMILES Notation: %s", sum.CanonicalSMILES))

	if sum.HazardsSummary != "" {
		c.gap()
		c.paragraph(sum.HazardsSummary)
	}

	c.gap()
	for _, key := range label.FieldKeys {
		c.line(fmt.Sprintf("%s: %s", titleCase(string(key)), st.Fields.Get(key)))
	}

	if len(sum.PhysicalDangers) > 0 {
		c.gap()
		c.heading("Physical Dangers")
		for _, danger := range sum.PhysicalDangers {
			c.bullet(danger)
		}
	}

	if len(pictograms) > 0 {
		c.gap()
		c.heading("Hazard Information")
		c.iconRow(pictograms, r.picto)
	}
	if len(diamonds) > 0 {
		c.gap()
		c.iconRow(diamonds, r.picto)
	}

	if len(sum.GHSInfo.HazardStatements) > 0 {
		c.gap()
		c.heading("GHS Hazard Statements")
		for _, statement := range sum.GHSInfo.HazardStatements {
			c.bullet(statement)
		}
	}

	if len(sum.FirstAidMeasures) > 0 {
		c.gap()
		c.heading("First Aid Measures")
		for _, measure := range sum.FirstAidMeasures {
			c.bullet(fmt.Sprintf("%s: %s", measure.Type, measure.Instruction))
		}
	}

	cropped := c.crop()
	if scale == 1 {
		return cropped, nil
	}

	b := cropped.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), cropped, b, xdraw.Src, nil)
	return out, nil
}

// painter tracks a y cursor while drawing blocks top to bottom.
type painter struct {
	canvas *image.RGBA
	y      int
}

func (p *painter) drawer(src color.Color) *font.Drawer {
	return &font.Drawer{
		Dst:  p.canvas,
		Src:  image.NewUniform(src),
		Face: basicfont.Face7x13,
	}
}

func (p *painter) text(x, y int, s string, src color.Color, bold bool) {
	d := p.drawer(src)
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
	if bold {
		// Double strike one pixel over stands in for a bold face.
		d.Dot = fixed.P(x+1, y)
		d.DrawString(s)
	}
}

func (p *painter) heading(s string) {
	p.text(padX, p.y+lineHeight-4, s, black, true)
	p.y += lineHeight + 4
}

func (p *painter) line(s string) {
	for _, part := range wrap(s, (baseWidth-2*padX)/charAdvance) {
		p.text(padX, p.y+lineHeight-4, part, black, false)
		p.y += lineHeight
	}
}

func (p *painter) paragraph(s string) {
	p.line(s)
}

func (p *painter) bullet(s string) {
	lines := wrap(s, (baseWidth-2*padX-2*charAdvance)/charAdvance)
	for i, part := range lines {
		prefix := "  "
		if i == 0 {
			prefix = "* "
		}
		p.text(padX, p.y+lineHeight-4, prefix+part, black, false)
		p.y += lineHeight
	}
}

func (p *painter) gap() {
	p.y += blockGap
}

func (p *painter) rule() {
	for x := padX; x < baseWidth-padX; x++ {
		p.canvas.SetRGBA(x, p.y, borderGray)
	}
	p.y += blockGap
}

// badge draws the signal-word chip in the top-right corner, on the
// same row as the title that heading() just advanced past.
func (p *painter) badge(word string, tone color.RGBA) {
	x0 := baseWidth - padX - badgeWidth
	y0 := p.y - lineHeight - 8
	rect := image.Rect(x0, y0, x0+badgeWidth, y0+badgeHeight)
	draw.Draw(p.canvas, rect, image.NewUniform(tone), image.Point{}, draw.Src)

	textX := x0 + (badgeWidth-len(word)*charAdvance)/2
	p.text(textX, y0+badgeHeight-8, word, white, true)
}

func (p *painter) iconRow(icons []LoadedIcon, size int) {
	x := padX
	rowTop := p.y
	rowBottom := rowTop
	for _, icon := range icons {
		if x+size > baseWidth-padX {
			x = padX
			rowTop = rowBottom + blockGap
		}
		target := image.Rect(x, rowTop, x+size, rowTop+size)
		xdraw.ApproxBiLinear.Scale(p.canvas, target, icon.Image, icon.Image.Bounds(), xdraw.Over, nil)

		caption := icon.Caption
		maxChars := size / charAdvance
		if len(caption) > maxChars && maxChars > 1 {
			caption = caption[:maxChars-1] + "…"
		}
		p.text(x, rowTop+size+lineHeight-4, caption, black, false)

		if rowTop+size+lineHeight > rowBottom {
			rowBottom = rowTop + size + lineHeight
		}
		x += size + padX
	}
	p.y = rowBottom + blockGap
}

// crop trims the working canvas to the painted height and draws the
// card border.
func (p *painter) crop() *image.RGBA {
	height := p.y + padY
	if height > maxHeight {
		height = maxHeight
	}
	out := image.NewRGBA(image.Rect(0, 0, baseWidth, height))
	draw.Draw(out, out.Bounds(), p.canvas, image.Point{}, draw.Src)

	for x := 0; x < baseWidth; x++ {
		out.SetRGBA(x, 0, borderGray)
		out.SetRGBA(x, height-1, borderGray)
	}
	for y := 0; y < height; y++ {
		out.SetRGBA(0, y, borderGray)
		out.SetRGBA(baseWidth-1, y, borderGray)
	}
	return out
}

func wrap(s string, maxChars int) []string {
	if maxChars <= 0 || len(s) <= maxChars {
		return []string{s}
	}
	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(s) {
		if current.Len() > 0 && current.Len()+1+len(word) > maxChars {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
