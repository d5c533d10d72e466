package layout

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// PDFCanvas implements Canvas over an fpdf document. Pages are assembled
// fully in memory; Output hands back the finished bytes or an error, never a
// partial artifact.
type PDFCanvas struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
	fontSize  float64
}

// NewPDFCanvas creates an empty portrait document in points, sized from cfg.
// The engine owns all page breaking, so fpdf's automatic breaks are off.
func NewPDFCanvas(cfg Config) *PDFCanvas {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: cfg.PageWidth, Ht: cfg.PageHeight},
	})
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", 10)
	// Core fonts are cp1252; translate UTF-8 input up front.
	return &PDFCanvas{pdf: pdf, translate: pdf.UnicodeTranslatorFromDescriptor(""), fontSize: 10}
}

// Measure returns the width of text at the given size in the current font
// family, independent of the font size currently selected for drawing.
func (c *PDFCanvas) Measure(text string, fontSize float64) float64 {
	current := c.fontSize
	c.pdf.SetFontSize(fontSize)
	w := c.pdf.GetStringWidth(c.translate(text))
	c.pdf.SetFontSize(current)
	return w
}

// AddPage starts a new page.
func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
}

// SetFont selects Helvetica in the given style and size.
func (c *PDFCanvas) SetFont(style string, size float64) {
	c.pdf.SetFont("Helvetica", style, size)
	c.fontSize = size
}

// Text draws a string with its baseline at (x, y).
func (c *PDFCanvas) Text(x, y float64, text string) {
	c.pdf.Text(x, y, c.translate(text))
}

// Line draws a rule.
func (c *PDFCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

// Rect draws a rectangle, filled or outlined.
func (c *PDFCanvas) Rect(x, y, w, h float64, fill bool) {
	style := "D"
	if fill {
		style = "F"
	}
	c.pdf.Rect(x, y, w, h, style)
}

// SetFillGray sets the fill shade, 0 black to 1 white.
func (c *PDFCanvas) SetFillGray(g float64) {
	v := grayTo255(g)
	c.pdf.SetFillColor(v, v, v)
}

// SetDrawGray sets the stroke shade.
func (c *PDFCanvas) SetDrawGray(g float64) {
	v := grayTo255(g)
	c.pdf.SetDrawColor(v, v, v)
}

// Output finalizes the document and returns its bytes. Any drawing error
// fpdf accumulated surfaces here, with no bytes returned alongside it.
func (c *PDFCanvas) Output() ([]byte, error) {
	if err := c.pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf generation failed: %w", err)
	}
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func grayTo255(g float64) int {
	if g < 0 {
		g = 0
	}
	if g > 1 {
		g = 1
	}
	return int(g * 255)
}
