package layout

// Canvas is the drawing surface the flow engine writes to. The production
// implementation wraps a PDF context; tests use a fixed-metric fake so flow
// decisions (wrapping, page breaks) can be asserted without rasterizing.
type Canvas interface {
	// Measure returns the rendered width of text at the given font size, in
	// page units.
	Measure(text string, fontSize float64) float64

	// AddPage starts a new page; subsequent drawing lands there.
	AddPage()

	// SetFont selects the style ("", "B", "I", "BI") and size for Text.
	SetFont(style string, size float64)

	// Text draws a string with its baseline at (x, y).
	Text(x, y float64, text string)

	// Line draws a rule from (x1, y1) to (x2, y2).
	Line(x1, y1, x2, y2 float64)

	// Rect draws a rectangle; filled with the current fill shade when fill
	// is true, outlined otherwise.
	Rect(x, y, w, h float64, fill bool)

	// SetFillGray sets the fill shade for Rect, 0 black to 1 white.
	SetFillGray(g float64)

	// SetDrawGray sets the stroke shade for Line and outlined Rect.
	SetDrawGray(g float64)
}
