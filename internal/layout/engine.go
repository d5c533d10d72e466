package layout

import (
	"strings"

	"go.uber.org/zap"
)

// Config fixes the page geometry the engine flows content into.
type Config struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	LineHeight float64
}

// A4 page geometry in points, the default for every generated document.
var A4 = Config{
	PageWidth:  595.28,
	PageHeight: 841.89,
	Margin:     40,
	LineHeight: 14,
}

// TextStyle selects font styling for a block of text.
type TextStyle struct {
	FontSize float64
	Bold     bool
	Align    string // "L" (default), "C", "R"
}

// Block is one paragraph in a content stream, used by TwoColumn.
type Block struct {
	Text    string
	Style   TextStyle
	Spacing float64 // vertical gap after the block
}

// Engine is a cursor-based flow layer over a Canvas: content is written top
// to bottom, the cursor advances, and a page break fires exactly when the
// next piece would cross the bottom margin.
type Engine struct {
	canvas Canvas
	cfg    Config
	y      float64
	pages  int
	logger *zap.Logger
}

// NewEngine creates an engine over the given canvas. No page exists until
// StartDocument is called.
func NewEngine(canvas Canvas, cfg Config, logger *zap.Logger) *Engine {
	return &Engine{canvas: canvas, cfg: cfg, logger: logger}
}

// StartDocument opens the first page and places the cursor at the top margin.
func (e *Engine) StartDocument() {
	e.canvas.AddPage()
	e.pages = 1
	e.y = e.cfg.Margin
}

// CursorY returns the current vertical cursor position.
func (e *Engine) CursorY() float64 { return e.y }

// SetCursorY moves the cursor to an absolute position on the current page.
func (e *Engine) SetCursorY(y float64) { e.y = y }

// PageCount reports how many pages have been started.
func (e *Engine) PageCount() int { return e.pages }

// Margin returns the configured page margin.
func (e *Engine) Margin() float64 { return e.cfg.Margin }

// LineHeight returns the configured line height.
func (e *Engine) LineHeight() float64 { return e.cfg.LineHeight }

// ContentWidth is the usable width between the side margins.
func (e *Engine) ContentWidth() float64 {
	return e.cfg.PageWidth - 2*e.cfg.Margin
}

// Measure returns the rendered width of text at the given font size.
func (e *Engine) Measure(text string, fontSize float64) float64 {
	return e.canvas.Measure(text, fontSize)
}

// Wrap splits text into lines no wider than maxWidth using greedy word
// wrapping. Words are never split: a single word wider than maxWidth is
// placed alone on its own line, the one case a returned line may exceed the
// limit.
func (e *Engine) Wrap(text string, maxWidth, fontSize float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if e.canvas.Measure(candidate, fontSize) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// CheckPageBreak starts a new page iff requiredHeight would push the cursor
// past the bottom margin, and reports whether it did. Content that lands
// exactly on the boundary does not break.
func (e *Engine) CheckPageBreak(requiredHeight float64) bool {
	if e.y+requiredHeight <= e.cfg.PageHeight-e.cfg.Margin {
		return false
	}
	e.canvas.AddPage()
	e.pages++
	e.y = e.cfg.Margin
	return true
}

// TextLine writes a single pre-wrapped line at the cursor and advances it.
func (e *Engine) TextLine(text string, style TextStyle) {
	e.CheckPageBreak(e.cfg.LineHeight)
	e.drawLineAt(e.cfg.Margin, e.y, e.ContentWidth(), text, style)
	e.y += e.cfg.LineHeight
}

// Paragraph wraps text to the content width and writes it line by line, page
// breaking as needed.
func (e *Engine) Paragraph(text string, style TextStyle) {
	for _, line := range e.Wrap(text, e.ContentWidth(), style.FontSize) {
		e.TextLine(line, style)
	}
}

// Spacer advances the cursor by h without drawing.
func (e *Engine) Spacer(h float64) {
	e.y += h
}

// Rule draws a horizontal rule across the content width at the cursor.
func (e *Engine) Rule() {
	e.canvas.SetDrawGray(0.5)
	e.canvas.Line(e.cfg.Margin, e.y, e.cfg.PageWidth-e.cfg.Margin, e.y)
	e.y += e.cfg.LineHeight / 2
}

// TwoColumn renders two independent content streams side by side from the
// same starting cursor, each tracked locally, then advances the shared
// cursor below the taller column plus spacing. The combined block does not
// straddle a page: a break is taken up front when the taller column would
// cross the bottom margin.
func (e *Engine) TwoColumn(left, right []Block, spacing float64) {
	gap := e.cfg.LineHeight
	colWidth := (e.ContentWidth() - gap) / 2

	leftH := e.streamHeight(left, colWidth)
	rightH := e.streamHeight(right, colWidth)
	required := leftH
	if rightH > required {
		required = rightH
	}
	e.CheckPageBreak(required)

	startY := e.y
	leftEnd := e.renderStream(left, e.cfg.Margin, startY, colWidth)
	rightEnd := e.renderStream(right, e.cfg.Margin+colWidth+gap, startY, colWidth)

	e.y = leftEnd
	if rightEnd > e.y {
		e.y = rightEnd
	}
	e.y += spacing
}

// streamHeight measures a stream without drawing it.
func (e *Engine) streamHeight(blocks []Block, width float64) float64 {
	var h float64
	for _, b := range blocks {
		h += float64(len(e.Wrap(b.Text, width, b.Style.FontSize))) * e.cfg.LineHeight
		h += b.Spacing
	}
	return h
}

// renderStream draws a stream at (x, y) with its own local cursor and
// returns the end position.
func (e *Engine) renderStream(blocks []Block, x, y, width float64) float64 {
	for _, b := range blocks {
		for _, line := range e.Wrap(b.Text, width, b.Style.FontSize) {
			e.drawLineAt(x, y, width, line, b.Style)
			y += e.cfg.LineHeight
		}
		y += b.Spacing
	}
	return y
}

// drawLineAt writes one line with alignment inside the given width. The
// baseline sits near the bottom of the line box.
func (e *Engine) drawLineAt(x, y, width float64, text string, style TextStyle) {
	fontStyle := ""
	if style.Bold {
		fontStyle = "B"
	}
	e.canvas.SetFont(fontStyle, style.FontSize)

	drawX := x
	switch style.Align {
	case "C":
		drawX = x + (width-e.canvas.Measure(text, style.FontSize))/2
	case "R":
		drawX = x + width - e.canvas.Measure(text, style.FontSize)
	}
	e.canvas.Text(drawX, y+style.FontSize, text)
}
