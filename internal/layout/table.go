package layout

import "fmt"

// Column describes one table column. Widths are absolute page units; the
// caller apportions the content width.
type Column struct {
	Title string
	Width float64
	Align string // "L" (default), "C", "R"
}

const cellPadding = 4

// Table draws a ruled table with a shaded header, alternating row fill and
// an optional bold totals row. Before every row the engine checks for a page
// break, so a long table continues cleanly onto the next page; the header is
// redrawn on each continuation page so no page shows unlabeled figures.
//
// Returns an error when a row's cell count does not match the column count;
// nothing is drawn past the offending row in that case, and callers must
// abort the document rather than ship it.
func (e *Engine) Table(columns []Column, rows [][]string, totals []string, rowHeight float64) error {
	if len(columns) == 0 {
		return fmt.Errorf("table has no columns")
	}
	if totals != nil && len(totals) != len(columns) {
		return fmt.Errorf("totals row has %d cells, want %d", len(totals), len(columns))
	}

	e.CheckPageBreak(rowHeight * 2) // header plus at least one row together
	e.drawTableHeader(columns, rowHeight)

	for i, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("table row %d has %d cells, want %d", i, len(row), len(columns))
		}
		if e.CheckPageBreak(rowHeight) {
			e.drawTableHeader(columns, rowHeight)
		}
		fill := i%2 == 1
		e.drawTableRow(columns, row, rowHeight, fill, false)
	}

	if totals != nil {
		if e.CheckPageBreak(rowHeight) {
			e.drawTableHeader(columns, rowHeight)
		}
		e.drawTableRow(columns, totals, rowHeight, false, true)
	}
	return nil
}

func (e *Engine) drawTableHeader(columns []Column, rowHeight float64) {
	e.canvas.SetFillGray(0.85)
	e.canvas.Rect(e.cfg.Margin, e.y, e.tableWidth(columns), rowHeight, true)

	titles := make([]string, len(columns))
	for i, col := range columns {
		titles[i] = col.Title
	}
	e.drawCells(columns, titles, rowHeight, true)
	e.ruleRow(columns, rowHeight)
	e.y += rowHeight
}

func (e *Engine) drawTableRow(columns []Column, cells []string, rowHeight float64, fill, bold bool) {
	if fill {
		e.canvas.SetFillGray(0.95)
		e.canvas.Rect(e.cfg.Margin, e.y, e.tableWidth(columns), rowHeight, true)
	}
	e.drawCells(columns, cells, rowHeight, bold)
	e.ruleRow(columns, rowHeight)
	e.y += rowHeight
}

// drawCells writes one row of cell text, aligned per column and truncated by
// measurement so text never crosses a vertical rule.
func (e *Engine) drawCells(columns []Column, cells []string, rowHeight float64, bold bool) {
	fontSize := rowHeight - 2*cellPadding
	fontStyle := ""
	if bold {
		fontStyle = "B"
	}
	e.canvas.SetFont(fontStyle, fontSize)

	x := e.cfg.Margin
	baseline := e.y + rowHeight - cellPadding
	for i, col := range columns {
		text := e.fitCell(cells[i], col.Width-2*cellPadding, fontSize)
		drawX := x + cellPadding
		switch col.Align {
		case "C":
			drawX = x + (col.Width-e.canvas.Measure(text, fontSize))/2
		case "R":
			drawX = x + col.Width - cellPadding - e.canvas.Measure(text, fontSize)
		}
		e.canvas.Text(drawX, baseline, text)
		x += col.Width
	}
}

// ruleRow draws the horizontal and vertical rules around one row.
func (e *Engine) ruleRow(columns []Column, rowHeight float64) {
	e.canvas.SetDrawGray(0.3)
	right := e.cfg.Margin + e.tableWidth(columns)
	e.canvas.Line(e.cfg.Margin, e.y, right, e.y)
	e.canvas.Line(e.cfg.Margin, e.y+rowHeight, right, e.y+rowHeight)

	x := e.cfg.Margin
	for _, col := range columns {
		e.canvas.Line(x, e.y, x, e.y+rowHeight)
		x += col.Width
	}
	e.canvas.Line(right, e.y, right, e.y+rowHeight)
}

// fitCell trims cell text with an ellipsis until it measures inside the cell.
func (e *Engine) fitCell(text string, maxWidth, fontSize float64) string {
	if e.canvas.Measure(text, fontSize) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if e.canvas.Measure(candidate, fontSize) <= maxWidth {
			return candidate
		}
	}
	return string(runes)
}

func (e *Engine) tableWidth(columns []Column) float64 {
	var w float64
	for _, col := range columns {
		w += col.Width
	}
	return w
}
