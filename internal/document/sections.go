package document

import (
	"fmt"
	"time"

	"github.com/acadops/programme-finance/internal/finance"
	"github.com/acadops/programme-finance/internal/layout"
	"github.com/acadops/programme-finance/internal/models"
)

// Shared sections used by every document builder. Each document is a
// sequence of these over the same layout engine, never a private copy of the
// flow logic.

const (
	titleSize   = 16
	headingSize = 12
	bodySize    = 10
	tableRow    = 18
)

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// letterhead draws the institution banner and document title.
func (r *Renderer) letterhead(e *layout.Engine, title string) {
	e.TextLine(r.cfg.InstitutionName, layout.TextStyle{FontSize: titleSize, Bold: true, Align: "C"})
	if r.cfg.InstitutionAddress != "" {
		e.TextLine(r.cfg.InstitutionAddress, layout.TextStyle{FontSize: bodySize, Align: "C"})
	}
	e.Spacer(4)
	e.Rule()
	e.TextLine(title, layout.TextStyle{FontSize: headingSize + 2, Bold: true, Align: "C"})
	e.Spacer(8)
}

// eventSummary writes the programme header block: title, dates, venue,
// departments.
func (r *Renderer) eventSummary(e *layout.Engine, event *models.Event) {
	e.TextLine(event.Title, layout.TextStyle{FontSize: headingSize, Bold: true})
	e.Spacer(2)
	period := fmt.Sprintf("%s to %s", formatDate(event.StartDate), formatDate(event.EndDate))
	e.TextLine("Duration: "+period, layout.TextStyle{FontSize: bodySize})
	if event.Venue != "" {
		e.TextLine("Venue: "+event.Venue, layout.TextStyle{FontSize: bodySize})
	}
	if event.Mode != "" {
		e.TextLine("Mode: "+event.Mode, layout.TextStyle{FontSize: bodySize})
	}
	for _, dept := range event.OrganizingDepartments {
		e.TextLine("Organized by: "+dept, layout.TextStyle{FontSize: bodySize})
	}
	e.Spacer(8)
}

// committeeRoster lays out coordinators in two columns, name over
// designation and department.
func (r *Renderer) committeeRoster(e *layout.Engine, event *models.Event) {
	if len(event.Coordinators) == 0 {
		return
	}
	e.TextLine("Programme Committee", layout.TextStyle{FontSize: headingSize, Bold: true})
	e.Spacer(4)

	// split the roster, not the block list, so a name never strays from its
	// detail line
	half := (len(event.Coordinators) + 1) / 2
	e.TwoColumn(
		rosterBlocks(event.Coordinators[:half]),
		rosterBlocks(event.Coordinators[half:]),
		8,
	)
}

func rosterBlocks(coordinators []models.Coordinator) []layout.Block {
	var blocks []layout.Block
	for _, c := range coordinators {
		detail := c.Designation
		if c.Department != "" {
			if detail != "" {
				detail += ", "
			}
			detail += c.Department
		}
		blocks = append(blocks, layout.Block{
			Text:  c.Name,
			Style: layout.TextStyle{FontSize: bodySize, Bold: true},
		})
		if detail != "" {
			blocks = append(blocks, layout.Block{
				Text:    detail,
				Style:   layout.TextStyle{FontSize: bodySize},
				Spacing: 4,
			})
		}
	}
	return blocks
}

// expenseTable renders the expense list with resolved amounts and a totals
// row. Without statuses the total is the planned one, every non-rejected
// line. With statuses the table belongs to a claim, whose stored total is
// the approved sum, so the totals row counts approved lines only; pending
// and rejected lines still appear, flagged, so a claim under review shows
// its full state.
func (r *Renderer) expenseTable(e *layout.Engine, items []models.ExpenseItem, includeStatus bool) error {
	width := e.ContentWidth()
	var columns []layout.Column
	if includeStatus {
		columns = []layout.Column{
			{Title: "S.No", Width: width * 0.08, Align: "C"},
			{Title: "Head of Expenditure", Width: width * 0.44},
			{Title: "Amount (Rs.)", Width: width * 0.24, Align: "R"},
			{Title: "Status", Width: width * 0.24, Align: "C"},
		}
	} else {
		columns = []layout.Column{
			{Title: "S.No", Width: width * 0.10, Align: "C"},
			{Title: "Head of Expenditure", Width: width * 0.60},
			{Title: "Amount (Rs.)", Width: width * 0.30, Align: "R"},
		}
	}

	var rows [][]string
	var total float64
	for i, item := range items {
		amount := finance.Resolve(item)
		switch {
		case item.IsRejected():
			amount = 0
		case includeStatus && !item.IsApproved():
			// shown but not yet counted
		default:
			total += amount
		}
		row := []string{fmt.Sprintf("%d", i+1), item.Category, money(amount)}
		if includeStatus {
			status := item.ItemStatus
			if item.IsRejected() && item.RejectionReason != "" {
				status = fmt.Sprintf("rejected (%s)", item.RejectionReason)
			}
			row = append(row, status)
		}
		rows = append(rows, row)
	}

	label := "Total"
	if includeStatus {
		label = "Total approved"
	}
	totals := []string{"", label, money(total)}
	if includeStatus {
		totals = append(totals, "")
	}
	return e.Table(columns, rows, totals, tableRow)
}

// incomeTable renders budget income lines with derived income figures.
func (r *Renderer) incomeTable(e *layout.Engine, lines []models.IncomeLine) error {
	width := e.ContentWidth()
	columns := []layout.Column{
		{Title: "Income Source", Width: width * 0.34},
		{Title: "Participants", Width: width * 0.16, Align: "C"},
		{Title: "Fee (Rs.)", Width: width * 0.16, Align: "R"},
		{Title: "GST %", Width: width * 0.12, Align: "C"},
		{Title: "Net Income (Rs.)", Width: width * 0.22, Align: "R"},
	}

	var rows [][]string
	total := 0.0
	for _, line := range lines {
		income, _ := finance.IncomeFor(line).Float64()
		total += income
		rows = append(rows, []string{
			line.Category,
			fmt.Sprintf("%d", line.ExpectedParticipants),
			money(line.PerParticipantAmount),
			fmt.Sprintf("%.1f", line.GSTPercentage),
			money(income),
		})
	}
	totals := []string{"Total", "", "", "", money(total)}
	return e.Table(columns, rows, totals, tableRow)
}

// signatureGrid draws signing blocks two per row: coordinators first, then
// the head of each organizing department.
func (r *Renderer) signatureGrid(e *layout.Engine, event *models.Event) {
	type signer struct{ name, role string }
	var signers []signer
	for _, c := range event.Coordinators {
		role := "Coordinator"
		if c.Designation != "" {
			role = c.Designation
		}
		signers = append(signers, signer{c.Name, role})
	}
	for _, dept := range event.OrganizingDepartments {
		signers = append(signers, signer{"Head of Department", dept})
	}
	if len(signers) == 0 {
		return
	}

	e.Spacer(24)
	for i := 0; i < len(signers); i += 2 {
		left := []layout.Block{
			{Text: "_________________________", Style: layout.TextStyle{FontSize: bodySize}},
			{Text: signers[i].name, Style: layout.TextStyle{FontSize: bodySize, Bold: true}},
			{Text: signers[i].role, Style: layout.TextStyle{FontSize: bodySize}},
		}
		var right []layout.Block
		if i+1 < len(signers) {
			right = []layout.Block{
				{Text: "_________________________", Style: layout.TextStyle{FontSize: bodySize}},
				{Text: signers[i+1].name, Style: layout.TextStyle{FontSize: bodySize, Bold: true}},
				{Text: signers[i+1].role, Style: layout.TextStyle{FontSize: bodySize}},
			}
		}
		e.TwoColumn(left, right, 16)
	}
}

// keyValue writes a label/value pair on one line.
func (r *Renderer) keyValue(e *layout.Engine, label, value string) {
	e.TextLine(fmt.Sprintf("%s: %s", label, value), layout.TextStyle{FontSize: bodySize})
}
