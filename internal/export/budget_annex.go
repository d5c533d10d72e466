package export

import (
	"bytes"
	"fmt"

	"github.com/acadops/programme-finance/internal/finance"
	"github.com/acadops/programme-finance/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// BudgetAnnexExporter writes the budget annexure as a spreadsheet for the
// finance office, from the same reconciled record the PDF renderers read.
type BudgetAnnexExporter struct {
	institutionName string
	logger          *zap.Logger
}

// NewBudgetAnnexExporter creates a new exporter
func NewBudgetAnnexExporter(institutionName string, logger *zap.Logger) *BudgetAnnexExporter {
	return &BudgetAnnexExporter{
		institutionName: institutionName,
		logger:          logger,
	}
}

// Export builds the workbook fully in memory and returns its bytes; on any
// failure no bytes are returned.
func (x *BudgetAnnexExporter) Export(event *models.Event) ([]byte, string, error) {
	if event.BudgetBreakdown == nil {
		return nil, "", fmt.Errorf("event %s has no budget breakdown", event.ID)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Budget Annexure"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}

	x.setCell(f, sheet, "A1", x.institutionName)
	x.setCell(f, sheet, "A2", event.Title)
	x.setCell(f, sheet, "A3", fmt.Sprintf("%s to %s",
		event.StartDate.Format("02-01-2006"), event.EndDate.Format("02-01-2006")))

	row := 5
	x.setCell(f, sheet, cell("A", row), "A. Income")
	row++
	for _, h := range []struct{ col, title string }{
		{"A", "Source"}, {"B", "Participants"}, {"C", "Fee"}, {"D", "GST %"}, {"E", "Net Income"},
	} {
		x.setCell(f, sheet, cell(h.col, row), h.title)
	}
	row++

	incomeTotal := 0.0
	for _, line := range event.BudgetBreakdown.Income {
		income, _ := finance.IncomeFor(line).Float64()
		incomeTotal += income
		x.setCell(f, sheet, cell("A", row), line.Category)
		x.setCell(f, sheet, cell("B", row), line.ExpectedParticipants)
		x.setCell(f, sheet, cell("C", row), line.PerParticipantAmount)
		x.setCell(f, sheet, cell("D", row), line.GSTPercentage)
		x.setCell(f, sheet, cell("E", row), income)
		row++
	}
	x.setCell(f, sheet, cell("A", row), "Total")
	x.setCell(f, sheet, cell("E", row), incomeTotal)
	row += 2

	x.setCell(f, sheet, cell("A", row), "B. Expenditure")
	row++
	x.setCell(f, sheet, cell("A", row), "Head")
	x.setCell(f, sheet, cell("B", row), "Amount")
	x.setCell(f, sheet, cell("C", row), "Status")
	row++

	expenseTotal := 0.0
	for _, item := range event.BudgetBreakdown.Expenses {
		amount := finance.Resolve(item)
		if item.IsRejected() {
			amount = 0
		} else {
			expenseTotal += amount
		}
		x.setCell(f, sheet, cell("A", row), item.Category)
		x.setCell(f, sheet, cell("B", row), amount)
		x.setCell(f, sheet, cell("C", row), item.ItemStatus)
		row++
	}
	x.setCell(f, sheet, cell("A", row), "Total")
	x.setCell(f, sheet, cell("B", row), expenseTotal)
	row++
	if event.BudgetBreakdown.UniversityOverhead != nil {
		x.setCell(f, sheet, cell("A", row), "University overhead")
		x.setCell(f, sheet, cell("B", row), *event.BudgetBreakdown.UniversityOverhead)
		row++
	}
	x.setCell(f, sheet, cell("A", row), "Total expenditure")
	x.setCell(f, sheet, cell("B", row), event.BudgetBreakdown.TotalExpenditure)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	fileName := fmt.Sprintf("%s-budget-annex.xlsx", event.ID)
	x.logger.Info("Budget annex exported",
		zap.String("event_id", event.ID),
		zap.Int("size_bytes", buf.Len()))
	return buf.Bytes(), fileName, nil
}

func (x *BudgetAnnexExporter) setCell(f *excelize.File, sheet, ref string, value interface{}) {
	if err := f.SetCellValue(sheet, ref, value); err != nil {
		x.logger.Warn("Failed to set cell", zap.String("ref", ref), zap.Error(err))
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
