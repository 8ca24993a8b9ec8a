package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"StochScan/internal/model"
)

var summaryHeader = []string{
	"Stock", "Total Trades",
	"<=5 days %", "5-10 days %", "10-20 days %", "20-30 days %", ">30 days %",
	"Never Hit %", "No Overlap %", "Partially Overlapped %", "Fully Overlapped %",
	"TargetHit & NoOverlap %",
	"Normal Score", "Bonus Points", "Weighted Score",
}

var tradesHeader = []string{
	"Entry Date", "Entry Price", "Target Price",
	"Exit Date", "Exit Hit Price", "Outcome", "Holding Days", "Overlap Type",
}

// Workbook writes one xlsx per security: a one-row "Summary" sheet plus a
// full "Trades" sheet. The file is named "{SYMBOL}_trades_{date}.xlsx";
// today is a caller-supplied label, never used for computation.
func Workbook(dir string, summary model.SecuritySummary, trades []model.Trade, today time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, summary); err != nil {
		return "", err
	}
	if err := writeTradesSheet(f, trades); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_trades_%s.xlsx", summary.Symbol, today.Format("2006-01-02"))
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func writeSummarySheet(f *excelize.File, s model.SecuritySummary) error {
	const sheet = "Summary"
	// excelize creates "Sheet1" by default; rename it.
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	c := s.Buckets
	row := []interface{}{
		s.Symbol, s.TotalTrades,
		round2(c.Within5Days), round2(c.Days5To10), round2(c.Days10To20),
		round2(c.Days20To30), round2(c.Over30Days),
		round2(c.NeverHit), round2(c.NoOverlap), round2(c.PartiallyOverlap),
		round2(c.FullyOverlap), round2(c.TargetHitNoOverlap),
		s.NormalScore, s.BonusScore, s.WeightedScore,
	}
	if err := f.SetSheetRow(sheet, "A2", &row); err != nil {
		return fmt.Errorf("write summary row: %w", err)
	}
	return nil
}

func writeTradesSheet(f *excelize.File, trades []model.Trade) error {
	const sheet = "Trades"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create trades sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &tradesHeader); err != nil {
		return fmt.Errorf("write trades header: %w", err)
	}
	for i, t := range trades {
		var exitDate, exitPrice, holdingDays interface{}
		if t.Outcome == model.OutcomeTargetHit {
			exitDate = t.ExitDate.Format("2006-01-02")
			exitPrice = t.ExitPrice
			holdingDays = t.HoldingDays
		}
		row := []interface{}{
			t.EntryDate.Format("2006-01-02"), t.EntryPrice, t.TargetPrice,
			exitDate, exitPrice, string(t.Outcome), holdingDays, string(t.Overlap),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write trade row %d: %w", i+1, err)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
