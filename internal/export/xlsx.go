package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/upliftlabs/insights/internal/insight"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Insights"

var headerRow = []any{"ID", "Type", "Title", "Description", "Confidence", "Impact", "Category", "Data", "Created At"}

// WriteWorkbook renders a generation run as a single-sheet xlsx workbook and
// streams it to w. The Data column carries the per-insight payload as JSON so
// spreadsheet consumers keep the structured detail.
func WriteWorkbook(w io.Writer, run *insight.Run) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, ins := range run.Insights {
		data := ""
		if len(ins.Data) > 0 {
			raw, err := json.Marshal(ins.Data)
			if err != nil {
				return fmt.Errorf("marshal insight data %s: %w", ins.ID, err)
			}
			data = string(raw)
		}
		row := []any{
			ins.ID,
			ins.Type,
			ins.Title,
			ins.Description,
			ins.Confidence,
			ins.Impact,
			ins.Category,
			data,
			ins.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
