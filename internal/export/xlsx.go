package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hourkeep/hourkeep/internal/server/models"
)

const sheetName = "Timesheet"

// XLSX writes the entries as a single-sheet workbook with the same columns
// as the CSV export.
func XLSX(w io.Writer, entries []*models.TimeEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("xlsx sheet error: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("xlsx sheet error: %w", err)
	}

	for col, h := range Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("xlsx cell error: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("xlsx cell error: %w", err)
		}
	}

	for i, e := range entries {
		values := []any{e.Date, e.UserName, e.ProjectDetails.Name, e.Task, e.ActualHours, string(e.Status)}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("xlsx cell error: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("xlsx cell error: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write error: %w", err)
	}
	return nil
}
