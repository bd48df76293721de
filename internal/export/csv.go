// Package export renders timesheet rows into the download formats the
// reporting screens offer: CSV and XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/hourkeep/hourkeep/internal/server/models"
)

// Header is the fixed column set of a timesheet export.
var Header = []string{"Date", "Employee", "Project", "Task", "Hours", "Status"}

// CSV writes the entries as comma-separated rows with a header line.
func CSV(w io.Writer, entries []*models.TimeEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write(row(e)); err != nil {
			return fmt.Errorf("csv write error: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(e *models.TimeEntry) []string {
	return []string{
		e.Date,
		e.UserName,
		e.ProjectDetails.Name,
		e.Task,
		formatHours(e.ActualHours),
		string(e.Status),
	}
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}
