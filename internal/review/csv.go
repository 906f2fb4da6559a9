package review

import (
	"encoding/csv"
	"io"
	"strings"

	"pareto_backend/internal/models"
)

const CSVFilename = "pareto_applications.csv"

var CSVHeader = []string{"ID", "Name", "Email", "School", "Major", "Submission Date", "Status", "Flagged"}

// WriteCSV writes the header and one row per application.
func WriteCSV(w io.Writer, apps []models.Application) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for i := range apps {
		if err := cw.Write(csvRow(&apps[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(app *models.Application) []string {
	flagged := "No"
	if app.Flagged {
		flagged = "Yes"
	}
	return []string{
		app.ID,
		sanitizeCell(app.FullName()),
		sanitizeCell(app.Email),
		sanitizeCell(app.School()),
		sanitizeCell(app.Major),
		app.CreatedAt.Format("2006-01-02"),
		string(app.Status),
		flagged,
	}
}

// sanitizeCell stops spreadsheet apps from evaluating applicant text as a formula
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
