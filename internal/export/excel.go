package export

import (
	"fmt"
	"io"

	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/xuri/excelize/v2"
)

const candidatesSheet = "Candidates"

// WriteXLSX writes one sheet with a styled header row and numeric score cells.
func WriteXLSX(w io.Writer, candidates []model.Candidate) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", candidatesSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for i, col := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(candidatesSheet, cell, col); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(candidatesSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, c := range candidates {
		values := []any{
			c.Name, c.Email, c.Phone,
			c.JDSimilarity, c.SkillsMatch, c.DomainMatch, c.ExperienceMatch, c.Score,
			string(c.Verdict), c.Notes, c.RecruiterNotes, c.ResumeFile, c.JDRole,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(candidatesSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	_ = f.SetColWidth(candidatesSheet, "A", "B", 28)
	_ = f.SetColWidth(candidatesSheet, "J", "K", 50)

	_, err = f.WriteTo(w)
	return err
}
