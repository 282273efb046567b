package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/go-pdf/fpdf"
)

type SummaryRenderer interface {
	RenderSummary(c model.Candidate) ([]byte, error)
}

// PDFRenderer lays out a one page candidate summary.
type PDFRenderer struct{}

var _ SummaryRenderer = PDFRenderer{}

func NewPDFRenderer() PDFRenderer {
	return PDFRenderer{}
}

func (PDFRenderer) RenderSummary(c model.Candidate) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(c.Name+" Summary"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(orNA(c.Name)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"Email: " + orNA(c.Email),
		"Phone: " + orNA(c.Phone),
		"Role: " + orNA(c.JDRole),
		"Resume: " + orNA(c.ResumeFile),
	} {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Verdict: "+strings.ToUpper(string(c.Verdict)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(80, 7, "Metric", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Value", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, m := range []struct {
		name  string
		value float64
	}{
		{"JD similarity", c.JDSimilarity},
		{"Skills match", c.SkillsMatch},
		{"Domain match", c.DomainMatch},
		{"Experience match", c.ExperienceMatch},
		{"Overall score", c.Score},
	} {
		pdf.CellFormat(80, 7, m.name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", m.value), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	section := func(title, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(text), "", "L", false)
		pdf.Ln(4)
	}
	section("Evaluator notes", c.Notes)
	section("Recruiter notes", c.RecruiterNotes)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}
	return buf.Bytes(), nil
}

// SummaryFileName is the download name for a candidate summary.
func SummaryFileName(c model.Candidate) string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = "Candidate"
	}
	return strings.ReplaceAll(name, " ", "_") + "_Summary.pdf"
}
