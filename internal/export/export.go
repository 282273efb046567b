// Package export writes a session's candidates as CSV or XLSX. Resume text is
// never exported.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fadilmartias/resume-screener/internal/model"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat defaults an empty value to CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Columns is the exported header row.
var Columns = []string{
	"name", "email", "phone",
	"jd_similarity", "skills_match", "domain_match", "experience_match", "score",
	"verdict", "notes", "recruiter_notes", "resume_file", "jd_role",
}

func row(c model.Candidate) []string {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{
		c.Name, c.Email, c.Phone,
		num(c.JDSimilarity), num(c.SkillsMatch), num(c.DomainMatch), num(c.ExperienceMatch), num(c.Score),
		string(c.Verdict), c.Notes, c.RecruiterNotes, c.ResumeFile, c.JDRole,
	}
}

func WriteCSV(w io.Writer, candidates []model.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, c := range candidates {
		if err := cw.Write(row(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write encodes candidates in format f.
func Write(w io.Writer, f Format, candidates []model.Candidate) error {
	if f == FormatXLSX {
		return WriteXLSX(w, candidates)
	}
	return WriteCSV(w, candidates)
}

// FileName is "<verdict|all>_candidates_<YYYYmmdd_HHMMSS>.<ext>".
func FileName(verdict model.Verdict, f Format, now time.Time) string {
	prefix := string(verdict)
	if prefix == "" {
		prefix = "all"
	}
	return fmt.Sprintf("%s_candidates_%s.%s", prefix, now.Format("20060102_150405"), f)
}
