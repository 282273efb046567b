package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrMalformedScoreRecord = errors.New("malformed score record")
	ErrInvalidVerdict       = errors.New("invalid verdict")
)

type Verdict string

const (
	VerdictShortlist Verdict = "shortlist"
	VerdictReview    Verdict = "review"
	VerdictReject    Verdict = "reject"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictShortlist, VerdictReview, VerdictReject:
		return true
	}
	return false
}

// ParseVerdict accepts caller input case-insensitively.
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidVerdict, s)
	}
	return v, nil
}

// ResumeRecord is a raw resume as received from upload or blob storage.
type ResumeRecord struct {
	FileName string
	Content  []byte
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ScoreRecord is what the evaluator produces for one resume.
type ScoreRecord struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone,omitempty"`
	JDSimilarity    float64 `json:"jd_similarity"`
	SkillsMatch     float64 `json:"skills_match"`
	DomainMatch     float64 `json:"domain_match"`
	ExperienceMatch float64 `json:"experience_match"`
	Score           float64 `json:"score"`
	ResumeText      string  `json:"resume_text,omitempty"`
	Notes           string  `json:"notes"`
	ResumeFile      string  `json:"resume_file"`
	JDRole          string  `json:"jd_role"`
}

func (r ScoreRecord) Validate() error {
	metrics := []struct {
		name  string
		value float64
	}{
		{"jd_similarity", r.JDSimilarity},
		{"skills_match", r.SkillsMatch},
		{"domain_match", r.DomainMatch},
		{"experience_match", r.ExperienceMatch},
		{"score", r.Score},
	}
	for _, m := range metrics {
		if math.IsNaN(m.value) || math.IsInf(m.value, 0) || m.value < 0 || m.value > 100 {
			return fmt.Errorf("%w: %s out of range: %v", ErrMalformedScoreRecord, m.name, m.value)
		}
	}
	return nil
}

type Candidate struct {
	ScoreRecord
	Verdict        Verdict `json:"verdict"`
	RecruiterNotes string  `json:"recruiter_notes"`
}
