package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidJobConfiguration = errors.New("invalid job configuration")

// Thresholds holds the numeric cutoffs used by verdict classification.
type Thresholds struct {
	JD         float64 `json:"jd_threshold"`
	Skills     float64 `json:"skills_threshold"`
	Domain     float64 `json:"domain_threshold"`
	Experience float64 `json:"experience_threshold"`
	Reject     float64 `json:"reject_threshold"`
	Shortlist  float64 `json:"shortlist_threshold"`
}

type JobConfiguration struct {
	JD              string `json:"jd"`
	Role            string `json:"role"`
	Domain          string `json:"domain"`
	Skills          string `json:"skills"`
	ExperienceRange string `json:"experience_range"` // e.g. "3-5 years"

	JDThreshold         float64 `json:"jd_threshold"`
	SkillsThreshold     float64 `json:"skills_threshold"`
	DomainThreshold     float64 `json:"domain_threshold"`
	ExperienceThreshold float64 `json:"experience_threshold"`
	RejectThreshold     float64 `json:"reject_threshold"`
	ShortlistThreshold  float64 `json:"shortlist_threshold"`

	TopN int `json:"top_n"` // 0 = disabled
}

// DefaultJobConfiguration returns the cutoffs applied to fields a caller leaves out.
func DefaultJobConfiguration() JobConfiguration {
	return JobConfiguration{
		JDThreshold:         50,
		SkillsThreshold:     50,
		DomainThreshold:     50,
		ExperienceThreshold: 50,
		RejectThreshold:     40,
		ShortlistThreshold:  75,
	}
}

func (c JobConfiguration) Thresholds() Thresholds {
	return Thresholds{
		JD:         c.JDThreshold,
		Skills:     c.SkillsThreshold,
		Domain:     c.DomainThreshold,
		Experience: c.ExperienceThreshold,
		Reject:     c.RejectThreshold,
		Shortlist:  c.ShortlistThreshold,
	}
}

func (c JobConfiguration) Validate() error {
	if strings.TrimSpace(c.JD) == "" {
		return fmt.Errorf("%w: job description is required", ErrInvalidJobConfiguration)
	}
	if c.TopN < 0 {
		return fmt.Errorf("%w: top_n must not be negative", ErrInvalidJobConfiguration)
	}

	checks := []struct {
		name  string
		value float64
	}{
		{"jd_threshold", c.JDThreshold},
		{"skills_threshold", c.SkillsThreshold},
		{"domain_threshold", c.DomainThreshold},
		{"experience_threshold", c.ExperienceThreshold},
		{"reject_threshold", c.RejectThreshold},
		{"shortlist_threshold", c.ShortlistThreshold},
	}
	for _, check := range checks {
		if math.IsNaN(check.value) || check.value < 0 || check.value > 100 {
			return fmt.Errorf("%w: %s must be within [0,100], got %v", ErrInvalidJobConfiguration, check.name, check.value)
		}
	}
	return nil
}
