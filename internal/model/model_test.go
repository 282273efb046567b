package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobConfigurationValidate(t *testing.T) {
	cfg := DefaultJobConfiguration()
	cfg.JD = "Go engineer"
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*JobConfiguration)
	}{
		{"blank jd", func(c *JobConfiguration) { c.JD = " \n" }},
		{"negative top_n", func(c *JobConfiguration) { c.TopN = -1 }},
		{"threshold above 100", func(c *JobConfiguration) { c.ShortlistThreshold = 101 }},
		{"negative threshold", func(c *JobConfiguration) { c.RejectThreshold = -5 }},
		{"nan threshold", func(c *JobConfiguration) { c.JDThreshold = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidJobConfiguration)
		})
	}
}

func TestThresholds(t *testing.T) {
	th := DefaultJobConfiguration().Thresholds()
	assert.Equal(t, Thresholds{JD: 50, Skills: 50, Domain: 50, Experience: 50, Reject: 40, Shortlist: 75}, th)
}

func TestParseVerdict(t *testing.T) {
	v, err := ParseVerdict(" Shortlist ")
	require.NoError(t, err)
	assert.Equal(t, VerdictShortlist, v)

	_, err = ParseVerdict("maybe")
	assert.ErrorIs(t, err, ErrInvalidVerdict)
	assert.False(t, Verdict("").Valid())
}

func TestScoreRecordValidate(t *testing.T) {
	r := ScoreRecord{JDSimilarity: 80, SkillsMatch: 0, DomainMatch: 100, ExperienceMatch: 55.5, Score: 70}
	require.NoError(t, r.Validate())

	r.Score = 100.01
	assert.ErrorIs(t, r.Validate(), ErrMalformedScoreRecord)

	r.Score = 70
	r.SkillsMatch = math.Inf(1)
	assert.ErrorIs(t, r.Validate(), ErrMalformedScoreRecord)
}
