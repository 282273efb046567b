package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func evalRequest() EvaluationRequest {
	return EvaluationRequest{
		JobDescription:  "Backend engineer with Go and Postgres",
		ResumeText:      "Jane Doe. Five years of Go.",
		Contact:         model.Contact{Name: "Jane Doe", Email: "jane@example.com", Phone: "+1 555 0100"},
		Role:            "Backend Engineer",
		Skills:          "Go, Postgres",
		ExperienceRange: "3-5 years",
		JDSimilarity:    72.5,
		SourceName:      "jane.pdf",
	}
}

func TestLLMEvaluatorParsesFencedJSON(t *testing.T) {
	gen := &stubGenerator{response: "```json\n{\"name\": \"Jane D.\", \"skills_match\": 80, \"domain_match\": \"65\", \"experience_match\": 70.5, \"score\": 77, \"notes\": \"solid\"}\n```"}
	ev := NewLLMEvaluator(gen, zap.NewNop())

	rec, err := ev.Evaluate(context.Background(), evalRequest())
	require.NoError(t, err)

	assert.Equal(t, "Jane D.", rec.Name)
	assert.Equal(t, "jane@example.com", rec.Email)
	assert.Equal(t, "+1 555 0100", rec.Phone)
	assert.Equal(t, 80.0, rec.SkillsMatch)
	assert.Equal(t, 65.0, rec.DomainMatch)
	assert.Equal(t, 70.5, rec.ExperienceMatch)
	assert.Equal(t, 77.0, rec.Score)
	assert.Equal(t, 72.5, rec.JDSimilarity)
	assert.Equal(t, "solid", rec.Notes)
	assert.Equal(t, "jane.pdf", rec.ResumeFile)
	assert.Equal(t, "Backend Engineer", rec.JDRole)
	assert.Equal(t, "Jane Doe. Five years of Go.", rec.ResumeText)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Backend Engineer")
	assert.Contains(t, gen.prompts[0], "72.50")
	assert.Contains(t, gen.prompts[0], "Five years of Go")
	assert.NotContains(t, gen.prompts[0], "{{")
}

func TestLLMEvaluatorMalformedAnswers(t *testing.T) {
	cases := map[string]string{
		"not json":      "I think she is great",
		"array":         "[1, 2, 3]",
		"missing score": `{"skills_match": 80, "domain_match": 60, "experience_match": 70}`,
		"bad number":    `{"skills_match": "lots", "domain_match": 60, "experience_match": 70, "score": 70}`,
		"out of range":  `{"skills_match": 180, "domain_match": 60, "experience_match": 70, "score": 70}`,
		"null metric":   `{"skills_match": null, "domain_match": 60, "experience_match": 70, "score": 70}`,
	}
	for name, answer := range cases {
		t.Run(name, func(t *testing.T) {
			ev := NewLLMEvaluator(&stubGenerator{response: answer}, nil)
			_, err := ev.Evaluate(context.Background(), evalRequest())
			assert.ErrorIs(t, err, model.ErrMalformedScoreRecord)
		})
	}
}

func TestLLMEvaluatorGeneratorError(t *testing.T) {
	boom := errors.New("quota exceeded")
	ev := NewLLMEvaluator(&stubGenerator{err: boom}, nil)

	_, err := ev.Evaluate(context.Background(), evalRequest())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, model.ErrMalformedScoreRecord)

	req := evalRequest()
	req.ResumeText = "  "
	_, err = ev.Evaluate(context.Background(), req)
	assert.Error(t, err)
}

func TestLLMEvaluatorDefaultsMissingContext(t *testing.T) {
	gen := &stubGenerator{response: `{"skills_match": 50, "domain_match": 50, "experience_match": 50, "score": 50}`}
	ev := NewLLMEvaluator(gen, nil)

	req := evalRequest()
	req.Role = ""
	req.Domain = ""
	rec, err := ev.Evaluate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "N/A", rec.JDRole)
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Contains(t, gen.prompts[0], "Target domain: N/A")
}

func TestExtractRole(t *testing.T) {
	gen := &stubGenerator{response: "\"Senior Go Engineer\"\nextra commentary"}
	ev := NewLLMEvaluator(gen, nil)

	role, err := ev.ExtractRole(context.Background(), "We are hiring a senior Go engineer.")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", role)
	assert.True(t, strings.Contains(gen.prompts[0], "We are hiring a senior Go engineer."))

	_, err = NewLLMEvaluator(&stubGenerator{response: "  "}, nil).ExtractRole(context.Background(), "jd")
	assert.Error(t, err)

	_, err = ev.ExtractRole(context.Background(), "")
	assert.Error(t, err)
}
