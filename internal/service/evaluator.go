package service

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fadilmartias/resume-screener/internal/logger"
	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

//go:embed prompts/evaluate.md
var evaluatePrompt string

//go:embed prompts/role.md
var rolePrompt string

const defaultMaxLogLength = 200

// EvaluationRequest carries everything the evaluator needs for one resume.
type EvaluationRequest struct {
	JobDescription  string
	ResumeText      string
	Contact         model.Contact
	Role            string
	Domain          string
	Skills          string
	ExperienceRange string
	JDSimilarity    float64
	SourceName      string
}

type ResumeEvaluator interface {
	Evaluate(ctx context.Context, req EvaluationRequest) (model.ScoreRecord, error)
}

// RoleExtractor names the role a job description is hiring for.
type RoleExtractor interface {
	ExtractRole(ctx context.Context, jd string) (string, error)
}

// LLMEvaluator scores resumes by prompting a TextGenerator for a JSON verdict.
type LLMEvaluator struct {
	generator TextGenerator
	log       *zap.Logger
	maxLogLen int
}

var (
	_ ResumeEvaluator = (*LLMEvaluator)(nil)
	_ RoleExtractor   = (*LLMEvaluator)(nil)
)

func NewLLMEvaluator(generator TextGenerator, log *zap.Logger) *LLMEvaluator {
	return &LLMEvaluator{
		generator: generator,
		log:       logger.OrNop(log),
		maxLogLen: defaultMaxLogLength,
	}
}

func (e *LLMEvaluator) Evaluate(ctx context.Context, req EvaluationRequest) (model.ScoreRecord, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return model.ScoreRecord{}, fmt.Errorf("resume text is required")
	}

	prompt := buildEvaluatePrompt(req)
	e.log.Debug("evaluate request",
		zap.String("file", req.SourceName),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)))

	raw, err := e.generator.GenerateText(ctx, prompt)
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("evaluate %s: %w", req.SourceName, err)
	}

	e.log.Debug("evaluate response",
		zap.String("file", req.SourceName),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)))

	record, err := parseScoreRecord(raw, req)
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("evaluate %s: %w", req.SourceName, err)
	}
	return record, nil
}

func (e *LLMEvaluator) ExtractRole(ctx context.Context, jd string) (string, error) {
	if strings.TrimSpace(jd) == "" {
		return "", fmt.Errorf("job description is required")
	}
	raw, err := e.generator.GenerateText(ctx, strings.ReplaceAll(rolePrompt, "{{JD}}", jd))
	if err != nil {
		return "", fmt.Errorf("extract role: %w", err)
	}

	role := extractJSON(raw)
	if i := strings.IndexByte(role, '\n'); i >= 0 {
		role = role[:i]
	}
	role = strings.Trim(strings.TrimSpace(role), `"'*`)
	if role == "" {
		return "", fmt.Errorf("extract role: empty answer")
	}
	return role, nil
}

func buildEvaluatePrompt(req EvaluationRequest) string {
	replacer := strings.NewReplacer(
		"{{ROLE}}", orNA(req.Role),
		"{{JD}}", req.JobDescription,
		"{{DOMAIN}}", orNA(req.Domain),
		"{{SKILLS}}", orNA(req.Skills),
		"{{EXPERIENCE_RANGE}}", orNA(req.ExperienceRange),
		"{{JD_SIMILARITY}}", strconv.FormatFloat(req.JDSimilarity, 'f', 2, 64),
		"{{NAME}}", orNA(req.Contact.Name),
		"{{EMAIL}}", orNA(req.Contact.Email),
		"{{PHONE}}", orNA(req.Contact.Phone),
		"{{RESUME}}", req.ResumeText,
	)
	return replacer.Replace(evaluatePrompt)
}

// parseScoreRecord reads the model answer into a ScoreRecord. The four scored
// metrics are required; contact fields fall back to the parsed contact.
func parseScoreRecord(raw string, req EvaluationRequest) (model.ScoreRecord, error) {
	cleaned := extractJSON(raw)
	if !gjson.Valid(cleaned) || !gjson.Parse(cleaned).IsObject() {
		return model.ScoreRecord{}, fmt.Errorf("%w: answer is not a JSON object", model.ErrMalformedScoreRecord)
	}
	doc := gjson.Parse(cleaned)

	record := model.ScoreRecord{
		Name:         firstNonEmpty(doc.Get("name").String(), req.Contact.Name),
		Email:        strings.ToLower(firstNonEmpty(doc.Get("email").String(), req.Contact.Email)),
		Phone:        firstNonEmpty(doc.Get("phone").String(), req.Contact.Phone),
		JDSimilarity: req.JDSimilarity,
		ResumeText:   req.ResumeText,
		Notes:        strings.TrimSpace(doc.Get("notes").String()),
		ResumeFile:   req.SourceName,
		JDRole:       orNA(req.Role),
	}
	required := []struct {
		field string
		dst   *float64
	}{
		{"skills_match", &record.SkillsMatch},
		{"domain_match", &record.DomainMatch},
		{"experience_match", &record.ExperienceMatch},
		{"score", &record.Score},
	}
	for _, m := range required {
		v, err := numberField(doc, m.field)
		if err != nil {
			return model.ScoreRecord{}, err
		}
		*m.dst = v
	}

	if err := record.Validate(); err != nil {
		return model.ScoreRecord{}, err
	}
	return record, nil
}

func numberField(doc gjson.Result, field string) (float64, error) {
	r := doc.Get(field)
	switch r.Type {
	case gjson.Number:
		return r.Float(), nil
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(r.Str), "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not a number: %q", model.ErrMalformedScoreRecord, field, r.Str)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%w: missing %s", model.ErrMalformedScoreRecord, field)
	}
}

// extractJSON strips markdown code fences around a model answer.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
