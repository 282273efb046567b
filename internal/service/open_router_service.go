package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/resume-screener/internal/config"
	"github.com/fadilmartias/resume-screener/internal/logger"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const openRouterSystemPrompt = "You are an assistant that screens resumes against job descriptions and answers in strict JSON."

type OpenRouterService struct {
	client *resty.Client
	log    *zap.Logger
	apiKey string
	model  string
	url    string
}

var _ TextGenerator = (*OpenRouterService)(nil)

func NewOpenRouterService(cfg *config.OpenRouterConfig, log *zap.Logger) (*OpenRouterService, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}
	return &OpenRouterService{
		client: resty.New().SetTimeout(90 * time.Second),
		log:    logger.OrNop(log).With(zap.String("provider", config.ProviderOpenRouter)),
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		url:    cfg.URL,
	}, nil
}

// GenerateText posts a chat completion and returns the first choice's content.
func (s *OpenRouterService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model": s.model,
			"messages": []map[string]string{
				{"role": "system", "content": openRouterSystemPrompt},
				{"role": "user", "content": prompt},
			},
		}).
		Post(s.url)
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}

	body := resp.String()
	if resp.IsError() {
		msg := gjson.Get(body, "error.message").String()
		if msg == "" {
			msg = logger.TruncateForLog(body, 200)
		}
		return "", fmt.Errorf("openrouter returned %d: %s", resp.StatusCode(), msg)
	}

	text := strings.TrimSpace(gjson.Get(body, "choices.0.message.content").String())
	if text == "" {
		return "", fmt.Errorf("no response from LLM")
	}
	s.log.Debug("openrouter response", zap.String("model", s.model), zap.String("preview", logger.TruncateForLog(text, 200)))
	return text, nil
}
