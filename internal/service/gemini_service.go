package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fadilmartias/resume-screener/internal/config"
	"github.com/fadilmartias/resume-screener/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// maxEmbeddingInput bounds the bytes sent to the embedding model.
const maxEmbeddingInput = 10000

var ErrCircuitOpen = errors.New("circuit breaker open")

// TextGenerator turns a prompt into the model's text answer.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// EmbeddingProvider turns text into an embedding vector.
type EmbeddingProvider interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeminiService struct {
	client            *genai.Client
	log               *zap.Logger
	model             string
	embeddingModel    string
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RequestTimeout    time.Duration
	CircuitCooldown   time.Duration
	consecutiveErrors atomic.Int32
	circuitBreakerMax int32
	openedAt          atomic.Int64 // unix nanos of the last trip, 0 while closed
}

var (
	_ TextGenerator     = (*GeminiService)(nil)
	_ EmbeddingProvider = (*GeminiService)(nil)
)

func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig, log *zap.Logger) (*GeminiService, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiService{
		client:            client,
		log:               logger.OrNop(log).With(zap.String("provider", config.ProviderGemini)),
		model:             cfg.Model,
		embeddingModel:    cfg.EmbeddingModel,
		MaxRetries:        cfg.MaxRetries,
		BaseDelay:         time.Second,
		MaxDelay:          90 * time.Second,
		RequestTimeout:    cfg.RequestTimeout,
		CircuitCooldown:   30 * time.Second,
		circuitBreakerMax: 5,
	}, nil
}

// GenerateText sends prompt to the configured model and joins the text parts
// of the first candidate.
func (s *GeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}

	var result *genai.GenerateContentResponse
	err := s.withRetry(ctx, "GenerateText", func(ctx context.Context) error {
		var err error
		result, err = s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), genConfig)
		return err
	})
	if err != nil {
		return "", err
	}

	text, err := responseText(result)
	if err != nil {
		return "", fmt.Errorf("invalid response: %w", err)
	}
	s.log.Debug("gemini response", zap.String("model", s.model), zap.String("preview", logger.TruncateForLog(text, 200)))
	return text, nil
}

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	if len(trimmed) > maxEmbeddingInput {
		s.log.Warn("embedding input truncated", zap.Int("length", len(trimmed)))
		trimmed = strings.ToValidUTF8(trimmed[:maxEmbeddingInput], "")
	}

	content := []*genai.Content{genai.NewContentFromText(trimmed, genai.RoleUser)}

	var result *genai.EmbedContentResponse
	err := s.withRetry(ctx, "GenerateEmbedding", func(ctx context.Context) error {
		var err error
		result, err = s.client.Models.EmbedContent(ctx, s.embeddingModel, content, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	embedding, err := validateEmbeddingResponse(result)
	if err != nil {
		return nil, fmt.Errorf("invalid embedding response: %w", err)
	}
	return embedding, nil
}

// withRetry runs call under the request timeout, retrying retryable errors
// with exponential backoff. Only transient failures count toward the circuit
// breaker; an answer from the backend, even a 4xx, closes it.
func (s *GeminiService) withRetry(ctx context.Context, op string, call func(context.Context) error) error {
	if err := s.allowCall(); err != nil {
		return err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.log.Info("retrying gemini call",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", s.MaxRetries),
				zap.Duration("delay", delay))

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				if ctx.Err() == nil {
					s.recordFailure()
				}
				return fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		err := call(timeoutCtx)
		if err == nil {
			s.closeCircuit()
			return nil
		}
		lastErr = err

		if !isRetryableError(err) {
			s.log.Warn("non-retryable gemini error", zap.String("op", op), zap.Error(err))
			switch {
			case ctx.Err() != nil:
			case errors.Is(err, context.DeadlineExceeded):
				s.recordFailure()
			default:
				s.closeCircuit()
			}
			return fmt.Errorf("%s failed: %w", op, err)
		}
		s.log.Warn("retryable gemini error", zap.String("op", op), zap.Int("attempt", attempt+1), zap.Error(err))
	}

	s.recordFailure()
	return fmt.Errorf("max retries (%d) exceeded for %s: %w", s.MaxRetries, op, lastErr)
}

// allowCall rejects calls while the breaker is open. Once the cooldown has
// passed a single caller is let through as the half-open trial.
func (s *GeminiService) allowCall() error {
	n := s.consecutiveErrors.Load()
	if n < s.circuitBreakerMax {
		return nil
	}
	opened := s.openedAt.Load()
	if time.Since(time.Unix(0, opened)) >= s.CircuitCooldown &&
		s.openedAt.CompareAndSwap(opened, time.Now().UnixNano()) {
		s.log.Info("circuit breaker half-open, sending trial call")
		return nil
	}
	return fmt.Errorf("%w: too many consecutive errors (%d)", ErrCircuitOpen, n)
}

func (s *GeminiService) recordFailure() {
	if n := s.consecutiveErrors.Add(1); n >= s.circuitBreakerMax {
		s.openedAt.Store(time.Now().UnixNano())
		s.log.Warn("circuit breaker open", zap.Int32("consecutive_errors", n), zap.Duration("cooldown", s.CircuitCooldown))
	}
}

func (s *GeminiService) closeCircuit() {
	if s.consecutiveErrors.Swap(0) >= s.circuitBreakerMax {
		s.log.Info("circuit breaker closed")
	}
	s.openedAt.Store(0)
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}
	jitter := int64(delay) / 4
	if jitter <= 0 {
		return delay
	}
	return delay - time.Duration(jitter/2) + time.Duration(rand.Int64N(jitter))
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		case 400, 401, 403, 404:
			return false
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		switch apiErrPtr.Code {
		case 429, 500, 502, 503, 504:
			return true
		case 400, 401, 403, 404:
			return false
		}
	}

	msg := err.Error()
	for _, transient := range []string{"connection refused", "connection reset", "timeout", "temporary failure", "EOF"} {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", fmt.Errorf("no parts in content")
	}

	var b strings.Builder
	for _, part := range content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		b.WriteString(part.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("empty text in response")
	}
	return text, nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embedding := resp.Embeddings[0].Values
	if len(embedding) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}
	for i, val := range embedding {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}
	return embedding, nil
}
