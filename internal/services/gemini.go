package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"friday-chat/internal/metrics"
	"friday-chat/internal/models"
)

var (
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not configured")
	ErrEmptyResponse = errors.New("Gemini returned an empty response")
)

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Persona     string
}

type GeminiService struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewGeminiService builds the generation client. Without an API key the
// service still starts and every Generate call fails with ErrMissingAPIKey.
func NewGeminiService(ctx context.Context, cfg GeminiConfig, m *metrics.Metrics, log *zap.Logger) (*GeminiService, error) {
	s := &GeminiService{
		timeout: cfg.Timeout,
		metrics: m,
		log:     log,
	}
	if cfg.APIKey == "" {
		log.Warn("GEMINI_API_KEY is empty; chat requests will fail until it is set")
		return s, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	if cfg.Persona != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(cfg.Persona)}}
	}

	s.client = client
	s.model = model
	return s, nil
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Generate sends message, preceded by history, to Gemini and returns the
// generated text. It makes exactly one backend call.
func (s *GeminiService) Generate(ctx context.Context, message string, history []models.Message) (string, error) {
	if s.model == nil {
		return "", ErrMissingAPIKey
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.generate(ctx, message, history)
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordBackendCall(status, time.Since(start))
	return text, err
}

func (s *GeminiService) generate(ctx context.Context, message string, history []models.Message) (string, error) {
	var (
		resp *genai.GenerateContentResponse
		err  error
	)
	if turns := buildHistory(history); len(turns) > 0 {
		cs := s.model.StartChat()
		cs.History = turns
		resp, err = cs.SendMessage(ctx, genai.Text(message))
	} else {
		resp, err = s.model.GenerateContent(ctx, genai.Text(message))
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("Gemini request timed out after %s: %w", s.timeout, err)
		}
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			s.log.Warn("Gemini candidate did not finish normally",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()),
			)
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// buildHistory converts client turns into alternating user/model contents.
// Consecutive turns with the same role are merged, leading model turns are
// dropped, and a trailing unanswered user turn is dropped because the new
// message follows it.
func buildHistory(history []models.Message) []*genai.Content {
	var turns []*genai.Content
	var last string
	for _, m := range history {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		if len(turns) == 0 && role == "model" {
			continue
		}
		if role == last {
			prev := turns[len(turns)-1]
			prev.Parts = append(prev.Parts, genai.Text(m.Content))
			continue
		}
		turns = append(turns, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
		last = role
	}
	if len(turns) > 0 && turns[len(turns)-1].Role == "user" {
		turns = turns[:len(turns)-1]
	}
	return turns
}
