package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/paperprep/paperprep-backend/internal/model"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Prediction errors
var (
	ErrPredictionUnavailable = errors.New("prediction model not configured")
	ErrPredictionFailed      = errors.New("prediction model call failed")
)

const predictionSystemPrompt = `You are an expert in predicting exam questions based on historical data.
Reply with a single JSON object with two string fields:
"predictedQuestions": a numbered list of predicted questions for next year's exam,
"rationale": why these questions are likely to appear, based on historical trends and patterns.`

// PredictionService asks an OpenAI-compatible chat model for likely
// questions of an upcoming paper.
type PredictionService struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// NewPredictionService creates a new PredictionService. Without an API key
// the service stays disabled and every call returns ErrPredictionUnavailable.
func NewPredictionService(cfg *config.Config, log zerolog.Logger) *PredictionService {
	s := &PredictionService{
		model: cfg.LLMModel,
		log:   log.With().Str("component", "prediction_service").Logger(),
	}
	if cfg.LLMAPIKey == "" {
		return s
	}

	oc := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.LLMBaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.LLMTimeout}
	s.client = openai.NewClientWithConfig(oc)
	return s
}

// Enabled reports whether a model is configured.
func (s *PredictionService) Enabled() bool {
	return s.client != nil
}

// Predict returns predicted questions for req.
func (s *PredictionService) Predict(ctx context.Context, req model.PredictionRequest) (*model.PredictionResponse, error) {
	if s.client == nil {
		return nil, ErrPredictionUnavailable
	}

	prompt := fmt.Sprintf("Exam Type: %s\nSubject: %s\nHistorical Data:\n%s",
		req.ExamType, req.Subject, req.HistoricalData)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: predictionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		s.log.Error().Err(err).Str("exam_type", req.ExamType).Str("subject", req.Subject).Msg("Prediction request failed")
		return nil, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrPredictionFailed)
	}

	out, err := decodePrediction(resp.Choices[0].Message.Content)
	if err != nil {
		s.log.Error().Err(err).Msg("Unreadable prediction output")
		return nil, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}

	s.log.Info().
		Str("exam_type", req.ExamType).
		Str("subject", req.Subject).
		Int("tokens", resp.Usage.TotalTokens).
		Msg("Prediction generated")
	return out, nil
}

// decodePrediction reads the model's JSON object. Models sometimes return
// the questions as an array instead of a string; both are accepted.
func decodePrediction(content string) (*model.PredictionResponse, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw struct {
		PredictedQuestions json.RawMessage `json:"predictedQuestions"`
		Rationale          string          `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	if len(raw.PredictedQuestions) == 0 {
		return nil, errors.New("prediction has no questions")
	}

	var text string
	if err := json.Unmarshal(raw.PredictedQuestions, &text); err != nil {
		var list []string
		if err := json.Unmarshal(raw.PredictedQuestions, &list); err != nil {
			return nil, fmt.Errorf("decode predicted questions: %w", err)
		}
		for i, q := range list {
			list[i] = fmt.Sprintf("%d. %s", i+1, q)
		}
		text = strings.Join(list, "\n")
	}

	return &model.PredictionResponse{PredictedQuestions: text, Rationale: raw.Rationale}, nil
}
