package service

import (
	"ai_learn_backend/internal/config"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

var ErrEmptyGeneration = errors.New("model returned no generated text")

type GenerateOptions struct {
	MaxLength          int
	NumReturnSequences int
}

// TextGenerator 文本续写模型：输入提示，返回生成的文本（包含提示本身）
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) ([]string, error)
}

// AIService 调用 Hugging Face 风格的推理接口
type AIService struct {
	client *resty.Client
	model  string
}

func NewAIService(cfg config.AssistantConfig) *AIService {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &AIService{client: client, model: cfg.Model}
}

type generationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
}

type generationParameters struct {
	MaxLength          int `json:"max_length"`
	NumReturnSequences int `json:"num_return_sequences"`
}

type generationResult struct {
	GeneratedText string `json:"generated_text"`
}

type generationError struct {
	Error string `json:"error"`
}

func (s *AIService) Model() string {
	return s.model
}

func (s *AIService) Generate(ctx context.Context, prompt string, opts GenerateOptions) ([]string, error) {
	if opts.NumReturnSequences <= 0 {
		opts.NumReturnSequences = 1
	}

	var (
		results []generationResult
		apiErr  generationError
	)
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(generationRequest{
			Inputs: prompt,
			Parameters: generationParameters{
				MaxLength:          opts.MaxLength,
				NumReturnSequences: opts.NumReturnSequences,
			},
		}).
		SetResult(&results).
		SetError(&apiErr).
		Post("/models/" + s.model)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		if apiErr.Error != "" {
			return nil, fmt.Errorf("model API error (status %d): %s", resp.StatusCode(), apiErr.Error)
		}
		return nil, fmt.Errorf("model API error (status %d): %s", resp.StatusCode(), resp.String())
	}

	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.GeneratedText)
	}
	if len(texts) == 0 {
		return nil, ErrEmptyGeneration
	}
	return texts, nil
}
