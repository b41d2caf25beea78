package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/config"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
	openai "github.com/sashabaranov/go-openai"
)

const defaultRequestTimeout = 120 * time.Second

// OpenAIProvider OpenAI兼容接口的Provider实现
// 支持任何暴露OpenAI Chat Completions协议的服务（通过base_url切换）
type OpenAIProvider struct {
	config *config.LLMConfig
	client *openai.Client
}

// NewOpenAIProvider 创建OpenAI Provider
func NewOpenAIProvider(cfg *config.LLMConfig) (*OpenAIProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key cannot be empty")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		config: cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Name 返回Provider名称
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Generate 生成文本
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	defaults := &GenerateOptions{
		Model:       p.config.Model,
		Temperature: 0.3,
	}
	options := ApplyOptions(defaults, opts...)

	var messages []openai.ChatCompletionMessage
	if options.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: options.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       options.Model,
		Messages:    messages,
		Temperature: options.Temperature,
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}
	if options.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	// context没有deadline时套用默认超时，避免请求无限期挂起
	apiCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		apiCtx, cancel = context.WithTimeout(ctx, defaultRequestTimeout)
		defer cancel()
	}

	resp, err := p.client.CreateChatCompletion(apiCtx, req)
	if err != nil {
		logger.Error("LLM request failed", "model", req.Model, "error", err)
		return "", fmt.Errorf("LLM生成失败: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM响应中没有choices")
	}

	logger.Debug("LLM response received",
		"model", resp.Model,
		"finishReason", resp.Choices[0].FinishReason,
		"promptTokens", resp.Usage.PromptTokens,
		"completionTokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}

// IsAvailable 检查Provider是否可用
func (p *OpenAIProvider) IsAvailable() bool {
	return p.config.APIKey != "" && p.client != nil
}
