package llm

import (
	"context"
)

// Provider LLM提供商接口
// 名称提取器只依赖该接口，便于在测试中注入假的Provider
type Provider interface {
	// Name 返回Provider名称 (openai等)
	Name() string

	// Generate 生成文本响应
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)

	// IsAvailable 检查Provider是否可用
	IsAvailable() bool
}

// Option 生成选项函数类型
// 使用函数式选项模式来配置生成参数
type Option func(*GenerateOptions)

// GenerateOptions 生成配置
type GenerateOptions struct {
	Model        string  // 模型名称
	Temperature  float32 // 生成温度 0.0-2.0，越高越随机
	MaxTokens    int     // 最大生成token数
	SystemPrompt string  // 系统提示词，定义AI的行为和输出格式
	JSONMode     bool    // 是否启用JSON模式（强制输出JSON）
}

// WithModel 设置模型
func WithModel(model string) Option {
	return func(opts *GenerateOptions) {
		opts.Model = model
	}
}

// WithTemperature 设置温度
func WithTemperature(t float32) Option {
	return func(opts *GenerateOptions) {
		opts.Temperature = t
	}
}

// WithMaxTokens 设置最大token数
func WithMaxTokens(n int) Option {
	return func(opts *GenerateOptions) {
		opts.MaxTokens = n
	}
}

// WithSystemPrompt 设置系统提示词
func WithSystemPrompt(prompt string) Option {
	return func(opts *GenerateOptions) {
		opts.SystemPrompt = prompt
	}
}

// WithJSONMode 启用JSON模式
func WithJSONMode(enabled bool) Option {
	return func(opts *GenerateOptions) {
		opts.JSONMode = enabled
	}
}

// ApplyOptions 应用选项到默认配置
func ApplyOptions(defaults *GenerateOptions, opts ...Option) *GenerateOptions {
	options := &GenerateOptions{
		Model:       defaults.Model,
		Temperature: defaults.Temperature,
		MaxTokens:   defaults.MaxTokens,
	}

	for _, opt := range opts {
		opt(options)
	}

	return options
}
