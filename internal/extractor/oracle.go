package extractor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Oracle 文本到 JSON 的外部抽取服务
type Oracle interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OracleFunc 函数适配器
type OracleFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

// Complete 实现 Oracle
func (f OracleFunc) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

// OpenAIOptions OpenAI 抽取服务参数
type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// OpenAIOracle 基于 chat completions 的抽取服务
type OpenAIOracle struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewOpenAIOracle 创建 OpenAI 抽取服务，不启用 SDK 自带重试
func NewOpenAIOracle(opts OpenAIOptions) *OpenAIOracle {
	requestOptions := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(opts.APIKey)),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		requestOptions = append(requestOptions, option.WithBaseURL(baseURL))
	}
	if opts.Timeout > 0 {
		requestOptions = append(requestOptions, option.WithRequestTimeout(opts.Timeout))
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = string(openai.ChatModelGPT3_5Turbo)
	}
	return &OpenAIOracle{
		client:      openai.NewClient(requestOptions...),
		model:       model,
		temperature: opts.Temperature,
	}
}

// Complete 调用 chat completions 并返回首个候选内容
func (o *OpenAIOracle) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(o.temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &ExtractionTransportError{StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON(), Err: err}
		}
		return "", &ExtractionTransportError{Err: err}
	}
	if completion == nil || len(completion.Choices) == 0 {
		return "", &ExtractionTransportError{Err: errors.New("empty completion choices")}
	}
	return completion.Choices[0].Message.Content, nil
}
