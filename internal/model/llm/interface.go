package llm

import (
	"context"
	"encoding/json"
)

// Client LLM 客户端接口
type Client interface {
	// Generate 生成文本
	Generate(prompt string, options GenerateOptions) (string, error)
	// GenerateWithContext 使用上下文生成文本
	GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error)
	// Chat 聊天（纯文本，不带工具）
	Chat(messages []Message, options GenerateOptions) (string, error)
	// ChatWithContext 使用上下文聊天
	ChatWithContext(ctx context.Context, messages []Message, options GenerateOptions) (string, error)
	// ChatWithTools 携带工具目录聊天，返回可能带 ToolCall 的 assistant 轮次
	ChatWithTools(ctx context.Context, messages []Message, tools []ToolSpec, options GenerateOptions) (*AssistantTurn, error)
	// Model 返回模型名称
	Model() string
	// Provider 返回提供商名称
	Provider() string
	// SetModel 设置模型
	SetModel(model string)
	// SetAPIKey 设置 API Key
	SetAPIKey(apiKey string)
	// SupportsStatefulContext 为 false 时该后端按无状态处理：
	// 每次调用需由上层重建最小上下文，而非回放完整转录
	SupportsStatefulContext() bool
}

// GenerateOptions 生成选项
type GenerateOptions struct {
	Temperature      float64  `json:"temperature"`
	MaxTokens        int      `json:"max_tokens"`
	TopP             float64  `json:"top_p"`
	FrequencyPenalty float64  `json:"frequency_penalty"`
	PresencePenalty  float64  `json:"presence_penalty"`
	Stop             []string `json:"stop"`
}

// Message 聊天消息。assistant 轮可携带 ToolCalls；tool 轮携带 ToolCallID 指回发起调用
type Message struct {
	Role       string     `json:"role"` // system, user, assistant, tool
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall 模型发起的一次工具调用请求
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// AssistantTurn 一次模型调用产出的 assistant 轮次
type AssistantTurn struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolSpec 供模型选择工具的目录条目（Parameters 为 JSON Schema）
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// NewClient 创建新的 LLM 客户端；baseURL 用于 OpenAI 兼容端点，空则用默认或环境变量
func NewClient(provider, model, apiKey string, baseURL string) (Client, error) {
	switch provider {
	case "openai":
		return NewOpenAIClientWithBaseURL(model, apiKey, baseURL)
	case "claude":
		return NewClaudeClient(model, apiKey)
	case "gemini":
		return NewGeminiClient(model, apiKey)
	default:
		return NewOpenAIClientWithBaseURL(model, apiKey, baseURL)
	}
}
