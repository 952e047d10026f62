package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// ClaudeClient Claude 客户端
type ClaudeClient struct {
	provider string
	model    string
	apiKey   string
	baseURL  string
	client   *resty.Client
}

// NewClaudeClient 创建新的 Claude 客户端
func NewClaudeClient(model, apiKey string) (*ClaudeClient, error) {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	baseURL := "https://api.anthropic.com/v1"
	if envURL := os.Getenv("ANTHROPIC_BASE_URL"); envURL != "" {
		baseURL = envURL
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetRetryMaxWaitTime(5 * time.Second)

	return &ClaudeClient{
		provider: "claude",
		model:    model,
		apiKey:   apiKey,
		baseURL:  baseURL,
		client:   client,
	}, nil
}

// Generate 生成文本
func (c *ClaudeClient) Generate(prompt string, options GenerateOptions) (string, error) {
	return c.GenerateWithContext(context.Background(), prompt, options)
}

// GenerateWithContext 使用上下文生成文本
func (c *ClaudeClient) GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	return c.ChatWithContext(ctx, []Message{{Role: "user", Content: prompt}}, options)
}

// Chat 聊天
func (c *ClaudeClient) Chat(messages []Message, options GenerateOptions) (string, error) {
	return c.ChatWithContext(context.Background(), messages, options)
}

// ChatWithContext 使用上下文聊天
func (c *ClaudeClient) ChatWithContext(ctx context.Context, messages []Message, options GenerateOptions) (string, error) {
	turn, err := c.ChatWithTools(ctx, messages, nil, options)
	if err != nil {
		return "", err
	}
	return turn.Content, nil
}

// ChatWithTools 携带工具目录聊天（/messages tool_use）
func (c *ClaudeClient) ChatWithTools(ctx context.Context, messages []Message, tools []ToolSpec, options GenerateOptions) (*AssistantTurn, error) {
	// 转换消息格式：system 轮提为顶层 system 字段；tool 轮转 tool_result 块
	var system string
	claudeMessages := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = msg.Content
		case "tool":
			claudeMessages = append(claudeMessages, map[string]interface{}{
				"role": "user",
				"content": []map[string]interface{}{{
					"type":        "tool_result",
					"tool_use_id": msg.ToolCallID,
					"content":     msg.Content,
				}},
			})
		case "assistant":
			if len(msg.ToolCalls) > 0 {
				content := make([]map[string]interface{}, 0, len(msg.ToolCalls)+1)
				if msg.Content != "" {
					content = append(content, map[string]interface{}{"type": "text", "text": msg.Content})
				}
				for _, tc := range msg.ToolCalls {
					content = append(content, map[string]interface{}{
						"type":  "tool_use",
						"id":    tc.ID,
						"name":  tc.Name,
						"input": tc.Arguments,
					})
				}
				claudeMessages = append(claudeMessages, map[string]interface{}{
					"role":    "assistant",
					"content": content,
				})
			} else {
				claudeMessages = append(claudeMessages, map[string]interface{}{
					"role":    "assistant",
					"content": msg.Content,
				})
			}
		default:
			claudeMessages = append(claudeMessages, map[string]interface{}{
				"role":    msg.Role,
				"content": msg.Content,
			})
		}
	}

	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	// 构建请求
	request := map[string]interface{}{
		"model":       c.model,
		"messages":    claudeMessages,
		"temperature": options.Temperature,
		"max_tokens":  maxTokens,
	}
	if system != "" {
		request["system"] = system
	}
	if len(options.Stop) > 0 {
		request["stop_sequences"] = options.Stop
	}
	if len(tools) > 0 {
		claudeTools := make([]map[string]interface{}, len(tools))
		for i, t := range tools {
			claudeTools[i] = map[string]interface{}{
				"name":         t.Name,
				"description":  t.Description,
				"input_schema": t.Parameters,
			}
		}
		request["tools"] = claudeTools
	}

	// 发送请求
	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", c.apiKey).
		SetHeader("anthropic-version", "2023-06-01").
		SetBody(request).
		Post(c.baseURL + "/messages")

	if err != nil {
		return nil, fmt.Errorf("调用 Claude API 失败: %w", err)
	}

	// 检查响应状态
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("Claude API 返回错误: %s", response.String())
	}

	// 解析响应
	var result struct {
		Content []struct {
			Type  string          `json:"type"`
			Text  string          `json:"text"`
			ID    string          `json:"id"`
			Name  string          `json:"name"`
			Input json.RawMessage `json:"input"`
		} `json:"content"`
	}

	if err := json.Unmarshal(response.Body(), &result); err != nil {
		return nil, fmt.Errorf("解析 Claude 响应失败: %w", err)
	}

	turn := &AssistantTurn{}
	for _, block := range result.Content {
		switch block.Type {
		case "text":
			turn.Content += block.Text
		case "tool_use":
			args := map[string]any{}
			if len(block.Input) > 0 {
				_ = json.Unmarshal(block.Input, &args)
			}
			turn.ToolCalls = append(turn.ToolCalls, ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
	}
	return turn, nil
}

// Model 返回模型名称
func (c *ClaudeClient) Model() string {
	return c.model
}

// Provider 返回提供商名称
func (c *ClaudeClient) Provider() string {
	return c.provider
}

// SetModel 设置模型
func (c *ClaudeClient) SetModel(model string) {
	c.model = model
}

// SetAPIKey 设置 API Key
func (c *ClaudeClient) SetAPIKey(apiKey string) {
	c.apiKey = apiKey
}

// SupportsStatefulContext Claude 接口接受完整多轮转录
func (c *ClaudeClient) SupportsStatefulContext() bool {
	return true
}
