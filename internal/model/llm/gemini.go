package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// GeminiClient Gemini 客户端
type GeminiClient struct {
	provider string
	model    string
	apiKey   string
	baseURL  string
	client   *resty.Client
}

// NewGeminiClient 创建新的 Gemini 客户端
func NewGeminiClient(model, apiKey string) (*GeminiClient, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}

	baseURL := "https://generativelanguage.googleapis.com/v1beta"
	if envURL := os.Getenv("GEMINI_BASE_URL"); envURL != "" {
		baseURL = envURL
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetRetryMaxWaitTime(5 * time.Second)

	return &GeminiClient{
		provider: "gemini",
		model:    model,
		apiKey:   apiKey,
		baseURL:  baseURL,
		client:   client,
	}, nil
}

// Generate 生成文本
func (c *GeminiClient) Generate(prompt string, options GenerateOptions) (string, error) {
	return c.GenerateWithContext(context.Background(), prompt, options)
}

// GenerateWithContext 使用上下文生成文本
func (c *GeminiClient) GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	return c.ChatWithContext(ctx, []Message{{Role: "user", Content: prompt}}, options)
}

// Chat 聊天
func (c *GeminiClient) Chat(messages []Message, options GenerateOptions) (string, error) {
	return c.ChatWithContext(context.Background(), messages, options)
}

// ChatWithContext 使用上下文聊天
func (c *GeminiClient) ChatWithContext(ctx context.Context, messages []Message, options GenerateOptions) (string, error) {
	turn, err := c.ChatWithTools(ctx, messages, nil, options)
	if err != nil {
		return "", err
	}
	return turn.Content, nil
}

// ChatWithTools 携带工具目录聊天（generateContent functionDeclarations）
func (c *GeminiClient) ChatWithTools(ctx context.Context, messages []Message, tools []ToolSpec, options GenerateOptions) (*AssistantTurn, error) {
	// Gemini 的 functionResponse 以函数名关联，需从前序 assistant 轮按 ToolCallID 还原
	callNames := make(map[string]string)
	for _, msg := range messages {
		for _, tc := range msg.ToolCalls {
			callNames[tc.ID] = tc.Name
		}
	}

	// 转换消息格式：system 提为 systemInstruction；assistant 映射为 model
	var system string
	contents := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = msg.Content
		case "assistant":
			parts := make([]map[string]interface{}, 0, len(msg.ToolCalls)+1)
			if msg.Content != "" {
				parts = append(parts, map[string]interface{}{"text": msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				parts = append(parts, map[string]interface{}{
					"functionCall": map[string]interface{}{
						"name": tc.Name,
						"args": tc.Arguments,
					},
				})
			}
			contents = append(contents, map[string]interface{}{"role": "model", "parts": parts})
		case "tool":
			name := callNames[msg.ToolCallID]
			contents = append(contents, map[string]interface{}{
				"role": "user",
				"parts": []map[string]interface{}{{
					"functionResponse": map[string]interface{}{
						"name":     name,
						"response": map[string]interface{}{"content": msg.Content},
					},
				}},
			})
		default:
			contents = append(contents, map[string]interface{}{
				"role":  "user",
				"parts": []map[string]interface{}{{"text": msg.Content}},
			})
		}
	}

	// 构建请求
	request := map[string]interface{}{
		"contents": contents,
		"generationConfig": map[string]interface{}{
			"temperature": options.Temperature,
		},
	}
	if options.MaxTokens > 0 {
		request["generationConfig"].(map[string]interface{})["maxOutputTokens"] = options.MaxTokens
	}
	if system != "" {
		request["systemInstruction"] = map[string]interface{}{
			"parts": []map[string]interface{}{{"text": system}},
		}
	}
	if len(tools) > 0 {
		decls := make([]map[string]interface{}, len(tools))
		for i, t := range tools {
			decls[i] = map[string]interface{}{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.Parameters,
			}
		}
		request["tools"] = []map[string]interface{}{{"functionDeclarations": decls}}
	}

	// 发送请求
	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		Post(c.baseURL + "/models/" + c.model + ":generateContent?key=" + c.apiKey)

	if err != nil {
		return nil, fmt.Errorf("调用 Gemini API 失败: %w", err)
	}

	// 检查响应状态
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("Gemini API 返回错误: %s", response.String())
	}

	// 解析响应
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text         string `json:"text"`
					FunctionCall *struct {
						Name string         `json:"name"`
						Args map[string]any `json:"args"`
					} `json:"functionCall"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(response.Body(), &result); err != nil {
		return nil, fmt.Errorf("解析 Gemini 响应失败: %w", err)
	}

	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("Gemini API 没有返回结果")
	}

	// Gemini 不返回调用 id，这里生成以满足「tool 轮引用发起调用」的转录不变式
	turn := &AssistantTurn{}
	for _, part := range result.Candidates[0].Content.Parts {
		if part.FunctionCall != nil {
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			turn.ToolCalls = append(turn.ToolCalls, ToolCall{
				ID:        "call-" + uuid.New().String(),
				Name:      part.FunctionCall.Name,
				Arguments: args,
			})
			continue
		}
		turn.Content += part.Text
	}
	return turn, nil
}

// Model 返回模型名称
func (c *GeminiClient) Model() string {
	return c.model
}

// Provider 返回提供商名称
func (c *GeminiClient) Provider() string {
	return c.provider
}

// SetModel 设置模型
func (c *GeminiClient) SetModel(model string) {
	c.model = model
}

// SetAPIKey 设置 API Key
func (c *GeminiClient) SetAPIKey(apiKey string) {
	c.apiKey = apiKey
}

// SupportsStatefulContext generateContent 无多轮记忆，按无状态处理，
// 上层每次调用重建最小上下文
func (c *GeminiClient) SupportsStatefulContext() bool {
	return false
}
