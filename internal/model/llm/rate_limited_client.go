// Copyright 2026 Kavish05-Turabit
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llm

import (
	"context"
	"time"

	"crm-assistant/pkg/metrics"
)

// RateLimitedClient 包装任意 LLM Client，在真实调用前后执行限流控制。
type RateLimitedClient struct {
	inner       Client
	rateLimiter *LLMRateLimiter
}

// NewRateLimitedClient 创建带限流的 LLM 客户端。rateLimiter 为 nil 时退化为直接调用。
func NewRateLimitedClient(inner Client, rateLimiter *LLMRateLimiter) *RateLimitedClient {
	return &RateLimitedClient{inner: inner, rateLimiter: rateLimiter}
}

// acquire 限流等待；返回 release 函数（未启用限流时为 no-op）
func (c *RateLimitedClient) acquire(ctx context.Context, promptText string, maxTokens int) (func(), error) {
	if c.rateLimiter == nil {
		return func() {}, nil
	}
	provider := c.inner.Provider()
	estimatedTokens := estimateTokens(promptText, maxTokens)
	start := time.Now()
	if err := c.rateLimiter.Wait(ctx, provider, estimatedTokens); err != nil {
		return nil, err
	}
	waited := time.Since(start)
	if waited > 100*time.Millisecond {
		metrics.RateLimitWaitSeconds.WithLabelValues("llm", provider).Observe(waited.Seconds())
	}
	return func() { c.rateLimiter.Release(provider) }, nil
}

// Generate 实现 Client.Generate
func (c *RateLimitedClient) Generate(prompt string, options GenerateOptions) (string, error) {
	return c.GenerateWithContext(context.Background(), prompt, options)
}

// GenerateWithContext 实现 Client.GenerateWithContext，调用前后执行限流
func (c *RateLimitedClient) GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	release, err := c.acquire(ctx, prompt, options.MaxTokens)
	if err != nil {
		return "", err
	}
	defer release()

	result, err := c.inner.GenerateWithContext(ctx, prompt, options)
	if err != nil {
		return "", err
	}
	if c.rateLimiter != nil {
		// 用 MaxTokens 近似记录实际用量
		c.rateLimiter.RecordTokenUsage(c.inner.Provider(), options.MaxTokens)
	}
	return result, nil
}

// Chat 实现 Client.Chat
func (c *RateLimitedClient) Chat(messages []Message, options GenerateOptions) (string, error) {
	return c.ChatWithContext(context.Background(), messages, options)
}

// ChatWithContext 实现 Client.ChatWithContext，调用前后执行限流
func (c *RateLimitedClient) ChatWithContext(ctx context.Context, messages []Message, options GenerateOptions) (string, error) {
	release, err := c.acquire(ctx, messagesText(messages), options.MaxTokens)
	if err != nil {
		return "", err
	}
	defer release()

	result, err := c.inner.ChatWithContext(ctx, messages, options)
	if err != nil {
		return "", err
	}
	if c.rateLimiter != nil {
		c.rateLimiter.RecordTokenUsage(c.inner.Provider(), options.MaxTokens)
	}
	return result, nil
}

// ChatWithTools 实现 Client.ChatWithTools，调用前后执行限流
func (c *RateLimitedClient) ChatWithTools(ctx context.Context, messages []Message, tools []ToolSpec, options GenerateOptions) (*AssistantTurn, error) {
	release, err := c.acquire(ctx, messagesText(messages), options.MaxTokens)
	if err != nil {
		return nil, err
	}
	defer release()

	turn, err := c.inner.ChatWithTools(ctx, messages, tools, options)
	if err != nil {
		return nil, err
	}
	if c.rateLimiter != nil {
		c.rateLimiter.RecordTokenUsage(c.inner.Provider(), options.MaxTokens)
	}
	return turn, nil
}

// Model 实现 Client.Model
func (c *RateLimitedClient) Model() string { return c.inner.Model() }

// Provider 实现 Client.Provider
func (c *RateLimitedClient) Provider() string { return c.inner.Provider() }

// SetModel 实现 Client.SetModel
func (c *RateLimitedClient) SetModel(model string) { c.inner.SetModel(model) }

// SetAPIKey 实现 Client.SetAPIKey
func (c *RateLimitedClient) SetAPIKey(apiKey string) { c.inner.SetAPIKey(apiKey) }

// SupportsStatefulContext 实现 Client.SupportsStatefulContext
func (c *RateLimitedClient) SupportsStatefulContext() bool { return c.inner.SupportsStatefulContext() }
