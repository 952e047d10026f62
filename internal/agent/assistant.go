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

package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"crm-assistant/internal/model/llm"
	"crm-assistant/internal/runtime/session"
	"crm-assistant/internal/tool"
	"crm-assistant/internal/tool/registry"
	"crm-assistant/pkg/auth"
	"crm-assistant/pkg/log"
	"crm-assistant/pkg/metrics"
)

// 终态固定回复。后端失败与空回复不暴露内部细节，用户看到的是这些文本。
const (
	// ApologyReply 模型后端调用失败时返回给用户的固定致歉文本。
	// 已追加的 user 轮次不回滚，重试需用户重发原话（既有行为，不自动重试）。
	ApologyReply = "Sorry, something went wrong while talking to the AI service. Please try again."

	// EmptyReplyFallback 模型只发工具调用、没有收尾文本时的固定确认语，
	// 以合成 assistant 轮次追加，保证转录总以非空 assistant 消息结束
	EmptyReplyFallback = "Done! Let me know if there is anything else I can help you with."

	// RoundCapReply 超过单轮模型↔工具往返上限时的终态回复
	RoundCapReply = "I was not able to finish this request within a reasonable number of steps. Please try breaking it into smaller requests."
)

// DefaultMaxRounds 单轮对话允许的模型↔工具往返上限
const DefaultMaxRounds = 10

// Config Assistant 配置
type Config struct {
	SystemPrompt string
	MaxRounds    int

	// WrapClient 对新建的模型后端追加装饰（如限流）。启动时装配好的
	// 后端不经过它，运行期切换出的新后端必须重新套上同样的装饰。
	WrapClient func(llm.Client) llm.Client
}

// Assistant 对话编排核心：把一条用户话语展开为若干次工具往返，
// 以一条面向用户的自然语言回复收束。
type Assistant struct {
	mu       sync.RWMutex
	client   llm.Client
	registry *registry.Registry
	sessions *session.Manager
	logger   *log.Logger

	systemPrompt string
	maxRounds    int
	options      llm.GenerateOptions
	wrapClient   func(llm.Client) llm.Client
}

// New 创建 Assistant
func New(client llm.Client, reg *registry.Registry, sessions *session.Manager, logger *log.Logger, cfg Config) *Assistant {
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Assistant{
		client:       client,
		registry:     reg,
		sessions:     sessions,
		logger:       logger,
		systemPrompt: cfg.SystemPrompt,
		maxRounds:    maxRounds,
		wrapClient:   cfg.WrapClient,
	}
}

// ConfigureModel 运行期切换模型后端，对在途轮次之外的后续轮次生效
func (a *Assistant) ConfigureModel(provider, model, apiKey, baseURL string) error {
	client, err := llm.NewClient(provider, model, apiKey, baseURL)
	if err != nil {
		return fmt.Errorf("切换模型后端失败: %w", err)
	}
	if a.wrapClient != nil {
		client = a.wrapClient(client)
	}
	a.mu.Lock()
	a.client = client
	a.mu.Unlock()
	return nil
}

// Client 返回当前模型后端
func (a *Assistant) Client() llm.Client {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.client
}

// HandleTurn 处理一条用户话语：追加 user 轮次，驱动模型与工具往返，
// 返回最终回复。后端失败时返回固定致歉文本与底层错误，转录保持
// 最后一次良好状态（user 轮次保留，不追加残缺 assistant 轮次）。
func (a *Assistant) HandleTurn(ctx context.Context, sess *session.Session, utterance string) (string, error) {
	if strings.TrimSpace(utterance) == "" {
		return "", fmt.Errorf("空话语")
	}

	client := a.Client()
	start := time.Now()
	defer func() {
		metrics.TurnDuration.WithLabelValues(client.Provider()).Observe(time.Since(start).Seconds())
	}()

	sess.BeginTurn()
	defer sess.EndTurn()

	sess.AppendUser(utterance)
	a.persist(ctx, sess, "user", utterance)

	specs, err := a.registry.SpecsForLLM()
	if err != nil {
		metrics.TurnTotal.WithLabelValues("backend_error").Inc()
		return ApologyReply, fmt.Errorf("构建工具目录失败: %w", err)
	}

	// 无状态后端的最小上下文：本轮内追加的消息（assistant 工具调用轮
	// 与对应 tool 轮），完整转录不回放
	var roundMsgs []llm.Message

	rounds := 0
	for {
		turn, err := client.ChatWithTools(ctx, a.contextFor(ctx, client, sess, utterance, roundMsgs), specs, a.options)
		if err != nil {
			metrics.LLMCallTotal.WithLabelValues(client.Provider(), "error").Inc()
			metrics.TurnTotal.WithLabelValues("backend_error").Inc()
			a.logger.Error("模型后端调用失败", "provider", client.Provider(), "session", sess.ID, "error", err)
			return ApologyReply, err
		}
		metrics.LLMCallTotal.WithLabelValues(client.Provider(), "ok").Inc()

		if len(turn.ToolCalls) == 0 {
			reply := strings.TrimSpace(turn.Content)
			if reply == "" {
				reply = EmptyReplyFallback
			}
			sess.AppendAssistant(reply, nil)
			a.persist(ctx, sess, "ai", reply)
			metrics.TurnTotal.WithLabelValues("completed").Inc()
			return reply, nil
		}

		rounds++
		if rounds > a.maxRounds {
			a.logger.Warn("超过工具往返上限", "session", sess.ID, "max_rounds", a.maxRounds)
			sess.AppendAssistant(RoundCapReply, nil)
			a.persist(ctx, sess, "ai", RoundCapReply)
			metrics.TurnTotal.WithLabelValues("round_capped").Inc()
			return RoundCapReply, nil
		}

		sess.AppendAssistant(turn.Content, turn.ToolCalls)
		assistantMsg := llm.Message{Role: session.RoleAssistant, Content: turn.Content, ToolCalls: turn.ToolCalls}
		roundMsgs = append(roundMsgs, assistantMsg)

		for _, call := range turn.ToolCalls {
			t, ok := a.registry.Get(call.Name)
			if !ok {
				// 模型偶尔会臆造工具名，按既定策略静默丢弃，只留观测信号
				metrics.UnknownToolTotal.WithLabelValues(call.Name).Inc()
				a.logger.Warn("模型请求未注册工具", "tool", call.Name, "session", sess.ID)
				continue
			}

			text := a.executeTool(ctx, t, call)
			sess.AppendToolResult(call.ID, text)
			roundMsgs = append(roundMsgs, llm.Message{Role: session.RoleTool, Content: text, ToolCallID: call.ID})
		}
	}
}

// executeTool 执行单次工具调用，一切失败路径都折叠为文本
func (a *Assistant) executeTool(ctx context.Context, t tool.Tool, call llm.ToolCall) string {
	toolStart := time.Now()
	result, err := t.Execute(ctx, call.Arguments)
	metrics.ToolDuration.WithLabelValues(call.Name).Observe(time.Since(toolStart).Seconds())

	text := result.Text()
	status := "ok"
	if err != nil {
		// 工具实现约定不上抛错误，这里兜底折叠为文本
		text = fmt.Sprintf("Tool %s failed with this error - %v. Explain the user what went wrong in a short summary.", call.Name, err)
		status = "error"
	} else if result.Err != "" {
		status = "error"
	}
	metrics.ToolCallTotal.WithLabelValues(call.Name, status).Inc()
	a.logger.Info("工具调用完成", "tool", call.Name, "status", status)
	return text
}

// contextFor 组装本次模型调用的消息序列。有状态后端回放完整转录，
// 无状态后端重建最小上下文：system + 本轮 user + 本轮已产生的消息。
func (a *Assistant) contextFor(ctx context.Context, client llm.Client, sess *session.Session, utterance string, roundMsgs []llm.Message) []llm.Message {
	system := a.buildSystemPrompt(ctx)
	if client.SupportsStatefulContext() {
		msgs := make([]llm.Message, 0, sess.Len()+1)
		msgs = append(msgs, llm.Message{Role: session.RoleSystem, Content: system})
		msgs = append(msgs, session.TurnsToLLM(sess.Turns())...)
		return msgs
	}
	msgs := make([]llm.Message, 0, len(roundMsgs)+2)
	msgs = append(msgs, llm.Message{Role: session.RoleSystem, Content: system})
	msgs = append(msgs, llm.Message{Role: session.RoleUser, Content: utterance})
	msgs = append(msgs, roundMsgs...)
	return msgs
}

// buildSystemPrompt 在基础提示词上注入请求级操作者身份
func (a *Assistant) buildSystemPrompt(ctx context.Context) string {
	var b strings.Builder
	b.WriteString(a.systemPrompt)
	if op, ok := auth.GetOperator(ctx); ok {
		fmt.Fprintf(&b, "\n\nYou are assisting employee %s (employee_id %d, access level %s). When the user says \"me\" or \"my tickets\", they mean this employee.", op.Name, op.EmployeeID, op.AccessLevel)
	}
	return b.String()
}

// persist 轮次落盘到 CRM 聊天历史，失败只记日志不阻断对话
func (a *Assistant) persist(ctx context.Context, sess *session.Session, senderType, text string) {
	if a.sessions == nil {
		return
	}
	if err := a.sessions.Persist(ctx, sess, senderType, text); err != nil {
		a.logger.Warn("写入聊天历史失败", "session", sess.ID, "chat_id", sess.ChatID, "error", err)
	}
}
