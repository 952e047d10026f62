package session

import (
	"time"

	"crm-assistant/internal/model/llm"
)

// 转录中的轮次角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Turn 转录中的一个轮次（与 llm.Message 语义对齐，带时间戳）。
// assistant 轮次可携带 ToolCalls，tool 轮次以 ToolCallID 指回
// 紧邻 assistant 轮次中的某次调用。
type Turn struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []llm.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// ToLLM 转为 llm.Message（模型调用用）
func (t *Turn) ToLLM() llm.Message {
	return llm.Message{
		Role:       t.Role,
		Content:    t.Content,
		ToolCalls:  t.ToolCalls,
		ToolCallID: t.ToolCallID,
	}
}

// TurnsToLLM 将 []*Turn 转为 []llm.Message
func TurnsToLLM(list []*Turn) []llm.Message {
	if len(list) == 0 {
		return nil
	}
	out := make([]llm.Message, len(list))
	for i, t := range list {
		out[i] = t.ToLLM()
	}
	return out
}
