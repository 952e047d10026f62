// Copyright 2026 Kavish05-Turabit
// Tests for the Claude chat adapter

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaudeClient_ChatWithTools_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		// system 轮提为顶层字段，不出现在 messages 里
		assert.Equal(t, "You are a CRM assistant.", body["system"])
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 3)

		// assistant 的工具调用转为 tool_use 内容块，input 保持对象
		assistantMsg := msgs[1].(map[string]any)
		assert.Equal(t, "assistant", assistantMsg["role"])
		blocks := assistantMsg["content"].([]any)
		require.Len(t, blocks, 2)
		textBlock := blocks[0].(map[string]any)
		assert.Equal(t, "text", textBlock["type"])
		assert.Equal(t, "Let me look that up.", textBlock["text"])
		useBlock := blocks[1].(map[string]any)
		assert.Equal(t, "tool_use", useBlock["type"])
		assert.Equal(t, "toolu_1", useBlock["id"])
		assert.Equal(t, "search_tickets", useBlock["name"])
		input := useBlock["input"].(map[string]any)
		assert.Equal(t, float64(13), input["ticket_id"])

		// tool 轮转为 user 角色下的 tool_result 块，回指 tool_use_id
		toolMsg := msgs[2].(map[string]any)
		assert.Equal(t, "user", toolMsg["role"])
		resultBlocks := toolMsg["content"].([]any)
		require.Len(t, resultBlocks, 1)
		resultBlock := resultBlocks[0].(map[string]any)
		assert.Equal(t, "tool_result", resultBlock["type"])
		assert.Equal(t, "toolu_1", resultBlock["tool_use_id"])
		assert.Equal(t, "ticket data", resultBlock["content"])

		tools := body["tools"].([]any)
		require.Len(t, tools, 1)
		toolEntry := tools[0].(map[string]any)
		assert.Equal(t, "search_tickets", toolEntry["name"])
		assert.Contains(t, toolEntry, "input_schema")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"content": [
				{"type": "text", "text": "Ticket 13 "},
				{"type": "text", "text": "is open."},
				{"type": "tool_use", "id": "toolu_2", "name": "update_ticket", "input": {"ticket_id": 13, "status": "Closed"}}
			]
		}`))
	}))
	defer server.Close()

	t.Setenv("ANTHROPIC_BASE_URL", server.URL)
	client, err := NewClaudeClient("claude-sonnet-4-20250514", "test-key")
	require.NoError(t, err)

	turn, err := client.ChatWithTools(context.Background(), []Message{
		{Role: "system", Content: "You are a CRM assistant."},
		{Role: "user", Content: "close ticket 13"},
		{Role: "assistant", Content: "Let me look that up.", ToolCalls: []ToolCall{{
			ID:        "toolu_1",
			Name:      "search_tickets",
			Arguments: map[string]any{"ticket_id": float64(13)},
		}}},
		{Role: "tool", Content: "ticket data", ToolCallID: "toolu_1"},
	}, []ToolSpec{{
		Name:        "search_tickets",
		Description: "Search tickets",
		Parameters:  json.RawMessage(`{"type":"object"}`),
	}}, GenerateOptions{})
	require.NoError(t, err)

	// 多个 text 块拼接为最终文本
	assert.Equal(t, "Ticket 13 is open.", turn.Content)
	require.Len(t, turn.ToolCalls, 1)
	assert.Equal(t, "toolu_2", turn.ToolCalls[0].ID)
	assert.Equal(t, "update_ticket", turn.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"ticket_id": float64(13), "status": "Closed"}, turn.ToolCalls[0].Arguments)
}

func TestClaudeClient_ChatWithTools_SurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "max_tokens required"}}`))
	}))
	defer server.Close()

	t.Setenv("ANTHROPIC_BASE_URL", server.URL)
	client, err := NewClaudeClient("", "test-key")
	require.NoError(t, err)

	_, err = client.ChatWithTools(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil, GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens required")
}
