// Copyright 2026 Kavish05-Turabit
// Tests for the Gemini chat adapter

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_ChatWithTools_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		// system 轮提为 systemInstruction
		sys := body["systemInstruction"].(map[string]any)
		sysParts := sys["parts"].([]any)
		assert.Equal(t, "You are a CRM assistant.", sysParts[0].(map[string]any)["text"])

		contents := body["contents"].([]any)
		require.Len(t, contents, 3)

		userMsg := contents[0].(map[string]any)
		assert.Equal(t, "user", userMsg["role"])

		// assistant 映射为 model 角色的 functionCall 部件
		modelMsg := contents[1].(map[string]any)
		assert.Equal(t, "model", modelMsg["role"])
		modelParts := modelMsg["parts"].([]any)
		require.Len(t, modelParts, 1)
		fc := modelParts[0].(map[string]any)["functionCall"].(map[string]any)
		assert.Equal(t, "search_tickets", fc["name"])
		assert.Equal(t, float64(13), fc["args"].(map[string]any)["ticket_id"])

		// tool 轮按 ToolCallID 还原出函数名，以 functionResponse 关联
		toolMsg := contents[2].(map[string]any)
		assert.Equal(t, "user", toolMsg["role"])
		toolParts := toolMsg["parts"].([]any)
		require.Len(t, toolParts, 1)
		fr := toolParts[0].(map[string]any)["functionResponse"].(map[string]any)
		assert.Equal(t, "search_tickets", fr["name"])
		assert.Equal(t, "ticket data", fr["response"].(map[string]any)["content"])

		toolWrappers := body["tools"].([]any)
		require.Len(t, toolWrappers, 1)
		decls := toolWrappers[0].(map[string]any)["functionDeclarations"].([]any)
		require.Len(t, decls, 1)
		assert.Equal(t, "search_tickets", decls[0].(map[string]any)["name"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "Ticket 13 is open."}]}}]
		}`))
	}))
	defer server.Close()

	t.Setenv("GEMINI_BASE_URL", server.URL)
	client, err := NewGeminiClient("", "test-key")
	require.NoError(t, err)

	turn, err := client.ChatWithTools(context.Background(), []Message{
		{Role: "system", Content: "You are a CRM assistant."},
		{Role: "user", Content: "show ticket 13"},
		{Role: "assistant", ToolCalls: []ToolCall{{
			ID:        "call-abc",
			Name:      "search_tickets",
			Arguments: map[string]any{"ticket_id": float64(13)},
		}}},
		{Role: "tool", Content: "ticket data", ToolCallID: "call-abc"},
	}, []ToolSpec{{
		Name:        "search_tickets",
		Description: "Search tickets",
		Parameters:  json.RawMessage(`{"type":"object"}`),
	}}, GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Ticket 13 is open.", turn.Content)
	assert.Empty(t, turn.ToolCalls)
}

func TestGeminiClient_ChatWithTools_MintsCallIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [
				{"functionCall": {"name": "search_tickets", "args": {"ticket_id": 13}}},
				{"functionCall": {"name": "get_dashboard"}}
			]}}]
		}`))
	}))
	defer server.Close()

	t.Setenv("GEMINI_BASE_URL", server.URL)
	client, err := NewGeminiClient("", "test-key")
	require.NoError(t, err)

	turn, err := client.ChatWithTools(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil, GenerateOptions{})
	require.NoError(t, err)
	require.Len(t, turn.ToolCalls, 2)

	// 接口不返回调用 id，客户端必须补出互不相同的非空 id
	first, second := turn.ToolCalls[0], turn.ToolCalls[1]
	assert.True(t, strings.HasPrefix(first.ID, "call-"))
	assert.True(t, strings.HasPrefix(second.ID, "call-"))
	assert.NotEqual(t, first.ID, second.ID)

	assert.Equal(t, "search_tickets", first.Name)
	assert.Equal(t, map[string]any{"ticket_id": float64(13)}, first.Arguments)

	// args 缺省时补空 map，而不是 nil
	assert.Equal(t, "get_dashboard", second.Name)
	assert.NotNil(t, second.Arguments)
	assert.Empty(t, second.Arguments)
}
