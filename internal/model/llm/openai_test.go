// Copyright 2026 Kavish05-Turabit
// Tests for the OpenAI chat adapter

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

func TestOpenAIClient_ChatWithTools_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body["model"])

		msgs := body["messages"].([]any)
		require.Len(t, msgs, 4)

		// assistant 轮的工具调用序列化为 function 形态，arguments 是 JSON 字符串
		assistantMsg := msgs[2].(map[string]any)
		calls := assistantMsg["tool_calls"].([]any)
		require.Len(t, calls, 1)
		call := calls[0].(map[string]any)
		assert.Equal(t, "call-1", call["id"])
		assert.Equal(t, "function", call["type"])
		fn := call["function"].(map[string]any)
		assert.Equal(t, "search_tickets", fn["name"])
		var args map[string]any
		require.NoError(t, json.Unmarshal([]byte(fn["arguments"].(string)), &args))
		assert.Equal(t, float64(13), args["ticket_id"])

		// tool 轮携带 tool_call_id 回指发起调用
		toolMsg := msgs[3].(map[string]any)
		assert.Equal(t, "tool", toolMsg["role"])
		assert.Equal(t, "call-1", toolMsg["tool_call_id"])
		assert.Equal(t, "ticket data", toolMsg["content"])

		tools := body["tools"].([]any)
		require.Len(t, tools, 1)
		toolEntry := tools[0].(map[string]any)
		assert.Equal(t, "function", toolEntry["type"])
		toolFn := toolEntry["function"].(map[string]any)
		assert.Equal(t, "search_tickets", toolFn["name"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {
				"content": "",
				"tool_calls": [{"id": "call-2", "function": {"name": "update_ticket", "arguments": "{\"ticket_id\": 13, \"status\": \"Closed\"}"}}]
			}}]
		}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClientWithBaseURL("gpt-4o", "test-key", server.URL)
	require.NoError(t, err)

	turn, err := client.ChatWithTools(context.Background(), []Message{
		{Role: "system", Content: "You are a CRM assistant."},
		{Role: "user", Content: "close ticket 13"},
		{Role: "assistant", ToolCalls: []ToolCall{{
			ID:        "call-1",
			Name:      "search_tickets",
			Arguments: map[string]any{"ticket_id": float64(13)},
		}}},
		{Role: "tool", Content: "ticket data", ToolCallID: "call-1"},
	}, []ToolSpec{{
		Name:        "search_tickets",
		Description: "Search tickets",
		Parameters:  json.RawMessage(`{"type":"object"}`),
	}}, GenerateOptions{})
	require.NoError(t, err)

	require.Len(t, turn.ToolCalls, 1)
	assert.Equal(t, "call-2", turn.ToolCalls[0].ID)
	assert.Equal(t, "update_ticket", turn.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"ticket_id": float64(13), "status": "Closed"}, turn.ToolCalls[0].Arguments)
	assert.Empty(t, turn.Content)
}

func TestOpenAIClient_ChatWithTools_MalformedArgumentsKeptEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {
				"tool_calls": [{"id": "call-1", "function": {"name": "list_customers", "arguments": "{broken"}}]
			}}]
		}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClientWithBaseURL("", "test-key", server.URL)
	require.NoError(t, err)

	turn, err := client.ChatWithTools(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil, GenerateOptions{})
	require.NoError(t, err)
	require.Len(t, turn.ToolCalls, 1)
	assert.Equal(t, "list_customers", turn.ToolCalls[0].Name)
	assert.Empty(t, turn.ToolCalls[0].Arguments)
}

func TestOpenAIClient_ChatWithTools_SurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided"}}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClientWithBaseURL("", "bad-key", server.URL)
	require.NoError(t, err)

	_, err = client.ChatWithTools(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil, GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}
