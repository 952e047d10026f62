// Copyright 2026 Kavish05-Turabit
// Tests for session transcript semantics

package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-assistant/internal/model/llm"
)

func TestNewAssignsID(t *testing.T) {
	s := New("")
	assert.Contains(t, s.ID, "session-")
	assert.NotNil(t, s.Metadata)

	s2 := New("my-id")
	assert.Equal(t, "my-id", s2.ID)
}

func TestAppendOnlyTranscript(t *testing.T) {
	s := New("")
	s.AppendUser("hello")
	s.AppendAssistant("", []llm.ToolCall{{ID: "c1", Name: "get_all_tickets"}})
	s.AppendToolResult("c1", "tickets")
	s.AppendAssistant("done", nil)

	turns := s.Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, RoleAssistant, turns[1].Role)
	assert.Equal(t, "c1", turns[1].ToolCalls[0].ID)
	assert.Equal(t, RoleTool, turns[2].Role)
	assert.Equal(t, "c1", turns[2].ToolCallID)
	assert.Equal(t, "done", turns[3].Content)
	for _, turn := range turns {
		assert.False(t, turn.Timestamp.IsZero())
	}
}

func TestTurnsReturnsCopy(t *testing.T) {
	s := New("")
	s.AppendUser("hello")

	turns := s.Turns()
	turns[0].Content = "mutated"

	assert.Equal(t, "hello", s.Turns()[0].Content)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, s)

	orig := New("abc")
	require.NoError(t, store.Put(ctx, orig))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Same(t, orig, got)
}
