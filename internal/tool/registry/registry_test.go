// Copyright 2026 Kavish05-Turabit
// Tests for the tool registry

package registry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-assistant/internal/tool"
)

type stubTool struct {
	name string
}

func (t *stubTool) Name() string        { return t.name }
func (t *stubTool) Description() string { return "stub " + t.name }

func (t *stubTool) Schema() tool.Schema {
	return tool.Schema{
		Type: "object",
		Properties: map[string]tool.SchemaProperty{
			"id": {Type: "integer"},
		},
		Required: []string{"id"},
	}
}

func (t *stubTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	return tool.ToolResult{Content: t.name}, nil
}

func TestRegisterAndGet(t *testing.T) {
	r := New()
	r.Register(&stubTool{name: "alpha"})

	got, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", got.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestListPreservesRegistrationOrder(t *testing.T) {
	r := New()
	r.Register(&stubTool{name: "zeta"})
	r.Register(&stubTool{name: "alpha"})
	r.Register(&stubTool{name: "mid"})

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "zeta", list[0].Name())
	assert.Equal(t, "alpha", list[1].Name())
	assert.Equal(t, "mid", list[2].Name())
}

func TestRegisterSameNameReplacesWithoutDuplicating(t *testing.T) {
	r := New()
	r.Register(&stubTool{name: "alpha"})
	r.Register(&stubTool{name: "alpha"})

	assert.Len(t, r.List(), 1)
}

func TestSpecsForLLM(t *testing.T) {
	r := New()
	r.Register(&stubTool{name: "alpha"})

	specs, err := r.SpecsForLLM()
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "alpha", specs[0].Name)
	assert.Equal(t, "stub alpha", specs[0].Description)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(specs[0].Parameters, &schema))
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"id"}, schema["required"])
}
