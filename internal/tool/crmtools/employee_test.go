// Copyright 2026 Kavish05-Turabit
// Tests for employee tools

package crmtools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-assistant/internal/crm"
)

func TestCreateEmployeeTool_MissingPasswordNoHTTP(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	tool := NewCreateEmployeeTool(crm.NewClient(server.URL, 0))
	result, err := tool.Execute(context.Background(), map[string]any{
		"first_name": "Priya",
		"last_name":  "Sharma",
		"email":      "priya@corp.example",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Err, "Missing required fields")
	assert.Contains(t, result.Err, "password_hash")
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestCreateEmployeeTool_DefaultsAccessLevelToAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// 未提供 access_level 时缺省为 agent
		assert.Equal(t, "agent", body["access_level"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"employee_id": 9}`))
	}))
	defer server.Close()

	tool := NewCreateEmployeeTool(crm.NewClient(server.URL, 0))
	result, err := tool.Execute(context.Background(), map[string]any{
		"first_name":    "Priya",
		"last_name":     "Sharma",
		"email":         "priya@corp.example",
		"password_hash": "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "Successfully created an employee with id 9", result.Content)
}

func TestCreateEmployeeTool_InvalidAccessLevel(t *testing.T) {
	tool := NewCreateEmployeeTool(crm.NewClient("http://127.0.0.1:1", 0))
	result, err := tool.Execute(context.Background(), map[string]any{
		"first_name":    "Priya",
		"last_name":     "Sharma",
		"email":         "priya@corp.example",
		"password_hash": "s3cret",
		"access_level":  "superuser",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Err, `Invalid access_level "superuser"`)
	assert.Contains(t, result.Err, "admin, agent")
}

func TestUpdateEmployeeTool_Promote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/employees/4", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"access_level": "admin"}, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"employee_id": 4}`))
	}))
	defer server.Close()

	tool := NewUpdateEmployeeTool(crm.NewClient(server.URL, 0))
	result, err := tool.Execute(context.Background(), map[string]any{
		"employee_id":  float64(4),
		"access_level": "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "Successfully updated employee with id 4", result.Content)
}

func TestUpdateEmployeeTool_RequiresAtLeastOneField(t *testing.T) {
	tool := NewUpdateEmployeeTool(crm.NewClient("http://127.0.0.1:1", 0))
	result, err := tool.Execute(context.Background(), map[string]any{
		"employee_id": float64(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "You did not mention any fields to be updated. Need at least 1 field.", result.Err)
}

func TestSearchEmployeeTool_DirectLookupByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employees/4", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"employee_id":4,"first_name":"Priya"}`))
	}))
	defer server.Close()

	tool := NewSearchEmployeeTool(crm.NewClient(server.URL, 0))
	result, err := tool.Execute(context.Background(), map[string]any{
		"employee_id": float64(4),
	})
	require.NoError(t, err)
	assert.Contains(t, result.Content, "employee 4")
	assert.Contains(t, result.Content, "Priya")
}

func TestSearchEmployeeTool_FiltersBundledWithCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employees/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"employee_id":4}]`))
	}))
	defer server.Close()

	tool := NewSearchEmployeeTool(crm.NewClient(server.URL, 0))
	result, err := tool.Execute(context.Background(), map[string]any{
		"access_level": "admin",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Content, `[{"employee_id":4}]`)
	assert.Contains(t, result.Content, `"access_level":"admin"`)
	assert.Contains(t, result.Content, "STRICTLY TABULAR FORMAT")
}
