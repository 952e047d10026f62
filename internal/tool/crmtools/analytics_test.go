// Copyright 2026 Kavish05-Turabit
// Tests for analytics tools

package crmtools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-assistant/internal/crm"
)

func TestIndividualAnalysisTool_RequiresAnID(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	tool := NewIndividualAnalysisTool(crm.NewClient(server.URL, 0))
	result, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, result.Err, "employee_id or a customer_id is required")
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestIndividualAnalysisTool_EmployeeQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tickets/search", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("employee_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"ticket_id":13,"status":"Closed"}]`))
	}))
	defer server.Close()

	tool := NewIndividualAnalysisTool(crm.NewClient(server.URL, 0))
	result, err := tool.Execute(context.Background(), map[string]any{
		"employee_id": float64(4),
	})
	require.NoError(t, err)
	assert.Contains(t, result.Content, `[{"ticket_id":13,"status":"Closed"}]`)
}

func TestOverallAnalysisTool_Dashboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dashboard/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"open_tickets":3,"closed_tickets":10}`))
	}))
	defer server.Close()

	tool := NewOverallAnalysisTool(crm.NewClient(server.URL, 0))
	result, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, result.Content, `"open_tickets":3`)
}
