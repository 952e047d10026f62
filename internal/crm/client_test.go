// Copyright 2026 Kavish05-Turabit
// Tests for the CRM REST client

package crm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-assistant/pkg/auth"
)

func TestLogin_SendsFormCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		// CRM 以 username 字段接收邮箱
		assert.Equal(t, "priya@corp.example", r.PostFormValue("username"))
		assert.Equal(t, "s3cret", r.PostFormValue("password"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","emp_id":4,"emp_name":"Priya Sharma","access":"agent"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	result, err := client.Login(context.Background(), "priya@corp.example", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", result.AccessToken)
	assert.Equal(t, 4, result.EmpID)
	assert.Equal(t, "agent", result.Access)
}

func TestLogin_SurfacesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	_, err := client.Login(context.Background(), "x@y.z", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect email or password")
}

func TestBearerTokenInjectedFromContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	ctx := auth.WithToken(context.Background(), "tok-1")
	_, err := client.ListCustomers(ctx)
	require.NoError(t, err)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	_, err := client.ListTickets(context.Background())
	require.NoError(t, err)
}

func TestSearchTickets_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tickets/search", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("customer_id"))
		assert.Equal(t, "4", r.URL.Query().Get("employee_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	_, err := client.SearchTickets(context.Background(), 7, 4)
	require.NoError(t, err)
}

func TestSearchTickets_ZeroMeansOmitted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasCustomer := r.URL.Query()["customer_id"]
		assert.False(t, hasCustomer)
		assert.Equal(t, "4", r.URL.Query().Get("employee_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	_, err := client.SearchTickets(context.Background(), 0, 4)
	require.NoError(t, err)
}

func TestCreateCustomer_ParsesID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"customer_id": 42, "message": "created"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	id, err := client.CreateCustomer(context.Background(), Customer{
		FirstName: "Asha", LastName: "Rao", Company: "Acme", Email: "asha@acme.example",
	})
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestUpdateTicket_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Ticket not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	_, err := client.UpdateTicket(context.Background(), 999, map[string]any{"status": "Closed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "Ticket not found")
}

func TestParseID(t *testing.T) {
	id, err := parseID([]byte(`{"ticket_id": 7}`), "ticket_id")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	_, err = parseID([]byte(`{"other": 7}`), "ticket_id")
	require.Error(t, err)

	_, err = parseID([]byte(`{"ticket_id": "seven"}`), "ticket_id")
	require.Error(t, err)

	_, err = parseID([]byte(`not json`), "ticket_id")
	require.Error(t, err)
}
