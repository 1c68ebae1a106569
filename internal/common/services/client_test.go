// internal/common/services/client_test.go
package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/things", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer srv.Close()

	c := NewClient("things", srv.URL, time.Second)

	payload, err := c.GetJSON(context.Background(), "/api/v1/things")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 1}`, string(payload))
}

func TestPostJSONSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := NewClient("things", srv.URL, time.Second)

	payload, err := c.PostJSON(context.Background(), "/api/v1/things", map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(payload))
}

func TestCallTimeoutClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewClient("slow", srv.URL, 100*time.Millisecond)

	_, err := c.GetJSON(context.Background(), "/")
	require.Error(t, err)
	ce := AsCallError("slow", err)
	assert.Equal(t, KindTimeout, ce.Kind)
}

func TestCallUnreachableClassified(t *testing.T) {
	c := NewClient("gone", "http://127.0.0.1:1", time.Second)

	_, err := c.GetJSON(context.Background(), "/")
	require.Error(t, err)
	ce := AsCallError("gone", err)
	assert.Equal(t, KindUnreachable, ce.Kind)
}

func TestNon2xxClassifiedAsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "boom"}`))
	}))
	defer srv.Close()

	c := NewClient("flaky", srv.URL, time.Second)

	_, err := c.GetJSON(context.Background(), "/")
	require.Error(t, err)
	ce := AsCallError("flaky", err)
	assert.Equal(t, KindMalformedResponse, ce.Kind)
	assert.Contains(t, ce.Message, "500")
}

func TestInvalidJSONClassifiedAsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := NewClient("weird", srv.URL, time.Second)

	_, err := c.GetJSON(context.Background(), "/")
	require.Error(t, err)
	ce := AsCallError("weird", err)
	assert.Equal(t, KindMalformedResponse, ce.Kind)
}

func TestCallerContextCancelShortCircuits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewClient("slow", srv.URL, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.GetJSON(ctx, "/")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestForwardPropagatesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`anything goes`))
	}))
	defer srv.Close()

	c := NewClient("proxy", srv.URL, time.Second)

	status, body, err := c.Forward(context.Background(), http.MethodGet, "/", nil, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, status)
	assert.Equal(t, "anything goes", string(body))
}
