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

func TestComplete_Disabled(t *testing.T) {
	c := NewClient(http.DefaultClient, "", "", "", nil)

	assert.False(t, c.Enabled())
	_, err := c.Complete(context.Background(), "sys", "hi")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL+"/", "secret", "test-model", nil)
	out, err := c.Complete(context.Background(), "be brief", "hello")

	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "error status", status: http.StatusTooManyRequests, body: `{"error":"slow down"}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "malformed", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(server.Client(), server.URL, "secret", "", nil)
			_, err := c.Complete(context.Background(), "sys", "hi")
			assert.Error(t, err)
		})
	}
}
