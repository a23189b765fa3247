package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullPrompt(t *testing.T) {
	assert.Equal(t, "hello", FullPrompt("hello", nil))
	got := FullPrompt("hello", map[string]string{"path": "a<b"})
	assert.Equal(t, "hello\n\n[INPUT JSON]\n{\n  \"path\": \"a<b\"\n}", got)
}

func TestFakeClient_Deterministic(t *testing.T) {
	c := NewFakeClient()
	in := map[string]any{"path": "src/main.py", "content": "print('hi')\nmore"}
	a, err := c.GenerateJSON(context.Background(), "p", in)
	require.NoError(t, err)
	b, err := c.GenerateJSON(context.Background(), "p", in)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))

	var out struct{ Summary string }
	require.NoError(t, json.Unmarshal(a, &out))
	assert.Equal(t, "Summary of src/main.py: print('hi')", out.Summary)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.GenerateJSON(ctx, "p", in)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenAIClient_GenerateJSON(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":" {\"summary\":\"ok\"} "}}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("k", "m", srv.URL+"/v1/", 0)
	require.NoError(t, err)
	raw, err := c.GenerateJSON(context.Background(), "describe", map[string]string{"path": "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok"}`, string(raw))
	assert.Equal(t, "Bearer k", gotAuth)
	assert.Equal(t, "m", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Contains(t, gotReq.Messages[1].Content, "[INPUT JSON]")
}

func TestOpenAIClient_Errors(t *testing.T) {
	status := http.StatusBadRequest
	content := `{"error":{"message":"too long","code":"context_length_exceeded"}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(content))
	}))
	defer srv.Close()
	c, err := NewOpenAIClient("", "m", srv.URL, 0)
	require.NoError(t, err)

	_, err = c.GenerateJSON(context.Background(), "p", nil)
	require.Error(t, err)
	assert.True(t, IsPermanent(err))

	status = http.StatusServiceUnavailable
	content = `upstream down`
	_, err = c.GenerateJSON(context.Background(), "p", nil)
	require.Error(t, err)
	assert.False(t, IsPermanent(err))

	status = http.StatusOK
	content = `{"choices":[{"message":{"content":"not json"}}]}`
	_, err = c.GenerateJSON(context.Background(), "p", nil)
	assert.True(t, errors.Is(err, ErrInvalidJSON))
}

func TestNew_Providers(t *testing.T) {
	c, err := New(context.Background(), Config{Provider: "fake"})
	require.NoError(t, err)
	assert.Equal(t, "fake", c.Name())

	c, err = New(context.Background(), Config{Provider: "groq", Model: "llama"})
	require.NoError(t, err)
	assert.Equal(t, GroqBaseURL, c.(*OpenAIClient).baseURL)

	_, err = New(context.Background(), Config{Provider: "nope"})
	assert.Error(t, err)
}

func TestCountTokens(t *testing.T) {
	assert.Equal(t, 0, CountTokens(""))
	assert.Equal(t, 1, CountTokens("a"))
	assert.Equal(t, 3, CountTokens("package x"))
	assert.Equal(t, 3, CountTokens("日本語"))
	assert.Equal(t, 3, CountTokens("ok 日本"))
}
