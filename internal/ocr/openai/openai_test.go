package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/mangatl/internal/ocr"
	"codeberg.org/snonux/mangatl/internal/testutil"
)

func chatCompletionHandler(t *testing.T, content string, check func(body map[string]any)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if check != nil {
			check(body)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   body["model"],
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(ocr.Config{})
	require.Error(t, err)
	assert.Equal(t, "OpenAI API key is required", err.Error())

	e, err := NewEngine(ocr.Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", e.model)
	assert.Equal(t, defaultTimeout, e.timeout)
	assert.Equal(t, Name, e.Name())
}

func TestRecognize(t *testing.T) {
	dir := testutil.CreatePageDirectory(t, "page.jpg")

	server := httptest.NewServer(chatCompletionHandler(t, " 何だと？\n", func(body map[string]any) {
		assert.Equal(t, "gpt-4o", body["model"])
		messages := body["messages"].([]any)
		require.Len(t, messages, 1)
		parts := messages[0].(map[string]any)["content"].([]any)
		require.Len(t, parts, 2)
		image := parts[1].(map[string]any)["image_url"].(map[string]any)
		assert.True(t, strings.HasPrefix(image["url"].(string), "data:image/jpeg;base64,"))
	}))
	defer server.Close()

	e, err := NewEngine(ocr.Config{APIKey: "test-key", BaseURL: server.URL + "/v1", Model: "gpt-4o"})
	require.NoError(t, err)

	text, err := e.Recognize(context.Background(), filepath.Join(dir, "page.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "何だと？", text)
}

func TestRecognizeAPIError(t *testing.T) {
	dir := testutil.CreatePageDirectory(t, "page.png")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	e, err := NewEngine(ocr.Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = e.Recognize(context.Background(), filepath.Join(dir, "page.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI API error")
}

func TestRecognize_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	img := filepath.Join(t.TempDir(), "blank.png")
	testutil.CreateTestPNG(t, img, 64, 64)

	e, err := NewEngine(ocr.Config{APIKey: apiKey})
	require.NoError(t, err)
	_, err = e.Recognize(context.Background(), img)
	assert.NoError(t, err)
}
