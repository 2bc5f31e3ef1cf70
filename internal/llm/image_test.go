package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kitchen-assistant/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageClient_GenerateImage(t *testing.T) {
	t.Run("ReturnsDataURI", func(t *testing.T) {
		var body map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/images/generations", r.URL.Path)
			assert.Equal(t, "Bearer img-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_, _ = w.Write([]byte(`{"data": [{"b64_json": "iVBORw0KGgo="}]}`))
		}))
		defer server.Close()

		gen := NewImageClient(&config.Config{
			OpenAIAPIKey:     "img-key",
			OpenAIBaseURL:    server.URL + "/v1/",
			OpenAIImageModel: "gpt-image-1",
		})

		uri, err := gen.GenerateImage(context.Background(), ImageRequest{Title: "Pancakes", Description: "Fluffy"})
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", uri)

		assert.Equal(t, "gpt-image-1", body["model"])
		assert.Equal(t, "1024x1024", body["size"])
		assert.EqualValues(t, 1, body["n"])
		assert.Contains(t, body["prompt"], "A professional food photography image of Pancakes. Fluffy.")
	})

	t.Run("EmptyData", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data": []}`))
		}))
		defer server.Close()

		gen := NewImageClient(&config.Config{OpenAIAPIKey: "k", OpenAIBaseURL: server.URL})
		_, err := gen.GenerateImage(context.Background(), ImageRequest{Title: "x"})
		assert.EqualError(t, err, "no image data returned")
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		}))
		defer server.Close()

		gen := NewImageClient(&config.Config{OpenAIAPIKey: "k", OpenAIBaseURL: server.URL})
		_, err := gen.GenerateImage(context.Background(), ImageRequest{Title: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=401")
	})
}
