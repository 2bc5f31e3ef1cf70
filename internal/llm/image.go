package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kitchen-assistant/internal/config"
	"kitchen-assistant/internal/recipe"
)

const imagePromptTemplate = "A professional food photography image of %s. %s. Top-down view, beautiful plating, soft natural lighting, no text, no watermarks, high resolution."

// imageClient calls the OpenAI image generation endpoint.
type imageClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewImageClient creates an OpenAI image generation client.
func NewImageClient(cfg *config.Config) ImageGenerator {
	return &imageClient{
		apiKey:   cfg.OpenAIAPIKey,
		model:    cfg.OpenAIImageModel,
		endpoint: strings.TrimRight(cfg.OpenAIBaseURL, "/") + "/images/generations",
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// GenerateImage requests a single square image and returns it as a PNG data URI.
func (c *imageClient) GenerateImage(ctx context.Context, in ImageRequest) (string, error) {
	reqBody := map[string]interface{}{
		"model":  c.model,
		"prompt": fmt.Sprintf(imagePromptTemplate, in.Title, in.Description),
		"n":      1,
		"size":   "1024x1024",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai images api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var imgResp struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&imgResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(imgResp.Data) == 0 || imgResp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("no image data returned")
	}

	return recipe.PNGDataURIPrefix + imgResp.Data[0].B64JSON, nil
}
