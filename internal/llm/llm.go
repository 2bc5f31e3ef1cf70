package llm

import (
	"context"

	"kitchen-assistant/internal/shared"
)

// Prompt is a chat prompt made of a system instruction and a user message.
type Prompt struct {
	System string
	User   string
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt Prompt) (ContentResponse, error)
}

// ImageRequest describes the dish an image should show.
type ImageRequest struct {
	Title       string
	Description string
}

// ImageGenerator produces a PNG data URI for a dish.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
