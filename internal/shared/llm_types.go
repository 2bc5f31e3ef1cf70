package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// Outcome describes how a generation stage ended.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeFallback Outcome = "fallback"
	OutcomeFailed   Outcome = "failed"
)

// StageMeta holds operational metadata for one generation stage
// (text or image) of a recipe generation.
type StageMeta struct {
	Stage    string
	Provider string
	Outcome  Outcome
	Usage    TokenUsage
	Latency  time.Duration
}
