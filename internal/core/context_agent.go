package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/algomentor/backend/internal/llm"
)

const contextSystemInstruction = "You are a DSA tutor. Extract structured metadata from user queries."

// QueryContext is the structured metadata extracted from a user question.
type QueryContext struct {
	Topic          string  `json:"topic"`
	Intent         string  `json:"intent"` // "debugging", "concept", "optimization" or "practice"
	Misconception  string  `json:"misconception"`
	ConfidenceHint float64 `json:"confidence_hint"`
}

// ContextResult distinguishes a real extraction from the canned fallback
// used when the provider's output does not parse as JSON.
type ContextResult struct {
	Context  QueryContext
	Fallback bool
	Reason   string // empty unless Fallback is true
}

// ContextAgent classifies a raw user message into topic/intent metadata via
// a single provider call. There is no retry: unparseable output yields the
// fixed fallback context instead of an error.
type ContextAgent struct {
	provider llm.Provider
}

func NewContextAgent(provider llm.Provider) *ContextAgent {
	return &ContextAgent{provider: provider}
}

func fallbackContext() QueryContext {
	return QueryContext{
		Topic:          "general",
		Intent:         "concept",
		Misconception:  "",
		ConfidenceHint: 0.4,
	}
}

func (a *ContextAgent) Extract(ctx context.Context, userInput string) ContextResult {
	prompt := fmt.Sprintf(`
From the user input, output STRICT JSON with keys:
topic: short topic label (e.g., "two pointers", "binary search", "dp on strings")
intent: one of ["debugging","concept","optimization","practice"]
misconception: short phrase if any else ""
confidence_hint: number 0 to 1 (how confident you are about the topic label)

User input:
%s
`, userInput)

	raw, err := a.provider.Complete(ctx, contextSystemInstruction, prompt, 0.1)
	if err != nil {
		log.Printf("Context extraction provider call failed: %v", err)
		return ContextResult{Context: fallbackContext(), Fallback: true, Reason: fmt.Sprintf("provider error: %v", err)}
	}

	var qc QueryContext
	if err := json.Unmarshal([]byte(raw), &qc); err != nil {
		return ContextResult{Context: fallbackContext(), Fallback: true, Reason: fmt.Sprintf("non-JSON provider output: %v", err)}
	}
	return ContextResult{Context: qc}
}
