package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/algomentor/backend/internal/llm"
)

const responseSystemInstruction = "You are a personalized DSA tutor. Always follow the requested format."

// ResponseResult is the generator's output. On total provider or parse
// failure the reply degrades to the cleaned raw model text rather than
// emptiness, with Fallback set so callers can tell.
type ResponseResult struct {
	Reply      string
	MistakeTag string
	Fallback   bool
	Reason     string // empty unless Fallback is true
}

// ResponseAgent asks the provider for a structured tutoring reply built from
// the extracted context, retrieved memory and the user's recurring mistakes.
type ResponseAgent struct {
	provider llm.Provider
}

func NewResponseAgent(provider llm.Provider) *ResponseAgent {
	return &ResponseAgent{provider: provider}
}

func (a *ResponseAgent) Generate(ctx context.Context, userInput string, qc QueryContext, retrieved string, mistakes []string) ResponseResult {
	contextJSON, err := json.Marshal(qc)
	if err != nil {
		contextJSON = []byte("{}")
	}
	mistakesJSON, err := json.Marshal(mistakes)
	if err != nil {
		mistakesJSON = []byte("[]")
	}

	prompt := fmt.Sprintf(`
User input:
%s

Extracted context (JSON):
%s

Retrieved similar memory:
%s

User's recurring mistakes (strings):
%s

Return STRICT JSON with keys:
reply: string (formatted tutoring response below)
mistake_tag: short string describing the primary mistake to store (or "")

The reply MUST be in this structure:

1. Common Mistakes:
- ...

2. Intuition Building (dry run on small example):
- ...

3. Try These Edge / Complex Test Cases:
- ...

4. Code Intuition (step-by-step dry run):
- ...

5. Personalized Advice:
- ...
`, userInput, contextJSON, retrieved, mistakesJSON)

	raw, err := a.provider.Complete(ctx, responseSystemInstruction, prompt, 0.35)
	if err != nil {
		// Should not happen behind the fallback decorator, but degrade the
		// same way if it does.
		log.Printf("Response generation provider call failed: %v", err)
		raw = ""
	}

	cleaned := stripCodeFence(raw)

	var parsed struct {
		Reply      string `json:"reply"`
		MistakeTag string `json:"mistake_tag"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return ResponseResult{
			Reply:      cleaned,
			MistakeTag: "General misunderstanding",
			Fallback:   true,
			Reason:     fmt.Sprintf("non-JSON provider output: %v", err),
		}
	}
	return ResponseResult{Reply: parsed.Reply, MistakeTag: parsed.MistakeTag}
}

// stripCodeFence unwraps a leading/trailing ``` fence and an optional "json"
// language tag, a common formatting artifact in model output.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
