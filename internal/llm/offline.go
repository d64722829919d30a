package llm

import "context"

// offlineReply is the canned tutoring text returned when no remote model is
// reachable. It intentionally follows the tutoring reply shape so the
// response agent can still hand the user something useful.
const offlineReply = "Here's your mistake: - Unable to reach the model; using offline fallback.\n\n" +
	"Here's a dry run for intuition: - Provide a small example manually.\n\n" +
	"Here's a corrected approach/code:\n- Outline steps and pseudocode here."

// OfflineProvider is a deterministic, dependency-free Provider used when no
// API key is configured and as the substitute output when a remote provider
// call fails. Completions return a fixed string; embeddings are derived from
// the character codes of the input so that identical texts always map to
// identical vectors.
type OfflineProvider struct{}

func NewOfflineProvider() *OfflineProvider {
	return &OfflineProvider{}
}

func (p *OfflineProvider) Complete(_ context.Context, _, _ string, _ float32) (string, error) {
	return offlineReply, nil
}

// Embed produces a 32-dimensional pseudo-embedding: seed the vector with the
// sum of the input's character codes mod 1000, then fill each slot with
// ((seed+i) mod 17) / 17.
func (p *OfflineProvider) Embed(_ context.Context, text string) ([]float32, error) {
	seed := 0
	for _, r := range text {
		seed += int(r)
	}
	seed %= 1000

	vec := make([]float32, 32)
	for i := range vec {
		vec[i] = float32((seed+i)%17) / 17.0
	}
	return vec, nil
}

func (p *OfflineProvider) Close() error { return nil }
