package llm

import "context"

// Provider is the external model capability the agents depend on: given a
// system instruction and a user prompt, produce text, and turn text into a
// fixed-length embedding vector. Implementations are selected by the factory
// in NewProvider; OfflineProvider is the deterministic stand-in used when no
// remote model is reachable.
type Provider interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}
