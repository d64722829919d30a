package llm

import (
	"context"
	"log"
)

// fallbackProvider wraps a remote provider and substitutes the offline
// provider's deterministic output whenever a call fails. Remote outages are
// logged but never surfaced to callers; the pipeline favors a degraded
// answer over a failed request.
type fallbackProvider struct {
	primary Provider
	offline Provider
}

// WithFallback decorates primary so that Complete and Embed never return an
// error. The offline provider itself is never wrapped.
func WithFallback(primary Provider) Provider {
	return &fallbackProvider{primary: primary, offline: NewOfflineProvider()}
}

func (f *fallbackProvider) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	out, err := f.primary.Complete(ctx, system, user, temperature)
	if err != nil {
		log.Printf("Provider completion failed, using offline fallback: %v", err)
		return f.offline.Complete(ctx, system, user, temperature)
	}
	return out, nil
}

func (f *fallbackProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := f.primary.Embed(ctx, text)
	if err != nil {
		log.Printf("Provider embedding failed, using offline fallback: %v", err)
		return f.offline.Embed(ctx, text)
	}
	return vec, nil
}

func (f *fallbackProvider) Close() error {
	return f.primary.Close()
}
