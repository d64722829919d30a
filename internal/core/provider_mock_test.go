package core

import (
	"context"
	"fmt"
)

// scriptedProvider replays a fixed sequence of completions and a fixed
// embedding. It stands in for the remote model in pipeline tests.
type scriptedProvider struct {
	completions []string
	calls       int
	embedding   []float32
	embedErr    error
}

func (p *scriptedProvider) Complete(_ context.Context, _, _ string, _ float32) (string, error) {
	if p.calls >= len(p.completions) {
		return "", fmt.Errorf("no scripted completion for call %d", p.calls)
	}
	out := p.completions[p.calls]
	p.calls++
	return out, nil
}

func (p *scriptedProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	if p.embedErr != nil {
		return nil, p.embedErr
	}
	if p.embedding != nil {
		return p.embedding, nil
	}
	return []float32{1, 0, 0}, nil
}

func (p *scriptedProvider) Close() error { return nil }
