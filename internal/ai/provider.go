package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable means the provider is not configured (missing key).
var ErrUnavailable = errors.New("ai provider unavailable")

// IProvider is one backing model service. Complete sends a system
// instruction plus a user prompt and returns a single text completion;
// Embed returns a dense vector for the given text.
type IProvider interface {
	Name() string
	Complete(ctx context.Context, model string, system string, prompt string) (string, error)
	Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error)
}

// IGenerator is a provider bound to a generation model.
type IGenerator interface {
	Complete(ctx context.Context, system string, prompt string) (string, error)
}

// IEmbedder is a provider bound to an embedding model.
type IEmbedder interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
	ModelName() string
}

type generator struct {
	provider IProvider
	model    string
}

func NewGenerator(p IProvider, model string) IGenerator {
	return &generator{provider: p, model: model}
}

func (g *generator) Complete(ctx context.Context, system string, prompt string) (string, error) {
	return g.provider.Complete(ctx, g.model, system, prompt)
}

type embedder struct {
	provider IProvider
	model    string
}

func NewEmbedder(p IProvider, model string) IEmbedder {
	return &embedder{provider: p, model: model}
}

func (e *embedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return e.provider.Embed(ctx, e.model, text, taskType)
}

func (e *embedder) ModelName() string {
	return e.model
}

type ProviderFactory func(args interface{}) (IProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}
