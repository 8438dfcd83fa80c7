package ai

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type GeneratorEntry struct {
	Name      string
	Generator IGenerator
}

type EmbedderEntry struct {
	Name     string
	Embedder IEmbedder
}

// groupGenerator tries each entry in order until one succeeds.
type groupGenerator struct {
	items []GeneratorEntry
}

func NewGroupGenerator(items []GeneratorEntry) IGenerator {
	if len(items) == 0 {
		return nil
	}
	if len(items) == 1 {
		return items[0].Generator
	}
	return &groupGenerator{items: items}
}

func (g *groupGenerator) Complete(ctx context.Context, system string, prompt string) (string, error) {
	var lastErr error
	for _, item := range g.items {
		if item.Generator == nil {
			continue
		}
		res, err := item.Generator.Complete(ctx, system, prompt)
		if err == nil {
			return res, nil
		}
		logutil.GetLogger(ctx).Warn("generator failed, trying next",
			zap.String("provider", item.Name), zap.Error(err))
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no generator configured")
	}
	return "", lastErr
}

type groupEmbedder struct {
	items []EmbedderEntry
}

func NewGroupEmbedder(items []EmbedderEntry) IEmbedder {
	if len(items) == 0 {
		return nil
	}
	if len(items) == 1 {
		return items[0].Embedder
	}
	return &groupEmbedder{items: items}
}

func (g *groupEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	var lastErr error
	for _, item := range g.items {
		if item.Embedder == nil {
			continue
		}
		res, err := item.Embedder.Embed(ctx, text, taskType)
		if err == nil {
			return res, nil
		}
		logutil.GetLogger(ctx).Warn("embedder failed, trying next",
			zap.String("provider", item.Name), zap.Error(err))
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no embedder configured")
	}
	return nil, lastErr
}

func (g *groupEmbedder) ModelName() string {
	for _, item := range g.items {
		if item.Embedder != nil {
			return item.Embedder.ModelName()
		}
	}
	return ""
}
