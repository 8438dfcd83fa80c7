package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	answer string
	err    error
	calls  int
}

func (s *stubGenerator) Complete(ctx context.Context, system string, prompt string) (string, error) {
	s.calls++
	return s.answer, s.err
}

type stubEmbedder struct {
	vec   []float32
	err   error
	model string
}

func (s *stubEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return s.vec, s.err
}

func (s *stubEmbedder) ModelName() string {
	return s.model
}

func TestGroupGeneratorFailover(t *testing.T) {
	broken := &stubGenerator{err: errors.New("down")}
	healthy := &stubGenerator{answer: "ok"}
	g := NewGroupGenerator([]GeneratorEntry{
		{Name: "primary", Generator: broken},
		{Name: "backup", Generator: healthy},
	})
	out, err := g.Complete(context.Background(), "sys", "prompt")
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Equal(t, 1, broken.calls)
	require.Equal(t, 1, healthy.calls)
}

func TestGroupGeneratorAllFail(t *testing.T) {
	lastErr := errors.New("also down")
	g := NewGroupGenerator([]GeneratorEntry{
		{Name: "a", Generator: &stubGenerator{err: errors.New("down")}},
		{Name: "b", Generator: &stubGenerator{err: lastErr}},
	})
	_, err := g.Complete(context.Background(), "sys", "prompt")
	require.ErrorIs(t, err, lastErr)
}

func TestGroupGeneratorSingleEntryUnwrapped(t *testing.T) {
	only := &stubGenerator{answer: "ok"}
	g := NewGroupGenerator([]GeneratorEntry{{Name: "only", Generator: only}})
	require.Equal(t, IGenerator(only), g)
}

func TestGroupEmbedderFailover(t *testing.T) {
	e := NewGroupEmbedder([]EmbedderEntry{
		{Name: "primary", Embedder: &stubEmbedder{err: errors.New("down"), model: "m1"}},
		{Name: "backup", Embedder: &stubEmbedder{vec: []float32{1}, model: "m2"}},
	})
	vec, err := e.Embed(context.Background(), "text", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, []float32{1}, vec)
	require.Equal(t, "m1", e.ModelName())
}

func TestGroupEmbedderEmpty(t *testing.T) {
	require.Nil(t, NewGroupEmbedder(nil))
}
