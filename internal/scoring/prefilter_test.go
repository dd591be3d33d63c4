package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/persona-screener/internal/persona"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
}

func TestRequirementText_PreferredCategoryNames(t *testing.T) {
	text := RequirementText(testPersona())

	assert.Contains(t, text, "Role: Senior Backend Engineer")
	assert.Contains(t, text, "Technical Skills:")
	assert.Contains(t, text, "Languages (level 4): Go, PostgreSQL")
	// "Values" is not a preferred category and must not leak into the text
	assert.NotContains(t, text, "Values:")
}

func TestRequirementText_PositionFallback(t *testing.T) {
	p := &persona.Persona{
		Name: "Analyst",
		Categories: []persona.Category{
			{Name: "Hard Skills", Position: 1},
			{Name: "Soft Skills", Position: 2},
			{Name: "Domain Knowledge", Position: 6},
		},
	}

	text := RequirementText(p)
	assert.Contains(t, text, "Hard Skills:")
	assert.Contains(t, text, "Domain Knowledge:")
	assert.NotContains(t, text, "Soft Skills:")
}

func TestRequirementText_AllCategoriesFallback(t *testing.T) {
	p := &persona.Persona{
		Name: "Analyst",
		Categories: []persona.Category{
			{Name: "Alpha"},
			{Name: "Beta"},
		},
	}

	text := RequirementText(p)
	assert.Contains(t, text, "Alpha:")
	assert.Contains(t, text, "Beta:")
}

func TestRunPrefilter_BestChunkWins(t *testing.T) {
	embedder := &MockEmbedder{
		EmbedTextFunc: func(_ context.Context, text string) ([]float32, error) {
			if strings.HasPrefix(text, "Role:") {
				return []float32{1, 0}, nil
			}
			if strings.Contains(text, "Go") {
				return []float32{1, 0.5}, nil // cos ≈ 0.894
			}
			return []float32{0, 1}, nil // cos = 0
		},
	}

	result, err := RunPrefilter(context.Background(), embedder, testDocument, testPersona(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stage)
	assert.Equal(t, "embedding_similarity", result.Method)
	assert.InDelta(t, 89.4, result.Score, 0.1)
	assert.Equal(t, DecisionPass, result.Decision)
	assert.Equal(t, 4, result.ChunkCount)
	assert.Empty(t, result.Reason)
}

func TestRunPrefilter_Rejects(t *testing.T) {
	embedder := &MockEmbedder{
		EmbedTextFunc: func(_ context.Context, text string) ([]float32, error) {
			if strings.HasPrefix(text, "Role:") {
				return []float32{1, 0}, nil
			}
			return []float32{0, 1}, nil
		},
	}

	result, err := RunPrefilter(context.Background(), embedder, testDocument, testPersona(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, DecisionRejected, result.Decision)
	assert.Equal(t, 0.0, result.Score)
	assert.Contains(t, result.Reason, "below threshold")
}

func TestRunPrefilter_ThresholdOverride(t *testing.T) {
	embedder := &MockEmbedder{
		EmbedTextFunc: func(_ context.Context, _ string) ([]float32, error) {
			return []float32{1, 1}, nil // every pair scores 100
		},
	}

	cfg := DefaultConfig()
	cfg.Stage1Threshold = 101

	result, err := RunPrefilter(context.Background(), embedder, testDocument, testPersona(), cfg)
	require.NoError(t, err)
	assert.Equal(t, DecisionRejected, result.Decision)
}

func TestRunPrefilter_EmbedFailure(t *testing.T) {
	embedder := &MockEmbedder{
		EmbedTextFunc: func(_ context.Context, _ string) ([]float32, error) {
			return nil, errors.New("quota exceeded")
		},
	}

	_, err := RunPrefilter(context.Background(), embedder, testDocument, testPersona(), DefaultConfig())
	require.Error(t, err)

	var callErr *ExternalCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 1, callErr.Stage)
}

func TestRunPrefilter_EmptyDocument(t *testing.T) {
	_, err := RunPrefilter(context.Background(), &MockEmbedder{}, "   ", testPersona(), DefaultConfig())
	require.Error(t, err)

	var callErr *ExternalCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 1, callErr.Stage)
}
