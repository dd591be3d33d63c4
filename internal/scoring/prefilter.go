package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/jonathan/persona-screener/internal/llm"
	"github.com/jonathan/persona-screener/internal/persona"
)

// Decision values shared by all stages.
const (
	DecisionPass     = "PASS"
	DecisionRejected = "REJECTED"
)

// Stage1Result is the outcome of the embedding prefilter. Score is the best
// chunk's cosine similarity scaled to 0-100.
type Stage1Result struct {
	Stage      int     `json:"stage"`
	Method     string  `json:"method"`
	Score      float64 `json:"score"`
	Threshold  float64 `json:"threshold"`
	ChunkCount int     `json:"chunk_count"`
	Decision   string  `json:"decision"`
	Reason     string  `json:"reason,omitempty"`
}

// RunPrefilter embeds the persona requirements once and every document chunk,
// then scores the document as the maximum chunk similarity. A strong localized
// match is deliberately not diluted by surrounding text.
func RunPrefilter(ctx context.Context, embedder llm.Embedder, document string, p *persona.Persona, cfg *Config) (*Stage1Result, error) {
	chunks := ChunkDocument(document, cfg)
	if len(chunks) == 0 {
		return nil, newExternalCallError(1, "chunk document", fmt.Errorf("document is empty"))
	}

	requirementVec, err := embedder.EmbedText(ctx, RequirementText(p))
	if err != nil {
		return nil, newExternalCallError(1, "embed requirements", err)
	}

	best := 0.0
	for i, chunk := range chunks {
		chunkVec, err := embedder.EmbedText(ctx, chunk)
		if err != nil {
			return nil, newExternalCallError(1, fmt.Sprintf("embed chunk %d", i+1), err)
		}
		if sim := CosineSimilarity(requirementVec, chunkVec); sim > best {
			best = sim
		}
	}

	result := &Stage1Result{
		Stage:      1,
		Method:     "embedding_similarity",
		Score:      best * 100,
		Threshold:  cfg.Stage1Threshold,
		ChunkCount: len(chunks),
		Decision:   DecisionPass,
	}
	if result.Score < cfg.Stage1Threshold {
		result.Decision = DecisionRejected
		result.Reason = fmt.Sprintf("best-chunk similarity %.1f below threshold %.0f", result.Score, cfg.Stage1Threshold)
	}
	return result, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors, or 0
// for mismatched or zero-magnitude inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
