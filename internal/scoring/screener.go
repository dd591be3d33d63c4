package scoring

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/persona-screener/internal/llm"
	"github.com/jonathan/persona-screener/internal/persona"
	"github.com/jonathan/persona-screener/internal/prompts"
	"github.com/jonathan/persona-screener/internal/repair"
	"github.com/jonathan/persona-screener/internal/schemas"
)

// Pass labels attached to Stage 2 results that clear the minimum threshold.
const (
	LabelBorderline = "BORDERLINE"
	LabelStrong     = "STRONG"
)

// Stage2Result is the outcome of the quick relevance screen: one structured
// call assessing the truncated document against a compact requirement digest.
type Stage2Result struct {
	Stage          int      `json:"stage"`
	RelevanceScore float64  `json:"relevance_score"`
	Assessment     string   `json:"assessment"`
	Skills         []string `json:"skills,omitempty"`
	RolesDetected  []string `json:"roles_detected,omitempty"`
	KeyMatches     []string `json:"key_matches,omitempty"`
	KeyGaps        []string `json:"key_gaps,omitempty"`
	Threshold      float64  `json:"threshold"`
	Decision       string   `json:"decision"`
	Label          string   `json:"label,omitempty"`
	Reason         string   `json:"reason,omitempty"`
}

// quickScreenPayload mirrors the JSON shape the quick-screen prompt requests.
type quickScreenPayload struct {
	RelevanceScore float64  `json:"relevance_score"`
	Assessment     string   `json:"assessment"`
	Skills         []string `json:"skills"`
	RolesDetected  []string `json:"roles_detected"`
	KeyMatches     []string `json:"key_matches"`
	KeyGaps        []string `json:"key_gaps"`
}

// RunQuickScreen issues the single Stage 2 structured-completion call and
// applies the reject/borderline/strong thresholds. The raw response goes
// through best-effort JSON repair and schema validation before parsing; a
// response that survives neither is a fatal ExternalCallError.
func RunQuickScreen(ctx context.Context, client llm.Client, document string, p *persona.Persona, stage1Score float64, cfg *Config) (*Stage2Result, error) {
	template, err := prompts.Get("scoring.json", "quick_screen")
	if err != nil {
		return nil, newExternalCallError(2, "load prompt", err)
	}

	prompt := prompts.Format(template, map[string]string{
		"EmbeddingScore":     fmt.Sprintf("%.1f", stage1Score),
		"RequirementSummary": RequirementSummary(p),
		"Document":           truncateRunes(document, cfg.MaxScreeningChars),
	})

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, newExternalCallError(2, "quick screen completion", err)
	}

	cleaned, err := repair.ExtractJSON(raw)
	if err != nil {
		return nil, newExternalCallError(2, "repair quick screen response", err)
	}
	if err := schemas.Validate(schemas.QuickScreen, cleaned); err != nil {
		return nil, newExternalCallError(2, "validate quick screen response", err)
	}

	var payload quickScreenPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, newExternalCallError(2, "parse quick screen response", err)
	}

	score := clampScore(payload.RelevanceScore)
	result := &Stage2Result{
		Stage:          2,
		RelevanceScore: score,
		Assessment:     payload.Assessment,
		Skills:         payload.Skills,
		RolesDetected:  payload.RolesDetected,
		KeyMatches:     payload.KeyMatches,
		KeyGaps:        payload.KeyGaps,
		Threshold:      cfg.Stage2MinThreshold,
	}

	switch {
	case score < cfg.Stage2MinThreshold:
		result.Decision = DecisionRejected
		result.Reason = fmt.Sprintf("relevance score %.1f below threshold %.0f", score, cfg.Stage2MinThreshold)
	case score < cfg.Stage2StrongThreshold:
		result.Decision = DecisionPass
		result.Label = LabelBorderline
	default:
		result.Decision = DecisionPass
		result.Label = LabelStrong
	}
	return result, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func truncateRunes(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
