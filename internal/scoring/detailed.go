package scoring

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/persona-screener/internal/llm"
	"github.com/jonathan/persona-screener/internal/persona"
	"github.com/jonathan/persona-screener/internal/prompts"
	"github.com/jonathan/persona-screener/internal/repair"
	"github.com/jonathan/persona-screener/internal/schemas"
)

// SubcategoryScore is the detailed assessment of one subcategory. Weight and
// ExpectedLevel come from the persona tree; the rest comes from the model.
type SubcategoryScore struct {
	Name             string  `json:"name"`
	WeightPercentage int     `json:"weight_percentage"`
	ExpectedLevel    int     `json:"expected_level"`
	ActualLevel      int     `json:"actual_level"`
	BaseScore        float64 `json:"base_score"`
	CoverageRatio    float64 `json:"coverage_ratio"`
	MissingCount     int     `json:"missing_count"`
	ScoredPercentage float64 `json:"scored_percentage"`
	Notes            string  `json:"notes,omitempty"`
}

// CategoryScore is one category's weighted rollup of its subcategory scores.
// Contribution is the category's share of the overall score.
type CategoryScore struct {
	Name             string             `json:"name"`
	WeightPercentage int                `json:"weight_percentage"`
	ScorePercentage  float64            `json:"score_percentage"`
	Contribution     float64            `json:"contribution"`
	Subcategories    []SubcategoryScore `json:"subcategories"`
}

// Stage3Result is the full detailed assessment: per-category rollups, the
// weighted overall score, and the qualitative summary.
type Stage3Result struct {
	Stage          int             `json:"stage"`
	OverallScore   float64         `json:"overall_score"`
	Categories     []CategoryScore `json:"categories"`
	Strengths      []string        `json:"strengths,omitempty"`
	Gaps           []string        `json:"gaps,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
	Reasoning      string          `json:"reasoning,omitempty"`
}

// EmptyStage3 is the documented default shape returned when the cascade
// rejects before Stage 3. Consumers branch on stage_reached, never on field
// presence.
func EmptyStage3() Stage3Result {
	return Stage3Result{Stage: 3, Categories: []CategoryScore{}}
}

// categoryScoringPayload mirrors the JSON shape the category prompt requests.
type categoryScoringPayload struct {
	Subcategories []struct {
		Name             string  `json:"name"`
		ActualLevel      int     `json:"actual_level"`
		BaseScore        float64 `json:"base_score"`
		CoverageRatio    float64 `json:"coverage_ratio"`
		MissingCount     int     `json:"missing_count"`
		ScoredPercentage float64 `json:"scored_percentage"`
		Notes            string  `json:"notes"`
	} `json:"subcategories"`
}

// summaryPayload mirrors the JSON shape the summary prompt requests.
type summaryPayload struct {
	Strengths      []string `json:"strengths"`
	Gaps           []string `json:"gaps"`
	Recommendation string   `json:"recommendation"`
	Reasoning      string   `json:"reasoning"`
}

// RunDetailedScoring issues one structured call per category concurrently,
// joins on all of them, rolls the results into the weighted overall score, and
// finishes with a single summary call conditioned on the numeric rollup. Any
// category call failing aborts the whole stage; partial aggregation is never
// returned.
func RunDetailedScoring(ctx context.Context, client llm.Client, document string, p *persona.Persona, stage1Score, stage2Score float64, cfg *Config) (*Stage3Result, error) {
	categories := make([]CategoryScore, len(p.Categories))

	g, gctx := errgroup.WithContext(ctx)
	for i := range p.Categories {
		i := i
		g.Go(func() error {
			score, err := scoreCategory(gctx, client, document, &p.Categories[i], stage1Score, stage2Score)
			if err != nil {
				return err
			}
			categories[i] = *score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var overall float64
	for i := range categories {
		categories[i].Contribution = float64(categories[i].WeightPercentage) / 100 * categories[i].ScorePercentage
		overall += categories[i].Contribution
	}

	result := &Stage3Result{
		Stage:        3,
		OverallScore: overall,
		Categories:   categories,
	}

	summary, err := generateSummary(ctx, client, document, p, result)
	if err != nil {
		return nil, err
	}
	result.Strengths = summary.Strengths
	result.Gaps = summary.Gaps
	result.Recommendation = summary.Recommendation
	result.Reasoning = summary.Reasoning

	return result, nil
}

// scoreCategory runs the structured call for one category and rolls its
// subcategory scores up using the tree's weights.
func scoreCategory(ctx context.Context, client llm.Client, document string, cat *persona.Category, stage1Score, stage2Score float64) (*CategoryScore, error) {
	template, err := prompts.Get("scoring.json", "category_scoring")
	if err != nil {
		return nil, newExternalCallError(3, "load prompt", err)
	}

	prompt := prompts.Format(template, map[string]string{
		"CategoryName":      cat.Name,
		"CategoryWeight":    fmt.Sprintf("%d", cat.WeightPercentage),
		"Stage1Score":       fmt.Sprintf("%.1f", stage1Score),
		"Stage2Score":       fmt.Sprintf("%.1f", stage2Score),
		"SubcategoryDetail": subcategoryDetail(cat),
		"Document":          document,
	})

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, newExternalCallError(3, fmt.Sprintf("score category %q", cat.Name), err)
	}

	cleaned, err := repair.ExtractJSON(raw)
	if err != nil {
		return nil, newExternalCallError(3, fmt.Sprintf("repair response for category %q", cat.Name), err)
	}
	if err := schemas.Validate(schemas.CategoryScoring, cleaned); err != nil {
		return nil, newExternalCallError(3, fmt.Sprintf("validate response for category %q", cat.Name), err)
	}

	var payload categoryScoringPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, newExternalCallError(3, fmt.Sprintf("parse response for category %q", cat.Name), err)
	}

	byName := make(map[string]int, len(payload.Subcategories))
	for i, sub := range payload.Subcategories {
		byName[sub.Name] = i
	}

	score := &CategoryScore{
		Name:             cat.Name,
		WeightPercentage: cat.WeightPercentage,
		Subcategories:    make([]SubcategoryScore, 0, len(cat.Subcategories)),
	}

	var weightedSum, weightSum float64
	for _, sub := range cat.Subcategories {
		idx, ok := byName[sub.Name]
		if !ok {
			return nil, newExternalCallError(3, fmt.Sprintf("score category %q", cat.Name),
				fmt.Errorf("response missing subcategory %q", sub.Name))
		}
		scored := payload.Subcategories[idx]

		score.Subcategories = append(score.Subcategories, SubcategoryScore{
			Name:             sub.Name,
			WeightPercentage: sub.WeightPercentage,
			ExpectedLevel:    sub.ExpertiseLevel,
			ActualLevel:      scored.ActualLevel,
			BaseScore:        scored.BaseScore,
			CoverageRatio:    scored.CoverageRatio,
			MissingCount:     scored.MissingCount,
			ScoredPercentage: clampScore(scored.ScoredPercentage),
			Notes:            scored.Notes,
		})

		weightedSum += clampScore(scored.ScoredPercentage) * float64(sub.WeightPercentage)
		weightSum += float64(sub.WeightPercentage)
	}

	if weightSum > 0 {
		score.ScorePercentage = weightedSum / weightSum
	}
	return score, nil
}

// generateSummary issues the final qualitative summary call, conditioned on
// the numeric rollup. The recommendation label is advisory; the numeric
// overall score stays canonical.
func generateSummary(ctx context.Context, client llm.Client, document string, p *persona.Persona, rollup *Stage3Result) (*summaryPayload, error) {
	template, err := prompts.Get("scoring.json", "summary")
	if err != nil {
		return nil, newExternalCallError(3, "load prompt", err)
	}

	prompt := prompts.Format(template, map[string]string{
		"OverallScore":    fmt.Sprintf("%.1f", rollup.OverallScore),
		"CategorySummary": categorySummary(rollup.Categories),
		"Document":        document,
		"PersonaName":     p.Name,
	})

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, newExternalCallError(3, "summary completion", err)
	}

	cleaned, err := repair.ExtractJSON(raw)
	if err != nil {
		return nil, newExternalCallError(3, "repair summary response", err)
	}
	if err := schemas.Validate(schemas.Summary, cleaned); err != nil {
		return nil, newExternalCallError(3, "validate summary response", err)
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, newExternalCallError(3, "parse summary response", err)
	}
	return &payload, nil
}
