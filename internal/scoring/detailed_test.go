package scoring

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/persona-screener/internal/llm"
)

const technicalSkillsJSON = `{
	"subcategories": [
		{"name": "Languages", "weight": 60, "expected_level": 4, "actual_level": 4, "base_score": 92, "coverage_ratio": 1.0, "missing_count": 0, "scored_percentage": 90, "notes": "Go and PostgreSQL both evidenced"},
		{"name": "Databases", "weight": 40, "expected_level": 3, "actual_level": 3, "base_score": 72, "coverage_ratio": 1.0, "missing_count": 0, "scored_percentage": 70, "notes": "PostgreSQL in production"}
	]
}`

const valuesJSON = `{
	"subcategories": [
		{"name": "Ownership", "weight": 50, "expected_level": 3, "actual_level": 3, "base_score": 80, "coverage_ratio": 1.0, "missing_count": 0, "scored_percentage": 80, "notes": "Led the payments platform team"},
		{"name": "Collaboration", "weight": 50, "expected_level": 3, "actual_level": 2, "base_score": 62, "coverage_ratio": 1.0, "missing_count": 0, "scored_percentage": 60, "notes": "Limited cross-team evidence"}
	]
}`

const summaryJSON = `{
	"strengths": ["Strong Go background"],
	"gaps": ["Thin collaboration signals"],
	"recommendation": "GOOD_FIT",
	"reasoning": "Solid technical match with moderate values gaps."
}`

// detailedClient routes prompts to canned payloads by content.
func detailedClient(t *testing.T) *MockLLMClient {
	t.Helper()
	return &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			switch {
			case strings.Contains(prompt, `"Technical Skills" category only`):
				assert.Equal(t, llm.TierAdvanced, tier)
				return technicalSkillsJSON, nil
			case strings.Contains(prompt, `"Values" category only`):
				assert.Equal(t, llm.TierAdvanced, tier)
				return valuesJSON, nil
			case strings.Contains(prompt, "final assessment summary"):
				assert.Equal(t, llm.TierStandard, tier)
				return summaryJSON, nil
			default:
				return "", errors.New("unexpected prompt")
			}
		},
	}
}

func TestRunDetailedScoring_WeightedRollup(t *testing.T) {
	result, err := RunDetailedScoring(context.Background(), detailedClient(t), testDocument, testPersona(), 72, 85, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, result.Categories, 2)

	tech := result.Categories[0]
	assert.Equal(t, "Technical Skills", tech.Name)
	// (90*60 + 70*40) / 100 = 82
	assert.InDelta(t, 82.0, tech.ScorePercentage, 1e-9)
	assert.InDelta(t, 49.2, tech.Contribution, 1e-9)
	require.Len(t, tech.Subcategories, 2)
	assert.Equal(t, 4, tech.Subcategories[0].ExpectedLevel)
	assert.Equal(t, 4, tech.Subcategories[0].ActualLevel)
	assert.Equal(t, 60, tech.Subcategories[0].WeightPercentage)

	values := result.Categories[1]
	// (80*50 + 60*50) / 100 = 70
	assert.InDelta(t, 70.0, values.ScorePercentage, 1e-9)
	assert.InDelta(t, 28.0, values.Contribution, 1e-9)

	// 0.6*82 + 0.4*70 = 77.2
	assert.InDelta(t, 77.2, result.OverallScore, 1e-9)

	assert.Equal(t, "GOOD_FIT", result.Recommendation)
	assert.Equal(t, []string{"Strong Go background"}, result.Strengths)
	assert.NotEmpty(t, result.Reasoning)
}

func TestRunDetailedScoring_CategoryFailureAbortsStage(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			if strings.Contains(prompt, `"Values" category only`) {
				return "", errors.New("provider unavailable")
			}
			return technicalSkillsJSON, nil
		},
	}

	result, err := RunDetailedScoring(context.Background(), client, testDocument, testPersona(), 72, 85, DefaultConfig())
	require.Error(t, err)
	assert.Nil(t, result)

	var callErr *ExternalCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 3, callErr.Stage)
	assert.Contains(t, callErr.Op, "Values")
}

func TestRunDetailedScoring_MissingSubcategoryAborts(t *testing.T) {
	incomplete := `{"subcategories": [{"name": "Languages", "actual_level": 4, "scored_percentage": 90}]}`
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			if strings.Contains(prompt, `"Technical Skills" category only`) {
				return incomplete, nil
			}
			return valuesJSON, nil
		},
	}

	_, err := RunDetailedScoring(context.Background(), client, testDocument, testPersona(), 72, 85, DefaultConfig())
	require.Error(t, err)
	assert.ErrorContains(t, err, `missing subcategory "Databases"`)
}

func TestRunDetailedScoring_SummaryFailureAbortsStage(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			switch {
			case strings.Contains(prompt, `"Technical Skills" category only`):
				return technicalSkillsJSON, nil
			case strings.Contains(prompt, `"Values" category only`):
				return valuesJSON, nil
			default:
				return `{"recommendation": "NOT_A_BAND", "reasoning": "bad label"}`, nil
			}
		},
	}

	result, err := RunDetailedScoring(context.Background(), client, testDocument, testPersona(), 72, 85, DefaultConfig())
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestRunDetailedScoring_OneCallPerCategoryPlusSummary(t *testing.T) {
	var calls atomic.Int32
	base := detailedClient(t)
	client := &MockLLMClient{
		GenerateJSONFunc: func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
			calls.Add(1)
			return base.GenerateJSON(ctx, prompt, tier)
		},
	}

	_, err := RunDetailedScoring(context.Background(), client, testDocument, testPersona(), 72, 85, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestEmptyStage3(t *testing.T) {
	empty := EmptyStage3()
	assert.Equal(t, 3, empty.Stage)
	assert.NotNil(t, empty.Categories)
	assert.Empty(t, empty.Categories)
	assert.Zero(t, empty.OverallScore)
}
