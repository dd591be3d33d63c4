package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/persona-screener/internal/persona"
	"github.com/jonathan/persona-screener/internal/scoring"
)

func TestPrintPersona(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintPersona(&persona.Persona{
		Name: "Senior Backend Engineer",
		Categories: []persona.Category{
			{
				Name: "Technical Skills", WeightPercentage: 60,
				Subcategories: []persona.Subcategory{
					{Name: "Languages", WeightPercentage: 60, ExpertiseLevel: 4},
					{Name: "Databases", WeightPercentage: 40, ExpertiseLevel: 3},
				},
			},
			{Name: "Values", WeightPercentage: 40},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "PERSONA")
	assert.Contains(t, out, "Senior Backend Engineer")
	assert.Contains(t, out, "Technical Skills (60%)")
	assert.Contains(t, out, "Languages 60% (level 4)")
}

func TestPrintPersona_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPersona(nil)
	assert.Empty(t, buf.String())
}

func TestPrintPrefilter(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintPrefilter(&scoring.Stage1Result{
		Stage:      1,
		Score:      72.4,
		Threshold:  50,
		ChunkCount: 4,
		Decision:   scoring.DecisionPass,
	})

	out := buf.String()
	assert.Contains(t, out, "SEMANTIC PREFILTER")
	assert.Contains(t, out, "72.4")
	assert.Contains(t, out, "PASS")
}

func TestPrintQuickScreen(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintQuickScreen(&scoring.Stage2Result{
		Stage:          2,
		RelevanceScore: 85,
		Decision:       scoring.DecisionPass,
		Label:          scoring.LabelStrong,
		KeyMatches:     []string{"Go", "PostgreSQL"},
		KeyGaps:        []string{"Kubernetes"},
	})

	out := buf.String()
	assert.Contains(t, out, "QUICK SCREEN")
	assert.Contains(t, out, "85.0")
	assert.Contains(t, out, "Go")
	assert.Contains(t, out, "Kubernetes")
}

func TestPrintDetailedScores(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintDetailedScores(&scoring.Stage3Result{
		Stage:        3,
		OverallScore: 77.2,
		Categories: []scoring.CategoryScore{
			{
				Name: "Technical Skills", WeightPercentage: 60, ScorePercentage: 82, Contribution: 49.2,
				Subcategories: []scoring.SubcategoryScore{
					{Name: "Languages", ScoredPercentage: 90, ActualLevel: 4, ExpectedLevel: 4},
				},
			},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "DETAILED SCORING")
	assert.Contains(t, out, "Technical Skills")
	assert.Contains(t, out, "82.0%")
	assert.Contains(t, out, "level 4/4")
}

func TestPrintDetailedScores_Empty(t *testing.T) {
	var buf bytes.Buffer
	empty := scoring.EmptyStage3()
	NewPrinter(&buf).PrintDetailedScores(&empty)
	assert.Empty(t, buf.String())
}

func TestPrintResult_Completed(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintResult(&scoring.Result{
		StageReached:     3,
		FinalScore:       77.2,
		FinalDecision:    "GOOD_FIT",
		ScoreProgression: []float64{70.7, 85, 77.2},
	})

	out := buf.String()
	assert.Contains(t, out, "RESULT")
	assert.Contains(t, out, "77.2")
	assert.Contains(t, out, "GOOD_FIT")
	assert.Contains(t, out, "70.7")
}

func TestPrintResult_Rejection(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintResult(&scoring.Result{
		StageReached:    1,
		FinalScore:      42,
		FinalDecision:   "REJECTED",
		RejectionStage:  scoring.StageSemanticPrefilter,
		RejectionReason: "best-chunk similarity 42.0 below threshold 50.0",
	})

	out := buf.String()
	assert.Contains(t, out, "REJECTED")
	assert.Contains(t, out, "semantic_prefilter")
}
