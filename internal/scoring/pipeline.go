package scoring

import (
	"context"

	"github.com/jonathan/persona-screener/internal/llm"
	"github.com/jonathan/persona-screener/internal/persona"
)

// Stage names recorded on rejection.
const (
	StageSemanticPrefilter = "semantic_prefilter"
	StageQuickScreen       = "quick_screen"
)

// Pipeline sequences the three stages against a single persona/document pair.
// Stages 1 and 2 are strictly sequential; Stage 3 is the only parallel
// section. The cheap-to-expensive ordering is deliberate cost control.
type Pipeline struct {
	client   llm.Client
	embedder llm.Embedder
	cfg      *Config
}

// NewPipeline creates a scoring pipeline. A nil cfg uses DefaultConfig.
func NewPipeline(client llm.Client, embedder llm.Embedder, cfg *Config) *Pipeline {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Pipeline{client: client, embedder: embedder, cfg: cfg}
}

// Result is the fixed-shape scoring envelope. Stage1 is always present;
// Stage2 is null unless stage 2 ran; Stage3 is the documented empty default
// unless stage 3 completed. Consumers branch on StageReached only.
type Result struct {
	StageReached     int           `json:"stage_reached"`
	Stage1           Stage1Result  `json:"stage1"`
	Stage2           *Stage2Result `json:"stage2"`
	Stage3           Stage3Result  `json:"stage3"`
	FinalScore       float64       `json:"final_score"`
	FinalDecision    string        `json:"final_decision"`
	RejectionStage   string        `json:"rejection_stage,omitempty"`
	RejectionReason  string        `json:"rejection_reason,omitempty"`
	ScoreProgression []float64     `json:"score_progression"`
}

// Score runs the full cascade. A rejection at Stage 1 or 2 is a successful
// return with FinalDecision REJECTED, not an error. Validation and external
// call failures abort the attempt with no envelope.
func (pl *Pipeline) Score(ctx context.Context, p *persona.Persona, document string) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	stage1, err := RunPrefilter(ctx, pl.embedder, document, p, pl.cfg)
	if err != nil {
		return nil, err
	}
	progression := []float64{stage1.Score}

	if stage1.Decision == DecisionRejected {
		return &Result{
			StageReached:     1,
			Stage1:           *stage1,
			Stage3:           EmptyStage3(),
			FinalScore:       stage1.Score,
			FinalDecision:    DecisionRejected,
			RejectionStage:   StageSemanticPrefilter,
			RejectionReason:  stage1.Reason,
			ScoreProgression: progression,
		}, nil
	}

	stage2, err := RunQuickScreen(ctx, pl.client, document, p, stage1.Score, pl.cfg)
	if err != nil {
		return nil, err
	}
	progression = append(progression, stage2.RelevanceScore)

	if stage2.Decision == DecisionRejected {
		return &Result{
			StageReached:     2,
			Stage1:           *stage1,
			Stage2:           stage2,
			Stage3:           EmptyStage3(),
			FinalScore:       stage2.RelevanceScore,
			FinalDecision:    DecisionRejected,
			RejectionStage:   StageQuickScreen,
			RejectionReason:  stage2.Reason,
			ScoreProgression: progression,
		}, nil
	}

	stage3, err := RunDetailedScoring(ctx, pl.client, document, p, stage1.Score, stage2.RelevanceScore, pl.cfg)
	if err != nil {
		return nil, err
	}
	progression = append(progression, stage3.OverallScore)

	return &Result{
		StageReached:     3,
		Stage1:           *stage1,
		Stage2:           stage2,
		Stage3:           *stage3,
		FinalScore:       stage3.OverallScore,
		FinalDecision:    RecommendationBand(stage3.OverallScore, pl.cfg),
		ScoreProgression: progression,
	}, nil
}
