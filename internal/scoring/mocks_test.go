package scoring

import (
	"context"

	"github.com/jonathan/persona-screener/internal/llm"
	"github.com/jonathan/persona-screener/internal/persona"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GetModelFunc        func(tier llm.ModelTier) string
	CloseFunc           func() error
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string {
	if m.GetModelFunc != nil {
		return m.GetModelFunc(tier)
	}
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockEmbedder implements llm.Embedder for testing
type MockEmbedder struct {
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return []float32{1, 0}, nil
}

// testPersona builds a small valid persona: two categories, four
// subcategories, all weights summing to 100 at both levels.
func testPersona() *persona.Persona {
	return &persona.Persona{
		Name: "Senior Backend Engineer",
		Categories: []persona.Category{
			{
				Name:             "Technical Skills",
				Position:         1,
				WeightPercentage: 60,
				RangeMin:         -5,
				RangeMax:         10,
				Subcategories: []persona.Subcategory{
					{Name: "Languages", WeightPercentage: 60, RangeMin: -5, RangeMax: 10, ExpertiseLevel: 4, RequiredItems: []string{"Go", "PostgreSQL"}},
					{Name: "Databases", WeightPercentage: 40, RangeMin: -5, RangeMax: 10, ExpertiseLevel: 3, RequiredItems: []string{"PostgreSQL"}},
				},
			},
			{
				Name:             "Values",
				Position:         2,
				WeightPercentage: 40,
				RangeMin:         -5,
				RangeMax:         10,
				Subcategories: []persona.Subcategory{
					{Name: "Ownership", WeightPercentage: 50, RangeMin: -5, RangeMax: 10, ExpertiseLevel: 3},
					{Name: "Collaboration", WeightPercentage: 50, RangeMin: -5, RangeMax: 10, ExpertiseLevel: 3},
				},
			},
		},
	}
}

const testDocument = `John Doe
Backend engineer with ten years of shipping production systems.

Skills
Go, PostgreSQL, Kubernetes, gRPC

Experience
Led the payments platform team at Acme, built Go microservices handling 50k rps.

Education
BSc Computer Science`
