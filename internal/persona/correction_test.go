package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sixCategoryPersona builds a normalized persona with the standard six
// top-level categories.
func sixCategoryPersona(t *testing.T) *Persona {
	t.Helper()
	p := &Persona{
		Name: "Senior Backend Engineer Persona",
		Categories: []Category{
			{Name: "Technical Skills", WeightPercentage: 40, Subcategories: []Subcategory{
				{Name: "Languages", WeightPercentage: 60, ExpertiseLevel: 4, RequiredItems: []string{"Go", "Python"}},
				{Name: "Databases", WeightPercentage: 40, ExpertiseLevel: 3, RequiredItems: []string{"PostgreSQL"}},
			}},
			{Name: "Cognitive Demands", WeightPercentage: 15, Subcategories: []Subcategory{
				{Name: "Problem Solving", WeightPercentage: 100, ExpertiseLevel: 4},
			}},
			{Name: "Values", WeightPercentage: 10, Subcategories: []Subcategory{
				{Name: "Achievement", WeightPercentage: 50, ExpertiseLevel: 3},
				{Name: "Collaboration", WeightPercentage: 50, ExpertiseLevel: 3},
			}},
			{Name: "Foundational Behaviors", WeightPercentage: 15, Subcategories: []Subcategory{
				{Name: "Communication", WeightPercentage: 100, ExpertiseLevel: 3},
			}},
			{Name: "Leadership Skills", WeightPercentage: 10, Subcategories: []Subcategory{
				{Name: "Mentoring", WeightPercentage: 100, ExpertiseLevel: 2},
			}},
			{Name: "Education and Experience", WeightPercentage: 10, Subcategories: []Subcategory{
				{Name: "Education", WeightPercentage: 40, ExpertiseLevel: 2},
				{Name: "Experience", WeightPercentage: 60, ExpertiseLevel: 4},
			}},
		},
	}
	require.NoError(t, p.Normalize(DefaultWeightFloor))
	require.NoError(t, p.Validate())
	return p
}

func TestApplyCorrections_MinorityLocksSuggested(t *testing.T) {
	p := sixCategoryPersona(t)

	// 2 of 6 corrected: ratio 0.33, lock policy applies.
	err := p.ApplyCorrections(Corrections{
		Categories: map[string]int{
			"Technical Skills": 50,
			"Leadership Skills": 4,
		},
	}, DefaultWeightFloor)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	// Locked categories keep the suggested weights byte-identical.
	assert.Equal(t, 50, p.Category("Technical Skills").WeightPercentage)
	assert.Equal(t, 4, p.Category("Leadership Skills").WeightPercentage)

	// Remaining four categories absorb the leftover budget of 46.
	openSum := p.Category("Cognitive Demands").WeightPercentage +
		p.Category("Values").WeightPercentage +
		p.Category("Foundational Behaviors").WeightPercentage +
		p.Category("Education and Experience").WeightPercentage
	assert.Equal(t, 46, openSum)
}

func TestApplyCorrections_MajorityRenormalizesAll(t *testing.T) {
	p := sixCategoryPersona(t)

	// 4 of 6 corrected: ratio 0.67, full renormalization applies. The
	// post-suggestion weights sum to 120, so every category is re-derived.
	err := p.ApplyCorrections(Corrections{
		Categories: map[string]int{
			"Technical Skills":       50,
			"Cognitive Demands":      25,
			"Values":                 15,
			"Foundational Behaviors": 10,
		},
	}, DefaultWeightFloor)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	sum := 0
	for _, cat := range p.Categories {
		sum += cat.WeightPercentage
	}
	assert.Equal(t, 100, sum)

	// Scaled down from the 120 raw sum, so suggestions are not verbatim.
	assert.NotEqual(t, 50, p.Category("Technical Skills").WeightPercentage)
}

func TestApplyCorrections_ChangedCategoryGetsNewRange(t *testing.T) {
	p := sixCategoryPersona(t)
	oldMin := p.Category("Technical Skills").RangeMin
	oldMax := p.Category("Technical Skills").RangeMax

	err := p.ApplyCorrections(Corrections{
		Categories: map[string]int{"Technical Skills": 14},
	}, DefaultWeightFloor)
	require.NoError(t, err)

	cat := p.Category("Technical Skills")
	wantMin, wantMax := WeightRange(14)
	assert.Equal(t, wantMin, cat.RangeMin)
	assert.Equal(t, wantMax, cat.RangeMax)
	assert.NotEqual(t, oldMin, cat.RangeMin)
	assert.NotEqual(t, oldMax, cat.RangeMax)
}

func TestApplyCorrections_SubcategorySuggestions(t *testing.T) {
	p := sixCategoryPersona(t)

	err := p.ApplyCorrections(Corrections{
		Subcategories: map[string]map[string]int{
			"Technical Skills": {"Languages": 80, "Databases": 30},
		},
	}, DefaultWeightFloor)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	// 80+30 = 110 raw, renormalized back to 100 preserving proportions.
	cat := p.Category("Technical Skills")
	assert.Equal(t, 100, cat.Subcategory("Languages").WeightPercentage+cat.Subcategory("Databases").WeightPercentage)
	assert.Greater(t, cat.Subcategory("Languages").WeightPercentage, cat.Subcategory("Databases").WeightPercentage)
}

func TestApplyCorrections_UnknownCategory(t *testing.T) {
	p := sixCategoryPersona(t)

	err := p.ApplyCorrections(Corrections{
		Categories: map[string]int{"Astrology": 10},
	}, DefaultWeightFloor)
	require.Error(t, err)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestApplyCorrections_InfeasibleLock(t *testing.T) {
	p := sixCategoryPersona(t)

	// Locking one category at 95 leaves 5 points for five categories with
	// floor 2: infeasible.
	err := p.ApplyCorrections(Corrections{
		Categories: map[string]int{"Technical Skills": 95},
	}, DefaultWeightFloor)
	require.Error(t, err)
}

func TestApplyCorrections_EmptyIsNoOp(t *testing.T) {
	p := sixCategoryPersona(t)
	before := make([]int, len(p.Categories))
	for i := range p.Categories {
		before[i] = p.Categories[i].WeightPercentage
	}

	require.NoError(t, p.ApplyCorrections(Corrections{}, DefaultWeightFloor))
	for i := range p.Categories {
		assert.Equal(t, before[i], p.Categories[i].WeightPercentage)
	}
}
