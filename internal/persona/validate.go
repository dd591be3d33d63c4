package persona

import "fmt"

// Validate checks the persona against its structural invariants: category
// weights summing to exactly 100, subcategory weights summing to exactly 100
// within every category, derived ranges consistent with the weights, and
// expertise levels on the 1-5 scale. Returns a *ValidationError listing every
// violation found, or nil.
//
// The scoring cascade calls this before any outbound provider call is made.
func (p *Persona) Validate() error {
	var issues []string

	if len(p.Categories) == 0 {
		issues = append(issues, "persona has no categories")
		return &ValidationError{Issues: issues}
	}

	categorySum := 0
	for i := range p.Categories {
		cat := &p.Categories[i]
		categorySum += cat.WeightPercentage

		if cat.Name == "" {
			issues = append(issues, fmt.Sprintf("category %d has no name", i+1))
		}
		if cat.WeightPercentage < 0 {
			issues = append(issues, fmt.Sprintf("category %q has negative weight %d", cat.Name, cat.WeightPercentage))
		}
		if wantMin, wantMax := WeightRange(cat.WeightPercentage); cat.RangeMin != wantMin || cat.RangeMax != wantMax {
			issues = append(issues, fmt.Sprintf(
				"category %q range [%d,%d] does not match derived [%d,%d]",
				cat.Name, cat.RangeMin, cat.RangeMax, wantMin, wantMax))
		}

		if len(cat.Subcategories) == 0 {
			continue
		}
		subSum := 0
		for j := range cat.Subcategories {
			sub := &cat.Subcategories[j]
			subSum += sub.WeightPercentage

			if sub.Name == "" {
				issues = append(issues, fmt.Sprintf("category %q subcategory %d has no name", cat.Name, j+1))
			}
			if sub.ExpertiseLevel < 1 || sub.ExpertiseLevel > 5 {
				issues = append(issues, fmt.Sprintf(
					"subcategory %q expertise level %d outside 1-5", sub.Name, sub.ExpertiseLevel))
			}
			if wantMin, wantMax := WeightRange(sub.WeightPercentage); sub.RangeMin != wantMin || sub.RangeMax != wantMax {
				issues = append(issues, fmt.Sprintf(
					"subcategory %q range [%d,%d] does not match derived [%d,%d]",
					sub.Name, sub.RangeMin, sub.RangeMax, wantMin, wantMax))
			}
		}
		if subSum != 100 {
			issues = append(issues, fmt.Sprintf(
				"category %q subcategory weights sum to %d, not 100", cat.Name, subSum))
		}
	}
	if categorySum != 100 {
		issues = append(issues, fmt.Sprintf("category weights sum to %d, not 100", categorySum))
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
