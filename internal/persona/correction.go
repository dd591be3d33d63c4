package persona

// Corrections carries suggested weight adjustments produced by the generation
// phase's validation pass. Only the numeric payload is modeled here; prompt
// construction lives with the generator.
type Corrections struct {
	// Categories maps category name to a suggested new weight percentage.
	Categories map[string]int `json:"categories,omitempty"`
	// Subcategories maps category name to subcategory-name/weight suggestions.
	Subcategories map[string]map[string]int `json:"subcategories,omitempty"`
}

// IsEmpty reports whether the correction set suggests no changes.
func (c Corrections) IsEmpty() bool {
	return len(c.Categories) == 0 && len(c.Subcategories) == 0
}

// ApplyCorrections applies a partial correction pass to the persona.
//
// Suggested category weights are applied verbatim. When more than half the
// categories carry a suggestion the whole weight set is renormalized from the
// post-suggestion values; otherwise the suggested categories are locked at
// their new weights and only the remaining categories are renormalized into
// the leftover budget. Every category whose weight changed has its range
// re-derived and its subcategory set renormalized to 100.
//
// The persona is expected to be corrected at most once; afterwards it is
// read-only for the scoring cascade.
func (p *Persona) ApplyCorrections(c Corrections, floor int) error {
	if len(p.Categories) == 0 {
		return newValidationError("persona has no categories")
	}
	for name := range c.Categories {
		if p.Category(name) == nil {
			return newValidationError("correction references unknown category %q", name)
		}
	}
	for name := range c.Subcategories {
		cat := p.Category(name)
		if cat == nil {
			return newValidationError("subcategory correction references unknown category %q", name)
		}
		for subName := range c.Subcategories[name] {
			if cat.Subcategory(subName) == nil {
				return newValidationError("correction references unknown subcategory %q in %q", subName, name)
			}
		}
	}

	before := make([]int, len(p.Categories))
	for i := range p.Categories {
		before[i] = p.Categories[i].WeightPercentage
	}

	if len(c.Categories) > 0 {
		if err := p.applyCategoryCorrections(c.Categories, floor); err != nil {
			return err
		}
	}

	// Changed categories get re-derived ranges and a subcategory renormalize,
	// even when the subcategory proportions already sum to 100.
	for i := range p.Categories {
		cat := &p.Categories[i]
		if cat.WeightPercentage != before[i] {
			cat.applyRange()
			if err := cat.normalizeSubcategories(floor); err != nil {
				return err
			}
		}
	}

	for catName, suggestions := range c.Subcategories {
		cat := p.Category(catName)
		for subName, weight := range suggestions {
			sub := cat.Subcategory(subName)
			sub.WeightPercentage = weight
		}
		if err := cat.normalizeSubcategories(floor); err != nil {
			return err
		}
	}

	return nil
}

// applyCategoryCorrections implements the lock-vs-renormalize policy on the
// 0.5 corrected-ratio boundary.
func (p *Persona) applyCategoryCorrections(suggested map[string]int, floor int) error {
	for i := range p.Categories {
		if weight, ok := suggested[p.Categories[i].Name]; ok {
			p.Categories[i].WeightPercentage = weight
		}
	}

	correctedRatio := float64(len(suggested)) / float64(len(p.Categories))
	if correctedRatio > 0.5 {
		// Majority corrected: treat the post-suggestion weights as new raw
		// input and renormalize the full set.
		raw := make([]float64, len(p.Categories))
		for i := range p.Categories {
			raw[i] = float64(p.Categories[i].WeightPercentage)
		}
		weights, err := NormalizeWeights(raw, 100, floor)
		if err != nil {
			return err
		}
		for i := range p.Categories {
			p.Categories[i].WeightPercentage = weights[i]
		}
		return nil
	}

	// Minority corrected: lock the suggested weights and fit the remaining
	// categories into what is left of the budget.
	lockedSum := 0
	var openIdx []int
	for i := range p.Categories {
		if _, ok := suggested[p.Categories[i].Name]; ok {
			lockedSum += p.Categories[i].WeightPercentage
		} else {
			openIdx = append(openIdx, i)
		}
	}

	remainingBudget := 100 - lockedSum
	if len(openIdx) == 0 {
		if remainingBudget != 0 {
			return newValidationError("locked weights sum to %d, not 100", lockedSum)
		}
		return nil
	}
	if remainingBudget < len(openIdx)*floor {
		return newValidationError(
			"locked weights leave budget %d for %d categories with floor %d",
			remainingBudget, len(openIdx), floor)
	}

	raw := make([]float64, len(openIdx))
	for j, i := range openIdx {
		raw[j] = float64(p.Categories[i].WeightPercentage)
	}
	weights, err := NormalizeWeights(raw, remainingBudget, floor)
	if err != nil {
		return err
	}
	for j, i := range openIdx {
		p.Categories[i].WeightPercentage = weights[j]
	}

	return nil
}
