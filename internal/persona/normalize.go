package persona

import (
	"math"
	"sort"
)

// NormalizeWeights forces a set of raw weights to integer values that sum to
// exactly target, with every value at least floor. Entries are identified by
// index; ties on fractional remainder are broken by declaration order (the
// earlier entry receives the unit first).
//
// If all raw weights are zero the target is distributed uniformly. The
// function is idempotent: normalizing an already-normalized set returns it
// unchanged.
func NormalizeWeights(raw []float64, target, floor int) ([]int, error) {
	n := len(raw)
	if n == 0 {
		return nil, nil
	}
	if target < n*floor {
		return nil, newValidationError(
			"cannot normalize %d weights to %d with floor %d", n, target, floor)
	}

	sum := 0.0
	for _, w := range raw {
		if w < 0 {
			return nil, newValidationError("negative raw weight %.2f", w)
		}
		sum += w
	}

	exact := make([]float64, n)
	if sum == 0 {
		uniform := float64(target) / float64(n)
		for i := range exact {
			exact[i] = uniform
		}
	} else {
		// Floor applies to the raw input before scaling, matching how the
		// generation phase clamps its heuristic weights.
		clamped := make([]float64, n)
		clampedSum := 0.0
		for i, w := range raw {
			clamped[i] = math.Max(w, float64(floor))
			clampedSum += clamped[i]
		}
		factor := float64(target) / clampedSum
		for i, w := range clamped {
			exact[i] = w * factor
		}
	}

	weights := make([]int, n)
	rounded := 0
	for i, e := range exact {
		weights[i] = int(math.Round(e))
		rounded += weights[i]
	}

	diff := target - rounded

	// Largest-remainder distribution: hand out the residual one unit at a
	// time, to the largest fractional remainders when adding and the smallest
	// when removing.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	remainder := func(i int) float64 { return exact[i] - math.Floor(exact[i]) }
	if diff > 0 {
		sort.SliceStable(order, func(a, b int) bool {
			return remainder(order[a]) > remainder(order[b])
		})
	} else if diff < 0 {
		sort.SliceStable(order, func(a, b int) bool {
			return remainder(order[a]) < remainder(order[b])
		})
	}

	for diff != 0 {
		moved := false
		for _, i := range order {
			if diff == 0 {
				break
			}
			if diff > 0 {
				weights[i]++
				diff--
				moved = true
			} else if weights[i] > floor {
				weights[i]--
				diff++
				moved = true
			}
		}
		if !moved {
			return nil, newValidationError(
				"cannot distribute remainder %d with floor %d", diff, floor)
		}
	}

	// Rounding can still leave entries below floor when raw sums were skewed;
	// raise them and take the units back from the largest entries.
	for i := range weights {
		for weights[i] < floor {
			j := largestAbove(weights, floor)
			if j < 0 {
				return nil, newValidationError(
					"cannot satisfy floor %d for %d weights at target %d", floor, n, target)
			}
			weights[j]--
			weights[i]++
		}
	}

	return weights, nil
}

// largestAbove returns the index of the largest weight strictly above floor+0,
// or -1 when every entry is already at the floor.
func largestAbove(weights []int, floor int) int {
	best := -1
	for i, w := range weights {
		if w > floor && (best < 0 || w > weights[best]) {
			best = i
		}
	}
	return best
}

// Normalize treats the persona's current weights as raw input and rewrites
// both hierarchy levels so that category weights sum to exactly 100, every
// category's subcategory weights sum to exactly 100, and all derived ranges
// are consistent. Called once at construction, after the generation phase.
func (p *Persona) Normalize(floor int) error {
	if len(p.Categories) == 0 {
		return newValidationError("persona has no categories")
	}

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
		p.Categories[i].applyRange()
		if err := p.Categories[i].normalizeSubcategories(floor); err != nil {
			return err
		}
	}

	return nil
}

// normalizeSubcategories rewrites the category's subcategory weights to sum to
// exactly 100, preserving the existing proportions, and re-derives each range.
func (c *Category) normalizeSubcategories(floor int) error {
	if len(c.Subcategories) == 0 {
		return nil
	}

	raw := make([]float64, len(c.Subcategories))
	for i := range c.Subcategories {
		raw[i] = float64(c.Subcategories[i].WeightPercentage)
	}
	weights, err := NormalizeWeights(raw, 100, floor)
	if err != nil {
		return err
	}
	for i := range c.Subcategories {
		c.Subcategories[i].WeightPercentage = weights[i]
		c.Subcategories[i].applyRange()
	}

	return nil
}
