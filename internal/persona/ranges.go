package persona

// WeightRange derives the allowed scoring adjustment range for a weight.
// Both bounds are functions of the weight alone; they are never authored
// independently:
//
//	range_min = -min(5, max(2, weight/7))
//	range_max = min(10, max(3, weight/3.5))
//
// Division by 7 is integer division; division by 3.5 truncates toward zero.
func WeightRange(weight int) (int, int) {
	rangeMin := -minInt(5, maxInt(2, weight/7))
	rangeMax := minInt(10, maxInt(3, int(float64(weight)/3.5)))
	return rangeMin, rangeMax
}

// applyRange sets the derived range on a category.
func (c *Category) applyRange() {
	c.RangeMin, c.RangeMax = WeightRange(c.WeightPercentage)
}

// applyRange sets the derived range on a subcategory.
func (s *Subcategory) applyRange() {
	s.RangeMin, s.RangeMax = WeightRange(s.WeightPercentage)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
