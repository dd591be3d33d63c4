// Package persona defines the weighted hierarchical requirement profile a
// candidate document is scored against, and the normalization engine that keeps
// every level of the hierarchy summing to exactly 100.
package persona

import (
	"github.com/google/uuid"
)

// DefaultWeightFloor is the minimum integer weight any category or subcategory
// may hold after normalization.
const DefaultWeightFloor = 2

// Persona is the root of the requirement profile: a named role with weighted
// categories. Created once by the generation phase, optionally corrected once,
// then read-only for scoring.
type Persona struct {
	ID         uuid.UUID  `json:"id,omitempty"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// Category is a top-level requirement group. Category weights sum to 100
// across the persona; subcategory weights sum to 100 within the category.
type Category struct {
	Name             string        `json:"name"`
	Position         int           `json:"position,omitempty"`
	WeightPercentage int           `json:"weight_percentage"`
	RangeMin         int           `json:"range_min"`
	RangeMax         int           `json:"range_max"`
	Subcategories    []Subcategory `json:"subcategories"`
}

// Subcategory is a scored requirement inside a category. ExpertiseLevel is the
// expected proficiency on a 1-5 scale; RequiredItems are the concrete skills,
// tools, or credentials the document is checked against.
type Subcategory struct {
	Name             string   `json:"name"`
	Position         int      `json:"position,omitempty"`
	WeightPercentage int      `json:"weight_percentage"`
	RangeMin         int      `json:"range_min"`
	RangeMax         int      `json:"range_max"`
	ExpertiseLevel   int      `json:"expertise_level"`
	RequiredItems    []string `json:"required_items,omitempty"`
}

// Category lookup by name. Returns nil if not found.
func (p *Persona) Category(name string) *Category {
	for i := range p.Categories {
		if p.Categories[i].Name == name {
			return &p.Categories[i]
		}
	}
	return nil
}

// Subcategory lookup by name. Returns nil if not found.
func (c *Category) Subcategory(name string) *Subcategory {
	for i := range c.Subcategories {
		if c.Subcategories[i].Name == name {
			return &c.Subcategories[i]
		}
	}
	return nil
}
