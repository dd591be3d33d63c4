package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/persona-screener/internal/persona"
)

// prefilterCategoryNames are the categories preferred as the embedding
// reference text when present by exact name.
var prefilterCategoryNames = []string{
	"Technical Skills",
	"Education and Experience",
}

// RequirementText renders the persona requirements used as the embedding
// reference in the prefilter. Category selection falls back in order: exact
// name match on the preferred categories, then fixed positions 1 and 6, then
// every category.
func RequirementText(p *persona.Persona) string {
	categories := prefilterCategories(p)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role: %s\n", p.Name))
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("\n%s:\n", cat.Name))
		for _, sub := range cat.Subcategories {
			sb.WriteString(fmt.Sprintf("- %s (level %d)", sub.Name, sub.ExpertiseLevel))
			if len(sub.RequiredItems) > 0 {
				sb.WriteString(": " + strings.Join(sub.RequiredItems, ", "))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func prefilterCategories(p *persona.Persona) []persona.Category {
	var byName []persona.Category
	for _, cat := range p.Categories {
		for _, name := range prefilterCategoryNames {
			if cat.Name == name {
				byName = append(byName, cat)
				break
			}
		}
	}
	if len(byName) > 0 {
		return byName
	}

	var byPosition []persona.Category
	for _, cat := range p.Categories {
		if cat.Position == 1 || cat.Position == 6 {
			byPosition = append(byPosition, cat)
		}
	}
	if len(byPosition) > 0 {
		return byPosition
	}

	return p.Categories
}

// RequirementSummary renders a compact one-line-per-category digest of the
// persona for the quick screen: names, weights, and required-item counts.
func RequirementSummary(p *persona.Persona) string {
	var lines []string
	for i, cat := range p.Categories {
		var subs []string
		for _, sub := range cat.Subcategories {
			entry := fmt.Sprintf("%s %d%%", sub.Name, sub.WeightPercentage)
			if n := len(sub.RequiredItems); n > 0 {
				entry += fmt.Sprintf(" (%d required items)", n)
			}
			subs = append(subs, entry)
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%d%%): %s",
			i+1, cat.Name, cat.WeightPercentage, strings.Join(subs, "; ")))
	}
	return strings.Join(lines, "\n")
}

// subcategoryDetail renders the full subcategory specification block for one
// category's detailed-scoring prompt.
func subcategoryDetail(cat *persona.Category) string {
	var sb strings.Builder
	for _, sub := range cat.Subcategories {
		sb.WriteString(fmt.Sprintf("- %s | weight: %d%% | expected level: %d",
			sub.Name, sub.WeightPercentage, sub.ExpertiseLevel))
		if len(sub.RequiredItems) > 0 {
			sb.WriteString(fmt.Sprintf(" | required items: %s", strings.Join(sub.RequiredItems, ", ")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// categorySummary renders the numeric rollup for the final summary prompt.
func categorySummary(categories []CategoryScore) string {
	var lines []string
	for _, cat := range categories {
		lines = append(lines, fmt.Sprintf("- %s: %.1f%% (weight %d%%, contributes %.1f points)",
			cat.Name, cat.ScorePercentage, cat.WeightPercentage, cat.Contribution))
	}
	return strings.Join(lines, "\n")
}
