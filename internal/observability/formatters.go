// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/persona-screener/internal/persona"
	"github.com/jonathan/persona-screener/internal/scoring"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPersona outputs a human-readable summary of the weighted requirement
// profile before scoring begins.
func (p *Printer) PrintPersona(pr *persona.Persona) {
	if pr == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role: %s\n\n", pr.Name))

	for i, cat := range pr.Categories {
		sb.WriteString(fmt.Sprintf("%s (%d%%)\n", cat.Name, cat.WeightPercentage))
		count := min(len(cat.Subcategories), maxItemsToShow)
		for j := 0; j < count; j++ {
			sub := cat.Subcategories[j]
			sb.WriteString(fmt.Sprintf("  • %s %d%% (level %d)\n", sub.Name, sub.WeightPercentage, sub.ExpertiseLevel))
		}
		if len(cat.Subcategories) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(cat.Subcategories)-maxItemsToShow))
		}
		if i < len(pr.Categories)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PERSONA", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPrefilter outputs the stage 1 embedding prefilter outcome.
func (p *Printer) PrintPrefilter(stage1 *scoring.Stage1Result) {
	if stage1 == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Best chunk similarity: %.1f / 100\n", stage1.Score))
	sb.WriteString(fmt.Sprintf("Threshold:             %.1f\n", stage1.Threshold))
	sb.WriteString(fmt.Sprintf("Chunks embedded:       %d\n", stage1.ChunkCount))
	sb.WriteString(fmt.Sprintf("Decision:              %s", stage1.Decision))

	p.printBox("STAGE 1: SEMANTIC PREFILTER", sb.String())
}

// PrintQuickScreen outputs the stage 2 quick screen outcome with key matches
// and gaps.
func (p *Printer) PrintQuickScreen(stage2 *scoring.Stage2Result) {
	if stage2 == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Relevance score: %.1f / 100\n", stage2.RelevanceScore))
	sb.WriteString(fmt.Sprintf("Decision:        %s", stage2.Decision))
	if stage2.Label != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", stage2.Label))
	}
	sb.WriteString("\n")

	if len(stage2.KeyMatches) > 0 {
		sb.WriteString("\nKey matches:\n")
		count := min(len(stage2.KeyMatches), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", stage2.KeyMatches[i]))
		}
		if len(stage2.KeyMatches) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(stage2.KeyMatches)-maxItemsToShow))
		}
	}

	if len(stage2.KeyGaps) > 0 {
		sb.WriteString("\nKey gaps:\n")
		count := min(len(stage2.KeyGaps), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", stage2.KeyGaps[i]))
		}
		if len(stage2.KeyGaps) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(stage2.KeyGaps)-3))
		}
	}

	p.printBox("STAGE 2: QUICK SCREEN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDetailedScores outputs the per-category rollup table from stage 3.
func (p *Printer) PrintDetailedScores(stage3 *scoring.Stage3Result) {
	if stage3 == nil || len(stage3.Categories) == 0 {
		return
	}

	var sb strings.Builder
	for i, cat := range stage3.Categories {
		sb.WriteString(fmt.Sprintf("%s\n", cat.Name))
		sb.WriteString(fmt.Sprintf("  Score: %.1f%%  Weight: %d%%  Contributes: %.1f\n",
			cat.ScorePercentage, cat.WeightPercentage, cat.Contribution))

		count := min(len(cat.Subcategories), maxItemsToShow)
		for j := 0; j < count; j++ {
			sub := cat.Subcategories[j]
			sb.WriteString(fmt.Sprintf("  • %s: %.1f%% (level %d/%d)\n",
				sub.Name, sub.ScoredPercentage, sub.ActualLevel, sub.ExpectedLevel))
		}
		if len(cat.Subcategories) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(cat.Subcategories)-maxItemsToShow))
		}
		if i < len(stage3.Categories)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("STAGE 3: DETAILED SCORING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs the final decision for a completed or rejected attempt.
// Rejections show the stage that stopped the cascade; completions show the
// weighted score, the decision band, and the score progression across stages.
func (p *Printer) PrintResult(result *scoring.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder

	if result.RejectionStage != "" {
		sb.WriteString(fmt.Sprintf("Decision:  %s\n", result.FinalDecision))
		sb.WriteString(fmt.Sprintf("Stopped at: %s\n", result.RejectionStage))
		reason := result.RejectionReason
		if len(reason) > 50 {
			reason = reason[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("Reason:    %s", reason))
		p.printBox("RESULT", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Final score: %.1f / 100\n", result.FinalScore))
	sb.WriteString(fmt.Sprintf("Decision:    %s\n", result.FinalDecision))
	if result.Stage3.Recommendation != "" && result.Stage3.Recommendation != result.FinalDecision {
		sb.WriteString(fmt.Sprintf("Assessor:    %s\n", result.Stage3.Recommendation))
	}

	if len(result.ScoreProgression) > 0 {
		parts := make([]string, len(result.ScoreProgression))
		for i, score := range result.ScoreProgression {
			parts[i] = fmt.Sprintf("%.1f", score)
		}
		sb.WriteString(fmt.Sprintf("Progression: %s", strings.Join(parts, " → ")))
	}

	p.printBox("RESULT", strings.TrimSuffix(sb.String(), "\n"))
}
