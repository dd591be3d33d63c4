package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/persona-screener/internal/persona"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize persona weights to sum to exactly 100",
	Long: `Normalize the category and subcategory weights of a persona JSON file so each level sums to exactly 100, using largest-remainder rounding with a minimum weight floor.

With --corrections, applies a partial correction pass instead: corrected weights are locked verbatim when half or fewer categories are touched, and the remaining categories are scaled into the leftover budget.`,
	RunE: runNormalize,
}

var (
	normalizeInputPath       string
	normalizeOutputPath      string
	normalizeCorrectionsPath string
	normalizeFloor           int
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeInputPath, "in", "i", "", "Path to persona JSON file (required)")
	normalizeCmd.Flags().StringVarP(&normalizeOutputPath, "out", "o", "", "Path to output JSON file (default: stdout)")
	normalizeCmd.Flags().StringVar(&normalizeCorrectionsPath, "corrections", "", "Path to corrections JSON file")
	normalizeCmd.Flags().IntVar(&normalizeFloor, "floor", persona.DefaultWeightFloor, "Minimum weight after normalization")
	_ = normalizeCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(_ *cobra.Command, _ []string) error {
	return normalizeFile(normalizeInputPath, normalizeOutputPath, normalizeCorrectionsPath, normalizeFloor)
}

func normalizeFile(inPath, outPath, correctionsPath string, floor int) error {
	p, err := loadPersonaFile(inPath)
	if err != nil {
		return err
	}

	if correctionsPath != "" {
		data, err := os.ReadFile(correctionsPath)
		if err != nil {
			return fmt.Errorf("failed to read corrections file: %w", err)
		}
		var corrections persona.Corrections
		if err := json.Unmarshal(data, &corrections); err != nil {
			return fmt.Errorf("failed to parse corrections JSON: %w", err)
		}
		if err := p.ApplyCorrections(corrections, floor); err != nil {
			return fmt.Errorf("failed to apply corrections: %w", err)
		}
	} else {
		if err := p.Normalize(floor); err != nil {
			return fmt.Errorf("failed to normalize persona: %w", err)
		}
	}

	if err := p.Validate(); err != nil {
		return fmt.Errorf("normalized persona is invalid: %w", err)
	}

	return writeJSON(outPath, p)
}
