// Package main provides the entry point for the persona screener CLI and
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screener_agent",
	Short: "Persona Screener",
	Long:  "Persona Screener scores candidate documents against weighted requirement profiles using a three-stage cascade: embedding prefilter, quick LLM screen, and detailed per-category scoring.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
