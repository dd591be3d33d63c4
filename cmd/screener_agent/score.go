package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/persona-screener/internal/config"
	"github.com/jonathan/persona-screener/internal/db"
	"github.com/jonathan/persona-screener/internal/llm"
	"github.com/jonathan/persona-screener/internal/observability"
	"github.com/jonathan/persona-screener/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a candidate document against a persona",
	Long: `Runs the full scoring cascade: embedding prefilter -> quick screen -> detailed per-category scoring.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runScore,
}

var (
	scoreConfigPath  string
	scorePersonaPath string
	scoreDocPath     string
	scoreOutputPath  string
	scoreAPIKey      string
	scoreDatabaseURL string
	scoreSave        bool
	scoreVerbose     bool
)

func init() {
	scoreCmd.Flags().StringVar(&scoreConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	scoreCmd.Flags().StringVarP(&scorePersonaPath, "persona", "p", "", "Path to persona JSON file")
	scoreCmd.Flags().StringVarP(&scoreDocPath, "document", "d", "", "Path to candidate document text file")
	scoreCmd.Flags().StringVarP(&scoreOutputPath, "out", "o", "", "Path to output JSON file (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	scoreCmd.Flags().StringVar(&scoreDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "Persist the persona and scoring result to the database")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print detailed per-stage information")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Load config file if provided
	var cfg config.Config
	if scoreConfigPath != "" {
		loadedCfg, err := config.LoadConfig(scoreConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("persona") {
		cfg.Persona = scorePersonaPath
	}
	if cmd.Flags().Changed("document") {
		cfg.Document = scoreDocPath
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = scoreAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = scoreDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = scoreVerbose
	}

	if cfg.Persona == "" {
		return fmt.Errorf("--persona is required (via flag or config)")
	}
	if cfg.Document == "" {
		return fmt.Errorf("--document is required (via flag or config)")
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	p, err := loadPersonaFile(cfg.Persona)
	if err != nil {
		return err
	}

	document, err := os.ReadFile(cfg.Document)
	if err != nil {
		return fmt.Errorf("failed to read document file: %w", err)
	}

	scoringCfg := cfg.ScoringConfig()

	// Persona files may carry raw weights; normalize before scoring.
	if err := p.Normalize(scoringCfg.WeightFloor); err != nil {
		return fmt.Errorf("failed to normalize persona: %w", err)
	}

	client, err := llm.NewClient(ctx, nil, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintPersona(p)
	}

	pipeline := scoring.NewPipeline(client, client, scoringCfg)
	result, err := pipeline.Score(ctx, p, string(document))
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	if cfg.Verbose {
		printer.PrintPrefilter(&result.Stage1)
		printer.PrintQuickScreen(result.Stage2)
		printer.PrintDetailedScores(&result.Stage3)
	}
	printer.PrintResult(result)

	if err := writeJSON(scoreOutputPath, result); err != nil {
		return err
	}

	if scoreSave {
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required with --save")
		}

		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		personaID, err := database.CreatePersona(ctx, p)
		if err != nil {
			return fmt.Errorf("failed to save persona: %w", err)
		}
		scoreID, err := database.SaveScore(ctx, personaID, result)
		if err != nil {
			return fmt.Errorf("failed to save score: %w", err)
		}

		_, _ = fmt.Fprintf(os.Stdout, "Saved persona %s and score %s\n", personaID, scoreID)
	}

	return nil
}
