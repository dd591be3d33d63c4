package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/persona-screener/internal/persona"
)

// loadPersonaFile reads and unmarshals a persona JSON file.
func loadPersonaFile(path string) (*persona.Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}

	var p persona.Persona
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse persona JSON: %w", err)
	}
	return &p, nil
}

// writeJSON marshals v with indentation and writes it to path, or to stdout
// when path is empty.
func writeJSON(path string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if path == "" {
		_, err = fmt.Fprintf(os.Stdout, "%s\n", jsonBytes)
		return err
	}

	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
