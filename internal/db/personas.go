package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/persona-screener/internal/persona"
)

// PersonaRecord is a stored persona row. The full category tree lives in a
// JSONB column; name is duplicated for listing without unmarshaling.
type PersonaRecord struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePersona stores a new persona and returns its assigned ID.
func (db *DB) CreatePersona(ctx context.Context, p *persona.Persona) (uuid.UUID, error) {
	tree, err := json.Marshal(p.Categories)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal persona categories: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO personas (name, categories)
		 VALUES ($1, $2)
		 RETURNING id`,
		p.Name, tree,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create persona: %w", err)
	}
	return id, nil
}

// GetPersona retrieves a persona by ID. Returns (nil, nil) when not found.
func (db *DB) GetPersona(ctx context.Context, id uuid.UUID) (*persona.Persona, error) {
	var p persona.Persona
	var tree []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, name, categories FROM personas WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &tree)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get persona: %w", err)
	}

	if err := json.Unmarshal(tree, &p.Categories); err != nil {
		return nil, fmt.Errorf("failed to parse persona categories: %w", err)
	}
	return &p, nil
}

// UpdatePersona replaces a persona's category tree, used after a correction
// pass. Returns an error when the persona does not exist.
func (db *DB) UpdatePersona(ctx context.Context, p *persona.Persona) error {
	tree, err := json.Marshal(p.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal persona categories: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE personas SET name = $1, categories = $2, updated_at = NOW() WHERE id = $3`,
		p.Name, tree, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update persona: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("persona not found: %s", p.ID)
	}
	return nil
}

// ListPersonas retrieves recent personas without their category trees.
func (db *DB) ListPersonas(ctx context.Context, limit int) ([]PersonaRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at
		 FROM personas ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	defer rows.Close()

	var records []PersonaRecord
	for rows.Next() {
		var r PersonaRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan persona: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}

// DeletePersona removes a persona and its scores (via cascade).
func (db *DB) DeletePersona(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM personas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete persona: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("persona not found: %s", id)
	}
	return nil
}
