package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/persona-screener/internal/scoring"
)

// ScoreRecord is a stored scoring attempt. The full envelope lives in a JSONB
// column; the headline fields are duplicated for listing and filtering.
type ScoreRecord struct {
	ID            uuid.UUID       `json:"id"`
	PersonaID     uuid.UUID       `json:"persona_id"`
	StageReached  int             `json:"stage_reached"`
	FinalScore    float64         `json:"final_score"`
	FinalDecision string          `json:"final_decision"`
	Result        *scoring.Result `json:"result,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SaveScore stores a completed scoring envelope and returns its assigned ID.
func (db *DB) SaveScore(ctx context.Context, personaID uuid.UUID, result *scoring.Result) (uuid.UUID, error) {
	envelope, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal scoring result: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO scores (persona_id, stage_reached, final_score, final_decision, result)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		personaID, result.StageReached, result.FinalScore, result.FinalDecision, envelope,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save score: %w", err)
	}
	return id, nil
}

// GetScore retrieves a scoring attempt by ID, including the full envelope.
// Returns (nil, nil) when not found.
func (db *DB) GetScore(ctx context.Context, id uuid.UUID) (*ScoreRecord, error) {
	var r ScoreRecord
	var envelope []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, persona_id, stage_reached, final_score, final_decision, result, created_at
		 FROM scores WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.PersonaID, &r.StageReached, &r.FinalScore, &r.FinalDecision, &envelope, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	if len(envelope) > 0 {
		var result scoring.Result
		if err := json.Unmarshal(envelope, &result); err != nil {
			return nil, fmt.Errorf("failed to parse scoring result: %w", err)
		}
		r.Result = &result
	}
	return &r, nil
}

// ListScoresByPersona retrieves recent scoring attempts for a persona without
// their full envelopes.
func (db *DB) ListScoresByPersona(ctx context.Context, personaID uuid.UUID, limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, persona_id, stage_reached, final_score, final_decision, created_at
		 FROM scores WHERE persona_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		personaID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	var records []ScoreRecord
	for rows.Next() {
		var r ScoreRecord
		if err := rows.Scan(&r.ID, &r.PersonaID, &r.StageReached, &r.FinalScore, &r.FinalDecision, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}
