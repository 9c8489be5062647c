package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Preference holds a user's saved interview defaults. The chat handshake
// reads it to seed the session; query parameters override individual fields.
type Preference struct {
	UserID     uuid.UUID
	Model      string
	Voice      string
	Difficulty string
	Topic      string
	Language   string
}

// PreferenceStore persists per-user interview defaults.
type PreferenceStore interface {
	// PreferenceByUser returns the saved preference for the user,
	// or ErrNotFound when none has been saved.
	PreferenceByUser(ctx context.Context, id uuid.UUID) (Preference, error)
	// SavePreference creates or replaces the user's preference row.
	SavePreference(ctx context.Context, p Preference) error
}

func (s *PGStore) PreferenceByUser(ctx context.Context, id uuid.UUID) (Preference, error) {
	p := Preference{UserID: id}
	err := s.pool.QueryRow(ctx,
		`SELECT model, voice, difficulty, topic, language FROM preference WHERE user_id = $1`, id,
	).Scan(&p.Model, &p.Voice, &p.Difficulty, &p.Topic, &p.Language)
	if errors.Is(err, pgx.ErrNoRows) {
		return Preference{}, ErrNotFound
	}
	if err != nil {
		return Preference{}, fmt.Errorf("querying preference: %w", err)
	}
	return p, nil
}

func (s *PGStore) SavePreference(ctx context.Context, p Preference) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO preference (user_id, model, voice, difficulty, topic, language)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
		   model = EXCLUDED.model, voice = EXCLUDED.voice,
		   difficulty = EXCLUDED.difficulty, topic = EXCLUDED.topic,
		   language = EXCLUDED.language`,
		p.UserID, p.Model, p.Voice, p.Difficulty, p.Topic, p.Language,
	)
	if err != nil {
		return fmt.Errorf("saving preference: %w", err)
	}
	return nil
}
