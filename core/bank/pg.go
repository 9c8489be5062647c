package bank

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultSampleSize = 2

// PG implements Bank over the questions/solution/solution_code tables.
type PG struct {
	pool       *pgxpool.Pool
	sampleSize int
}

// PGOption is a functional option for configuring PG.
type PGOption func(*PG)

// WithSampleSize sets how many entries one session samples.
func WithSampleSize(n int) PGOption {
	return func(b *PG) {
		if n > 0 {
			b.sampleSize = n
		}
	}
}

// NewPG creates a Postgres-backed bank.
func NewPG(pool *pgxpool.Pool, opts ...PGOption) *PG {
	b := &PG{pool: pool, sampleSize: defaultSampleSize}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Sample returns a random ordered sample of entries matching the filters.
func (b *PG) Sample(ctx context.Context, f Filters) ([]Entry, error) {
	f = f.Normalize()

	query := `
		SELECT q.problem, s.hints, sc.code
		FROM questions q
		JOIN solution s ON q.qid = s.qid
		JOIN solution_code sc ON q.qid = sc.qid
		WHERE q.difficulty = $1
		  AND sc.language = $2
		  AND ($3 = '' OR $3 = ANY(q.tags))
		ORDER BY random()
		LIMIT $4`

	rows, err := b.pool.Query(ctx, query, f.Difficulty, f.Language, f.Topic, b.sampleSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Question, &e.Hints, &e.Solution); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	return entries, nil
}
