package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voicescreen/interviewd/core/transcript"
	"github.com/voicescreen/interviewd/pkg/vectorizer"
)

var (
	// ErrSaveFailed is returned when transcript rows cannot be written.
	ErrSaveFailed = errors.New("failed to archive transcript")
	// ErrSearchFailed is returned when the similarity search fails.
	ErrSearchFailed = errors.New("similarity search failed")
)

// Archiver persists a session's transcript when the session ends.
type Archiver interface {
	Save(ctx context.Context, subject uuid.UUID, entries []transcript.Entry) error
}

// Record is one archived transcript row.
type Record struct {
	ID        uuid.UUID
	Subject   uuid.UUID
	CreatedAt time.Time
	Role      string
	Content   string
}

// PG writes one row per transcript entry into the context table, each with a
// vector embedding of its content for later similarity search.
type PG struct {
	pool *pgxpool.Pool
	vec  vectorizer.Vectorizer
	log  *slog.Logger
}

// NewPG creates a Postgres-backed archiver. The logger may be nil.
func NewPG(pool *pgxpool.Pool, vec vectorizer.Vectorizer, log *slog.Logger) *PG {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PG{pool: pool, vec: vec, log: log}
}

// Save archives the entries in order. Embedding failures degrade to null
// vectors with a loud log instead of losing the transcript; row insert
// failures fail the save.
func (a *PG) Save(ctx context.Context, subject uuid.UUID, entries []transcript.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Content
	}

	embeddings, err := a.vec.EmbedBatch(ctx, texts)
	if err != nil {
		a.log.ErrorContext(ctx, "embedding transcript failed, archiving without vectors",
			slog.String("subject", subject.String()), slog.Any("error", err))
		embeddings = nil
	}

	batch := &pgx.Batch{}
	now := time.Now().UTC()
	for i, e := range entries {
		var embedding any
		if embeddings != nil {
			embedding = vectorLiteral(embeddings[i])
		}
		batch.Queue(
			`INSERT INTO context (id, user_id, created_at, role, content, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6::vector)`,
			uuid.New(), subject, now, string(e.Role), e.Content, embedding,
		)
	}

	results := a.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("%w: %w", ErrSaveFailed, err)
		}
	}

	return nil
}

// SearchSimilar returns archived rows most similar to the given text,
// ordered by vector distance.
func (a *PG) SearchSimilar(ctx context.Context, text string, limit int) ([]Record, error) {
	embedding, err := a.vec.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	rows, err := a.pool.Query(ctx,
		`SELECT id, user_id, created_at, role, content
		 FROM context
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <-> $1::vector
		 LIMIT $2`,
		vectorLiteral(embedding), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Subject, &r.CreatedAt, &r.Role, &r.Content); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	return records, nil
}

// vectorLiteral renders an embedding in pgvector's input format.
func vectorLiteral(embedding []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}
