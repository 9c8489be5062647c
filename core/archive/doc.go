// Package archive persists finished interview transcripts to Postgres.
//
// Each transcript entry becomes one row in the context table together with a
// pgvector embedding of its content, produced by a pkg/vectorizer
// implementation. Embedding failures never lose a transcript: rows are
// written with a null vector and the failure is logged.
//
// Archived rows can be retrieved later by semantic similarity:
//
//	archiver := archive.NewPG(pool, vec, logger)
//	if err := archiver.Save(ctx, userID, buf.WithoutSystem()); err != nil {
//		return err
//	}
//	similar, err := archiver.SearchSimilar(ctx, "binary tree traversal", 5)
package archive
