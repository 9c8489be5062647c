// Package vectorizer converts text to vector embeddings for similarity
// search over archived interview transcripts.
//
// Two providers are supported behind the Vectorizer interface: OpenAI's
// embeddings API and Google's Generative AI API. Both return float32 vectors
// suitable for pgvector storage.
package vectorizer
