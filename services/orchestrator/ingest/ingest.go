// Package ingest turns uploaded documents into stored knowledge chunks:
// extract text, split into fixed-size overlapping windows, embed, store.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"

	"github.com/tidewaterlabs/supportrelay/services/orchestrator/knowledge"
)

const (
	// DefaultChunkSize is the character window length used for splitting.
	DefaultChunkSize = 500
	// DefaultChunkOverlap is how many characters consecutive windows share.
	DefaultChunkOverlap = 50
)

// ErrUnsupportedType is returned for uploads that are neither PDF nor plain
// text.
var ErrUnsupportedType = errors.New("unsupported document type, only .pdf and .txt are accepted")

// LoadDocument extracts plain text from an uploaded file based on its
// extension. PDF pages are joined with newlines.
func LoadDocument(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var loader documentloaders.Loader
	switch ext {
	case ".pdf":
		loader = documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))
	case ".txt":
		loader = documentloaders.NewText(bytes.NewReader(data))
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	docs, err := loader.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", filename, err)
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.PageContent)
	}
	return strings.Join(parts, "\n"), nil
}

// ChunkText splits text into windows of size characters advancing by
// size-overlap each step. Windows are whitespace-trimmed and empty windows
// are dropped. Character-offset arithmetic is part of the contract, so this
// does not delegate to a token- or separator-aware splitter.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 || overlap < 0 || overlap >= size {
		slog.Warn("Invalid chunking parameters, using defaults", "size", size, "overlap", overlap)
		size, overlap = DefaultChunkSize, DefaultChunkOverlap
	}

	// The window keeps sliding while the next stride start is inside the
	// text, so an input ending exactly on a window boundary still yields a
	// trailing overlap-only chunk.
	stride := size - overlap
	chunks := []string{}
	for start := 0; start < len(text); start += stride {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// Service runs the full ingestion pipeline for one uploaded document.
type Service struct {
	retriever    knowledge.Retriever
	chunkSize    int
	chunkOverlap int
}

// NewService builds an ingestion service with the default window parameters.
func NewService(retriever knowledge.Retriever) *Service {
	return &Service{
		retriever:    retriever,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
	}
}

// IngestDocument extracts, chunks, embeds, and stores one document, returning
// the number of chunks the store accepted. A document whose text chunks to
// nothing stores zero chunks and is not an error.
func (s *Service) IngestDocument(ctx context.Context, filename string, data []byte) (int, error) {
	text, err := LoadDocument(ctx, filename, data)
	if err != nil {
		return 0, err
	}

	chunks := ChunkText(text, s.chunkSize, s.chunkOverlap)
	if len(chunks) == 0 {
		slog.Warn("Document produced no chunks", "filename", filename)
		return 0, nil
	}

	stored, err := s.retriever.StoreChunks(ctx, chunks, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to store chunks for %s: %w", filename, err)
	}
	return stored, nil
}
