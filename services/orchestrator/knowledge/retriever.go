// Package knowledge stores and retrieves embedded knowledge-base chunks in
// Weaviate. Vectors are computed by the orchestrator and pushed alongside
// each object, so the store never vectorizes anything itself.
package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/tidewaterlabs/supportrelay/services/llm"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/datatypes"
)

// Retriever is the knowledge-base contract the chat pipeline depends on.
type Retriever interface {
	// QuerySimilar returns up to limit chunk texts ranked by vector
	// similarity to the query. A blank query returns no chunks and
	// performs no store call.
	QuerySimilar(ctx context.Context, query string, limit int) ([]string, error)

	// StoreChunks embeds and stores the given chunks under a source label,
	// returning how many objects the store accepted.
	StoreChunks(ctx context.Context, chunks []string, source string) (int, error)
}

// WeaviateRetriever backs Retriever with a Weaviate class. A nil client puts
// the retriever in lightweight mode: queries return nothing and ingestion is
// rejected.
type WeaviateRetriever struct {
	client    *weaviate.Client
	embedder  llm.Embedder
	className string
}

// NewWeaviateRetriever wires the store client and embedder together. client
// may be nil for lightweight mode.
func NewWeaviateRetriever(client *weaviate.Client, embedder llm.Embedder, className string) *WeaviateRetriever {
	return &WeaviateRetriever{
		client:    client,
		embedder:  embedder,
		className: className,
	}
}

// EnsureSchema creates the backing class if missing. No-op in lightweight mode.
func (r *WeaviateRetriever) EnsureSchema() error {
	if r.client == nil {
		slog.Warn("Weaviate client not configured, skipping schema check")
		return nil
	}
	return datatypes.EnsureWeaviateSchema(r.client, r.className)
}

// QuerySimilar implements the Retriever interface.
func (r *WeaviateRetriever) QuerySimilar(ctx context.Context, query string, limit int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if r.client == nil {
		slog.Debug("Weaviate client not configured, returning no context")
		return nil, nil
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	nearVector := r.client.GraphQL().NearVectorArgBuilder().WithVector(vectors[0])
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "source"},
		{Name: "chunk_id"},
		{Name: "_additional", Fields: []graphql.Field{
			{Name: "id"},
			{Name: "distance"},
		}},
	}

	resp, err := r.client.GraphQL().Get().
		WithClassName(r.className).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("similarity query returned GraphQL error: %s", resp.Errors[0].Message)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.KnowledgeQueryResult](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse similarity response: %w", err)
	}

	results := parsed.ChunksFor(r.className)
	contents := make([]string, 0, len(results))
	for _, res := range results {
		contents = append(contents, res.Content)
	}
	slog.Debug("Similarity query complete", "class", r.className, "hits", len(contents))
	return contents, nil
}

// StoreChunks implements the Retriever interface. Every chunk gets a fresh
// UUID: re-uploading the same document stores new objects rather than
// overwriting old ones.
func (r *WeaviateRetriever) StoreChunks(ctx context.Context, chunks []string, source string) (int, error) {
	if r.client == nil {
		return 0, fmt.Errorf("weaviate client not configured, cannot store chunks")
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := r.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}

	ingestedAt := float64(time.Now().UnixMilli())
	objects := make([]*models.Object, len(chunks))
	for i, chunk := range chunks {
		chunkID := uuid.New().String()
		objects[i] = &models.Object{
			Class:  r.className,
			ID:     strfmt.UUID(chunkID),
			Vector: vectors[i],
			Properties: map[string]interface{}{
				"content":     chunk,
				"source":      source,
				"chunk_id":    chunkID,
				"ingested_at": ingestedAt,
			},
		}
	}

	resp, err := r.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("batch store failed: %w", err)
	}

	stored := 0
	for _, obj := range resp {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			slog.Error("Failed to store chunk", "error", obj.Result.Errors.Error[0].Message)
			continue
		}
		stored++
	}
	slog.Info("Stored knowledge chunks", "class", r.className, "source", source, "stored", stored, "total", len(chunks))
	return stored, nil
}
