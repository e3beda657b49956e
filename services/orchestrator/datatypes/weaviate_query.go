package datatypes

import (
	"encoding/json"
	"fmt"

	"github.com/weaviate/weaviate/entities/models"
)

// ParseGraphQLResponse converts Weaviate's dynamic GraphQL response
// (map[string]models.JSONObject) into a strongly-typed struct. The target
// type T must carry json tags matching the response shape.
func ParseGraphQLResponse[T any](resp *models.GraphQLResponse) (*T, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil GraphQL response")
	}

	respBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL response data: %w", err)
	}

	var result T
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into target type: %w", err)
	}

	return &result, nil
}

// KnowledgeChunkResult is a single retrieved chunk.
type KnowledgeChunkResult struct {
	Content    string `json:"content"`
	Source     string `json:"source"`
	ChunkID    string `json:"chunk_id"`
	Additional struct {
		ID       string   `json:"id"`
		Distance *float32 `json:"distance"`
	} `json:"_additional"`
}

// KnowledgeQueryResult holds the Get section of a similarity query. The class
// name is configurable, so the inner list is keyed dynamically and decoded
// through UnmarshalGet.
type KnowledgeQueryResult struct {
	Get map[string][]KnowledgeChunkResult `json:"Get"`
}

// ChunksFor returns the result list for the given class, or nil when the
// response carried no matches.
func (r *KnowledgeQueryResult) ChunksFor(className string) []KnowledgeChunkResult {
	if r == nil {
		return nil
	}
	return r.Get[className]
}
