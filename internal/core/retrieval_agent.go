package core

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/algomentor/backend/internal/llm"
	"github.com/algomentor/backend/internal/store"
	"github.com/algomentor/backend/internal/utils"
)

// NoSimilarMemory is returned when the candidate pool is empty or yields no
// scorable records.
const NoSimilarMemory = "No similar prior explanations."

// RetrievalAgent finds the top-K most similar past exchanges for
// personalization. It is a fixed linear cosine-similarity scan over stored
// embeddings, not an indexed search.
type RetrievalAgent struct {
	dbStore  *store.SQLiteStore
	provider llm.Provider
}

func NewRetrievalAgent(db *store.SQLiteStore, provider llm.Provider) *RetrievalAgent {
	return &RetrievalAgent{dbStore: db, provider: provider}
}

type scoredRecord struct {
	topic      string
	response   string
	similarity float32
}

// Retrieve embeds the query, scores it against the user's own history, and
// renders the top K matches as prompt-ready blocks. When the user has fewer
// than topK records the pool widens to every user's history (cold-start
// fallback). Rows whose stored embedding cannot be decoded are skipped.
func (a *RetrievalAgent) Retrieve(ctx context.Context, userID, query string, topK int) (string, error) {
	queryEmbedding, err := a.provider.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to get query embedding: %w", err)
	}

	records, err := a.dbStore.ListChatHistoryByUser(userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user history: %w", err)
	}
	if len(records) < topK {
		records, err = a.dbStore.ListAllChatHistory()
		if err != nil {
			return "", fmt.Errorf("failed to load global history: %w", err)
		}
	}

	scored := make([]scoredRecord, 0, len(records))
	for _, r := range records {
		if r.Embedding == "" {
			continue
		}
		emb, err := utils.DecodeVector(r.Embedding)
		if err != nil {
			continue
		}
		similarity, err := utils.CosineSimilarity(queryEmbedding, emb)
		if err != nil {
			log.Printf("Error scoring chat history record %d: %v. Skipping.", r.ID, err)
			continue
		}
		scored = append(scored, scoredRecord{topic: r.Topic, response: r.Response, similarity: similarity})
	}

	// Descending by similarity; ties keep original scan order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}

	if len(scored) == 0 {
		return NoSimilarMemory, nil
	}

	chunks := make([]string, 0, len(scored))
	for _, s := range scored {
		chunks = append(chunks, fmt.Sprintf("[topic=%s sim=%.3f]\n%s", s.topic, s.similarity, s.response))
	}
	return strings.Join(chunks, "\n\n---\n\n"), nil
}
