package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/algomentor/backend/internal/llm"
	"github.com/algomentor/backend/internal/store"
	"github.com/algomentor/backend/internal/utils"
)

const (
	// DefaultTopK is the number of past exchanges retrieved per turn.
	DefaultTopK = 3

	// maxPersonalizationMistakes caps the recurring mistakes fed to the
	// response generator for a (user, topic) pair.
	maxPersonalizationMistakes = 5
)

// ChatResult is what a chat turn hands back to the HTTP layer.
type ChatResult struct {
	Reply      string
	Topic      string
	Confidence float64
}

// TutorService sequences the three-stage agent pipeline per incoming message
// and persists the resulting bookkeeping. Steps after response generation
// are independent read-modify-writes against the store, not one transaction;
// partial completion on a crash mid-turn is accepted.
type TutorService struct {
	dbStore   *store.SQLiteStore
	provider  llm.Provider
	extractor *ContextAgent
	retriever *RetrievalAgent
	responder *ResponseAgent
	topK      int
}

func NewTutorService(db *store.SQLiteStore, provider llm.Provider, topK int) *TutorService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &TutorService{
		dbStore:   db,
		provider:  provider,
		extractor: NewContextAgent(provider),
		retriever: NewRetrievalAgent(db, provider),
		responder: NewResponseAgent(provider),
		topK:      topK,
	}
}

// NormalizeTopic maps a model-generated topic label to the exact-string key
// used across mistakes, stats and history. Identity is trim + lowercase
// only; near-duplicate labels stay distinct topics.
func NormalizeTopic(topic string) string {
	t := strings.ToLower(strings.TrimSpace(topic))
	if t == "" {
		return "general"
	}
	return t
}

// Chat runs one full tutoring turn for a user message.
func (s *TutorService) Chat(ctx context.Context, userID, message string) (*ChatResult, error) {
	extraction := s.extractor.Extract(ctx, message)
	if extraction.Fallback {
		log.Printf("Context extraction degraded for user %s: %s", userID, extraction.Reason)
	}
	topic := NormalizeTopic(extraction.Context.Topic)

	mistakeRows, err := s.dbStore.TopMistakes(userID, topic, maxPersonalizationMistakes)
	if err != nil {
		return nil, fmt.Errorf("failed to load recurring mistakes: %w", err)
	}
	mistakes := make([]string, 0, len(mistakeRows))
	for _, m := range mistakeRows {
		mistakes = append(mistakes, m.Mistake)
	}

	retrieved, err := s.retriever.Retrieve(ctx, userID, message, s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve similar memory: %w", err)
	}

	generated := s.responder.Generate(ctx, message, extraction.Context, retrieved, mistakes)
	if generated.Fallback {
		log.Printf("Response generation degraded for user %s: %s", userID, generated.Reason)
	}

	stat, err := s.dbStore.GetOrCreateTopicStat(userID, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to load topic stat: %w", err)
	}

	mistakeRepeated := false
	if tag := strings.TrimSpace(generated.MistakeTag); tag != "" {
		mistakeRepeated, err = s.dbStore.LogMistake(userID, topic, tag)
		if err != nil {
			return nil, fmt.Errorf("failed to log mistake: %w", err)
		}
	}

	newConfidence := UpdateConfidence(stat.Confidence, mistakeRepeated)
	if err := s.dbStore.UpdateTopicConfidence(userID, topic, newConfidence); err != nil {
		return nil, fmt.Errorf("failed to update confidence: %w", err)
	}

	// The stored embedding is of the original user message, not the reply.
	embedding, err := s.provider.Embed(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to embed message: %w", err)
	}
	embeddingText, err := utils.EncodeVector(embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding: %w", err)
	}
	row := &store.ChatHistory{
		UserID:    userID,
		Topic:     topic,
		UserInput: message,
		Response:  generated.Reply,
		Embedding: embeddingText,
	}
	if err := s.dbStore.InsertChatHistory(row); err != nil {
		return nil, fmt.Errorf("failed to store chat turn: %w", err)
	}

	return &ChatResult{Reply: generated.Reply, Topic: topic, Confidence: newConfidence}, nil
}
