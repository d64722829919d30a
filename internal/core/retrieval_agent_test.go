package core

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algomentor/backend/internal/store"
	"github.com/algomentor/backend/internal/utils"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTurn(t *testing.T, s *store.SQLiteStore, userID, topic, response string, embedding []float32) {
	t.Helper()
	var text string
	if embedding != nil {
		var err error
		text, err = utils.EncodeVector(embedding)
		require.NoError(t, err)
	}
	require.NoError(t, s.InsertChatHistory(&store.ChatHistory{
		UserID:    userID,
		Topic:     topic,
		UserInput: "question",
		Response:  response,
		Embedding: text,
	}))
}

func TestRetrieveRanksBySimilarity(t *testing.T) {
	s := newTestStore(t)
	insertTurn(t, s, "u1", "arrays", "closest", []float32{1, 0, 0})
	insertTurn(t, s, "u1", "graphs", "farthest", []float32{0, 1, 0})
	insertTurn(t, s, "u1", "dp", "middle", []float32{0.7, 0.7, 0})

	agent := NewRetrievalAgent(s, &scriptedProvider{embedding: []float32{1, 0, 0}})
	out, err := agent.Retrieve(context.Background(), "u1", "query", 2)
	require.NoError(t, err)

	require.Contains(t, out, "closest")
	require.Contains(t, out, "middle")
	require.NotContains(t, out, "farthest")
	require.True(t, strings.Index(out, "closest") < strings.Index(out, "middle"))
	require.Contains(t, out, "[topic=arrays sim=1.000]")
}

func TestRetrieveWidensPoolForColdStart(t *testing.T) {
	s := newTestStore(t)
	// One record for u1, five system-wide.
	insertTurn(t, s, "u1", "arrays", "own record", []float32{1, 0, 0})
	insertTurn(t, s, "u2", "graphs", "other 1", []float32{0.9, 0.1, 0})
	insertTurn(t, s, "u2", "dp", "other 2", []float32{0.8, 0.2, 0})
	insertTurn(t, s, "u3", "heaps", "other 3", []float32{0.7, 0.3, 0})
	insertTurn(t, s, "u3", "tries", "other 4", []float32{0, 1, 0})

	agent := NewRetrievalAgent(s, &scriptedProvider{embedding: []float32{1, 0, 0}})
	out, err := agent.Retrieve(context.Background(), "u1", "query", 3)
	require.NoError(t, err)

	blocks := strings.Split(out, "\n\n---\n\n")
	require.Len(t, blocks, 3)
	require.Contains(t, out, "own record")
	require.Contains(t, out, "other 1")
	require.Contains(t, out, "other 2")
}

func TestRetrieveSkipsUnparseableEmbeddings(t *testing.T) {
	s := newTestStore(t)
	insertTurn(t, s, "u1", "arrays", "good", []float32{1, 0, 0})
	require.NoError(t, s.InsertChatHistory(&store.ChatHistory{
		UserID:    "u1",
		Topic:     "arrays",
		UserInput: "question",
		Response:  "corrupt",
		Embedding: "not a vector",
	}))
	insertTurn(t, s, "u1", "arrays", "missing", nil)

	agent := NewRetrievalAgent(s, &scriptedProvider{embedding: []float32{1, 0, 0}})
	out, err := agent.Retrieve(context.Background(), "u1", "query", 3)
	require.NoError(t, err)

	require.Contains(t, out, "good")
	require.NotContains(t, out, "corrupt")
	require.NotContains(t, out, "missing")
}

func TestRetrieveReturnsSentinelOnEmptyPool(t *testing.T) {
	s := newTestStore(t)
	agent := NewRetrievalAgent(s, &scriptedProvider{embedding: []float32{1, 0, 0}})

	out, err := agent.Retrieve(context.Background(), "u1", "query", 3)
	require.NoError(t, err)
	require.Equal(t, NoSimilarMemory, out)
}
