package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLogMistakeCountsRepeats(t *testing.T) {
	s := newTestStore(t)

	repeated, err := s.LogMistake("u1", "arrays", "off by one")
	require.NoError(t, err)
	assert.False(t, repeated)

	repeated, err = s.LogMistake("u1", "arrays", "off by one")
	require.NoError(t, err)
	assert.True(t, repeated)

	mistakes, err := s.TopMistakes("u1", "arrays", 5)
	require.NoError(t, err)
	require.Len(t, mistakes, 1)
	assert.Equal(t, 2, mistakes[0].Frequency)

	// A different triple starts its own counter.
	repeated, err = s.LogMistake("u1", "arrays", "wrong loop bound")
	require.NoError(t, err)
	assert.False(t, repeated)
}

func TestTopMistakesOrdersByFrequency(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.LogMistake("u1", "dp", "forgot base case")
		require.NoError(t, err)
	}
	_, err := s.LogMistake("u1", "dp", "wrong transition")
	require.NoError(t, err)

	mistakes, err := s.TopMistakes("u1", "dp", 5)
	require.NoError(t, err)
	require.Len(t, mistakes, 2)
	assert.Equal(t, "forgot base case", mistakes[0].Mistake)
	assert.Equal(t, 3, mistakes[0].Frequency)

	limited, err := s.TopMistakes("u1", "dp", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetOrCreateTopicStat(t *testing.T) {
	s := newTestStore(t)

	stat, err := s.GetOrCreateTopicStat("u1", "graphs")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, stat.Confidence, 1e-9)

	require.NoError(t, s.UpdateTopicConfidence("u1", "graphs", 0.62))

	again, err := s.GetOrCreateTopicStat("u1", "graphs")
	require.NoError(t, err)
	assert.Equal(t, stat.ID, again.ID)
	assert.InDelta(t, 0.62, again.Confidence, 1e-9)
}

func TestListTopicStatsWeakestFirst(t *testing.T) {
	s := newTestStore(t)
	for topic, conf := range map[string]float64{"arrays": 0.8, "graphs": 0.2, "dp": 0.5} {
		_, err := s.GetOrCreateTopicStat("u1", topic)
		require.NoError(t, err)
		require.NoError(t, s.UpdateTopicConfidence("u1", topic, conf))
	}
	// Another user's stats must not leak in.
	_, err := s.GetOrCreateTopicStat("u2", "heaps")
	require.NoError(t, err)

	stats, err := s.ListTopicStats("u1")
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, "graphs", stats[0].Topic)
	assert.Equal(t, "dp", stats[1].Topic)
	assert.Equal(t, "arrays", stats[2].Topic)
}

func TestListRecentChatHistoryNewestFirst(t *testing.T) {
	s := newTestStore(t)
	for _, input := range []string{"first", "second", "third"} {
		require.NoError(t, s.InsertChatHistory(&ChatHistory{
			UserID:    "u1",
			Topic:     "arrays",
			UserInput: input,
			Response:  "reply to " + input,
		}))
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, s.InsertChatHistory(&ChatHistory{
		UserID: "u1", Topic: "graphs", UserInput: "off topic", Response: "r",
	}))

	recents, err := s.ListRecentChatHistory("u1", "arrays", 2)
	require.NoError(t, err)
	require.Len(t, recents, 2)
	assert.Equal(t, "third", recents[0].UserInput)
	assert.Equal(t, "second", recents[1].UserInput)
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)

	missing, err := s.GetUserByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := s.CreateUser("a@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", created.Email)

	found, err := s.GetUserByEmail("a@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	// email is unique
	_, err = s.CreateUser("a@example.com", "otherhash")
	assert.Error(t, err)
}
