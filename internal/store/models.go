package store

import "time"

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt      time.Time `json:"created_at"`
}

// ChatHistory is one immutable chat turn: the user's question, the generated
// reply, and the embedding of the question serialized as JSON text.
type ChatHistory struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Topic     string    `json:"topic"`
	UserInput string    `json:"user_input"`
	Response  string    `json:"response"`
	Embedding string    `json:"-"` // JSON string of []float32
	CreatedAt time.Time `json:"created_at"`
}

// UserMistake counts how often a given mistake text has recurred for a
// (user, topic) pair. At most one row per (user_id, topic, mistake) triple.
type UserMistake struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	Topic     string `json:"topic"`
	Mistake   string `json:"mistake"`
	Frequency int    `json:"frequency"`
}

// UserTopicStat is the per (user, topic) confidence scalar in [0.1, 1.0].
type UserTopicStat struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Topic       string    `json:"topic"`
	Confidence  float64   `json:"confidence"`
	LastUpdated time.Time `json:"last_updated"`
}
