package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        email TEXT UNIQUE NOT NULL,
        hashed_password TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS chat_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id TEXT NOT NULL,
        topic TEXT NOT NULL,
        user_input TEXT,
        response TEXT,
        embedding TEXT, -- JSON string of []float32
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_chat_history_user ON chat_history (user_id);
    CREATE INDEX IF NOT EXISTS idx_chat_history_topic ON chat_history (topic);

    CREATE TABLE IF NOT EXISTS user_mistakes (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id TEXT NOT NULL,
        topic TEXT NOT NULL,
        mistake TEXT NOT NULL,
        frequency INTEGER NOT NULL DEFAULT 1,
        UNIQUE (user_id, topic, mistake)
    );

    CREATE TABLE IF NOT EXISTS user_topic_stats (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id TEXT NOT NULL,
        topic TEXT NOT NULL,
        confidence REAL NOT NULL DEFAULT 0.5,
        last_updated DATETIME DEFAULT CURRENT_TIMESTAMP,
        UNIQUE (user_id, topic)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) CreateUser(email, hashedPassword string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (email, hashed_password) VALUES (?, ?)", email, hashedPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getUserByID(id)
}

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, email, hashed_password, created_at FROM users WHERE email = ?", email).
		Scan(&user.ID, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, email, hashed_password, created_at FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// ChatHistory methods

func (s *SQLiteStore) InsertChatHistory(h *ChatHistory) error {
	h.CreatedAt = time.Now()
	res, err := s.db.Exec(
		"INSERT INTO chat_history (user_id, topic, user_input, response, embedding, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		h.UserID, h.Topic, h.UserInput, h.Response, h.Embedding, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat history: %w", err)
	}
	h.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) ListChatHistoryByUser(userID string) ([]ChatHistory, error) {
	return s.queryChatHistory("SELECT id, user_id, topic, user_input, response, embedding, created_at FROM chat_history WHERE user_id = ?", userID)
}

func (s *SQLiteStore) ListAllChatHistory() ([]ChatHistory, error) {
	return s.queryChatHistory("SELECT id, user_id, topic, user_input, response, embedding, created_at FROM chat_history")
}

func (s *SQLiteStore) ListRecentChatHistory(userID, topic string, limit int) ([]ChatHistory, error) {
	return s.queryChatHistory(
		"SELECT id, user_id, topic, user_input, response, embedding, created_at FROM chat_history WHERE user_id = ? AND topic = ? ORDER BY created_at DESC LIMIT ?",
		userID, topic, limit,
	)
}

func (s *SQLiteStore) queryChatHistory(query string, args ...any) ([]ChatHistory, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	var records []ChatHistory
	for rows.Next() {
		var h ChatHistory
		var embedding sql.NullString
		if err := rows.Scan(&h.ID, &h.UserID, &h.Topic, &h.UserInput, &h.Response, &embedding, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat history row: %w", err)
		}
		if embedding.Valid {
			h.Embedding = embedding.String
		}
		records = append(records, h)
	}
	return records, rows.Err()
}

// Mistake ledger methods

// LogMistake increments the frequency counter for an existing
// (user, topic, mistake) triple and reports true, or inserts a fresh row
// with frequency 1 and reports false.
func (s *SQLiteStore) LogMistake(userID, topic, mistake string) (bool, error) {
	var id int64
	err := s.db.QueryRow(
		"SELECT id FROM user_mistakes WHERE user_id = ? AND topic = ? AND mistake = ?",
		userID, topic, mistake,
	).Scan(&id)
	if err == sql.ErrNoRows {
		_, err = s.db.Exec(
			"INSERT INTO user_mistakes (user_id, topic, mistake, frequency) VALUES (?, ?, ?, 1)",
			userID, topic, mistake,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert mistake: %w", err)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query mistake: %w", err)
	}

	_, err = s.db.Exec("UPDATE user_mistakes SET frequency = frequency + 1 WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to increment mistake frequency: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) TopMistakes(userID, topic string, limit int) ([]UserMistake, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, topic, mistake, frequency FROM user_mistakes WHERE user_id = ? AND topic = ? ORDER BY frequency DESC LIMIT ?",
		userID, topic, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query mistakes: %w", err)
	}
	defer rows.Close()

	var mistakes []UserMistake
	for rows.Next() {
		var m UserMistake
		if err := rows.Scan(&m.ID, &m.UserID, &m.Topic, &m.Mistake, &m.Frequency); err != nil {
			return nil, fmt.Errorf("failed to scan mistake row: %w", err)
		}
		mistakes = append(mistakes, m)
	}
	return mistakes, rows.Err()
}

// Topic stat methods

// GetOrCreateTopicStat returns the stat row for (user, topic), creating it
// lazily with confidence 0.5 on the first interaction with that topic.
func (s *SQLiteStore) GetOrCreateTopicStat(userID, topic string) (*UserTopicStat, error) {
	stat, err := s.getTopicStat(userID, topic)
	if err != nil {
		return nil, err
	}
	if stat != nil {
		return stat, nil
	}

	_, err = s.db.Exec(
		"INSERT INTO user_topic_stats (user_id, topic, confidence, last_updated) VALUES (?, ?, 0.5, ?)",
		userID, topic, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert topic stat: %w", err)
	}
	return s.getTopicStat(userID, topic)
}

func (s *SQLiteStore) getTopicStat(userID, topic string) (*UserTopicStat, error) {
	var stat UserTopicStat
	err := s.db.QueryRow(
		"SELECT id, user_id, topic, confidence, last_updated FROM user_topic_stats WHERE user_id = ? AND topic = ?",
		userID, topic,
	).Scan(&stat.ID, &stat.UserID, &stat.Topic, &stat.Confidence, &stat.LastUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query topic stat: %w", err)
	}
	return &stat, nil
}

func (s *SQLiteStore) UpdateTopicConfidence(userID, topic string, confidence float64) error {
	if _, err := s.GetOrCreateTopicStat(userID, topic); err != nil {
		return err
	}
	_, err := s.db.Exec(
		"UPDATE user_topic_stats SET confidence = ?, last_updated = ? WHERE user_id = ? AND topic = ?",
		confidence, time.Now(), userID, topic,
	)
	if err != nil {
		return fmt.Errorf("failed to update topic confidence: %w", err)
	}
	return nil
}

// ListTopicStats returns all topic stats for a user ordered by ascending
// confidence, weakest topics first.
func (s *SQLiteStore) ListTopicStats(userID string) ([]UserTopicStat, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, topic, confidence, last_updated FROM user_topic_stats WHERE user_id = ? ORDER BY confidence ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query topic stats: %w", err)
	}
	defer rows.Close()

	var stats []UserTopicStat
	for rows.Next() {
		var stat UserTopicStat
		if err := rows.Scan(&stat.ID, &stat.UserID, &stat.Topic, &stat.Confidence, &stat.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan topic stat row: %w", err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}
