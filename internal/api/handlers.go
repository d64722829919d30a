package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/algomentor/backend/internal/auth"
	"github.com/algomentor/backend/internal/core"
	"github.com/algomentor/backend/internal/store"
)

// defaultUserID is the demo identity used when a chat request omits user_id.
const defaultUserID = "demo_user"

type APIHandler struct {
	tutorService *core.TutorService
	dbStore      *store.SQLiteStore
}

func NewAPIHandler(ts *core.TutorService, db *store.SQLiteStore) *APIHandler {
	return &APIHandler{tutorService: ts, dbStore: db}
}

type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply      string  `json:"reply"`
	Topic      string  `json:"topic"`
	Confidence float64 `json:"confidence"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.UserID == "" {
		req.UserID = defaultUserID
	}

	result, err := h.tutorService.Chat(r.Context(), req.UserID, req.Message)
	if err != nil {
		log.Printf("Error handling chat turn for user %s: %v", req.UserID, err)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}

	writeJSON(w, ChatResponse{Reply: result.Reply, Topic: result.Topic, Confidence: result.Confidence})
}

type TopicSummary struct {
	Topic      string  `json:"topic"`
	Confidence float64 `json:"confidence"`
}

type ReviseTopicsResponse struct {
	Topics []TopicSummary `json:"topics"`
}

// ReviseTopicsHandler lists a user's topics ordered weakest-first.
func (h *APIHandler) ReviseTopicsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	stats, err := h.dbStore.ListTopicStats(userID)
	if err != nil {
		log.Printf("Error listing topic stats for user %s: %v", userID, err)
		http.Error(w, "Failed to list topics", http.StatusInternalServerError)
		return
	}

	resp := ReviseTopicsResponse{Topics: make([]TopicSummary, 0, len(stats))}
	for _, s := range stats {
		resp.Topics = append(resp.Topics, TopicSummary{Topic: s.Topic, Confidence: s.Confidence})
	}
	writeJSON(w, resp)
}

type RecentExplanation struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
	UserInput string `json:"user_input"`
	Response  string `json:"response"`
}

type MistakeSummary struct {
	Mistake   string `json:"mistake"`
	Frequency int    `json:"frequency"`
}

type TopicDetailResponse struct {
	Topic    string              `json:"topic"`
	Recents  []RecentExplanation `json:"recents"`
	Mistakes []MistakeSummary    `json:"mistakes"`
}

// ReviseTopicDetailHandler returns the newest explanations and most frequent
// mistakes for one (user, topic) pair.
func (h *APIHandler) ReviseTopicDetailHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	topic := chi.URLParam(r, "topic")

	recents, err := h.dbStore.ListRecentChatHistory(userID, topic, 10)
	if err != nil {
		log.Printf("Error listing recent explanations for user %s, topic %s: %v", userID, topic, err)
		http.Error(w, "Failed to load topic detail", http.StatusInternalServerError)
		return
	}
	mistakes, err := h.dbStore.TopMistakes(userID, topic, 10)
	if err != nil {
		log.Printf("Error listing mistakes for user %s, topic %s: %v", userID, topic, err)
		http.Error(w, "Failed to load topic detail", http.StatusInternalServerError)
		return
	}

	resp := TopicDetailResponse{
		Topic:    topic,
		Recents:  make([]RecentExplanation, 0, len(recents)),
		Mistakes: make([]MistakeSummary, 0, len(mistakes)),
	}
	for _, rec := range recents {
		resp.Recents = append(resp.Recents, RecentExplanation{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
			UserInput: rec.UserInput,
			Response:  rec.Response,
		})
	}
	for _, m := range mistakes {
		resp.Mistakes = append(resp.Mistakes, MistakeSummary{Mistake: m.Mistake, Frequency: m.Frequency})
	}
	writeJSON(w, resp)
}

type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	existing, err := h.dbStore.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("Error looking up user %s: %v", req.Email, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "Email already registered", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.Email, err)
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}
	if _, err := h.dbStore.CreateUser(req.Email, hash); err != nil {
		log.Printf("Error creating user %s: %v", req.Email, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, AuthResponse{Token: auth.NewToken(), UserID: req.Email})
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.dbStore.GetUserByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		log.Printf("Error getting user %s: %v", req.Email, err)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.HashedPassword) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	writeJSON(w, AuthResponse{Token: auth.NewToken(), UserID: user.Email})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
