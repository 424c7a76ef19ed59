package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/talent"
	"zhipin-server/internal/interfaces/httpserver/handlers"
)

// MockMatchRepository is a mock implementation of talent.MatchRepository.
type MockMatchRepository struct {
	UpsertFunc           func(ctx context.Context, userID, jobID string, status talent.MatchStatus, unlocked bool) (*talent.Match, error)
	FindByUserAndJobFunc func(ctx context.Context, userID, jobID string) (*talent.Match, error)
}

func (m *MockMatchRepository) Upsert(ctx context.Context, userID, jobID string, status talent.MatchStatus, unlocked bool) (*talent.Match, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, userID, jobID, status, unlocked)
	}
	return &talent.Match{UserID: userID, JobID: jobID, Status: status, Unlocked: unlocked}, nil
}

func (m *MockMatchRepository) FindByUserAndJob(ctx context.Context, userID, jobID string) (*talent.Match, error) {
	if m.FindByUserAndJobFunc != nil {
		return m.FindByUserAndJobFunc(ctx, userID, jobID)
	}
	return nil, errors.New("not found")
}

func setupMatchTestRouter(handler *handlers.MatchHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("auth_user_id", userID)
		}
		c.Next()
	})
	v1 := r.Group("/v1")
	{
		v1.POST("/matches", handler.Create)
		v1.GET("/matches/:job_id", handler.Get)
	}
	return r
}

func TestMatchHandler_Create(t *testing.T) {
	var gotUnlocked bool
	mockMatches := &MockMatchRepository{
		UpsertFunc: func(ctx context.Context, userID, jobID string, status talent.MatchStatus, unlocked bool) (*talent.Match, error) {
			gotUnlocked = unlocked
			return &talent.Match{UserID: userID, JobID: jobID, Status: status, Unlocked: unlocked}, nil
		},
	}

	handler := handlers.NewMatchHandler(mockMatches, zerolog.Nop())
	router := setupMatchTestRouter(handler, "user_1")

	body, _ := json.Marshal(map[string]string{"job_id": "job_1", "status": "liked"})
	req, _ := http.NewRequest("POST", "/v1/matches", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if gotUnlocked {
		t.Error("Manual likes must not unlock contact details")
	}
}

func TestMatchHandler_CreateKeepsEarnedUnlock(t *testing.T) {
	var gotUnlocked bool
	mockMatches := &MockMatchRepository{
		FindByUserAndJobFunc: func(ctx context.Context, userID, jobID string) (*talent.Match, error) {
			return &talent.Match{UserID: userID, JobID: jobID, Status: talent.MatchStatusLiked, Unlocked: true}, nil
		},
		UpsertFunc: func(ctx context.Context, userID, jobID string, status talent.MatchStatus, unlocked bool) (*talent.Match, error) {
			gotUnlocked = unlocked
			return &talent.Match{UserID: userID, JobID: jobID, Status: status, Unlocked: unlocked}, nil
		},
	}

	handler := handlers.NewMatchHandler(mockMatches, zerolog.Nop())
	router := setupMatchTestRouter(handler, "user_1")

	body, _ := json.Marshal(map[string]string{"job_id": "job_1", "status": "passed"})
	req, _ := http.NewRequest("POST", "/v1/matches", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !gotUnlocked {
		t.Error("Expected earned unlock to survive a manual decision")
	}
}

func TestMatchHandler_CreateRejectsUnknownStatus(t *testing.T) {
	handler := handlers.NewMatchHandler(&MockMatchRepository{}, zerolog.Nop())
	router := setupMatchTestRouter(handler, "user_1")

	body, _ := json.Marshal(map[string]string{"job_id": "job_1", "status": "maybe"})
	req, _ := http.NewRequest("POST", "/v1/matches", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestMatchHandler_Get(t *testing.T) {
	mockMatches := &MockMatchRepository{
		FindByUserAndJobFunc: func(ctx context.Context, userID, jobID string) (*talent.Match, error) {
			return &talent.Match{UserID: userID, JobID: jobID, Status: talent.MatchStatusLiked, Unlocked: true}, nil
		},
	}

	handler := handlers.NewMatchHandler(mockMatches, zerolog.Nop())
	router := setupMatchTestRouter(handler, "user_1")

	req, _ := http.NewRequest("GET", "/v1/matches/job_1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["unlocked"] != true {
		t.Errorf("Expected unlocked match, got %v", response["unlocked"])
	}
}

func TestMatchHandler_GetNotFound(t *testing.T) {
	handler := handlers.NewMatchHandler(&MockMatchRepository{}, zerolog.Nop())
	router := setupMatchTestRouter(handler, "user_1")

	req, _ := http.NewRequest("GET", "/v1/matches/job_missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
