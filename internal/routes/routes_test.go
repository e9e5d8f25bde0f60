package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brainstorm-app/brainstorm-golang/internal/auth"
	"github.com/brainstorm-app/brainstorm-golang/internal/handlers"
	"github.com/brainstorm-app/brainstorm-golang/internal/models"
	"github.com/brainstorm-app/brainstorm-golang/internal/store"
	"github.com/gin-gonic/gin"
)

// testRouter builds the full route tree with no database behind it,
// enough to exercise the auth and role gates, which reject before any
// handler touches the DB.
func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return SetupRouter(&handlers.Handlers{Ideas: store.NewIdeaStore()})
}

func tokenFor(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, role, "Test User", "test@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func TestPingIsPublic(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/Idea/all"},
		{http.MethodGet, "/api/Notification"},
		{http.MethodGet, "/api/review/ideas"},
		{http.MethodGet, "/api/users"},
	}

	for _, p := range paths {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(p.method, p.path, nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, w.Code)
		}
	}
}

func TestReviewRoutesAreManagerOnly(t *testing.T) {
	router := testRouter(t)

	for _, role := range []string{models.RoleEmployee, models.RoleAdmin} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/review/ideas/1/status", strings.NewReader(`{"status":"Approved"}`))
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, 7, role))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("role %s: expected 403, got %d", role, w.Code)
		}
	}
}

func TestAdminRoutesRejectManagers(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 7, models.RoleManager))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestChatReportsUnavailableWithoutAIService(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 7, models.RoleManager))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestChatIsForbiddenForEmployees(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 7, models.RoleEmployee))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestCORSPreflightGetsEmpty204(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/Idea/all", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:4200" {
		t.Fatalf("unexpected allow-origin header %q", got)
	}
}
