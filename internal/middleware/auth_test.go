package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brainstorm-app/brainstorm-golang/internal/auth"
	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/", AuthMiddleware())
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": c.GetInt64(CtxUserID),
			"role":   c.GetString(CtxUserRole),
		})
	})

	manager := r.Group("/manager", AuthMiddleware(), ManagerMiddleware())
	manager.GET("/queue", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	admin := r.Group("/admin", AuthMiddleware(), AdminMiddleware())
	admin.GET("/users", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r
}

func do(t *testing.T, r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r := newRouter()
	if rec := do(t, r, "/me", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("malformed header: status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewarePassesValidToken(t *testing.T) {
	r := newRouter()
	token, err := auth.GenerateToken(7, "employee", "Emp", "e@example.com")
	if err != nil {
		t.Fatal(err)
	}
	rec := do(t, r, "/me", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestManagerMiddleware(t *testing.T) {
	r := newRouter()

	empToken, _ := auth.GenerateToken(7, "employee", "Emp", "e@example.com")
	mgrToken, _ := auth.GenerateToken(3, "manager", "Mgr", "m@example.com")
	admToken, _ := auth.GenerateToken(1, "admin", "Adm", "a@example.com")

	if rec := do(t, r, "/manager/queue", empToken); rec.Code != http.StatusForbidden {
		t.Errorf("employee on manager route: status = %d, want 403", rec.Code)
	}
	if rec := do(t, r, "/manager/queue", mgrToken); rec.Code != http.StatusOK {
		t.Errorf("manager on manager route: status = %d, want 200", rec.Code)
	}
	// Admins do not get review authority.
	if rec := do(t, r, "/manager/queue", admToken); rec.Code != http.StatusForbidden {
		t.Errorf("admin on manager route: status = %d, want 403", rec.Code)
	}
}

func TestAdminMiddleware(t *testing.T) {
	r := newRouter()

	mgrToken, _ := auth.GenerateToken(3, "manager", "Mgr", "m@example.com")
	admToken, _ := auth.GenerateToken(1, "admin", "Adm", "a@example.com")

	if rec := do(t, r, "/admin/users", mgrToken); rec.Code != http.StatusForbidden {
		t.Errorf("manager on admin route: status = %d, want 403", rec.Code)
	}
	if rec := do(t, r, "/admin/users", admToken); rec.Code != http.StatusOK {
		t.Errorf("admin on admin route: status = %d, want 200", rec.Code)
	}
}
