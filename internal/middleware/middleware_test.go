package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/pkg/jwt"
	"github.com/gin-gonic/gin"
)

func protectedRouter(tokens *jwt.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", JWTAuthMiddleware(tokens), RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUsername))
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := jwt.NewTokenService("secret", time.Hour)
	r := protectedRouter(tokens)

	admin, _, err := tokens.Generate(1, "admin", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	teacher, _, _ := tokens.Generate(2, "teacher", models.RoleTeacher)
	expired, _, _ := jwt.NewTokenService("secret", -time.Minute).Generate(1, "admin", models.RoleAdmin)
	foreign, _, _ := jwt.NewTokenService("other", time.Hour).Generate(1, "admin", models.RoleAdmin)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"no bearer", admin, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"teacher", "Bearer " + teacher, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
	}
	for _, tc := range cases {
		if w := get(r, tc.header); w.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, w.Code)
		}
	}
	if w := get(r, "Bearer "+admin); w.Body.String() != "admin" {
		t.Fatalf("expected username in context, got %q", w.Body.String())
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://school.local"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://school.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "http://school.local" {
		t.Fatalf("preflight: %d %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unexpected CORS header for a foreign origin")
	}
}
