package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, secret, sub, role string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func authTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		id, _ := c.Get("employer_id")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"employer_id": id, "role": role})
	})
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-secret")
	r := authTestRouter(JWTAuth())

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + signTestToken(t, "mw-secret", "emp-1", "employer", time.Hour), http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signTestToken(t, "other-secret", "emp-1", "employer", time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + signTestToken(t, "mw-secret", "emp-1", "employer", -time.Hour), http.StatusUnauthorized},
		{"empty subject", "Bearer " + signTestToken(t, "mw-secret", "", "employer", time.Hour), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		if w := doGet(r, tt.header); w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d (body %s)", tt.name, w.Code, tt.want, w.Body)
		}
	}
}

func TestJWTAuthWithoutSecretConfigured(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	r := authTestRouter(JWTAuth())

	if w := doGet(r, "Bearer whatever"); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestOptionalJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-secret")
	r := authTestRouter(OptionalJWT())

	// Anonymous and invalid tokens both pass through without identity.
	for _, header := range []string{"", "Bearer garbage"} {
		w := doGet(r, header)
		if w.Code != http.StatusOK {
			t.Errorf("header %q: status = %d, want 200", header, w.Code)
		}
	}

	token := signTestToken(t, "mw-secret", "emp-9", "admin", time.Hour)
	w := doGet(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"emp-9", "admin"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %s missing %q", body, want)
		}
	}
}
