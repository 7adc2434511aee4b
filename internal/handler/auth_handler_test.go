package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Invincible1602/AyurYoga/internal/client"
	"github.com/Invincible1602/AyurYoga/internal/guard"
	"github.com/Invincible1602/AyurYoga/internal/middleware"
	"github.com/Invincible1602/AyurYoga/pkg/config"
	"github.com/Invincible1602/AyurYoga/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	token    string
	loginErr error
	regErr   error
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	if m.loginErr != nil {
		return "", m.loginErr
	}
	return m.token, nil
}

func (m *MockAuthService) Register(ctx context.Context, username, password string) error {
	return m.regErr
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		TokenCookie:  "token",
		VisitCookie:  "visit_id",
		LoginPath:    "/login",
		LandingPath:  "/",
		PendingTTL:   time.Minute,
		CookieMaxAge: time.Hour,
	}
}

func testToken(t *testing.T, sub string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// newTestRouter wires the session middleware, guard and auth handler the
// way main does, over an in-memory pending store.
func newTestRouter(auth AuthService) (*gin.Engine, *guard.Guard) {
	g := guard.New(guard.NewMemoryPendingStore(time.Minute), guard.Config{
		LoginPath:   "/login",
		LandingPath: "/",
	})

	r := gin.New()
	r.Use(middleware.Session(testSessionConfig()))

	h := NewAuthHandler(auth, g, logger.Get())
	r.POST("/api/login", h.Login)
	r.POST("/api/signup", h.Signup)
	r.POST("/api/logout", h.Logout)
	r.GET("/api/session", h.Session)

	r.GET("/recommender", middleware.RequireAuth(g), func(c *gin.Context) {
		c.String(http.StatusOK, "protected")
	})

	return r, g
}

func postJSON(r *gin.Engine, path string, payload interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login_Success(t *testing.T) {
	r, _ := newTestRouter(&MockAuthService{token: testToken(t, "maya")})

	w := postJSON(r, "/api/login", gin.H{"username": "maya", "password": "s3cret"})

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Subject  string `json:"subject"`
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "maya", body.Data.Subject)
	assert.Equal(t, "/", body.Data.Redirect, "no pending destination falls back to landing")

	// Token persisted as a cookie
	tokenSet := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" && cookie.Value != "" {
			tokenSet = true
		}
	}
	assert.True(t, tokenSet, "login should persist the token cookie")
}

func TestAuthHandler_Login_ResumesPendingDestination(t *testing.T) {
	r, _ := newTestRouter(&MockAuthService{token: testToken(t, "maya")})
	visit := &http.Cookie{Name: "visit_id", Value: "visit-77"}

	// Denied navigation records the destination
	req := httptest.NewRequest(http.MethodGet, "/recommender", nil)
	req.AddCookie(visit)
	denied := httptest.NewRecorder()
	r.ServeHTTP(denied, req)
	require.Equal(t, http.StatusFound, denied.Code)
	require.Equal(t, "/login", denied.Header().Get("Location"))

	// Login resumes it
	w := postJSON(r, "/api/login", gin.H{"username": "maya", "password": "s3cret"}, visit)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/recommender", body.Data.Redirect)

	// Consumed exactly once: a second login lands on the default
	w2 := postJSON(r, "/api/login", gin.H{"username": "maya", "password": "s3cret"}, visit)
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &body))
	assert.Equal(t, "/", body.Data.Redirect)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	r, _ := newTestRouter(&MockAuthService{
		loginErr: &client.UpstreamError{StatusCode: http.StatusUnauthorized, Detail: "Invalid username or password"},
	})

	w := postJSON(r, "/api/login", gin.H{"username": "maya", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password")

	for _, cookie := range w.Result().Cookies() {
		assert.NotEqual(t, "token", cookie.Name, "failed login must not persist a token")
	}
}

func TestAuthHandler_Login_UnusableToken(t *testing.T) {
	r, _ := newTestRouter(&MockAuthService{token: "garbage"})

	w := postJSON(r, "/api/login", gin.H{"username": "maya", "password": "s3cret"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	r, _ := newTestRouter(&MockAuthService{})

	w := postJSON(r, "/api/login", gin.H{"username": "maya"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Signup(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, _ := newTestRouter(&MockAuthService{})
		w := postJSON(r, "/api/signup", gin.H{"username": "maya", "password": "s3cret"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		r, _ := newTestRouter(&MockAuthService{
			regErr: &client.UpstreamError{StatusCode: http.StatusBadRequest, Detail: "Username already registered"},
		})
		w := postJSON(r, "/api/signup", gin.H{"username": "maya", "password": "s3cret"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Username already registered")
	})

	t.Run("unreachable service", func(t *testing.T) {
		r, _ := newTestRouter(&MockAuthService{regErr: errors.New("connection refused")})
		w := postJSON(r, "/api/signup", gin.H{"username": "maya", "password": "s3cret"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	r, _ := newTestRouter(&MockAuthService{})

	w := postJSON(r, "/api/logout", gin.H{}, &http.Cookie{Name: "token", Value: testToken(t, "maya")})
	require.Equal(t, http.StatusOK, w.Code)

	cleared := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" && cookie.Value == "" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout should clear the token cookie")

	// Idempotent: logging out again still succeeds
	w2 := postJSON(r, "/api/logout", gin.H{})
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestAuthHandler_Session(t *testing.T) {
	r, _ := newTestRouter(&MockAuthService{})

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: testToken(t, "maya")})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"subject":"maya"`)
	})
}
