package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Invincible1602/AyurYoga/internal/client"
	"github.com/Invincible1602/AyurYoga/internal/guard"
	"github.com/Invincible1602/AyurYoga/internal/middleware"
	"github.com/Invincible1602/AyurYoga/pkg/logger"
	"github.com/Invincible1602/AyurYoga/pkg/response"
)

// AuthService is the slice of the auth client the handler needs
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password string) error
}

// AuthHandler handles login, signup, logout and session inspection
type AuthHandler struct {
	auth  AuthService
	guard *guard.Guard
	log   *logger.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth AuthService, g *guard.Guard, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:  auth,
		guard: g,
		log:   log,
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/login. On success the token from the auth
// service is installed into the session and the response carries the
// destination to resume: the path the visitor was denied at, consumed
// exactly once, or the landing page.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username and password are required")
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}

	store := middleware.StoreFrom(c)
	if err := store.SetToken(token); err != nil {
		// The auth service succeeded but handed back a token the
		// session cannot decode. The visitor stays logged out.
		h.log.Error("Auth service returned unusable token", zap.Error(err))
		response.BadGateway(c, "Authentication service returned an unusable token")
		return
	}

	identity := store.CurrentIdentity()
	redirect := h.guard.Resume(middleware.VisitID(c))

	h.log.Info("Visitor logged in",
		zap.String("subject", identity.Subject),
		zap.String("redirect", redirect),
	)

	response.Success(c, gin.H{
		"subject":  identity.Subject,
		"email":    identity.Email,
		"redirect": redirect,
	})
}

// Signup handles POST /api/signup. Registration does not log the
// visitor in; the login flow runs separately afterwards.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username and password are required")
		return
	}

	if err := h.auth.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		writeUpstreamError(c, err)
		return
	}

	response.Created(c, gin.H{"message": "User registered successfully"})
}

// Logout handles POST /api/logout. Idempotent: logging out while
// already logged out succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.StoreFrom(c).Clear()
	response.Success(c, gin.H{"message": "Logged out"})
}

// Session handles GET /api/session. Reports the current identity, or
// null when the visitor is not logged in. Never an error.
func (h *AuthHandler) Session(c *gin.Context) {
	identity := middleware.StoreFrom(c).CurrentIdentity()
	if identity == nil {
		response.Success(c, gin.H{"authenticated": false})
		return
	}
	response.Success(c, gin.H{
		"authenticated": true,
		"subject":       identity.Subject,
		"email":         identity.Email,
	})
}

// writeUpstreamError translates a delegated service failure. A typed
// upstream error keeps its status and detail message; anything else is
// an unreachable backend.
func writeUpstreamError(c *gin.Context, err error) {
	var upstream *client.UpstreamError
	if errors.As(err, &upstream) {
		response.Error(c, upstream.StatusCode, "UPSTREAM_ERROR", upstream.Detail, "")
		return
	}
	response.BadGateway(c, "Service temporarily unavailable")
}
