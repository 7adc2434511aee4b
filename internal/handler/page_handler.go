package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Invincible1602/AyurYoga/internal/middleware"
)

// PageHandler renders the HTML views. Protected views are gated by the
// auth middleware before they reach these methods; by the time a page
// renders, the decision is already made.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) render(c *gin.Context, template, title string) {
	subject := ""
	if store := middleware.StoreFrom(c); store != nil {
		if identity := store.CurrentIdentity(); identity != nil {
			subject = identity.Subject
		}
	}
	c.HTML(http.StatusOK, template, gin.H{
		"Title":   title,
		"Subject": subject,
	})
}

// Home handles GET / and is the fallback for unmatched paths
func (h *PageHandler) Home(c *gin.Context) {
	h.render(c, "home.tmpl", "AyurYoga")
}

// About handles GET /about
func (h *PageHandler) About(c *gin.Context) {
	h.render(c, "about.tmpl", "About AyurYoga")
}

// Login handles GET /login
func (h *PageHandler) Login(c *gin.Context) {
	h.render(c, "login.tmpl", "Log in")
}

// Signup handles GET /signup
func (h *PageHandler) Signup(c *gin.Context) {
	h.render(c, "signup.tmpl", "Sign up")
}

// Recommender handles GET /recommender (protected)
func (h *PageHandler) Recommender(c *gin.Context) {
	h.render(c, "recommender.tmpl", "Asana Recommender")
}

// Chatbot handles GET /chatbot (protected)
func (h *PageHandler) Chatbot(c *gin.Context) {
	h.render(c, "chatbot.tmpl", "Yoga Chatbot")
}

// ImageGenerator handles GET /yoga-image-generator (protected)
func (h *PageHandler) ImageGenerator(c *gin.Context) {
	h.render(c, "images.tmpl", "Yoga Image Search")
}

// Shorts handles GET /shorts (protected)
func (h *PageHandler) Shorts(c *gin.Context) {
	h.render(c, "shorts.tmpl", "Yoga Shorts")
}
