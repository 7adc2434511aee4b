package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Invincible1602/AyurYoga/internal/client"
	"github.com/Invincible1602/AyurYoga/internal/middleware"
	"github.com/Invincible1602/AyurYoga/pkg/response"
)

// RecommenderService is the slice of the recommender client the handler needs
type RecommenderService interface {
	Recommend(ctx context.Context, token, disease string) ([]client.Asana, error)
}

// ChatService is the slice of the chat client the handler needs
type ChatService interface {
	Ask(ctx context.Context, message string) (string, error)
}

// ImagesService is the slice of the image search client the handler needs
type ImagesService interface {
	Search(ctx context.Context, token, prompt string) ([]string, error)
}

// WellnessHandler fronts the delegated wellness services: asana
// recommendations, the yoga chatbot and pose image search. Each call
// forwards the visitor's bearer token where the backend requires one.
type WellnessHandler struct {
	recommender RecommenderService
	chat        ChatService
	images      ImagesService
}

// NewWellnessHandler creates a new WellnessHandler
func NewWellnessHandler(recommender RecommenderService, chat ChatService, images ImagesService) *WellnessHandler {
	return &WellnessHandler{
		recommender: recommender,
		chat:        chat,
		images:      images,
	}
}

// Recommend handles GET /api/recommend?disease=
func (h *WellnessHandler) Recommend(c *gin.Context) {
	disease := strings.TrimSpace(c.Query("disease"))
	if disease == "" {
		response.BadRequest(c, "Disease is required")
		return
	}

	token := middleware.StoreFrom(c).Token()
	asanas, err := h.recommender.Recommend(c.Request.Context(), token, disease)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}

	response.Success(c, gin.H{
		"disease": disease,
		"asanas":  asanas,
	})
}

// Chat handles POST /api/chat
func (h *WellnessHandler) Chat(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Message is required")
		return
	}

	reply, err := h.chat.Ask(c.Request.Context(), req.Message)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}

	response.Success(c, gin.H{"response": reply})
}

// Images handles GET /api/images?prompt=
func (h *WellnessHandler) Images(c *gin.Context) {
	prompt := strings.TrimSpace(c.Query("prompt"))
	if prompt == "" {
		response.BadRequest(c, "Prompt is required")
		return
	}

	token := middleware.StoreFrom(c).Token()
	urls, err := h.images.Search(c.Request.Context(), token, prompt)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}

	if len(urls) == 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "No images matched the prompt", "")
		return
	}
	response.Success(c, gin.H{"urls": urls})
}
