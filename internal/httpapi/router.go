// Package httpapi exposes the assistant and the retrieval playground over JSON.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"playground/internal/assistant"
	"playground/internal/domain"
)

// ChatService is the engine surface used by the HTTP adapter.
type ChatService interface {
	ProcessMessage(ctx context.Context, req assistant.ChatRequest) *assistant.ChatResponse
	HandleEvent(ctx context.Context, sessionID string, user assistant.User, ev assistant.Event) *assistant.ChatResponse
	PendingPaymentAmount(ctx context.Context, ref string) (int, error)
	Transcript(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
}

// RetrievalService is the retrieval surface used by the HTTP adapter.
type RetrievalService interface {
	Documents() []domain.Document
	Retrieve(ctx context.Context, positive, negative string, k int) ([]domain.RetrievedChunk, error)
	Summarize(positive string, chunks []domain.RetrievedChunk) []domain.Recommendation
}

type Handler struct {
	chat      ChatService
	retrieval RetrievalService
	logger    *zap.Logger
}

// NewRouter builds the API. allowOrigins limits CORS; none allows every origin.
func NewRouter(chat ChatService, retrieval RetrievalService, logger *zap.Logger, allowOrigins ...string) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(requestID(), accessLog(logger), gin.Recovery(), corsPolicy(allowOrigins))

	r.NoRoute(func(c *gin.Context) { fail(c, http.StatusNotFound, "route not found") })
	r.NoMethod(func(c *gin.Context) { fail(c, http.StatusMethodNotAllowed, "method not allowed") })

	h := &Handler{chat: chat, retrieval: retrieval, logger: logger}

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.POST("/chat", h.SendMessage)
	api.GET("/chat/:session_id", h.GetSession)
	api.GET("/chat/:session_id/messages", h.ListMessages)
	api.GET("/payments/:ref", h.GetPayment)
	api.POST("/payments/:ref/result", h.PaymentResult)
	api.POST("/rag/retrieve", h.Retrieve)
	api.GET("/rag/movies", h.ListMovies)
	return r
}

const requestIDHeader = "X-Request-ID"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func corsPolicy(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
