package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"playground/internal/assistant"
	"playground/internal/corpus"
	"playground/internal/domain"
)

const defaultTranscriptLimit = 50

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type sendMessageReq struct {
	SessionID string         `json:"session_id"`
	User      assistant.User `json:"user"`
	Message   string         `json:"message" binding:"required"`
}

// SendMessage handles one chat turn. A missing session_id starts a new session.
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	resp := h.chat.ProcessMessage(c.Request.Context(), assistant.ChatRequest{
		SessionID: req.SessionID,
		User:      req.User,
		Message:   req.Message,
	})
	c.JSON(http.StatusOK, resp)
}

// GetSession reports the dialogue state, strikes and whether the session is still active.
func (h *Handler) GetSession(c *gin.Context) {
	sid := c.Param("session_id")
	sess, err := h.chat.Session(c.Request.Context(), sid)
	if errors.Is(err, domain.ErrNotFound) {
		fail(c, http.StatusNotFound, "unknown session")
		return
	}
	if err != nil {
		h.logger.Error("get session", zap.String("session_id", sid), zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to load session")
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) ListMessages(c *gin.Context) {
	limit := defaultTranscriptLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fail(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	sid := c.Param("session_id")
	msgs, err := h.chat.Transcript(c.Request.Context(), sid, limit)
	if err != nil {
		h.logger.Error("list messages", zap.String("session_id", sid), zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to load messages")
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sid, "messages": msgs})
}

// GetPayment backs the payment page: it shows the amount due for a reference.
func (h *Handler) GetPayment(c *gin.Context) {
	ref := c.Param("ref")
	amount, err := h.chat.PendingPaymentAmount(c.Request.Context(), ref)
	if errors.Is(err, domain.ErrNotFound) {
		fail(c, http.StatusNotFound, "unknown payment reference")
		return
	}
	if err != nil {
		h.logger.Error("get payment", zap.String("payment_ref", ref), zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to load payment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_ref": ref, "amount": amount})
}

type paymentResultReq struct {
	SessionID string         `json:"session_id" binding:"required"`
	User      assistant.User `json:"user"`
	Outcome   string         `json:"outcome" binding:"required"`
}

// PaymentResult is the callback the payment page posts when a payment ends.
func (h *Handler) PaymentResult(c *gin.Context) {
	var req paymentResultReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "session_id and outcome are required")
		return
	}
	outcome := assistant.PaymentOutcome(strings.ToUpper(req.Outcome))
	if outcome != assistant.OutcomeSuccess && outcome != assistant.OutcomeFailed {
		fail(c, http.StatusBadRequest, "outcome must be SUCCESS or FAILED")
		return
	}
	ref := c.Param("ref")
	if _, err := h.chat.PendingPaymentAmount(c.Request.Context(), ref); errors.Is(err, domain.ErrNotFound) {
		fail(c, http.StatusNotFound, "unknown payment reference")
		return
	}
	resp := h.chat.HandleEvent(c.Request.Context(), req.SessionID, req.User, assistant.PaymentResult{Ref: ref, Outcome: outcome})
	c.JSON(http.StatusOK, resp)
}

type retrieveReq struct {
	Positive string `json:"positive"`
	Negative string `json:"negative"`
	TopK     int    `json:"top_k"`
}

func (h *Handler) Retrieve(c *gin.Context) {
	var req retrieveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	positive := strings.TrimSpace(req.Positive)
	if positive == "" {
		fail(c, http.StatusBadRequest, "Please enter what you want to find")
		return
	}
	chunks, err := h.retrieval.Retrieve(c.Request.Context(), positive, strings.TrimSpace(req.Negative), req.TopK)
	if err != nil {
		h.logger.Error("retrieve", zap.Error(err))
		fail(c, http.StatusInternalServerError, "retrieval failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"chunks":          chunks,
		"recommendations": h.retrieval.Summarize(positive, chunks),
	})
}

func (h *Handler) ListMovies(c *gin.Context) {
	docs := h.retrieval.Documents()
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		docs = corpus.Filter(docs, q)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	c.JSON(http.StatusOK, gin.H{
		"total":  len(docs),
		"movies": docs,
		"genres": corpus.GenreDistribution(docs, 5),
	})
}
