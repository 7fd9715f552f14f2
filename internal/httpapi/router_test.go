package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"playground/internal/assistant"
	"playground/internal/chunker"
	"playground/internal/corpus"
	"playground/internal/domain"
	"playground/internal/embedding"
	"playground/internal/service"
	"playground/internal/store/memory"
	"playground/internal/summarizer"
	memvec "playground/internal/vectorstore/memory"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := memory.NewRepository("", zap.NewNop())
	require.NoError(t, err)
	engine := assistant.New(repo, zap.NewNop())

	docs, err := corpus.Sample()
	require.NoError(t, err)
	svc := service.NewRetrievalService(docs,
		chunker.NewWordChunker(chunker.DefaultMinWords, chunker.DefaultMaxWords),
		embedding.NewHashEmbedder(),
		memvec.NewStorage(),
		summarizer.NewRuleSummarizer(0),
		zap.NewNop(),
		service.Options{},
	)
	return NewRouter(engine, svc, zap.NewNop())
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

var asha = assistant.User{Phone: "+911234567890", Name: "Asha"}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(nil, nil, zap.NewNop(), "https://pay.example")

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://pay.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://pay.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChat_BookAndPay(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/chat", gin.H{"user": asha, "message": "book a private room"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[assistant.ChatResponse](t, w)
	require.NotEmpty(t, resp.SessionID)
	require.NotNil(t, resp.UI)
	require.Len(t, resp.UI.OptionCards, 1)
	sid := resp.SessionID

	w = do(t, r, http.MethodPost, "/api/chat", gin.H{"session_id": sid, "user": asha, "message": resp.UI.OptionCards[0].ActionPayload})
	resp = decode[assistant.ChatResponse](t, w)
	require.NotNil(t, resp.UI.PaymentLink)
	ref := resp.UI.PaymentLink.URL[strings.LastIndex(resp.UI.PaymentLink.URL, "/")+1:]

	w = do(t, r, http.MethodGet, "/api/payments/"+ref, nil)
	require.Equal(t, http.StatusOK, w.Code)
	pay := decode[struct {
		Amount int `json:"amount"`
	}](t, w)
	assert.GreaterOrEqual(t, pay.Amount, 2*2400)
	assert.Less(t, pay.Amount, 2*2600)

	w = do(t, r, http.MethodPost, "/api/payments/"+ref+"/result", gin.H{"session_id": sid, "user": asha, "outcome": "success"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[assistant.ChatResponse](t, w)
	assert.Contains(t, resp.ReplyText, "Booking confirmed")
	assert.Equal(t, assistant.IntentPaymentSuccess, resp.Debug.Intent)

	w = do(t, r, http.MethodGet, "/api/chat/"+sid+"/messages?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tr := decode[struct {
		Messages []domain.Message `json:"messages"`
	}](t, w)
	require.Len(t, tr.Messages, 2)
	assert.Equal(t, "PAYMENT_SUCCESS "+ref, tr.Messages[0].Text)
	assert.Equal(t, domain.RoleAssistant, tr.Messages[1].Role)

	w = do(t, r, http.MethodGet, "/api/chat/"+sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sess := decode[domain.Session](t, w)
	assert.Equal(t, sid, sess.ID)
	assert.Equal(t, domain.StateIdle, sess.State)
	assert.True(t, sess.Active)
}

func TestChat_SessionAfterStrikes(t *testing.T) {
	r := newTestRouter(t)
	for _, msg := range []string{"crap", "PAYMENT_FAILED damn", "hell no"} {
		w := do(t, r, http.MethodPost, "/api/chat", gin.H{"session_id": "s9", "user": asha, "message": msg})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := do(t, r, http.MethodGet, "/api/chat/s9", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sess := decode[domain.Session](t, w)
	assert.Equal(t, 3, sess.Strikes)
	assert.False(t, sess.Active)
}

func TestChat_BadRequests(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
	}{
		{"missing message", http.MethodPost, "/api/chat", gin.H{"session_id": "s1"}, http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/api/chat/s1/messages?limit=x", nil, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/chat/nope", nil, http.StatusNotFound},
		{"unknown payment", http.MethodGet, "/api/payments/PAY-NOPE00", nil, http.StatusNotFound},
		{"bad outcome", http.MethodPost, "/api/payments/PAY-NOPE00/result", gin.H{"session_id": "s1", "outcome": "maybe"}, http.StatusBadRequest},
		{"unknown payment result", http.MethodPost, "/api/payments/PAY-NOPE00/result", gin.H{"session_id": "s1", "outcome": "FAILED"}, http.StatusNotFound},
		{"no route", http.MethodGet, "/api/nope", nil, http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/api/chat", nil, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, decode[map[string]any](t, w), "error")
		})
	}
}

func TestChat_EmptyTranscript(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/chat/unknown/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"session_id":"unknown","messages":[]}`, w.Body.String())
}

func TestRAG_Retrieve(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/rag/retrieve", gin.H{"positive": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter what you want to find", decode[map[string]string](t, w)["error"])

	w = do(t, r, http.MethodPost, "/api/rag/retrieve", gin.H{"positive": "a clever heist with witty banter", "top_k": 3})
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[struct {
		Chunks          []domain.RetrievedChunk `json:"chunks"`
		Recommendations []domain.Recommendation `json:"recommendations"`
	}](t, w)
	require.Len(t, out.Chunks, 3)
	for i := 1; i < len(out.Chunks); i++ {
		assert.GreaterOrEqual(t, out.Chunks[i-1].Score, out.Chunks[i].Score)
	}
	assert.NotEmpty(t, out.Recommendations)
}

func TestRAG_Movies(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/rag/movies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[struct {
		Total  int                 `json:"total"`
		Genres []corpus.GenreCount `json:"genres"`
	}](t, w)
	assert.Equal(t, 8, all.Total)
	assert.NotEmpty(t, all.Genres)

	w = do(t, r, http.MethodGet, "/api/rag/movies?q=heist", nil)
	some := decode[struct {
		Total  int               `json:"total"`
		Movies []domain.Document `json:"movies"`
	}](t, w)
	assert.Positive(t, some.Total)
	assert.Less(t, some.Total, 8)

	w = do(t, r, http.MethodGet, "/api/rag/movies?q=zzzz", nil)
	assert.JSONEq(t, `{"total":0,"movies":[],"genres":null}`, w.Body.String())
}
