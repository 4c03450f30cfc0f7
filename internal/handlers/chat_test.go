package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"friday-chat/internal/models"
)

type stubGenerator struct {
	reply string
	err   error

	calls   int
	message string
	history []models.Message
}

func (s *stubGenerator) Generate(ctx context.Context, message string, history []models.Message) (string, error) {
	s.calls++
	s.message = message
	s.history = history
	return s.reply, s.err
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Chat(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestChatHandler_TrimsAndReplies(t *testing.T) {
	gen := &stubGenerator{reply: "Hi there!"}
	h := NewChatHandler(gen, 50, zap.NewNop())

	rr := postChat(t, h, `{"message":"  hello  "}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"response":"Hi there!"}`, rr.Body.String())
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "hello", gen.message)
	assert.Empty(t, gen.history)
}

func TestChatHandler_InvalidMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty string", `{"message":""}`},
		{"whitespace only", `{"message":"   \n\t "}`},
		{"missing field", `{}`},
		{"null", `{"message":null}`},
		{"number", `{"message":42}`},
		{"object", `{"message":{"text":"hi"}}`},
		{"array", `{"message":["hi"]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{reply: "never"}
			h := NewChatHandler(gen, 50, zap.NewNop())

			rr := postChat(t, h, tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, `{"error":"Invalid message format","details":"Message must be a non-empty string"}`, rr.Body.String())
			assert.Equal(t, 0, gen.calls, "backend must not be invoked")
		})
	}
}

func TestChatHandler_MalformedBody(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantLabel string
	}{
		{"not json", `message=hello`, models.LabelInvalidBody},
		{"truncated json", `{"message":`, models.LabelInvalidBody},
		{"empty body", ``, models.LabelInvalidMessage},
		{"top-level array", `["hello"]`, models.LabelInvalidMessage},
		{"top-level string", `""`, models.LabelInvalidMessage},
		{"null", `null`, models.LabelInvalidMessage},
		{"history not a list", `{"message":"hi","history":"nope"}`, models.LabelInvalidHistory},
		{"history bad role", `{"message":"hi","history":[{"role":"system","content":"x"}]}`, models.LabelInvalidHistory},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{}
			h := NewChatHandler(gen, 50, zap.NewNop())

			rr := postChat(t, h, tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.wantLabel, decodeError(t, rr).Error)
			assert.Equal(t, 0, gen.calls)
		})
	}
}

func TestChatHandler_BodyTooLarge(t *testing.T) {
	gen := &stubGenerator{}
	h := NewChatHandler(gen, 50, zap.NewNop())

	body := `{"message":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rr := postChat(t, h, body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "Request body too large", decodeError(t, rr).Error)
	assert.Equal(t, 0, gen.calls)
}

func TestChatHandler_BackendFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("Gemini API error: quota exceeded")}
	h := NewChatHandler(gen, 50, zap.NewNop())

	rr := postChat(t, h, `{"message":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to generate response","details":"Gemini API error: quota exceeded"}`, rr.Body.String())
	assert.Equal(t, 1, gen.calls)
}

func TestChatHandler_ForwardsHistory(t *testing.T) {
	gen := &stubGenerator{reply: "Still Warner."}
	h := NewChatHandler(gen, 50, zap.NewNop())

	rr := postChat(t, h, `{
		"message": "and now?",
		"history": [
			{"role": "user", "content": "best opener?"},
			{"role": "assistant", "content": "Warner."}
		]
	}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []models.Message{
		{Role: models.RoleUser, Content: "best opener?"},
		{Role: models.RoleAssistant, Content: "Warner."},
	}, gen.history)
}

func TestChatHandler_HistoryTooLong(t *testing.T) {
	gen := &stubGenerator{reply: "x"}
	h := NewChatHandler(gen, 1, zap.NewNop())

	rr := postChat(t, h, `{"message":"hi","history":[{"role":"user","content":"a"},{"role":"assistant","content":"b"}]}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.LabelInvalidHistory, decodeError(t, rr).Error)
	assert.Equal(t, 0, gen.calls)
}
