package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"friday-chat/internal/middleware"
	"friday-chat/internal/models"
)

const maxBodyBytes = 100 << 10

type generator interface {
	Generate(ctx context.Context, message string, history []models.Message) (string, error)
}

type ChatHandler struct {
	generator  generator
	maxHistory int
	log        *zap.Logger
}

func NewChatHandler(gen generator, maxHistory int, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		generator:  gen,
		maxHistory: maxHistory,
		log:        log,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req, status, verr := h.decode(w, r)
	if verr != nil {
		writeJSON(w, status, models.ErrorResponse{Error: verr.Label, Details: verr.Details})
		return
	}

	log := h.log.With(zap.String("request_id", middleware.GetRequestID(r.Context())))
	log.Info("received message",
		zap.Int("message_length", len(req.Message)),
		zap.Int("history_length", len(req.History)),
	)

	reply, err := h.generator.Generate(r.Context(), req.Message, req.History)
	if err != nil {
		log.Error("error generating content", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to generate response",
			Details: err.Error(),
		})
		return
	}

	log.Info("response generated successfully", zap.Int("response_length", len(reply)))
	writeJSON(w, http.StatusOK, models.ChatResponse{Response: reply})
}

// decode reads and validates the body. A body that carries no message at all
// (empty, or JSON that is not an object) and a non-string message are
// reported like an empty message.
func (h *ChatHandler) decode(w http.ResponseWriter, r *http.Request) (models.ChatRequest, int, *models.ValidationError) {
	var req models.ChatRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxErr):
			return req, http.StatusRequestEntityTooLarge, &models.ValidationError{
				Label:   "Request body too large",
				Details: "Request body must not exceed 100 KiB",
			}
		case errors.Is(err, io.EOF),
			errors.As(err, &typeErr) && (typeErr.Field == "" || typeErr.Field == "message"):
			return req, http.StatusBadRequest, &models.ValidationError{
				Label:   models.LabelInvalidMessage,
				Details: models.DetailEmptyMessage,
			}
		case errors.As(err, &typeErr) && strings.HasPrefix(typeErr.Field, "history"):
			return req, http.StatusBadRequest, &models.ValidationError{
				Label:   models.LabelInvalidHistory,
				Details: "History must be a list of {role, content} messages",
			}
		default:
			return req, http.StatusBadRequest, &models.ValidationError{
				Label:   models.LabelInvalidBody,
				Details: models.DetailInvalidJSON,
			}
		}
	}

	if err := req.Normalize(h.maxHistory); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return req, http.StatusBadRequest, verr
		}
		return req, http.StatusBadRequest, &models.ValidationError{Label: models.LabelInvalidBody, Details: err.Error()}
	}
	return req, http.StatusOK, nil
}
