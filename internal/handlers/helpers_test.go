package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"friday-chat/internal/models"
)

// ─── JSON Response Tests ───

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusOK, models.ChatResponse{Response: "Hi there!"})

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", rr.Header().Get("Content-Type"))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["response"] != "Hi there!" {
		t.Errorf("Expected response 'Hi there!', got %v", result["response"])
	}
}

func TestWriteJSON_ErrorResponse(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusBadRequest, models.ErrorResponse{
		Error:   models.LabelInvalidMessage,
		Details: models.DetailEmptyMessage,
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("Expected exactly error and details, got %v", result)
	}
	if result["error"] != "Invalid message format" {
		t.Errorf("Expected error 'Invalid message format', got %q", result["error"])
	}
}

func TestWriteJSON_OmitsEmptyDetails(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusForbidden, models.ErrorResponse{Error: "Origin not allowed"})

	var result map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if _, ok := result["details"]; ok {
		t.Errorf("Expected no details field, got %v", result)
	}
}
