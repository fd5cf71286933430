package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, map[string]int{"number": 7})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
	var body map[string]int
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil || body["number"] != 7 {
		t.Errorf("unexpected body %v (%v)", body, err)
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusNotFound, "invoice not found")

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if w.Code != http.StatusNotFound || body["error"] != "invoice not found" {
		t.Errorf("unexpected response %d %v", w.Code, body)
	}
}
