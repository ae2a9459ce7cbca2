package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/virality-checker/api/openapi"
	"github.com/gorilla/mux"
)

func TestOpenAPIHandler(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	NewOpenAPIHandler(openapi.Spec).RegisterRoutes(r)

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
		if w.Code != http.StatusOK || w.Body.Len() == 0 {
			t.Errorf("Expected YAML document, got status %d", w.Code)
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var doc map[string]any
		if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
			t.Fatalf("Failed to decode JSON document: %v", err)
		}
		paths, ok := doc["paths"].(map[string]any)
		if !ok || paths["/analyze"] == nil {
			t.Errorf("Expected /analyze path in document")
		}
	})

	t.Run("missing document", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		NewOpenAPIHandler(nil).ServeJSON(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}
