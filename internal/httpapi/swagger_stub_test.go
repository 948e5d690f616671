//go:build !swagger

package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMountSwaggerServesDoc(t *testing.T) {
	r := chi.NewRouter()
	MountSwagger(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc is not JSON: %v\n%s", err, w.Body.String())
	}
	for _, p := range []string{"/api/generate", "/api/tags", "/healthz"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Fatalf("doc missing path %s", p)
		}
	}
	if doc.Info.Title != "llmbench mock API" {
		t.Fatalf("title=%q", doc.Info.Title)
	}
}

func TestNewMuxMountsSwaggerDoc(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&stubGenerator{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}
