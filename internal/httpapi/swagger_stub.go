//go:build !swagger

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swaggo/swag"

	_ "llmbench/internal/httpapi/docs"
)

// MountSwagger serves only the raw OpenAPI document by default.
// Build with -tags=swagger to enable the UI.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/doc.json", serveSwaggerDoc)
}

func serveSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}
