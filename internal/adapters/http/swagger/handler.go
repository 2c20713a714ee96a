// Package swagger serves the OpenAPI document and a ReDoc page for it.
package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register attaches the API docs routes to r.
// Routes:
//
//	GET /api-docs      -> ReDoc HTML
//	GET /openapi.yaml  -> embedded OpenAPI document
func Register(_ context.Context, r chi.Router, basePath string) {
	if r == nil {
		panic("router is nil")
	}

	page := []byte(fmt.Sprintf(indexHTML, basePath+"/openapi.yaml"))
	r.Get("/api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
}

// ReDoc page; %s is the document URL.
const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>WTStats API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
    <script>Redoc.init('%s', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
