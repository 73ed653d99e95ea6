// Package static serves the embedded landing page.
package static

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
)

//go:embed dist
var dist embed.FS

var assetTypes = map[string]bool{".js": true, ".css": true, ".svg": true, ".ico": true, ".png": true}

// Handler serves known asset files and falls back to index.html for "/".
// Anything else is a JSON 404 so API clients get a parseable error.
func Handler() http.Handler {
	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		return http.NotFoundHandler()
	}
	fileServer := http.FileServer(http.FS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if assetTypes[path.Ext(r.URL.Path)] {
			fileServer.ServeHTTP(w, r)
			return
		}
		if r.URL.Path != "/" && r.URL.Path != "/index.html" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
			return
		}
		b, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			http.Error(w, "index not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	})
}
