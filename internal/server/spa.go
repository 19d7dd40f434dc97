package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// handleSPA serves the simulation frontend from dir. Unknown paths get
// index.html so that client-side routes (lobby, game board, admin panel)
// survive a hard refresh.
func handleSPA(dir string) http.HandlerFunc {
	static := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			static.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	}
}
