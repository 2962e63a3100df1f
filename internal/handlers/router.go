package handlers

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires all routes. staticFS is served under /static/.
func NewRouter(h *Handlers, staticFS fs.FS) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Page and form actions
	r.Get("/", h.Index)
	r.Post("/upload", h.Upload)
	r.Post("/files/clear", h.ClearFiles)
	r.Post("/files/select", h.SelectFile)
	r.Post("/settings", h.UpdateSettings)
	r.Post("/paste", h.ProcessPasted)
	r.Post("/combine", h.Combine)
	r.Post("/batch", h.BatchProcess)
	r.Post("/clean", h.Clean)
	r.Post("/processed/clean", h.Clean)

	// Downloads
	r.Get("/batch/{number}/download", h.DownloadBatchItem)
	r.Get("/processed/download", h.DownloadProcessed)

	// Directory batch
	r.Post("/batch/dir", h.DirBatch)
	r.Get("/batch/dir/progress", h.DirBatchProgressSSE)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Post("/rewrite", h.RewriteAPI)
		r.Post("/combine", h.CombineAPI)
	})

	r.Post("/shutdown", h.Shutdown)

	if staticFS != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	return r
}
