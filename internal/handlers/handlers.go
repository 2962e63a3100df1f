package handlers

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"os"

	"github.com/felo/header-processor/internal/config"
	"github.com/felo/header-processor/internal/workspace"
)

// Handlers holds all HTTP handlers and their dependencies
type Handlers struct {
	store     *workspace.Store
	cfg       *config.Config
	templates *template.Template
	shutdown  chan<- os.Signal
	dirBatch  *DirBatchProgress
}

// New creates a new Handlers instance
func New(store *workspace.Store, cfg *config.Config) *Handlers {
	return &Handlers{
		store:    store,
		cfg:      cfg,
		dirBatch: newDirBatchProgress(),
	}
}

// SetShutdownChannel sets the channel signalled by the Shutdown handler
func (h *Handlers) SetShutdownChannel(ch chan<- os.Signal) {
	h.shutdown = ch
}

// LoadTemplates loads HTML templates from embedded filesystem
func (h *Handlers) LoadTemplates(embeddedFiles embed.FS) error {
	tmpl, err := template.ParseFS(embeddedFiles,
		"templates/*.html",
		"templates/components/*.html",
	)
	if err != nil {
		return err
	}
	h.templates = tmpl
	return nil
}

// dispatch applies actions to the workspace and redirects back to the page
func (h *Handlers) dispatch(w http.ResponseWriter, r *http.Request, actions ...workspace.Action) {
	if _, err := h.store.Dispatch(r.Context(), actions...); err != nil {
		log.Printf("Workspace update failed: %v", err)
		http.Error(w, "Failed to update workspace", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Shutdown stops the server
func (h *Handlers) Shutdown(w http.ResponseWriter, r *http.Request) {
	if h.shutdown == nil {
		http.Error(w, "Shutdown not available", http.StatusNotImplemented)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte("Shutting down"))

	select {
	case h.shutdown <- os.Interrupt:
	default:
		// Already shutting down
	}
}
