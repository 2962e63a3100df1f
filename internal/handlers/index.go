package handlers

import (
	"log"
	"net/http"
	"unicode/utf8"

	"github.com/felo/header-processor/internal/headers"
	"github.com/felo/header-processor/internal/rewrite"
	"github.com/felo/header-processor/internal/workspace"
)

const snippetLength = 200

type fileView struct {
	Number int
	Name   string
	Chars  int
}

type batchView struct {
	Number       int
	Name         string
	DownloadName string
	Snippet      string
	Summary      *headers.Summary
}

// Index handles the home page
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	state := h.store.Snapshot()

	previewFrom, previewSubject := rewrite.Preview(state.Settings.RewriteConfig())

	data := map[string]interface{}{
		"PageTitle":        "Email Header Processor",
		"State":            state,
		"Files":            fileViews(state.Files),
		"Batch":            batchViews(state.Batch),
		"PreviewFrom":      previewFrom,
		"PreviewSubject":   previewSubject,
		"ProcessedSummary": summarize(state.ProcessedContent),
		"Separator":        rewrite.Separator,
	}

	// Render template
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}

func fileViews(files []workspace.File) []fileView {
	views := make([]fileView, len(files))
	for i, f := range files {
		views[i] = fileView{
			Number: i + 1,
			Name:   f.Name,
			Chars:  utf8.RuneCountInString(f.Content),
		}
	}
	return views
}

func batchViews(batch []workspace.Processed) []batchView {
	views := make([]batchView, len(batch))
	for i, p := range batch {
		views[i] = batchView{
			Number:       p.Number,
			Name:         p.Name,
			DownloadName: p.DownloadName(),
			Snippet:      headers.Snippet(p.Content, snippetLength),
			Summary:      summarize(p.Content),
		}
	}
	return views
}

// summarize returns nil when the text has no readable header block
func summarize(text string) *headers.Summary {
	if text == "" {
		return nil
	}
	summary, err := headers.Summarize(text)
	if err != nil || summary.Empty() {
		return nil
	}
	return summary
}
