package handlers

import (
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// sanitizeFilename removes dangerous characters from download filenames
func sanitizeFilename(filename string) string {
	// Remove path separators
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))

	// Remove any control characters and quotes
	cleaned := strings.Map(func(r rune) rune {
		if r < 32 || r == 127 || r == '"' || r == '\'' {
			return -1 // Remove character
		}
		return r
	}, filename)

	// Limit length
	if len(cleaned) > 255 {
		cleaned = cleaned[:255]
	}

	// Fallback if empty
	if cleaned == "" || cleaned == "." || cleaned == "/" {
		cleaned = "processed.txt"
	}

	return cleaned
}

// DownloadBatchItem serves one batch result as processed_{n}_{name}
func (h *Handlers) DownloadBatchItem(w http.ResponseWriter, r *http.Request) {
	numStr := chi.URLParam(r, "number")
	number, err := strconv.Atoi(numStr)
	if err != nil {
		http.Error(w, "Invalid file number", http.StatusBadRequest)
		return
	}

	item, ok := h.store.Snapshot().BatchItem(number)
	if !ok {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	writeDownload(w, item.DownloadName(), item.Content)
}

// DownloadProcessed serves the processed view contents
func (h *Handlers) DownloadProcessed(w http.ResponseWriter, r *http.Request) {
	content := h.store.Snapshot().ProcessedContent
	if content == "" {
		http.Error(w, "Nothing processed", http.StatusNotFound)
		return
	}

	writeDownload(w, "processed.txt", content)
}

func writeDownload(w http.ResponseWriter, filename, content string) {
	// Set headers for download using proper encoding
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{
			"filename": sanitizeFilename(filename),
		}))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Header().Set("X-Content-Type-Options", "nosniff")

	w.Write([]byte(content))
}
