package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/felo/header-processor/internal/batch"
)

// DirBatchProgress holds the state of the running directory batch
type DirBatchProgress struct {
	mu          sync.RWMutex
	running     bool
	current     int
	total       int
	currentFile string
	written     int
	skipped     int
	failed      int
	clients     []chan ProgressEvent
}

// ProgressEvent represents a progress update event
type ProgressEvent struct {
	Type string      `json:"type"` // "progress", "complete", "error"
	Data interface{} `json:"data"`
}

func newDirBatchProgress() *DirBatchProgress {
	return &DirBatchProgress{
		clients: make([]chan ProgressEvent, 0),
	}
}

// DirBatch starts rewriting a directory of message files in the background.
// The current manual edit settings apply.
func (h *Handlers) DirBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	inDir := strings.TrimSpace(r.PostForm.Get("in_dir"))
	outDir := strings.TrimSpace(r.PostForm.Get("out_dir"))
	if inDir == "" || outDir == "" {
		http.Error(w, "Input and output directories are required", http.StatusBadRequest)
		return
	}

	p := h.dirBatch
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		http.Error(w, "Batch already in progress", http.StatusConflict)
		return
	}

	// Reset progress state
	p.running = true
	p.current = 0
	p.total = 0
	p.currentFile = ""
	p.written = 0
	p.skipped = 0
	p.failed = 0
	p.mu.Unlock()

	cfg := h.store.Snapshot().Settings.RewriteConfig()
	processor := batch.NewProcessor(inDir, outDir, cfg, false).
		WithOverwrite(r.PostForm.Get("overwrite") != "")

	// Run in background
	go func() {
		defer func() {
			p.mu.Lock()
			p.running = false
			p.mu.Unlock()
		}()

		result, err := processor.ProcessWithProgress(context.Background(), func(current, total int, filePath string) {
			p.mu.Lock()
			p.current = current
			p.total = total
			p.currentFile = filePath
			p.mu.Unlock()

			p.broadcast("progress", p.progressData())
		})

		if err != nil {
			log.Printf("Directory batch failed: %v", err)
			p.broadcast("error", map[string]interface{}{"error": err.Error()})
			return
		}

		p.mu.Lock()
		p.written = result.Written
		p.skipped = result.Skipped
		p.failed = result.Failed
		p.mu.Unlock()

		log.Printf("Directory batch complete: %d written, %d skipped, %d failed",
			result.Written, result.Skipped, result.Failed)
		p.broadcast("complete", map[string]interface{}{
			"found":   result.TotalFound,
			"written": result.Written,
			"skipped": result.Skipped,
			"failed":  result.Failed,
		})
	}()

	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintf(w, "Batch started")
}

// DirBatchProgressSSE streams directory batch progress as Server-Sent Events
func (h *Handlers) DirBatchProgressSSE(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	p := h.dirBatch
	clientChan := make(chan ProgressEvent, 10)

	// Register client
	p.mu.Lock()
	p.clients = append(p.clients, clientChan)
	running := p.running
	p.mu.Unlock()

	defer p.removeClient(clientChan)

	// Send initial state if a batch is running
	if running {
		sendSSE(w, flusher, "progress", p.progressData())
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-clientChan:
			sendSSE(w, flusher, event.Type, event.Data)

			// Close connection after complete or error
			if event.Type == "complete" || event.Type == "error" {
				return
			}
		}
	}
}

func (p *DirBatchProgress) removeClient(clientChan chan ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, ch := range p.clients {
		if ch == clientChan {
			p.clients = append(p.clients[:i], p.clients[i+1:]...)
			break
		}
	}
}

func (p *DirBatchProgress) progressData() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"current": p.current,
		"total":   p.total,
		"file":    p.currentFile,
		"stats": map[string]int{
			"written": p.written,
			"skipped": p.skipped,
			"failed":  p.failed,
		},
	}
}

// broadcast sends an event to all connected clients without blocking
func (p *DirBatchProgress) broadcast(eventType string, data interface{}) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	event := ProgressEvent{Type: eventType, Data: data}
	for _, client := range p.clients {
		select {
		case client <- event:
		default:
			// Client channel full, skip
		}
	}
}

// sendSSE sends an SSE message to the client
func sendSSE(w http.ResponseWriter, flusher http.Flusher, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling SSE data: %v", err)
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
}
