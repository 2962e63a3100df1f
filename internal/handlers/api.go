package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/felo/header-processor/internal/headers"
	"github.com/felo/header-processor/internal/rewrite"
)

// RewriteRequest is the body of POST /api/rewrite
type RewriteRequest struct {
	Text   string         `json:"text"`
	Config rewrite.Config `json:"config"`
}

// RewriteResponse is returned by POST /api/rewrite
type RewriteResponse struct {
	Result  string           `json:"result"`
	Summary *headers.Summary `json:"summary,omitempty"`
}

// CombineRequest is the body of POST /api/combine
type CombineRequest struct {
	Texts  []string       `json:"texts"`
	Config rewrite.Config `json:"config"`
}

// CombineResponse is returned by POST /api/combine
type CombineResponse struct {
	Result string `json:"result"`
}

// RewriteAPI rewrites a single message without touching the workspace
func (h *Handlers) RewriteAPI(w http.ResponseWriter, r *http.Request) {
	var req RewriteRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result := rewrite.Rewrite(req.Text, req.Config)
	writeJSON(w, RewriteResponse{
		Result:  result,
		Summary: summarize(result),
	})
}

// CombineAPI rewrites each text and joins them with the separator line
func (h *Handlers) CombineAPI(w http.ResponseWriter, r *http.Request) {
	var req CombineRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	processed := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		processed[i] = rewrite.Rewrite(text, req.Config)
	}
	writeJSON(w, CombineResponse{Result: rewrite.Combine(processed)})
}

func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
