package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/felo/header-processor/internal/headers"
	"github.com/felo/header-processor/internal/workspace"
)

// Upload handles multipart uploads of one or more message files
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var files []workspace.File
	for _, fh := range r.MultipartForm.File["files"] {
		content, err := readUpload(fh)
		if err != nil {
			log.Printf("Error reading upload %s: %v", fh.Filename, err)
			http.Error(w, "Failed to read uploaded file", http.StatusBadRequest)
			return
		}
		files = append(files, workspace.File{Name: fh.Filename, Content: content})
	}

	if len(files) == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.dispatch(w, r, workspace.AddFiles{Files: files})
}

func readUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	return headers.DecodeText(data), nil
}

// ClearFiles drops the uploaded files
func (h *Handlers) ClearFiles(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, workspace.ClearFiles{})
}

// UpdateSettings saves the manual edit fields
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	h.dispatch(w, r, workspace.UpdateSettings{Settings: workspace.Settings{
		FromName:         r.PostForm.Get("from_name"),
		Subject:          r.PostForm.Get("subject"),
		RemoveReturnPath: r.PostForm.Get("remove_return_path") != "",
	}})
}

// ProcessPasted rewrites the pasted header text
func (h *Handlers) ProcessPasted(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	h.dispatch(w, r,
		workspace.SetPastedText{Text: r.PostForm.Get("text")},
		workspace.ProcessPasted{},
	)
}

// Combine rewrites all uploaded files into one separated text
func (h *Handlers) Combine(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, workspace.Combine{})
}

// BatchProcess rewrites all uploaded files into numbered results
func (h *Handlers) BatchProcess(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, workspace.BatchProcess{})
}

// SelectFile shows one uploaded file, by number, in the processed view
func (h *Handlers) SelectFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	h.dispatch(w, r, workspace.SelectFile{Number: r.PostForm.Get("number")})
}

// Clean resets the workspace
func (h *Handlers) Clean(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, workspace.Clean{})
}
