// Package workspace holds the processor's UI state as immutable snapshots.
//
// Every user event becomes an Action. Reduce folds an Action into a State
// and returns a new State; the input snapshot is never modified.
package workspace

import (
	"fmt"

	"github.com/felo/header-processor/internal/rewrite"
)

// File is one uploaded message
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Processed is one numbered result of a batch run
type Processed struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// DownloadName returns the file name offered for download
func (p Processed) DownloadName() string {
	return fmt.Sprintf("processed_%d_%s", p.Number, p.Name)
}

// Settings are the manual edit form fields
type Settings struct {
	FromName         string `json:"from_name"`
	Subject          string `json:"subject"`
	RemoveReturnPath bool   `json:"remove_return_path"`
}

// RewriteConfig converts the form fields into a rewrite configuration
func (s Settings) RewriteConfig() rewrite.Config {
	return rewrite.Config{
		RemoveReturnPath: s.RemoveReturnPath,
		FromName:         s.FromName,
		Subject:          s.Subject,
	}
}

// State is a snapshot of the whole workspace
type State struct {
	Files            []File
	PastedText       string
	Settings         Settings
	FileNumber       string
	ProcessedContent string
	Batch            []Processed
}

// NewState returns the initial workspace. Return-Path removal starts enabled.
func NewState() State {
	return State{
		Settings: Settings{RemoveReturnPath: true},
	}
}

// BatchItem returns the batch result with the given number
func (s State) BatchItem(number int) (Processed, bool) {
	for _, p := range s.Batch {
		if p.Number == number {
			return p, true
		}
	}
	return Processed{}, false
}
