package workspace

import (
	"slices"
	"strconv"
	"strings"

	"github.com/felo/header-processor/internal/rewrite"
)

// Action is a user event applied to a State by Reduce
type Action interface {
	isAction()
}

// AddFiles appends uploaded files in upload order
type AddFiles struct{ Files []File }

// ClearFiles drops the uploaded files only
type ClearFiles struct{}

// SetPastedText stores the paste box contents
type SetPastedText struct{ Text string }

// UpdateSettings replaces the manual edit fields
type UpdateSettings struct{ Settings Settings }

// ProcessPasted rewrites the pasted text into the processed view
type ProcessPasted struct{}

// Combine rewrites every file and joins them with the separator line
type Combine struct{}

// BatchProcess rewrites every file into a numbered result
type BatchProcess struct{}

// SelectFile shows file Number (1-based) in the processed view
type SelectFile struct{ Number string }

// ClearProcessed empties the processed view
type ClearProcessed struct{}

// Clean resets the workspace, keeping the Return-Path toggle
type Clean struct{}

func (AddFiles) isAction()       {}
func (ClearFiles) isAction()     {}
func (SetPastedText) isAction()  {}
func (UpdateSettings) isAction() {}
func (ProcessPasted) isAction()  {}
func (Combine) isAction()        {}
func (BatchProcess) isAction()   {}
func (SelectFile) isAction()     {}
func (ClearProcessed) isAction() {}
func (Clean) isAction()          {}

// Reduce applies a to s and returns the resulting snapshot.
// Guarded actions (nothing uploaded, blank paste, out-of-range number)
// return s unchanged.
func Reduce(s State, a Action) State {
	next := s.clone()
	cfg := s.Settings.RewriteConfig()

	switch a := a.(type) {
	case AddFiles:
		next.Files = append(next.Files, a.Files...)

	case ClearFiles:
		next.Files = nil

	case SetPastedText:
		next.PastedText = a.Text

	case UpdateSettings:
		next.Settings = a.Settings

	case ProcessPasted:
		if strings.TrimSpace(s.PastedText) == "" {
			return s
		}
		next.ProcessedContent = rewrite.Rewrite(s.PastedText, cfg)

	case Combine:
		if len(s.Files) == 0 {
			return s
		}
		texts := make([]string, len(s.Files))
		for i, f := range s.Files {
			texts[i] = rewrite.Rewrite(f.Content, cfg)
		}
		next.ProcessedContent = rewrite.Combine(texts)

	case BatchProcess:
		if len(s.Files) == 0 {
			return s
		}
		next.Batch = make([]Processed, len(s.Files))
		for i, f := range s.Files {
			next.Batch[i] = Processed{
				Number:  i + 1,
				Name:    f.Name,
				Content: rewrite.Rewrite(f.Content, cfg),
			}
		}

	case SelectFile:
		next.FileNumber = a.Number
		n, err := strconv.Atoi(strings.TrimSpace(a.Number))
		if err == nil && n > 0 && n <= len(s.Files) {
			next.ProcessedContent = rewrite.Rewrite(s.Files[n-1].Content, cfg)
		}

	case ClearProcessed:
		next.ProcessedContent = ""

	case Clean:
		next = NewState()
		next.Settings.RemoveReturnPath = s.Settings.RemoveReturnPath

	default:
		return s
	}

	return next
}

// clone copies the slices so the returned State shares nothing mutable with s
func (s State) clone() State {
	s.Files = slices.Clone(s.Files)
	s.Batch = slices.Clone(s.Batch)
	return s
}
