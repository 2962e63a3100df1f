// Package batch rewrites every message file in a directory and writes the
// results as processed_{n}_{name}, numbered in scan order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/felo/header-processor/internal/headers"
	"github.com/felo/header-processor/internal/rewrite"
	"github.com/felo/header-processor/internal/scanner"
	"github.com/felo/header-processor/internal/workspace"
)

// Processor handles directory batch runs
type Processor struct {
	scanner     *scanner.Scanner
	outDir      string
	cfg         rewrite.Config
	verbose     bool
	overwrite   bool
	concurrency int // Number of concurrent workers
}

// NewProcessor creates a processor reading from inDir and writing into outDir
func NewProcessor(inDir, outDir string, cfg rewrite.Config, verbose bool) *Processor {
	return &Processor{
		scanner:     scanner.NewScanner(inDir),
		outDir:      outDir,
		cfg:         cfg,
		verbose:     verbose,
		concurrency: runtime.NumCPU() * 2, // I/O bound
	}
}

// WithConcurrency sets the number of concurrent workers
func (p *Processor) WithConcurrency(workers int) *Processor {
	if workers < 1 {
		workers = 1
	}
	p.concurrency = workers
	return p
}

// WithOverwrite replaces existing output files instead of skipping them
func (p *Processor) WithOverwrite(overwrite bool) *Processor {
	p.overwrite = overwrite
	return p
}

// Result contains statistics about a batch run
type Result struct {
	TotalFound  int
	Written     int
	Skipped     int
	Failed      int
	FailedFiles []string
}

// ProgressFunc is called once per finished file
type ProgressFunc func(current, total int, filePath string)

type fileStatus int

const (
	statusWritten fileStatus = iota
	statusSkipped
	statusFailed
)

type job struct {
	number  int
	relPath string
}

type fileResult struct {
	relPath string
	status  fileStatus
}

// ProcessAll rewrites every accepted file under the input directory
func (p *Processor) ProcessAll(ctx context.Context) (*Result, error) {
	return p.ProcessWithProgress(ctx, nil)
}

// ProcessWithProgress rewrites every accepted file and reports progress via a callback
func (p *Processor) ProcessWithProgress(ctx context.Context, progress ProgressFunc) (*Result, error) {
	files, err := p.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan for files: %w", err)
	}
	files, err = p.excludeOutput(files)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(p.outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &Result{
		TotalFound:  len(files),
		FailedFiles: make([]string, 0),
	}

	if p.verbose {
		log.Printf("Found %d files to process with %d workers", result.TotalFound, p.concurrency)
	}

	jobChan := make(chan job)
	resultChan := make(chan fileResult, len(files))

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go p.worker(&wg, jobChan, resultChan)
	}

	// Send files to workers, numbered in scan order
	go func() {
		defer close(jobChan)
		for i, file := range files {
			select {
			case jobChan <- job{number: i + 1, relPath: file}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	processed := 0
	for res := range resultChan {
		processed++
		if progress != nil {
			progress(processed, result.TotalFound, res.relPath)
		}

		switch res.status {
		case statusWritten:
			result.Written++
		case statusSkipped:
			result.Skipped++
		case statusFailed:
			result.Failed++
			result.FailedFiles = append(result.FailedFiles, res.relPath)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("batch interrupted after %d of %d files: %w", processed, result.TotalFound, err)
	}

	if p.verbose {
		log.Printf("Batch complete: %d written, %d skipped, %d failed",
			result.Written, result.Skipped, result.Failed)
	}

	return result, nil
}

// excludeOutput drops files that live inside the output directory so that
// reruns with outDir under inDir do not pick up their own results
func (p *Processor) excludeOutput(files []string) ([]string, error) {
	absRoot, err := filepath.Abs(p.scanner.GetRootPath())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input directory: %w", err)
	}
	absOut, err := filepath.Abs(p.outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	rel, err := filepath.Rel(absRoot, absOut)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return files, nil
	}
	if rel == "." {
		return nil, fmt.Errorf("output directory must differ from input directory")
	}

	prefix := filepath.ToSlash(rel) + "/"
	kept := files[:0:0]
	for _, f := range files {
		if !strings.HasPrefix(f, prefix) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

func (p *Processor) worker(wg *sync.WaitGroup, jobs <-chan job, results chan<- fileResult) {
	defer wg.Done()

	for j := range jobs {
		results <- fileResult{
			relPath: j.relPath,
			status:  p.processFile(j),
		}
	}
}

// processFile rewrites a single file and returns its status
func (p *Processor) processFile(j job) fileStatus {
	item := workspace.Processed{Number: j.number, Name: path.Base(j.relPath)}
	outPath := filepath.Join(p.outDir, item.DownloadName())

	if !p.overwrite {
		if _, err := os.Stat(outPath); err == nil {
			return statusSkipped
		} else if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Error checking %s: %v", outPath, err)
			return statusFailed
		}
	}

	data, err := os.ReadFile(filepath.Join(p.scanner.GetRootPath(), filepath.FromSlash(j.relPath)))
	if err != nil {
		log.Printf("Error reading %s: %v", j.relPath, err)
		return statusFailed
	}

	item.Content = rewrite.Rewrite(headers.DecodeText(data), p.cfg)

	if err := os.WriteFile(outPath, []byte(item.Content), 0644); err != nil {
		log.Printf("Error writing %s: %v", outPath, err)
		return statusFailed
	}

	return statusWritten
}
