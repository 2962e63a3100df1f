package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/felo/header-processor/internal/batch"
	"github.com/felo/header-processor/internal/config"
	"github.com/felo/header-processor/internal/db"
	"github.com/felo/header-processor/internal/handlers"
	"github.com/felo/header-processor/internal/rewrite"
	"github.com/felo/header-processor/internal/workspace"
	"github.com/felo/header-processor/web"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	inDir := flag.String("in", "", "rewrite every message file in this directory and exit")
	outDir := flag.String("out", "processed", "output directory for -in")
	fromName := flag.String("from-name", "", "display name for the From header (batch mode)")
	subject := flag.String("subject", "", "replacement Subject (batch mode)")
	keepReturnPath := flag.Bool("keep-return-path", false, "do not remove the Delivered-To..Return-Path block (batch mode)")
	overwrite := flag.Bool("overwrite", false, "replace existing output files (batch mode)")
	workers := flag.Int("workers", runtime.NumCPU()*2, "concurrent workers (batch mode)")
	flag.Parse()

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *inDir != "" {
		rw := cfg.Rewrite
		if *fromName != "" {
			rw.FromName = *fromName
		}
		if *subject != "" {
			rw.Subject = *subject
		}
		if *keepReturnPath {
			rw.RemoveReturnPath = false
		}
		os.Exit(runBatch(*inDir, *outDir, rw, *workers, *overwrite))
	}

	serve(cfg)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load(), nil
	}
	return config.LoadFromFile(path)
}

// runBatch processes a directory and prints a colored summary. It returns the exit code.
func runBatch(inDir, outDir string, cfg rewrite.Config, workers int, overwrite bool) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsZero() {
		log.Printf("No optional rewrites enabled: only From domains and Message-IDs will be masked")
	}

	processor := batch.NewProcessor(inDir, outDir, cfg, true).
		WithConcurrency(workers).
		WithOverwrite(overwrite)

	result, err := processor.ProcessAll(ctx)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Batch failed: %v\n", err)
		return 1
	}

	green := color.New(color.FgGreen).SprintfFunc()
	yellow := color.New(color.FgYellow).SprintfFunc()
	red := color.New(color.FgRed).SprintfFunc()

	fmt.Printf("%s, %s, %s (of %d found) -> %s\n",
		green("%d written", result.Written),
		yellow("%d skipped", result.Skipped),
		red("%d failed", result.Failed),
		result.TotalFound, outDir)
	for _, f := range result.FailedFiles {
		fmt.Println(red("  failed: %s", f))
	}

	if result.Failed > 0 {
		return 1
	}
	return 0
}

func serve(cfg *config.Config) {
	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	log.Printf("Database opened at: %s", cfg.DBPath)

	store, err := workspace.NewStore(context.Background(), database)
	if err != nil {
		log.Fatalf("Failed to load workspace: %v", err)
	}
	if n := len(store.Snapshot().Files); n > 0 {
		log.Printf("Restored %d uploaded files", n)
	}

	// Create shutdown signal channel
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize handlers with embedded templates
	h := handlers.New(store, cfg)
	h.SetShutdownChannel(sigChan)
	if err := h.LoadTemplates(web.Assets); err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	// Static files from embedded assets
	staticFS, err := fs.Sub(web.Assets, "static")
	if err != nil {
		log.Fatalf("Failed to get static files: %v", err)
	}

	// Create server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handlers.NewRouter(h, staticFS),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // SSE progress streams
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.URL())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if cfg.OpenBrowser {
		time.Sleep(500 * time.Millisecond) // Give server time to start
		if err := openBrowser(cfg.URL()); err != nil {
			log.Printf("Failed to open browser: %v", err)
			log.Printf("Please open your browser and navigate to: %s", cfg.URL())
		} else {
			log.Printf("Browser opened at: %s", cfg.URL())
		}
	}

	// Wait for interrupt signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// openBrowser opens the default browser to the specified URL
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}
