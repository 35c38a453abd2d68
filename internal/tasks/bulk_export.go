package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spin/internal/formatter"
	"golang.org/x/time/rate"
)

// ExportSource loads one playlist as an [formatter.Export].
type ExportSource interface {
	Export(ctx context.Context, id string) (*formatter.Export, error)
}

// ExportSourceFunc adapts a function to [ExportSource].
type ExportSourceFunc func(ctx context.Context, id string) (*formatter.Export, error)

func (f ExportSourceFunc) Export(ctx context.Context, id string) (*formatter.Export, error) {
	return f(ctx, id)
}

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format
	OutputDir  string       // Base output directory (default: spin_export_{epoch})
	NumWorkers int          // Concurrent workers (default: 4, max: 10)
	RateLimit  float64      // Playlist loads per second (default: 5)
	Client     *http.Client // Fetches Markdown covers; nil skips them
	Logger     *log.Logger
}

// PlaylistExportResult is the outcome of one playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        error    `json:"-"`
	ErrorMessage string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export and is written as its manifest.
type BulkExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	Format            formatter.Format       `json:"format"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"-"`
	ExportedAt        time.Time              `json:"exported_at"`
	Results           []PlaylistExportResult `json:"results"`
}

type exportJob struct {
	id     string
	export *formatter.Export
}

// BulkExport exports playlists concurrently with rate limiting and progress tracking.
//
// Playlists are loaded one at a time through a limiter and handed to a worker pool. Partial
// failures are collected into the result; only setup and manifest errors are returned.
func BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	src ExportSource,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("spin_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalPlaylists:  len(ids),
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		ExportedAt:      time.Now(),
		Results:         make([]PlaylistExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	writer := &formatter.Writer{Client: opts.Client, Logger: opts.Logger}

	jobs := make(chan exportJob, len(ids))
	results := make(chan PlaylistExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go exportWorker(ctx, &wg, writer, jobs, results, opts)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			export, err := src.Export(ctx, id)
			if err != nil {
				results <- failed(id, fmt.Sprintf("Unknown (%s)", id), fmt.Errorf("failed to load playlist: %w", err))
				continue
			}

			sendProgress(prog, loadingUpdate(i+1, len(ids), export.Name))
			jobs <- exportJob{id: id, export: export}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(ids), res.PlaylistName, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	writer *formatter.Writer,
	jobs <-chan exportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}

		path := filepath.Join(opts.OutputDir, job.export.ID+opts.Format.Ext())
		files, err := writer.Write(job.export, opts.Format, path)
		if err != nil {
			results <- failed(job.id, job.export.Name, fmt.Errorf("%s export failed: %w", opts.Format, err))
			continue
		}

		results <- PlaylistExportResult{
			PlaylistID:   job.id,
			PlaylistName: job.export.Name,
			Success:      true,
			Files:        files,
		}
	}
}

func failed(id, name string, err error) PlaylistExportResult {
	return PlaylistExportResult{
		PlaylistID:   id,
		PlaylistName: name,
		Error:        err,
		ErrorMessage: err.Error(),
	}
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
