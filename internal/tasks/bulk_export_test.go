package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spin/internal/formatter"
	"github.com/desertthunder/spin/internal/shared"
	tu "github.com/desertthunder/spin/internal/testing"
)

func sampleSource(missing ...string) ExportSourceFunc {
	return func(ctx context.Context, id string) (*formatter.Export, error) {
		for _, m := range missing {
			if m == id {
				return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
			}
		}
		return &formatter.Export{
			ID:         id,
			Name:       "Playlist " + id,
			ExportedAt: time.Now(),
			Tracks:     tu.SampleTracks(3),
		}, nil
	}
}

func TestBulkExport(t *testing.T) {
	tests := []struct {
		name        string
		format      formatter.Format
		ids         []string
		wantSuccess int
		validate    func(t *testing.T, result *BulkExportResult, dir string)
	}{
		{
			name:        "Single Playlist JSON",
			format:      formatter.FormatJSON,
			ids:         []string{"p1"},
			wantSuccess: 1,
			validate: func(t *testing.T, result *BulkExportResult, dir string) {
				tu.AssertFileExists(t, filepath.Join(dir, "p1.json"))
			},
		},
		{
			name:        "Multiple Playlists CSV",
			format:      formatter.FormatCSV,
			ids:         []string{"p1", "p2", "p3"},
			wantSuccess: 3,
			validate: func(t *testing.T, result *BulkExportResult, dir string) {
				for _, res := range result.Results {
					if len(res.Files) != 1 || !strings.HasSuffix(res.Files[0], ".csv") {
						t.Errorf("unexpected files %v", res.Files)
					}
				}
			},
		},
		{
			name:        "Markdown Directories",
			format:      formatter.FormatMarkdown,
			ids:         []string{"p1", "p2"},
			wantSuccess: 2,
			validate: func(t *testing.T, result *BulkExportResult, dir string) {
				tu.AssertFileExists(t, filepath.Join(dir, "p1", "README.md"))
				tu.AssertFileExists(t, filepath.Join(dir, "p2", "README.md"))
			},
		},
		{
			name:        "Text",
			format:      formatter.FormatText,
			ids:         []string{"p1", "p2"},
			wantSuccess: 2,
			validate: func(t *testing.T, result *BulkExportResult, dir string) {
				content := tu.MustReadFile(t, filepath.Join(dir, "p2.txt"))
				if !strings.Contains(content, "Playlist p2") {
					t.Errorf("expected playlist name in text export, got %q", content)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			result, err := BulkExport(context.Background(), nil, sampleSource(), tt.ids, BulkExportOpts{
				Format:    tt.format,
				OutputDir: dir,
				RateLimit: 1000,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.SuccessfulExports != tt.wantSuccess || result.FailedExports != 0 {
				t.Errorf("expected %d successes, got %d (%d failed)", tt.wantSuccess, result.SuccessfulExports, result.FailedExports)
			}
			if result.TotalPlaylists != len(tt.ids) {
				t.Errorf("expected total %d, got %d", len(tt.ids), result.TotalPlaylists)
			}
			tu.AssertFileExists(t, result.ManifestPath)
			tt.validate(t, result, dir)
		})
	}
}

func TestBulkExportFailures(t *testing.T) {
	t.Run("Partial Failure", func(t *testing.T) {
		dir := t.TempDir()

		result, err := BulkExport(context.Background(), nil, sampleSource("p2"), []string{"p1", "p2", "p3"}, BulkExportOpts{
			Format:     formatter.FormatJSON,
			OutputDir:  dir,
			NumWorkers: 2,
			RateLimit:  1000,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SuccessfulExports != 2 || result.FailedExports != 1 {
			t.Errorf("expected 2/1, got %d/%d", result.SuccessfulExports, result.FailedExports)
		}

		var manifest BulkExportResult
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("invalid manifest: %v", err)
		}
		var failures []PlaylistExportResult
		for _, res := range manifest.Results {
			if !res.Success {
				failures = append(failures, res)
			}
		}
		if len(failures) != 1 || failures[0].PlaylistID != "p2" || failures[0].ErrorMessage == "" {
			t.Errorf("unexpected failures in manifest %+v", failures)
		}
	})

	t.Run("Unwritable Output", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := BulkExport(context.Background(), nil, sampleSource(), []string{"p1"}, BulkExportOpts{
			OutputDir: filepath.Join(file, "nested"),
		})
		if err == nil || !strings.Contains(err.Error(), "failed to create output directory") {
			t.Errorf("expected directory error, got %v", err)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := BulkExport(ctx, nil, sampleSource(), []string{"p1", "p2"}, BulkExportOpts{
			OutputDir: t.TempDir(),
			RateLimit: 1000,
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if result.ManifestPath != "" {
			t.Error("expected no manifest for a cancelled export")
		}
	})
}

func TestBulkExportProgress(t *testing.T) {
	prog := make(chan ProgressUpdate, 32)

	_, err := BulkExport(context.Background(), prog, sampleSource(), []string{"p1", "p2"}, BulkExportOpts{
		OutputDir: t.TempDir(),
		RateLimit: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(prog)

	phases := map[Phase]int{}
	for update := range prog {
		phases[update.Phase]++
		if update.Message == "" {
			t.Error("expected a message on every update")
		}
	}
	if phases[LoadPlaylist] != 2 || phases[ExportPlaylist] != 2 || phases[WriteManifest] != 1 {
		t.Errorf("unexpected phases %v", phases)
	}

	t.Run("Nil Channel", func(t *testing.T) {
		sendProgress(nil, ProgressUpdate{Message: "dropped"})
	})

	t.Run("Full Channel Does Not Block", func(t *testing.T) {
		full := make(chan ProgressUpdate)
		sendProgress(full, ProgressUpdate{Message: "dropped"})
	})

	t.Run("Phase Names", func(t *testing.T) {
		if ExportPlaylist.String() != "export_playlist" || Phase(99).String() != "" {
			t.Error("unexpected phase names")
		}
	})
}
