package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

const (
	defaultWorkers = 5
	maxWorkers     = 10
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     string       // Export format: json, csv, markdown, txt
	OutputDir  string       // Base output directory (default: setlist_export_{epoch})
	NumWorkers int          // Concurrent workers (default: 5, max: 10)
	HTTPClient *http.Client // Used for cover image downloads
}

// PlaylistExportResult is the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID   string
	PlaylistName string
	Success      bool
	Files        []string
	Error        error
}

// BulkExportResult summarizes a bulk export.
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []PlaylistExportResult
}

// BulkExport exports playlists concurrently and writes a manifest.
//
// A bounded pool of workers fetches and writes each playlist. Failures are recorded per playlist;
// the export as a whole only fails when the output directory or manifest cannot be written.
func (e *ChartEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, ids []string, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.playlists == nil {
		return nil, fmt.Errorf("%w: playlist service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("setlist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(ids)),
	}

	jobs := make(chan string, len(ids))
	results := make(chan PlaylistExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	for _, id := range ids {
		jobs <- id
	}
	close(jobs)

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
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.PlaylistName, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result.manifest(opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func (r *BulkExportResult) manifest(format string) formatter.Manifest {
	m := formatter.Manifest{
		Format:            format,
		CreatedAt:         time.Now().UTC(),
		TotalPlaylists:    r.TotalPlaylists,
		SuccessfulExports: r.SuccessfulExports,
		FailedExports:     r.FailedExports,
		Playlists:         make([]formatter.ManifestEntry, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		entry := formatter.ManifestEntry{ID: res.PlaylistID, Name: res.PlaylistName, Status: "success", Files: res.Files}
		if !res.Success {
			entry.Status = "failed"
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		m.Playlists = append(m.Playlists, entry)
	}
	return m
}

// exportWorker is a worker goroutine that exports playlists from the jobs channel.
func (e *ChartEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan string,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for id := range jobs {
		if err := ctx.Err(); err != nil {
			results <- PlaylistExportResult{PlaylistID: id, PlaylistName: id, Error: err}
			continue
		}
		results <- e.exportSinglePlaylist(ctx, id, opts)
	}
}

// exportSinglePlaylist fetches one playlist and writes it in the requested format.
func (e *ChartEngine) exportSinglePlaylist(ctx context.Context, id string, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{PlaylistID: id, PlaylistName: fmt.Sprintf("Unknown (%s)", id), Files: []string{}}

	detail, err := e.playlists.Playlist(ctx, id)
	if err != nil {
		result.Error = fmt.Errorf("failed to fetch playlist: %w", err)
		return result
	}
	result.PlaylistName = detail.Playlist.Name

	files, err := writeExport(detail, opts)
	if err != nil {
		result.Error = err
		return result
	}

	result.Files = files
	result.Success = true
	return result
}

func writeExport(detail *models.PlaylistDetail, opts BulkExportOpts) ([]string, error) {
	base := filepath.Join(opts.OutputDir, detail.Playlist.ID)

	switch opts.Format {
	case "csv":
		res, err := formatter.WriteCSVExport(detail, base)
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		return []string{res.TracksFile, res.MetadataFile}, nil
	case "markdown":
		res, err := formatter.WriteMarkdownExport(detail, base, opts.HTTPClient)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		return res.Files, nil
	case "txt":
		path, err := formatter.WriteTextExport(detail, base+"_tracks.txt")
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		return []string{path}, nil
	default:
		path, err := formatter.WriteJSONExport(detail, base+".json")
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
}
