// package formatter renders playlists and chart entries as CSV, Markdown, plain text and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// PlaylistToCSV converts a PlaylistDetail to CSV with columns: ID, URI, Title, Artist, Album, Duration
func PlaylistToCSV(detail *models.PlaylistDetail) ([]byte, error) {
	rows := make([][]string, 0, len(detail.Tracks))
	for _, track := range detail.Tracks {
		rows = append(rows, []string{
			track.ID,
			track.URI,
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(track.Duration),
		})
	}
	return writeCSV([]string{"ID", "URI", "Title", "Artist", "Album", "Duration"}, rows)
}

// ChartToCSV converts chart entries to CSV with columns: Rank, Title, Artist, Album, Duration
func ChartToCSV(entries []models.ChartEntry) ([]byte, error) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			e.Title,
			e.Artist,
			e.Album,
			strconv.Itoa(e.Duration),
		})
	}
	return writeCSV([]string{"Rank", "Title", "Artist", "Album", "Duration"}, rows)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// PlaylistToMarkdown converts a PlaylistDetail to Markdown with an optional cover image
func PlaylistToMarkdown(detail *models.PlaylistDetail, imageFilename string) []byte {
	var buf bytes.Buffer
	p := detail.Playlist

	fmt.Fprintf(&buf, "# %s\n\n", p.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	if p.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", p.Description)
	}

	if p.Owner != "" {
		fmt.Fprintf(&buf, "**Owner**: %s\n", p.Owner)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(detail.Tracks))
	fmt.Fprintf(&buf, "**Visibility**: %s\n\n", shared.VisibilityString(p.Public))

	buf.WriteString("## Tracks\n\n")
	for i, track := range detail.Tracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, albumPart, shared.FormatDuration(track.Duration))
	}

	return buf.Bytes()
}

// PlaylistToText converts a PlaylistDetail to plain text
func PlaylistToText(detail *models.PlaylistDetail) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", detail.Playlist.Name)
	if detail.Playlist.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", detail.Playlist.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(detail.Tracks))

	for i, track := range detail.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.FormatDuration(track.Duration))
		if track.URI != "" {
			fmt.Fprintf(&buf, "   URI: %s\n", track.URI)
		}
	}

	return buf.Bytes()
}

// ChartToText renders chart entries one per line, ranked.
func ChartToText(entries []models.ChartEntry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, "%3d. %s - %s [%s]\n", e.Rank, e.Artist, e.Title, shared.FormatDuration(e.Duration))
	}
	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes.
//
// A nil client uses one with a 30 second timeout.
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport writes {base}_tracks.csv and {base}_metadata.json.
//
// The base defaults to the playlist ID.
func WriteCSVExport(detail *models.PlaylistDetail, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = detail.Playlist.ID
	}

	csvData, err := PlaylistToCSV(detail)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := shared.MarshalJSON(detail.Playlist, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{TracksFile: tracksFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes {dir}/README.md and, when the playlist has an image, {dir}/cover.jpg.
//
// Directory name defaults to the playlist ID. A failed cover download is not an error.
func WriteMarkdownExport(detail *models.PlaylistDetail, outputDir string, client *http.Client) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = detail.Playlist.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	var coverImageFilename string
	if detail.Playlist.ImageURL != "" {
		if imageData, err := DownloadImage(client, detail.Playlist.ImageURL); err == nil {
			coverImagePath := filepath.Join(outputDir, "cover.jpg")
			if err := os.WriteFile(coverImagePath, imageData, 0644); err == nil {
				coverImageFilename = "cover.jpg"
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, PlaylistToMarkdown(detail, coverImageFilename), 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteTextExport exports a playlist to plain text format.
//
// Defaults to {playlist.ID}_tracks.txt as the filename.
func WriteTextExport(detail *models.PlaylistDetail, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_tracks.txt", detail.Playlist.ID)
	}

	if err := os.WriteFile(path, PlaylistToText(detail), 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// WriteJSONExport writes the playlist and its tracks as indented JSON.
func WriteJSONExport(detail *models.PlaylistDetail, path string) (string, error) {
	if path == "" {
		path = detail.Playlist.ID + ".json"
	}

	data, err := shared.MarshalJSON(detail, true)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}
	return path, nil
}

// ManifestEntry is one playlist line of an export manifest.
type ManifestEntry struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Status string   `json:"status"` // success or failed
	Files  []string `json:"files,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Manifest summarizes a bulk export.
type Manifest struct {
	Format            string          `json:"format"`
	CreatedAt         time.Time       `json:"created_at"`
	TotalPlaylists    int             `json:"total_playlists"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Playlists         []ManifestEntry `json:"playlists"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
