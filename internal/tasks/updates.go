package tasks

import (
	"fmt"

	"github.com/desertthunder/setlist/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchChart Phase = iota
	FetchPlaylist
	ResolveTracks
	Compare
	CreatePlaylist
	AddTracks
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchChart:
		return "fetch_chart"
	case FetchPlaylist:
		return "fetch_playlist"
	case ResolveTracks:
		return "resolve_tracks"
	case Compare:
		return "compare"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func fetchChartUpdate(limit int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchChart,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching top %d chart tracks...", limit),
	}
}

func fetchPlaylistUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching playlist %s...", id),
	}
}

func resolveUpdate(step, total int, e models.ChartEntry) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, e.Artist, e.Title),
		Data:    e,
	}
}

func compareUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Comparing %d chart entries...", total),
	}
}

func createPlaylistUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func addTracksUpdate(count int, playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d tracks to %s...", count, playlistID),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
