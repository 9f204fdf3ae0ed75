package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Search prints tracks matching the query using the app token.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if err := r.load(); err != nil {
		return err
	}

	tracks, err := r.searcher.Tracks(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d tracks for %q:\n\n", len(tracks), query)
	for i, t := range tracks {
		r.writePlain("%2d. %s - %s [%s]\n", i+1, t.Artist, t.Title, shared.FormatDuration(t.Duration))
		r.writePlain("    %s\n", t.URI)
	}
	return nil
}

// ChartList prints the top chart entries.
func (r *Runner) ChartList(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(); err != nil {
		return err
	}

	entries, err := r.chart.TopTracks(ctx, r.chartLimit(cmd))
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(entries, cmd.Bool("pretty"))
	case cmd.Bool("csv"):
		data, err := formatter.ChartToCSV(entries)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	case cmd.Bool("table"):
		return r.writePlain("%s\n", formatter.ChartToTable(entries))
	}

	r.writePlainHeader("Deezer Top Tracks")
	_, err = r.output.Write(formatter.ChartToText(entries))
	return err
}

// ChartAdd imports the chart into a playlist, or adds a single entry with --rank.
func (r *Runner) ChartAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist")
	name := cmd.String("name")
	if playlistID == "" && name == "" {
		return fmt.Errorf("%w: --playlist or --name", shared.ErrMissingArgument)
	}
	if err := r.load(); err != nil {
		return err
	}

	if rank := cmd.Int("rank"); rank > 0 {
		if playlistID == "" {
			return fmt.Errorf("%w: --rank needs --playlist", shared.ErrMissingArgument)
		}
		return r.addChartEntry(ctx, playlistID, rank)
	}

	progress := make(chan tasks.ProgressUpdate, 100)
	done := make(chan struct{})
	go r.writeProgress(progress, done)

	result, err := r.engine.Import(ctx, progress, tasks.ImportOpts{
		PlaylistID:  playlistID,
		Name:        name,
		Description: cmd.String("description"),
		Limit:       r.chartLimit(cmd),
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete!")
	if result.Created != nil {
		r.writePlain("Created: %s (ID: %s)\n", result.Created.Name, result.Created.ID)
	}
	r.writePlain("Playlist: %s\n", result.PlaylistID)
	r.writePlain("Success rate: %d/%d (%.1f%%)\n", result.SuccessCount, result.TotalEntries, result.MatchPercentage)

	if result.FailedCount > 0 {
		r.writePlain("\nFailed to match %d entries:\n", result.FailedCount)
		for _, m := range result.Matches {
			if m.Error != nil {
				r.writePlain("  - %s - %s\n", m.Entry.Artist, m.Entry.Title)
			}
		}
	}
	return nil
}

// addChartEntry resolves the chart entry at rank and adds it, failing if it has no match.
func (r *Runner) addChartEntry(ctx context.Context, playlistID string, rank int) error {
	entries, err := r.chart.TopTracks(ctx, max(rank, r.chartLimit(nil)))
	if err != nil {
		return err
	}

	var entry *models.ChartEntry
	for i := range entries {
		if entries[i].Rank == rank {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("%w: no chart entry at rank %d", shared.ErrInvalidArgument, rank)
	}

	match, err := r.resolver.MustResolve(ctx, entry.Title, entry.Artist)
	if err != nil {
		return err
	}

	if _, err := r.playlists.AddTracks(ctx, playlistID, []string{match.Track.URI}); err != nil {
		return err
	}
	return r.writePlain("%s\n", formatter.Styles.OK(fmt.Sprintf("#%d %s - %s added to %s", rank, match.Track.Artist, match.Track.Title, playlistID)))
}

// ChartDiff prints the chart entries a playlist already has and the ones it lacks.
func (r *Runner) ChartDiff(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, 0, "playlist ID")
	if err != nil {
		return err
	}
	if err := r.load(); err != nil {
		return err
	}

	result, err := r.engine.Diff(ctx, nil, id, r.chartLimit(cmd))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"playlist": result.Playlist.Playlist,
			"present":  result.Present,
			"missing":  result.Missing,
		}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(result.Playlist.Playlist.Name)
	r.writePlain("In playlist: %d | Missing: %d\n", len(result.Present), len(result.Missing))
	if len(result.Missing) > 0 {
		r.writePlain("\nMissing:\n")
		if cmd.Bool("table") {
			return r.writePlain("%s\n", formatter.ChartToTable(result.Missing))
		}
		_, err = r.output.Write(formatter.ChartToText(result.Missing))
	}
	return err
}
