package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// requireArg returns the n-th positional argument or a missing-argument error naming it.
func requireArg(cmd *cli.Command, n int, name string) (string, error) {
	v := strings.TrimSpace(cmd.Args().Get(n))
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// PlaylistsList lists the current user's playlists with optional limit.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(); err != nil {
		return err
	}

	limit := cmd.Int("limit")
	r.logger.Debug("listing playlists", "limit", limit)

	playlists, err := r.playlists.UserPlaylists(ctx)
	if err != nil {
		return err
	}
	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if cmd.Bool("table") {
		return r.writePlain("%s\n", formatter.PlaylistsToTable(playlists))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		r.writePlain("   ID: %s\n", p.ID)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   Tracks: %d | %s | Owner: %s\n\n", p.TrackCount, shared.VisibilityString(p.Public), p.Owner)
	}
	return nil
}

// PlaylistsShow prints a playlist and its tracks.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, 0, "playlist ID")
	if err != nil {
		return err
	}
	if err := r.load(); err != nil {
		return err
	}

	detail, err := r.playlists.Playlist(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, cmd.Bool("pretty"))
	}

	r.writePlainHeader(detail.Playlist.Name)
	_, err = r.output.Write(formatter.PlaylistToText(detail))
	return err
}

// PlaylistsCreate creates a private playlist for the current user.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, 0, "playlist name")
	if err != nil {
		return err
	}
	if err := r.load(); err != nil {
		return err
	}

	created, err := r.playlists.CreatePlaylistForMe(ctx, name, cmd.String("description"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(created, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", formatter.Styles.OK(fmt.Sprintf("Created %s (ID: %s)", created.Name, created.ID)))
}

// PlaylistsRename updates a playlist's name and description.
func (r *Runner) PlaylistsRename(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, 0, "playlist ID")
	if err != nil {
		return err
	}
	name, err := requireArg(cmd, 1, "playlist name")
	if err != nil {
		return err
	}
	if err := r.load(); err != nil {
		return err
	}

	if err := r.playlists.UpdatePlaylist(ctx, id, name, cmd.String("description")); err != nil {
		return err
	}
	return r.writePlain("%s\n", formatter.Styles.OK("Renamed "+id+" to "+name))
}

// PlaylistsDelete unfollows a playlist, which is how Spotify deletes one.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, 0, "playlist ID")
	if err != nil {
		return err
	}
	if err := r.load(); err != nil {
		return err
	}

	if err := r.playlists.DeletePlaylist(ctx, id); err != nil {
		return err
	}
	return r.writePlain("%s\n", formatter.Styles.OK("Deleted "+id))
}

// PlaylistsExport writes playlists to files with a manifest.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	all := cmd.Bool("all")
	if len(ids) == 0 && !all {
		return fmt.Errorf("%w: playlist IDs or --all", shared.ErrMissingArgument)
	}

	format := cmd.String("format")
	switch format {
	case "json", "csv", "markdown", "txt":
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	if err := r.load(); err != nil {
		return err
	}

	if all {
		playlists, err := r.playlists.UserPlaylists(ctx)
		if err != nil {
			return err
		}
		for _, p := range playlists {
			ids = append(ids, p.ID)
		}
	}

	r.writePlain("Exporting %d playlists as %s...\n\n", len(ids), format)

	progress := make(chan tasks.ProgressUpdate, len(ids))
	done := make(chan struct{})
	go r.writeProgress(progress, done)

	result, err := r.engine.BulkExport(ctx, progress, ids, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		HTTPClient: r.httpClient,
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)
	if result.FailedExports > 0 {
		r.writePlain("%s\n", formatter.Styles.Warn(fmt.Sprintf("%d playlists failed", result.FailedExports)))
	}
	return nil
}

// TracksAdd adds one track to each --playlist in order, stopping at the first failure.
func (r *Runner) TracksAdd(ctx context.Context, cmd *cli.Command) error {
	uri, err := requireArg(cmd, 0, "track URI")
	if err != nil {
		return err
	}
	if err := r.load(); err != nil {
		return err
	}

	ids := cmd.StringSlice("playlist")
	if err := r.playlists.AddTrackToPlaylists(ctx, uri, ids...); err != nil {
		return err
	}
	return r.writePlain("%s\n", formatter.Styles.OK("Added to "+strings.Join(ids, ", ")))
}

// TracksRemove removes every occurrence of a track from a playlist.
func (r *Runner) TracksRemove(ctx context.Context, cmd *cli.Command) error {
	uri, err := requireArg(cmd, 0, "track URI")
	if err != nil {
		return err
	}
	if err := r.load(); err != nil {
		return err
	}

	id := cmd.String("playlist")
	if err := r.playlists.RemoveTrack(ctx, id, uri); err != nil {
		return err
	}
	return r.writePlain("%s\n", formatter.Styles.OK("Removed from "+id))
}
