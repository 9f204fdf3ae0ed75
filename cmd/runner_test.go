package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
	th "github.com/desertthunder/setlist/internal/testing"
	"github.com/urfave/cli/v3"
)

type memStore struct {
	token   string
	cleared bool
}

func (m *memStore) LoadToken() (string, error) { return m.token, nil }

func (m *memStore) SaveToken(token string) error {
	m.token = token
	return nil
}

func (m *memStore) ClearToken() error {
	m.token = ""
	m.cleared = true
	return nil
}

type fakePlaylists struct {
	playlists []models.Playlist
	details   map[string]*models.PlaylistDetail
	added     map[string][]string
	removed   []string
	renamed   map[string]string
	deleted   []string
	addErr    error
}

func (f *fakePlaylists) Me(context.Context) (*services.SpotifyUser, error) {
	return &services.SpotifyUser{ID: "user1", DisplayName: "Test User", Product: "premium"}, nil
}

func (f *fakePlaylists) UserPlaylists(context.Context) ([]models.Playlist, error) {
	return f.playlists, nil
}

func (f *fakePlaylists) Playlist(_ context.Context, id string) (*models.PlaylistDetail, error) {
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, &shared.APIRequestError{StatusCode: 404, Status: "404 Not Found"}
}

func (f *fakePlaylists) CreatePlaylist(_ context.Context, _, name, description string) (*models.Playlist, error) {
	return &models.Playlist{ID: "new1", Name: name, Description: description}, nil
}

func (f *fakePlaylists) CreatePlaylistForMe(_ context.Context, name, description string) (*models.Playlist, error) {
	return &models.Playlist{ID: "new1", Name: name, Description: description}, nil
}

func (f *fakePlaylists) UpdatePlaylist(_ context.Context, id, name, _ string) error {
	if f.renamed == nil {
		f.renamed = map[string]string{}
	}
	f.renamed[id] = name
	return nil
}

func (f *fakePlaylists) DeletePlaylist(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePlaylists) AddTracks(_ context.Context, id string, uris []string) (string, error) {
	if f.addErr != nil {
		return "", f.addErr
	}
	if f.added == nil {
		f.added = map[string][]string{}
	}
	f.added[id] = append(f.added[id], uris...)
	return "snap", nil
}

func (f *fakePlaylists) AddTrackToPlaylists(ctx context.Context, uri string, ids ...string) error {
	for _, id := range ids {
		if _, err := f.AddTracks(ctx, id, []string{uri}); err != nil {
			return fmt.Errorf("playlist %s: %w", id, err)
		}
	}
	return nil
}

func (f *fakePlaylists) RemoveTrack(_ context.Context, id, uri string) error {
	f.removed = append(f.removed, id+":"+uri)
	return nil
}

type fakeChart struct {
	entries []models.ChartEntry
}

func (f *fakeChart) Raw(context.Context, int) (json.RawMessage, error) { return nil, nil }

func (f *fakeChart) TopTracks(_ context.Context, limit int) ([]models.ChartEntry, error) {
	if limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

type fakeResolver struct {
	tracks map[string]models.Track
}

func (f *fakeResolver) Resolve(_ context.Context, title, _ string) (*services.Match, bool, error) {
	t, ok := f.tracks[title]
	if !ok {
		return nil, false, nil
	}
	return &services.Match{Track: t, Exact: true}, true, nil
}

func (f *fakeResolver) ResolveEntry(ctx context.Context, entry models.ChartEntry) (*services.Match, bool, error) {
	return f.Resolve(ctx, entry.Title, entry.Artist)
}

func (f *fakeResolver) MustResolve(ctx context.Context, title, artist string) (*services.Match, error) {
	m, ok, err := f.Resolve(ctx, title, artist)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &shared.UpstreamLookupError{Title: title, Artist: artist}
	}
	return m, nil
}

type fakeSearcher struct {
	tracks []models.Track
	query  string
}

func (f *fakeSearcher) Tracks(_ context.Context, query string) ([]models.Track, error) {
	f.query = query
	return f.tracks, nil
}

type fixture struct {
	runner    *Runner
	output    *bytes.Buffer
	store     *memStore
	playlists *fakePlaylists
	searcher  *fakeSearcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		output: &bytes.Buffer{},
		store:  &memStore{token: "saved-token"},
		playlists: &fakePlaylists{
			playlists: []models.Playlist{
				{ID: "p1", Name: "Road Trip", TrackCount: 2, Owner: "Test User"},
				{ID: "p2", Name: "Focus", Description: "Deep work", TrackCount: 0, Owner: "Test User"},
			},
			details: map[string]*models.PlaylistDetail{
				"p1": {
					Playlist: models.Playlist{ID: "p1", Name: "Road Trip"},
					Tracks: []models.Track{
						{ID: "t1", URI: "spotify:track:t1", Title: "Espresso", Artist: "Sabrina Carpenter", Duration: 175},
					},
				},
			},
		},
		searcher: &fakeSearcher{tracks: []models.Track{
			{ID: "t9", URI: "spotify:track:t9", Title: "Song 2", Artist: "Blur", Duration: 121},
		}},
	}

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "unused.db")

	f.runner = NewRunner(RunnerOpts{
		Config:    config,
		Output:    f.output,
		Logger:    shared.NewLogger(&bytes.Buffer{}),
		Store:     f.store,
		Playlists: f.playlists,
		Searcher:  f.searcher,
		Resolver: &fakeResolver{tracks: map[string]models.Track{
			"Espresso": {ID: "t1", URI: "spotify:track:t1", Title: "Espresso", Artist: "Sabrina Carpenter"},
			"APT.":     {ID: "t3", URI: "spotify:track:t3", Title: "APT.", Artist: "ROSÉ, Bruno Mars"},
		}},
		Chart: &fakeChart{entries: []models.ChartEntry{
			{Rank: 1, Title: "Espresso", Artist: "Sabrina Carpenter", Duration: 175},
			{Rank: 2, Title: "APT.", Artist: "ROSÉ", Duration: 169},
			{Rank: 3, Title: "Unknown", Artist: "Nobody", Duration: 200},
		}},
	})
	return f
}

// run executes args against a root command wired like main's.
func (f *fixture) run(args ...string) error {
	app := &cli.Command{
		Name: "setlist",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.toml"},
			&cli.BoolFlag{Name: "debug"},
		},
		Before:   f.runner.before,
		Commands: f.runner.register(),
	}
	return app.Run(context.Background(), append([]string{"setlist"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("With Dependencies Provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			output := &bytes.Buffer{}
			tokens := services.NewTokenContext()

			runner := NewRunner(RunnerOpts{Config: config, Output: output, Tokens: tokens, ConfigPath: "/test/config.toml"})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.tokens != tokens {
				t.Error("expected tokens to be set")
			}
			if runner.configPath != "/test/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("Defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient == nil || runner.httpClient.Timeout == 0 {
				t.Error("expected default http client with a timeout")
			}
			if runner.tokens == nil {
				t.Error("expected a token context")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("Formatted", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("Compact", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("Marshal Error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("Write Failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &th.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("Newline Write Failure", func(t *testing.T) {
			limitedWriter := th.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("Formats Text", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("Write Failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &th.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		names := map[string]bool{}
		for _, cmd := range runner.register() {
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "auth", "playlists", "tracks", "search", "chart", "serve"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("load", func(t *testing.T) {
		t.Run("Restores Saved Session", func(t *testing.T) {
			f := newFixture(t)

			if err := f.runner.load(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !f.runner.tokens.Authenticated() {
				t.Error("expected saved token to authenticate the runner")
			}
			if f.runner.engine == nil || f.runner.auth == nil {
				t.Error("expected engine and authorizer to be built")
			}
		})

		t.Run("Opens Database", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Database.Path = filepath.Join(t.TempDir(), "setlist.db")
			runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})

			if err := runner.load(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			defer runner.Close()

			if runner.db == nil || runner.store == nil {
				t.Fatal("expected database-backed store")
			}
			if runner.tokens.Authenticated() {
				t.Error("expected no session in a fresh database")
			}
			th.AssertFileExists(t, config.Database.Path)
		})

		t.Run("Missing Config Uses Defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")})

			config, err := runner.loadConfig()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Server.Port != 3000 {
				t.Errorf("expected default port, got %d", config.Server.Port)
			}
		})

		t.Run("Unreadable Config Is An Error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: t.TempDir()})

			if _, err := runner.loadConfig(); err == nil {
				t.Error("expected error for a directory config path")
			}
		})

		t.Run("Reads Config File", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			config := shared.DefaultConfig()
			config.Server.Port = 4567
			if err := shared.SaveConfig(path, config); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			runner := NewRunner(RunnerOpts{ConfigPath: path})
			loaded, err := runner.loadConfig()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if loaded.Server.Port != 4567 {
				t.Errorf("expected port from file, got %d", loaded.Server.Port)
			}
		})
	})
}

func TestCommands(t *testing.T) {
	t.Run("Setup Config", func(t *testing.T) {
		f := newFixture(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := f.run("--config", path, "setup", "config"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		th.AssertFileExists(t, path)

		if err := f.run("--config", path, "setup", "config"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected error for existing config, got %v", err)
		}
	})

	t.Run("Setup Database And Rollback", func(t *testing.T) {
		f := newFixture(t)
		path := f.runner.config.Database.Path

		if err := f.run("setup", "database"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		th.AssertFileExists(t, path)

		if err := f.run("setup", "rollback"); err != nil {
			t.Fatalf("expected rollback to succeed, got %v", err)
		}
		if !strings.Contains(f.output.String(), "Rolled back latest migration") {
			t.Errorf("unexpected output %q", f.output.String())
		}

		db, err := shared.NewDatabase(path)
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()
		if _, err := db.Exec("SELECT 1 FROM credentials"); err == nil {
			t.Error("expected credentials table to be dropped")
		}

		if err := f.run("setup", "rollback"); err == nil {
			t.Error("expected error with nothing left to roll back")
		}
	})

	t.Run("Auth", func(t *testing.T) {
		t.Run("Status Authenticated", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(f.output.String(), "Authenticated as Test User") {
				t.Errorf("unexpected output %q", f.output.String())
			}
		})

		t.Run("Logout", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("auth", "logout"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !f.store.cleared || f.runner.tokens.Authenticated() {
				t.Error("expected token cleared from store and context")
			}
		})

		t.Run("Status Signed Out", func(t *testing.T) {
			f := newFixture(t)
			f.store.token = ""

			if err := f.run("auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(f.output.String(), "Not authenticated") {
				t.Errorf("unexpected output %q", f.output.String())
			}
		})
	})

	t.Run("Playlists", func(t *testing.T) {
		t.Run("List", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("playlists", "list"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			out := f.output.String()
			if !strings.Contains(out, "Found 2 playlists") || !strings.Contains(out, "Description: Deep work") {
				t.Errorf("unexpected output %q", out)
			}
		})

		t.Run("List JSON With Limit", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("playlists", "list", "--json", "--limit", "1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			var got []models.Playlist
			if err := json.Unmarshal(f.output.Bytes(), &got); err != nil {
				t.Fatalf("expected JSON output, got %v", err)
			}
			if len(got) != 1 || got[0].ID != "p1" {
				t.Errorf("unexpected playlists %+v", got)
			}
		})

		t.Run("Show", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("playlists", "show", "p1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(f.output.String(), "Sabrina Carpenter - Espresso [2:55]") {
				t.Errorf("unexpected output %q", f.output.String())
			}
		})

		t.Run("Show Missing ID", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("playlists", "show"); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("Show Unknown", func(t *testing.T) {
			f := newFixture(t)

			err := f.run("playlists", "show", "nope")
			if shared.StatusCode(err) != 404 {
				t.Errorf("expected 404 API error, got %v", err)
			}
		})

		t.Run("Create", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("playlists", "create", "--description", "fresh", "New Mix"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(f.output.String(), "Created New Mix (ID: new1)") {
				t.Errorf("unexpected output %q", f.output.String())
			}
		})

		t.Run("Rename And Delete", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("playlists", "rename", "p1", "Long Drive"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if f.playlists.renamed["p1"] != "Long Drive" {
				t.Errorf("expected rename, got %v", f.playlists.renamed)
			}

			if err := f.run("playlists", "delete", "p2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(f.playlists.deleted) != 1 || f.playlists.deleted[0] != "p2" {
				t.Errorf("expected p2 deleted, got %v", f.playlists.deleted)
			}
		})

		t.Run("Export", func(t *testing.T) {
			f := newFixture(t)
			dir := t.TempDir()

			if err := f.run("playlists", "export", "--format", "txt", "--output", dir, "p1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			th.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
			th.AssertFileExists(t, filepath.Join(dir, "p1_tracks.txt"))
			if !strings.Contains(f.output.String(), "Exported: 1/1") {
				t.Errorf("unexpected output %q", f.output.String())
			}
		})

		t.Run("Export Rejects Format", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("playlists", "export", "--format", "xml", "p1"); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("Tracks", func(t *testing.T) {
		t.Run("Add To Several Playlists", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("tracks", "add", "-p", "p1", "-p", "p2", "spotify:track:t9"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(f.playlists.added["p1"]) != 1 || len(f.playlists.added["p2"]) != 1 {
				t.Errorf("expected track in both playlists, got %v", f.playlists.added)
			}
		})

		t.Run("Add Stops At First Failure", func(t *testing.T) {
			f := newFixture(t)
			f.playlists.addErr = &shared.APIRequestError{StatusCode: 403, Status: "403 Forbidden"}

			err := f.run("tracks", "add", "-p", "p1", "-p", "p2", "spotify:track:t9")
			if shared.StatusCode(err) != 403 || !strings.Contains(err.Error(), "playlist p1") {
				t.Errorf("expected failure on p1, got %v", err)
			}
		})

		t.Run("Remove", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("tracks", "remove", "-p", "p1", "spotify:track:t1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(f.playlists.removed) != 1 || f.playlists.removed[0] != "p1:spotify:track:t1" {
				t.Errorf("unexpected removals %v", f.playlists.removed)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		f := newFixture(t)

		if err := f.run("search", "song", "2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if f.searcher.query != "song 2" {
			t.Errorf("expected joined query, got %q", f.searcher.query)
		}
		if !strings.Contains(f.output.String(), "Blur - Song 2 [2:01]") {
			t.Errorf("unexpected output %q", f.output.String())
		}

		if err := f.run("search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Chart", func(t *testing.T) {
		t.Run("List", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("chart", "list", "--limit", "2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			out := f.output.String()
			if !strings.Contains(out, "  2. ROSÉ - APT. [2:49]") || strings.Contains(out, "Unknown") {
				t.Errorf("unexpected output %q", out)
			}
		})

		t.Run("List CSV", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("chart", "list", "--csv"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(f.output.String(), "Espresso") {
				t.Errorf("unexpected output %q", f.output.String())
			}
		})

		t.Run("List Table", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("chart", "list", "--table"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			out := f.output.String()
			if !strings.Contains(out, "ARTIST") || !strings.Contains(out, "Sabrina Carpenter") {
				t.Errorf("unexpected output %q", out)
			}
		})

		t.Run("Add Imports Chart", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("chart", "add", "--playlist", "p1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := strings.Join(f.playlists.added["p1"], ","); got != "spotify:track:t1,spotify:track:t3" {
				t.Errorf("unexpected additions %s", got)
			}
			out := f.output.String()
			if !strings.Contains(out, "Success rate: 2/3") || !strings.Contains(out, "Nobody - Unknown") {
				t.Errorf("unexpected output %q", out)
			}
		})

		t.Run("Add Creates Playlist", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("chart", "add", "--name", "Top Hits"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(f.playlists.added["new1"]) != 2 {
				t.Errorf("expected tracks in created playlist, got %v", f.playlists.added)
			}
		})

		t.Run("Add Single Rank", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("chart", "add", "--playlist", "p2", "--rank", "2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := f.playlists.added["p2"]; len(got) != 1 || got[0] != "spotify:track:t3" {
				t.Errorf("unexpected additions %v", got)
			}
		})

		t.Run("Add Single Rank Not Found", func(t *testing.T) {
			f := newFixture(t)

			err := f.run("chart", "add", "--playlist", "p2", "--rank", "3")
			var lookupErr *shared.UpstreamLookupError
			if !errors.As(err, &lookupErr) || lookupErr.Title != "Unknown" {
				t.Errorf("expected UpstreamLookupError, got %v", err)
			}
		})

		t.Run("Add Requires Destination", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("chart", "add"); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("Diff", func(t *testing.T) {
			f := newFixture(t)

			if err := f.run("chart", "diff", "p1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(f.output.String(), "In playlist: 1 | Missing: 2") {
				t.Errorf("unexpected output %q", f.output.String())
			}
		})
	})
}
