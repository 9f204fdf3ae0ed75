package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/server"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// chartLookup resolves chart entries softly for imports and strictly for single adds.
type chartLookup interface {
	tasks.Resolver
	server.TrackResolver
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Collaborators left nil in [RunnerOpts] are built from the configuration on first use.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	db        *sql.DB
	store     services.TokenPersister
	tokens    *services.TokenContext
	auth      server.Authorizer
	playlists services.PlaylistManager
	searcher  server.TrackSearcher
	resolver  chartLookup
	chart     services.ChartFeed
	engine    *tasks.ChartEngine
	loaded    bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer

	Store     services.TokenPersister
	Tokens    *services.TokenContext
	Auth      server.Authorizer
	Playlists services.PlaylistManager
	Searcher  server.TrackSearcher
	Resolver  chartLookup
	Chart     services.ChartFeed
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Tokens == nil {
		opts.Tokens = services.NewTokenContext()
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		store:      opts.Store,
		tokens:     opts.Tokens,
		auth:       opts.Auth,
		playlists:  opts.Playlists,
		searcher:   opts.Searcher,
		resolver:   opts.Resolver,
		chart:      opts.Chart,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, tracksCommand, searchCommand, chartCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before applies global flags ahead of any command action.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if r.configPath == "" {
		r.configPath = cmd.String("config")
	}
	return ctx, nil
}

// loadConfig reads the config file, falling back to the embedded defaults when it does not exist.
func (r *Runner) loadConfig() (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	config, err := shared.LoadConfig(r.configPath)
	if errors.Is(err, shared.ErrMissingConfig) {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		config = shared.DefaultConfig()
		config.ApplyEnv(os.LookupEnv)
	} else if err != nil {
		return nil, err
	}
	r.config = config
	return config, nil
}

// load builds every collaborator not supplied through [RunnerOpts] and restores the saved session.
func (r *Runner) load() error {
	if r.loaded {
		return nil
	}

	config, err := r.loadConfig()
	if err != nil {
		return err
	}

	if r.store == nil {
		db, err := shared.OpenDatabase(config.Database)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		r.db = db
		r.store = repositories.NewTokenStoreAdapter(repositories.NewCredentialRepository(db))
	}

	restored, err := services.RestoreSession(r.store, r.tokens)
	if err != nil {
		r.logger.Warn("failed to restore session", "error", err)
	} else if restored {
		r.logger.Debug("session restored")
	}

	opts := []services.GatewayOption{
		services.WithHTTPClient(r.httpClient),
		services.WithLogger(shared.WithLogger(r.logger, "service", "spotify")),
		services.WithBaseURL(config.Spotify.APIURL),
	}

	if r.auth == nil {
		r.auth = services.NewOAuth(config.Credentials.Spotify, config.Spotify, r.httpClient)
	}
	if r.playlists == nil {
		r.playlists = services.NewSpotifyService(services.NewGateway(r.tokens, opts...))
	}
	if r.searcher == nil || r.resolver == nil {
		creds := services.NewAppCredentials(
			config.Credentials.Spotify,
			config.Spotify,
			services.WithCredentialsHTTPClient(r.httpClient),
			services.WithCredentialsLogger(r.logger),
		)
		searcher := services.NewSearcher(creds, opts...)
		if r.searcher == nil {
			r.searcher = searcher
		}
		if r.resolver == nil {
			r.resolver = services.NewResolver(searcher)
		}
	}
	if r.chart == nil {
		r.chart = services.NewChartService(
			services.WithHTTPClient(r.httpClient),
			services.WithLogger(shared.WithLogger(r.logger, "service", "deezer")),
			services.WithBaseURL(config.Chart.BaseURL),
		)
	}

	r.engine = tasks.NewChartEngine(r.chart, r.resolver, r.playlists)
	r.loaded = true
	return nil
}

// Close releases the database handle if the runner opened one.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// chartLimit returns the --limit flag when cmd sets one, or the configured chart size.
func (r *Runner) chartLimit(cmd *cli.Command) int {
	if cmd != nil {
		if limit := cmd.Int("limit"); limit > 0 {
			return limit
		}
	}
	if r.config != nil && r.config.Chart.Limit > 0 {
		return r.config.Chart.Limit
	}
	return services.DefaultChartLimit
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", formatter.Styles.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}

// writeProgress prints engine progress until the channel is closed, then signals done.
func (r *Runner) writeProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	defer close(done)
	for update := range progress {
		switch update.Phase {
		case tasks.FetchChart, tasks.FetchPlaylist:
			r.writePlain("%s\n", update.Message)
		case tasks.ResolveTracks:
			r.writePlain("   %s\n", update.Message)
		case tasks.CreatePlaylist, tasks.AddTracks, tasks.Compare:
			r.writePlain("\n%s\n", update.Message)
		case tasks.ExportPlaylist:
			r.writePlain("%s\n", update.Message)
		}
	}
}
