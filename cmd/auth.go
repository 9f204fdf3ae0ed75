package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/server"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/urfave/cli/v3"
)

const loginTimeout = 2 * time.Minute

// newAppServer builds the HTTP server sharing this runner's token context and services.
func (r *Runner) newAppServer(addr string) (*server.Server, *server.OAuthHandler) {
	router, oauth := server.NewAppRouter(server.Deps{
		Auth:      r.auth,
		Store:     r.store,
		Tokens:    r.tokens,
		Playlists: r.playlists,
		Searcher:  r.searcher,
		Resolver:  r.resolver,
		Chart:     r.chart,
		Logger:    shared.WithLogger(r.logger, "component", "server"),
	})
	return server.New(addr, router, r.logger), oauth
}

// AuthLogin performs the authorization-code flow for Spotify.
//
// Starts the local server, opens the browser on its login route, and waits for the callback to
// persist the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(); err != nil {
		return err
	}

	addr := r.config.Server.Addr()
	srv, oauth := r.newAppServer(addr)

	errs, err := srv.Start()
	if err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			r.logger.Warn("server shutdown failed", "error", err)
		}
	}()

	loginURL := fmt.Sprintf("http://%s%s", addr, server.LoginPath)
	r.writePlain("Opening browser for Spotify authorization...\n")
	r.writePlain("If the browser doesn't open, visit: %s\n\n", loginURL)

	if !cmd.Bool("no-browser") {
		if err := shared.OpenBrowser(loginURL); err != nil {
			r.logger.Warnf("failed to open browser automatically: %v", err)
		}
	}

	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = loginTimeout
	}

	select {
	case result := <-oauth.Result():
		if err := result.Error(); err != nil {
			return err
		}
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("callback server failed: %w", err)
		}
		return fmt.Errorf("%w: callback server stopped", shared.ErrServiceUnavailable)
	case <-time.After(timeout):
		return fmt.Errorf("%w: no authorization received within %v", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	r.writePlain("%s\n", formatter.Styles.OK("Authorization successful"))
	r.writePlain("%s\n", formatter.Styles.Help("You can now use: setlist playlists list"))
	return nil
}

// AuthLogout clears the active token and deletes the saved one.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(); err != nil {
		return err
	}
	if err := services.Logout(r.store, r.tokens); err != nil {
		return err
	}
	return r.writePlain("%s\n", formatter.Styles.OK("Logged out"))
}

// AuthStatus reports whether a token is loaded and, if so, whose it is.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(); err != nil {
		return err
	}

	if !r.tokens.Authenticated() {
		r.writePlain("%s\n", formatter.Styles.Err("Not authenticated"))
		return r.writePlain("%s\n", formatter.Styles.Help("Run 'setlist auth login' to sign in"))
	}

	user, err := r.playlists.Me(ctx)
	if err != nil {
		r.writePlain("%s\n", formatter.Styles.Warn("Token saved but rejected by Spotify"))
		return err
	}

	name := user.DisplayName
	if name == "" {
		name = user.ID
	}
	r.writePlain("%s\n", formatter.Styles.OK("Authenticated as "+name))
	if user.Email != "" {
		r.writePlain("Email: %s\n", user.Email)
	}
	if user.Product != "" {
		r.writePlain("Plan: %s\n", user.Product)
	}
	return nil
}

// Serve runs the web server until the command context is canceled or the server fails.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(); err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}
	srv, _ := r.newAppServer(addr)

	errs, err := srv.Start()
	if err != nil {
		return err
	}
	r.writePlain("%s\n", formatter.Styles.OK("Listening on http://"+srv.Addr()))

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	return srv.Shutdown(context.Background())
}
