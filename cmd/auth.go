package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/tapedeck/internal/server"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the browser sign-in flow: a temporary local server waits for
// the mixtape service to redirect back with an API token, which is then
// stored for later runs.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state token: %w", err)
	}

	handler := server.NewSignInHandler(state)
	router := server.NewBasicRouter()
	router.Handler(handler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Signin.Host, r.config.Signin.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting sign-in callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	callback := fmt.Sprintf("http://%s/callback", serverAddr)
	signInURL := fmt.Sprintf("%s/signin?%s", r.config.API.SiteURL, url.Values{
		"cli_callback": {callback},
		"state":        {state},
	}.Encode())

	r.writePlain("→ Opening browser to sign in...\n")
	if err := shared.OpenBrowser(signInURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", signInURL)
	}

	r.writePlain("→ Waiting for sign-in (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.SignInResult

	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: sign-in timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}
	if result.Token == nil {
		return fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	tokenPath, err := authTokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(tokenPath), 0755); err != nil {
		return fmt.Errorf("failed to create auth directory: %w", err)
	}
	if err := os.WriteFile(tokenPath, []byte(result.Token.AccessToken), 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	r.client.Authenticate(ctx, result.Token.AccessToken)
	r.logger.Infof("token saved to %v", tokenPath)

	return r.writePlain("✓ Signed in\n")
}

// AuthStatus checks the stored token against the service by listing the
// user's mixtapes.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	if !r.client.IsAuthenticated() {
		return r.writePlain("✗ Not signed in. Run 'tapedeck auth login'.\n")
	}

	overviews, err := r.client.ListMixtapes(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return r.writePlain("✗ Token rejected. Run 'tapedeck auth login' again.\n")
		}
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	r.writePlain("✓ Signed in\n")
	return r.writePlain("Mixtapes: %d\n", len(overviews))
}

// AuthLogout removes the stored API token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	tokenPath, err := authTokenPath()
	if err != nil {
		return err
	}

	if err := os.Remove(tokenPath); err != nil {
		if os.IsNotExist(err) {
			return r.writePlain("No stored token.\n")
		}
		return fmt.Errorf("failed to remove token: %w", err)
	}

	return r.writePlain("✓ Signed out\n")
}
