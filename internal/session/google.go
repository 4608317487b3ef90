package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/server"
	"github.com/desertthunder/ytpm/internal/shared"
	"golang.org/x/oauth2"
)

// GoogleEndpoint is Google's OAuth2 endpoint for installed applications.
var GoogleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

var defaultScopes = []string{"openid", "email", "profile"}

const placeholderClientID = "your_google_client_id"

// GoogleProviderOpts configures a [GoogleProvider].
type GoogleProviderOpts struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	// Addr is the loopback host:port that receives the callback. Port 0 picks a free port.
	Addr    string
	Timeout time.Duration
	// Endpoint defaults to [GoogleEndpoint].
	Endpoint    oauth2.Endpoint
	OpenBrowser shared.BrowserOpener
	// Out receives the authorization URL when the browser cannot be opened. Defaults to stderr.
	Out    io.Writer
	Logger *log.Logger
}

// GoogleProvider signs the user in with Google and returns the ID token as the credential.
type GoogleProvider struct {
	opts GoogleProviderOpts

	mu     sync.Mutex
	config *oauth2.Config
}

// NewGoogleProvider creates a [GoogleProvider]. Nothing is validated until [GoogleProvider.Initialize].
func NewGoogleProvider(opts GoogleProviderOpts) *GoogleProvider {
	if opts.Endpoint.AuthURL == "" {
		opts.Endpoint = GoogleEndpoint
	}
	if len(opts.Scopes) == 0 {
		opts.Scopes = defaultScopes
	}
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:0"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.Out == nil {
		opts.Out = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	opts.Logger = shared.WithLogger(opts.Logger, "component", "google")

	return &GoogleProvider{opts: opts}
}

// Initialize builds the OAuth2 client. A missing or placeholder client id is
// [shared.ErrProviderUnavailable].
func (p *GoogleProvider) Initialize(ctx context.Context) error {
	if p.opts.ClientID == "" || p.opts.ClientID == placeholderClientID {
		return fmt.Errorf("%w: google client_id is not configured (set %s)", shared.ErrProviderUnavailable, shared.EnvClientID)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.config = &oauth2.Config{
		ClientID:     p.opts.ClientID,
		ClientSecret: p.opts.ClientSecret,
		Scopes:       p.opts.Scopes,
		Endpoint:     p.opts.Endpoint,
	}
	return nil
}

// SignIn opens the consent screen and waits for the loopback callback.
//
// Failures are [*SignInError]: a denied consent or a cancelled ctx is [SignInCancelled],
// everything else (including the timeout) is [SignInOther].
func (p *GoogleProvider) SignIn(ctx context.Context) (models.Credential, error) {
	p.mu.Lock()
	base := p.config
	p.mu.Unlock()
	if base == nil {
		return "", failed(shared.ErrNotInitialized)
	}

	state, err := shared.GenerateState()
	if err != nil {
		return "", failed(err)
	}
	verifier := oauth2.GenerateVerifier()

	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.Logging(p.opts.Logger))

	srv, err := server.Listen(p.opts.Addr, router, p.opts.Logger)
	if err != nil {
		return "", failed(err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			p.opts.Logger.Warn("callback server shutdown", "error", err)
		}
	}()

	config := *base
	config.RedirectURL = fmt.Sprintf("http://%s/callback", srv.Addr())

	handler := server.NewOAuthHandler(&config, state, verifier)
	router.Handler(handler)

	authURL := config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	p.opts.Logger.Debug("waiting for sign-in callback", "redirect", config.RedirectURL, "timeout", p.opts.Timeout)

	if err := p.opts.OpenBrowser(authURL); err != nil {
		p.opts.Logger.Warn("could not open browser", "error", err)
		fmt.Fprintf(p.opts.Out, "Open this URL in your browser to sign in:\n\n%s\n\n", authURL)
	}

	timer := time.NewTimer(p.opts.Timeout)
	defer timer.Stop()

	select {
	case res := <-handler.Result():
		if res.Denied() {
			return "", cancelled(res.Error())
		}
		if err := res.Error(); err != nil {
			return "", failed(err)
		}

		idToken, _ := res.Token.Extra("id_token").(string)
		if idToken == "" {
			return "", failed(fmt.Errorf("%w: token response has no id_token", shared.ErrInvalidCredentials))
		}
		return models.Credential(idToken), nil
	case <-timer.C:
		return "", failed(fmt.Errorf("%w: no callback within %s", shared.ErrTimeout, p.opts.Timeout))
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", failed(fmt.Errorf("%w: %w", shared.ErrTimeout, ctx.Err()))
		}
		return "", cancelled(ctx.Err())
	}
}
