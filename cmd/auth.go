package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytpm/internal/controller"
	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/session"
	"github.com/desertthunder/ytpm/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the browser sign-in and stores the credential.
//
// A cancelled sign-in prints the notice and is not an error.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	manager, err := r.sessionManager()
	if err != nil {
		return err
	}

	if err := manager.Initialize(ctx); err != nil {
		return err
	}
	if !manager.Initialized() {
		return fmt.Errorf("%w: set credentials.google.client_id or %s", shared.ErrProviderUnavailable, shared.EnvClientID)
	}

	r.writePlainln("Opening browser for Google sign-in...")

	cred, err := manager.SignIn(ctx)
	if session.IsCancelled(err) {
		return r.writePlainln("%s", controller.CancelledNotice)
	}
	if err != nil {
		return err
	}

	profile, err := session.DecodeProfile(cred)
	if err != nil {
		r.logger.Warn("signed in but the credential could not be decoded", "error", err)
		return r.writePlainln("✓ Signed in")
	}
	return r.writePlainln("✓ Signed in as %s", profile.DisplayName())
}

// AuthStatus prints the account behind the stored credential.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	manager, err := r.sessionManager()
	if err != nil {
		return err
	}

	profile, err := manager.Profile(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return r.writePlainln("Not signed in")
	}
	if err != nil {
		return err
	}

	r.printProfile(profile)

	if stored, err := r.store.UpdatedAt(ctx, session.CredentialKey); err == nil {
		r.writePlainln("Stored:   %s", stored.Local().Format(time.RFC1123))
	}
	return nil
}

// AuthLogout clears the stored credential.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	manager, err := r.sessionManager()
	if err != nil {
		return err
	}

	if err := manager.SignOut(ctx); err != nil {
		return err
	}
	return r.writePlainln("✓ Signed out")
}

func (r *Runner) printProfile(p models.Profile) {
	r.writePlainHeader("Signed in as " + p.DisplayName())
	if p.Email != "" {
		r.writePlainln("Email:    %s", p.Email)
	}
	if p.Name != "" {
		r.writePlainln("Name:     %s", p.Name)
	}
	r.writePlainln("Subject:  %s", p.Subject)

	if p.ExpiresAt.IsZero() {
		return
	}

	expires := p.ExpiresAt.Local().Format(time.RFC1123)
	if p.Expired(time.Now()) {
		r.writePlainln("Expires:  %s (expired, run `ytpm auth login`)", expires)
		return
	}
	r.writePlainln("Expires:  %s", expires)
}
