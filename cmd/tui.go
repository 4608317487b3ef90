package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytpm/internal/shared"
	"github.com/desertthunder/ytpm/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive playlist UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.cfg().Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	ctrl, err := r.controller()
	if err != nil {
		return err
	}

	// An unavailable provider only disables sign-in.
	if err := r.session.Initialize(ctx); err != nil {
		r.logger.Error("identity provider initialization failed", "error", err)
	}

	model := ui.NewModel(ctx, ui.Options{
		Controller: ctrl,
		Profile:    r.session.Profile,
		Logger:     r.logger,
	})
	return ui.Run(ctx, model)
}
