package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytpm/internal/formatter"
	"github.com/desertthunder/ytpm/internal/services"
	"github.com/desertthunder/ytpm/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistList fetches the playlist and prints it.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	ctrl, err := r.controller()
	if err != nil {
		return err
	}

	if err := ctrl.Mount(ctx); err != nil {
		return err
	}
	return r.printSnapshot(cmd)
}

// PlaylistAdd appends the best match for the title argument and prints the refreshed playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: song title", shared.ErrMissingArgument)
	}

	ctrl, err := r.controller()
	if err != nil {
		return err
	}

	if err := ctrl.AddSong(ctx, title); err != nil {
		if services.IsNotFound(err) {
			return fmt.Errorf("no song matched %q: %w", title, err)
		}
		return err
	}

	r.logger.Info("song added", "title", title)
	return r.printSnapshot(cmd)
}

// PlaylistClear removes every song after confirmation and prints the refreshed playlist.
func (r *Runner) PlaylistClear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		ok, err := r.confirm("Clear every song from the playlist?")
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlainln("Aborted")
		}
	}

	ctrl, err := r.controller()
	if err != nil {
		return err
	}

	if err := ctrl.ClearPlaylist(ctx); err != nil {
		return err
	}

	r.logger.Info("playlist cleared")
	return r.printSnapshot(cmd)
}

// printSnapshot renders the controller's snapshot with the output flags of cmd.
func (r *Runner) printSnapshot(cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	data, err := formatter.Render(format, r.ctrl.Snapshot(), formatter.Options{
		Title:  "Playlist",
		Pretty: cmd.Bool("pretty"),
	})
	if err != nil {
		return err
	}

	path := cmd.String("output")
	if err := formatter.Write(r.output, path, data); err != nil {
		return err
	}
	if path != "" {
		r.logger.Info("playlist written", "path", path, "format", format)
	}
	return nil
}
