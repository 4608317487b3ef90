package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ytpm/internal/formatter"
	"github.com/desertthunder/ytpm/internal/shared"
	"github.com/desertthunder/ytpm/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistImport adds every title from a file, one request per title.
func (r *Runner) PlaylistImport(ctx context.Context, cmd *cli.Command) error {
	titles, err := r.readTitles(cmd)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		return r.writePlainln("No titles to import")
	}

	opts := tasks.ImportOpts{
		Replace:      cmd.Bool("replace"),
		SkipExisting: cmd.Bool("skip-existing"),
		StopOnError:  cmd.Bool("stop-on-error"),
	}
	if opts.Replace {
		ok, err := r.confirm("Clear the playlist before importing?")
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlainln("Aborted")
		}
	}

	engine, err := r.taskEngine()
	if err != nil {
		return err
	}

	r.logger.Info("starting import", "file", cmd.StringArg("file"), "titles", len(titles))

	result, err := r.withProgress(func(progress chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error) {
		return engine.Import(ctx, titles, opts, progress)
	})
	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Import Complete")
		r.writePlainln("Added:   %d/%d", result.AddedCount, result.Total)
		if result.SkippedCount > 0 {
			r.writePlainln("Skipped: %d", result.SkippedCount)
		}
		if result.FailedCount > 0 {
			r.writePlainln("\nFailed to add %d songs:", result.FailedCount)
			for _, f := range result.Failed() {
				r.writePlainln("  - %s", f.Title)
			}
		}
	}
	if err != nil {
		return err
	}
	if result.FailedCount > 0 {
		return fmt.Errorf("%w: %d of %d songs", shared.ErrAddFailed, result.FailedCount, result.Total)
	}
	return nil
}

// PlaylistDiff compares a file of titles with the playlist.
func (r *Runner) PlaylistDiff(ctx context.Context, cmd *cli.Command) error {
	titles, err := r.readTitles(cmd)
	if err != nil {
		return err
	}

	engine, err := r.taskEngine()
	if err != nil {
		return err
	}

	result, err := engine.Diff(ctx, titles, nil)
	if err != nil {
		return err
	}

	r.writePlainHeader("Comparison Results")
	r.writePlainln("Matched: %d songs", result.MatchedCount)
	r.writePlainln("Missing from playlist: %d songs", len(result.Missing))
	r.writePlainln("Extra in playlist: %d songs", len(result.Extra))

	if len(result.Missing) > 0 {
		r.writePlainln("\nMissing from playlist:")
		for i, title := range result.Missing {
			r.writePlainln("  %d. %s", i+1, title)
		}
	}
	if len(result.Extra) > 0 {
		r.writePlainln("\nExtra in playlist:")
		for i, item := range result.Extra {
			r.writePlainln("  %d. %s", i+1, item.Title)
		}
	}
	return nil
}

func (r *Runner) readTitles(cmd *cli.Command) ([]string, error) {
	path := cmd.StringArg("file")
	if path == "" {
		return nil, fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}

	format := tasks.FormatForPath(path)
	if f := cmd.String("format"); f != "" {
		var err error
		if format, err = formatter.ParseFormat(f); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return tasks.ReadTitles(file, format)
}

// withProgress runs op while printing its progress updates, and returns once every
// update has been written.
func (r *Runner) withProgress(op func(chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error)) (*tasks.ImportResult, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPlaylist, tasks.ClearPlaylist:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.AddSongs:
				if update.Step == 0 {
					r.writePlain("\n🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			}
		}
	}()

	result, err := op(progressCh)
	close(progressCh)
	<-done
	return result, err
}
