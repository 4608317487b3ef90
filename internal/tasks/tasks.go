package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/shared"
)

// PlaylistAPI is the subset of the playlist client the engine needs.
type PlaylistAPI interface {
	ListPlaylist(ctx context.Context) (models.Snapshot, error)
	AddSong(ctx context.Context, title string) error
	ClearPlaylist(ctx context.Context) error
}

// ImportOpts controls [Engine.Import].
type ImportOpts struct {
	Replace      bool // clear the playlist before adding
	SkipExisting bool // skip titles that already match a song in the playlist
	StopOnError  bool // abort at the first failed add
}

// AddResult is the outcome for one title.
type AddResult struct {
	Title   string
	Skipped bool
	Err     error
}

// ImportResult contains all data from an import.
type ImportResult struct {
	Results      []AddResult
	AddedCount   int
	SkippedCount int
	FailedCount  int
	Total        int
	Playlist     models.Snapshot // playlist after the import
}

// Failed returns the titles whose add failed.
func (r *ImportResult) Failed() []AddResult {
	var failed []AddResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// DiffResult contains title comparison details between a local list and the playlist.
type DiffResult struct {
	Playlist     models.Snapshot
	MatchedCount int
	Missing      []string              // in the list, not in the playlist
	Extra        []models.PlaylistItem // in the playlist, not in the list
}

// Engine orchestrates multi-step playlist operations.
type Engine struct {
	api    PlaylistAPI
	logger *log.Logger
}

// NewEngine creates an [Engine] over api.
func NewEngine(api PlaylistAPI, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{api: api, logger: shared.WithLogger(logger, "component", "tasks")}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Import appends titles to the playlist in order.
//
// Blank titles are dropped before counting. A failed add is recorded and the import
// continues unless opts.StopOnError is set. The returned result is non-nil whenever
// adding started, even when an error is also returned.
func (e *Engine) Import(ctx context.Context, titles []string, opts ImportOpts, progress chan<- ProgressUpdate) (*ImportResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: playlist client not initialized", shared.ErrServiceUnavailable)
	}

	titles = compact(titles)
	result := &ImportResult{Total: len(titles), Results: make([]AddResult, 0, len(titles))}

	existing := map[string]bool{}
	if opts.SkipExisting && !opts.Replace {
		e.sendProgress(progress, fetchPlaylistUpdate(1, 1))
		snap, err := e.api.ListPlaylist(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range snap {
			existing[NormalizeTitle(item.Title)] = true
		}
		e.sendProgress(progress, foundPlaylistUpdate(1, 1, len(snap)))
	}

	if opts.Replace {
		e.sendProgress(progress, clearPlaylistUpdate())
		if err := e.api.ClearPlaylist(ctx); err != nil {
			return nil, err
		}
	}

	e.sendProgress(progress, addSongsUpdate(len(titles)))

	for i, title := range titles {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		key := NormalizeTitle(title)
		if existing[key] {
			result.Results = append(result.Results, AddResult{Title: title, Skipped: true})
			result.SkippedCount++
			e.sendProgress(progress, songSkippedUpdate(i+1, len(titles), title))
			continue
		}

		err := e.api.AddSong(ctx, title)
		result.Results = append(result.Results, AddResult{Title: title, Err: err})
		if err != nil {
			result.FailedCount++
			e.logger.Warn("add failed", "title", title, "error", err)
			e.sendProgress(progress, songFailedUpdate(i+1, len(titles), title, err))
			if opts.StopOnError {
				return result, err
			}
			continue
		}

		result.AddedCount++
		if opts.SkipExisting {
			existing[key] = true
		}
		e.sendProgress(progress, songAddedUpdate(i+1, len(titles), title))
	}

	snap, err := e.api.ListPlaylist(ctx)
	if err != nil {
		return result, err
	}
	result.Playlist = snap

	e.logger.Info("import finished", "added", result.AddedCount, "skipped", result.SkippedCount, "failed", result.FailedCount)
	return result, nil
}

// Diff compares titles with the remote playlist.
func (e *Engine) Diff(ctx context.Context, titles []string, progress chan<- ProgressUpdate) (*DiffResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: playlist client not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchPlaylistUpdate(1, 2))
	snap, err := e.api.ListPlaylist(ctx)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, foundPlaylistUpdate(1, 2, len(snap)))

	e.sendProgress(progress, compareUpdate(2, 2))
	result := &DiffResult{Playlist: snap}

	remote := make(map[string]bool, len(snap))
	for _, item := range snap {
		remote[NormalizeTitle(item.Title)] = true
	}

	local := map[string]bool{}
	for _, title := range compact(titles) {
		key := NormalizeTitle(title)
		local[key] = true
		if remote[key] {
			result.MatchedCount++
		} else {
			result.Missing = append(result.Missing, title)
		}
	}

	for _, item := range snap {
		if !local[NormalizeTitle(item.Title)] {
			result.Extra = append(result.Extra, item)
		}
	}
	return result, nil
}

// NormalizeTitle lowercases title and collapses runs of whitespace.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

func compact(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
