package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Err     error  // Set when the step failed
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylist Phase = iota
	ClearPlaylist
	AddSongs
	Compare
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylist:
		return "fetch_playlist"
	case ClearPlaylist:
		return "clear_playlist"
	case AddSongs:
		return "add_songs"
	case Compare:
		return "compare"
	default:
		return ""
	}
}

func fetchPlaylistUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    step,
		Total:   total,
		Message: "Fetching playlist...",
	}
}

func foundPlaylistUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found playlist (%d songs)", count),
	}
}

func clearPlaylistUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClearPlaylist,
		Step:    1,
		Total:   1,
		Message: "Clearing playlist...",
	}
}

func addSongsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddSongs,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Adding %d songs...", total),
	}
}

func songAddedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, title),
	}
}

func songSkippedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] - %s (already in playlist)", step, total, title),
	}
}

func songFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
		Err:     err,
	}
}

func compareUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    step,
		Total:   total,
		Message: "Comparing titles...",
	}
}
