package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/shared"
)

// CancelledNotice is shown when the user backs out of sign-in.
const CancelledNotice = "Sign-in was cancelled. Please try again."

// Control identifies a user-triggerable action with its own busy flag.
type Control int

const (
	ControlRefresh Control = iota
	ControlAdd
	ControlClear
	ControlSignIn
)

func (c Control) String() string {
	switch c {
	case ControlRefresh:
		return "refresh"
	case ControlAdd:
		return "add"
	case ControlClear:
		return "clear"
	case ControlSignIn:
		return "sign-in"
	default:
		return fmt.Sprintf("control(%d)", int(c))
	}
}

// PlaylistAPI is the remote playlist the controller drives.
type PlaylistAPI interface {
	ListPlaylist(ctx context.Context) (models.Snapshot, error)
	AddSong(ctx context.Context, title string) error
	ClearPlaylist(ctx context.Context) error
}

// Authenticator performs an interactive sign-in.
type Authenticator interface {
	SignIn(ctx context.Context) (models.Credential, error)
}

// NoticeKind distinguishes informational notices from errors.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeInfo
	NoticeError
)

// Notice is a dismissible message for the user.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Controller is safe for concurrent use.
type Controller struct {
	api    PlaylistAPI
	auth   Authenticator
	logger *log.Logger

	mu       sync.Mutex
	snapshot models.Snapshot
	busy     map[Control]bool
	listing  int
	issued   uint64
	applied  uint64
	notice   Notice
}

// New creates a [Controller] with an empty snapshot. auth may be nil when sign-in is not offered.
func New(api PlaylistAPI, auth Authenticator, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{
		api:      api,
		auth:     auth,
		logger:   shared.WithLogger(logger, "component", "controller"),
		snapshot: models.Snapshot{},
		busy:     make(map[Control]bool),
	}
}

// Mount performs the initial list. A failure is logged and leaves the snapshot empty.
func (c *Controller) Mount(ctx context.Context) error {
	return c.list(ctx)
}

// Refresh re-lists on demand. Returns [shared.ErrBusy] while a refresh is in flight.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.acquire(ControlRefresh) {
		return shared.ErrBusy
	}
	defer c.release(ControlRefresh)

	return c.list(ctx)
}

// AddSong appends title and then re-lists, whether or not the append succeeded.
//
// Blank titles are ignored. The append error, if any, is returned after the re-list.
func (c *Controller) AddSong(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	err := c.SubmitSong(ctx, title)
	if errors.Is(err, shared.ErrBusy) {
		return err
	}

	_ = c.Relist(ctx)
	return err
}

// SubmitSong is the first half of [Controller.AddSong]: the append alone. The add control is
// released before it returns, so the caller can settle its view and then call [Controller.Relist].
func (c *Controller) SubmitSong(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	if !c.acquire(ControlAdd) {
		return shared.ErrBusy
	}

	err := c.api.AddSong(ctx, title)
	c.release(ControlAdd)

	if err != nil {
		c.logger.Error("failed to add song", "title", title, "error", err)
	}
	return err
}

// ClearPlaylist clears the remote playlist and re-lists only on success.
func (c *Controller) ClearPlaylist(ctx context.Context) error {
	if err := c.SubmitClear(ctx); err != nil {
		return err
	}
	return c.Relist(ctx)
}

// SubmitClear is [Controller.ClearPlaylist] without the follow-up list.
func (c *Controller) SubmitClear(ctx context.Context) error {
	if !c.acquire(ControlClear) {
		return shared.ErrBusy
	}

	err := c.api.ClearPlaylist(ctx)
	c.release(ControlClear)

	if err != nil {
		c.logger.Error("failed to clear playlist", "error", err)
	}
	return err
}

// Relist fetches the playlist without holding any control's busy flag.
func (c *Controller) Relist(ctx context.Context) error {
	return c.list(ctx)
}

// SignIn runs the interactive sign-in. Playlist state is untouched; the outcome is reported through [Controller.Notice].
func (c *Controller) SignIn(ctx context.Context) (models.Credential, error) {
	if c.auth == nil {
		return "", shared.ErrNotInitialized
	}
	if !c.acquire(ControlSignIn) {
		return "", shared.ErrBusy
	}
	defer c.release(ControlSignIn)

	cred, err := c.auth.SignIn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err == nil:
		c.notice = Notice{}
	case errors.Is(err, shared.ErrSignInCancelled):
		c.logger.Info("sign-in cancelled", "error", err)
		c.notice = Notice{Kind: NoticeInfo, Message: CancelledNotice}
	default:
		c.logger.Error("sign-in failed", "error", err)
		c.notice = Notice{Kind: NoticeError, Message: fmt.Sprintf("Sign-in failed: %v", err)}
	}
	return cred, err
}

// Snapshot returns a copy of the last applied playlist.
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot.Clone()
}

// Busy reports whether control has a call outstanding.
func (c *Controller) Busy(control Control) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy[control]
}

// Loading reports whether any list is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listing > 0
}

// Notice returns the current notice; Kind is [NoticeNone] when there is nothing to show.
func (c *Controller) Notice() Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// DismissNotice clears the current notice.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = Notice{}
}

func (c *Controller) acquire(control Control) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy[control] {
		c.logger.Debug("ignoring trigger on busy control", "control", control)
		return false
	}
	c.busy[control] = true
	return true
}

func (c *Controller) release(control Control) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy[control] = false
}

// list fetches the playlist and applies it if no newer list has been applied since this one was issued.
func (c *Controller) list(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	ticket := c.issued
	c.listing++
	c.mu.Unlock()

	snap, err := c.api.ListPlaylist(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.listing--

	if err != nil {
		c.logger.Error("failed to fetch playlist", "error", err)
		return err
	}
	if ticket <= c.applied {
		c.logger.Debug("discarding stale playlist response", "ticket", ticket, "applied", c.applied)
		return nil
	}

	c.applied = ticket
	c.snapshot = snap.Clone()
	return nil
}
