package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/services"
	"github.com/desertthunder/ytpm/internal/session"
	"github.com/desertthunder/ytpm/internal/shared"
	tu "github.com/desertthunder/ytpm/internal/testing"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func snapshotOf(titles ...string) models.Snapshot {
	snap := make(models.Snapshot, len(titles))
	for i, title := range titles {
		snap[i] = models.PlaylistItem{ID: title, Title: title}
	}
	return snap
}

func TestMount(t *testing.T) {
	ctx := context.Background()

	t.Run("Success Replaces Snapshot", func(t *testing.T) {
		api := &tu.StubPlaylistAPI{ListFunc: func(context.Context) (models.Snapshot, error) {
			return models.Snapshot{{ID: "a", Title: "Song A"}}, nil
		}}
		c := New(api, nil, quietLogger())

		if err := c.Mount(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		snap := c.Snapshot()
		if len(snap) != 1 || snap[0] != (models.PlaylistItem{ID: "a", Title: "Song A"}) {
			t.Errorf("unexpected snapshot %+v", snap)
		}
		if c.Loading() {
			t.Error("should not be loading after mount settles")
		}
	})

	t.Run("Failure Keeps Empty Snapshot", func(t *testing.T) {
		api := &tu.StubPlaylistAPI{ListFunc: func(context.Context) (models.Snapshot, error) {
			return nil, shared.ErrFetchFailed
		}}
		c := New(api, nil, quietLogger())

		if err := c.Mount(ctx); !errors.Is(err, shared.ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed, got %v", err)
		}
		if snap := c.Snapshot(); len(snap) != 0 {
			t.Errorf("expected empty snapshot, got %+v", snap)
		}
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure Keeps Previous Snapshot", func(t *testing.T) {
		var fail atomic.Bool
		api := &tu.StubPlaylistAPI{ListFunc: func(context.Context) (models.Snapshot, error) {
			if fail.Load() {
				return nil, shared.ErrFetchFailed
			}
			return snapshotOf("A", "B"), nil
		}}
		c := New(api, nil, quietLogger())

		if err := c.Mount(ctx); err != nil {
			t.Fatal(err)
		}
		fail.Store(true)
		if err := c.Refresh(ctx); err == nil {
			t.Error("expected refresh error")
		}

		if got := c.Snapshot().Titles(); len(got) != 2 {
			t.Errorf("expected previous snapshot to remain, got %v", got)
		}
		if c.Busy(ControlRefresh) {
			t.Error("refresh should not stay busy")
		}
	})

	t.Run("Busy Guard", func(t *testing.T) {
		gate := make(chan struct{})
		api := &tu.StubPlaylistAPI{ListFunc: func(context.Context) (models.Snapshot, error) {
			<-gate
			return snapshotOf("A"), nil
		}}
		c := New(api, nil, quietLogger())

		done := make(chan error)
		go func() { done <- c.Refresh(ctx) }()
		waitFor(t, "refresh busy", func() bool { return c.Busy(ControlRefresh) })

		if err := c.Refresh(ctx); !errors.Is(err, shared.ErrBusy) {
			t.Errorf("expected ErrBusy, got %v", err)
		}

		close(gate)
		if err := <-done; err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := api.Count("list"); n != 1 {
			t.Errorf("expected one list call, got %d", n)
		}
	})
}

func TestAddSong(t *testing.T) {
	ctx := context.Background()

	t.Run("Add Then Re-list", func(t *testing.T) {
		var added atomic.Bool
		api := &tu.StubPlaylistAPI{
			ListFunc: func(context.Context) (models.Snapshot, error) {
				if added.Load() {
					return snapshotOf("Song A", "New Song"), nil
				}
				return snapshotOf("Song A"), nil
			},
			AddFunc: func(context.Context, string) error {
				added.Store(true)
				return nil
			},
		}
		c := New(api, nil, quietLogger())
		c.Mount(ctx)

		if err := c.AddSong(ctx, "New Song"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		calls := strings.Join(api.Calls(), ",")
		if calls != "list,add:New Song,list" {
			t.Errorf("unexpected call sequence %s", calls)
		}
		if got := c.Snapshot().Titles(); len(got) != 2 || got[1] != "New Song" {
			t.Errorf("expected server ground truth, got %v", got)
		}
	})

	t.Run("Failed Add Still Re-lists", func(t *testing.T) {
		addErr := errors.New("Song not found")
		api := &tu.StubPlaylistAPI{AddFunc: func(context.Context, string) error { return addErr }}
		c := New(api, nil, quietLogger())

		if err := c.AddSong(ctx, "zzzz"); !errors.Is(err, addErr) {
			t.Errorf("expected add error, got %v", err)
		}
		if calls := strings.Join(api.Calls(), ","); calls != "add:zzzz,list" {
			t.Errorf("expected re-list after failure, got %s", calls)
		}
		if c.Busy(ControlAdd) {
			t.Error("add should not stay busy")
		}
	})

	t.Run("Blank Title Ignored", func(t *testing.T) {
		api := &tu.StubPlaylistAPI{}
		c := New(api, nil, quietLogger())

		for _, title := range []string{"", "   "} {
			if err := c.AddSong(ctx, title); err != nil {
				t.Errorf("expected nil for %q, got %v", title, err)
			}
		}
		if len(api.Calls()) != 0 {
			t.Errorf("expected no calls, got %v", api.Calls())
		}
	})

	t.Run("Busy Guard", func(t *testing.T) {
		gate := make(chan struct{})
		api := &tu.StubPlaylistAPI{AddFunc: func(context.Context, string) error {
			<-gate
			return nil
		}}
		c := New(api, nil, quietLogger())

		done := make(chan error)
		go func() { done <- c.AddSong(ctx, "first") }()
		waitFor(t, "add busy", func() bool { return c.Busy(ControlAdd) })

		if err := c.AddSong(ctx, "second"); !errors.Is(err, shared.ErrBusy) {
			t.Errorf("expected ErrBusy, got %v", err)
		}

		close(gate)
		<-done

		if n := api.Count("add:"); n != 1 {
			t.Errorf("expected one add call, got %d", n)
		}
		if c.Busy(ControlAdd) {
			t.Error("add should be released")
		}
	})

	t.Run("Busy Released Before Re-list", func(t *testing.T) {
		var busyDuringList atomic.Bool
		var c *Controller
		api := &tu.StubPlaylistAPI{ListFunc: func(context.Context) (models.Snapshot, error) {
			busyDuringList.Store(c.Busy(ControlAdd))
			return models.Snapshot{}, nil
		}}
		c = New(api, nil, quietLogger())

		c.AddSong(ctx, "x")
		if busyDuringList.Load() {
			t.Error("add busy flag should be cleared before the re-list")
		}
	})
}

func TestSubmitThenRelist(t *testing.T) {
	ctx := context.Background()

	t.Run("SubmitSong Does Not List", func(t *testing.T) {
		api := &tu.StubPlaylistAPI{}
		c := New(api, nil, quietLogger())

		if err := c.SubmitSong(ctx, "New Song"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls := strings.Join(api.Calls(), ","); calls != "add:New Song" {
			t.Errorf("expected only the append, got %s", calls)
		}
		if c.Busy(ControlAdd) {
			t.Error("add should be released once the append returns")
		}

		if err := c.Relist(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls := strings.Join(api.Calls(), ","); calls != "add:New Song,list" {
			t.Errorf("unexpected call sequence %s", calls)
		}
	})

	t.Run("SubmitSong Blank Title", func(t *testing.T) {
		api := &tu.StubPlaylistAPI{}
		c := New(api, nil, quietLogger())

		if err := c.SubmitSong(ctx, "  "); err != nil || len(api.Calls()) != 0 {
			t.Errorf("expected no call and no error, got %v (%v)", api.Calls(), err)
		}
	})

	t.Run("SubmitClear Failure", func(t *testing.T) {
		api := &tu.StubPlaylistAPI{ClearFunc: func(context.Context) error { return errors.New("boom") }}
		c := New(api, nil, quietLogger())

		if err := c.SubmitClear(ctx); err == nil {
			t.Error("expected clear error")
		}
		if calls := strings.Join(api.Calls(), ","); calls != "clear" {
			t.Errorf("expected only the clear, got %s", calls)
		}
		if c.Busy(ControlClear) {
			t.Error("clear should be released")
		}
	})

	t.Run("Relist Does Not Hold Refresh", func(t *testing.T) {
		var refreshBusy atomic.Bool
		var c *Controller
		api := &tu.StubPlaylistAPI{ListFunc: func(context.Context) (models.Snapshot, error) {
			refreshBusy.Store(c.Busy(ControlRefresh))
			return snapshotOf("Song A"), nil
		}}
		c = New(api, nil, quietLogger())

		if err := c.Relist(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if refreshBusy.Load() {
			t.Error("relist should not mark refresh busy")
		}
		if got := c.Snapshot().Titles(); len(got) != 1 {
			t.Errorf("expected snapshot applied, got %v", got)
		}
	})
}

func TestClearPlaylist(t *testing.T) {
	ctx := context.Background()

	t.Run("Success Re-lists", func(t *testing.T) {
		var cleared atomic.Bool
		api := &tu.StubPlaylistAPI{
			ListFunc: func(context.Context) (models.Snapshot, error) {
				if cleared.Load() {
					return snapshotOf("Keeper"), nil
				}
				return snapshotOf("A", "B", "C"), nil
			},
			ClearFunc: func(context.Context) error {
				cleared.Store(true)
				return nil
			},
		}
		c := New(api, nil, quietLogger())
		c.Mount(ctx)

		if err := c.ClearPlaylist(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if api.Count("clear") != 1 {
			t.Errorf("expected exactly one clear, got %d", api.Count("clear"))
		}
		if got := c.Snapshot().Titles(); len(got) != 1 || got[0] != "Keeper" {
			t.Errorf("expected server's post-clear list, got %v", got)
		}
	})

	t.Run("Failure Does Not Re-list", func(t *testing.T) {
		api := &tu.StubPlaylistAPI{
			ListFunc:  func(context.Context) (models.Snapshot, error) { return snapshotOf("A", "B"), nil },
			ClearFunc: func(context.Context) error { return shared.ErrClearFailed },
		}
		c := New(api, nil, quietLogger())
		c.Mount(ctx)

		if err := c.ClearPlaylist(ctx); !errors.Is(err, shared.ErrClearFailed) {
			t.Errorf("expected ErrClearFailed, got %v", err)
		}
		if calls := strings.Join(api.Calls(), ","); calls != "list,clear" {
			t.Errorf("expected no re-list after failed clear, got %s", calls)
		}
		if got := c.Snapshot().Titles(); len(got) != 2 {
			t.Errorf("expected stale snapshot to remain, got %v", got)
		}
	})

	t.Run("Busy Guard", func(t *testing.T) {
		gate := make(chan struct{})
		api := &tu.StubPlaylistAPI{ClearFunc: func(context.Context) error {
			<-gate
			return nil
		}}
		c := New(api, nil, quietLogger())

		done := make(chan error)
		go func() { done <- c.ClearPlaylist(ctx) }()
		waitFor(t, "clear busy", func() bool { return c.Busy(ControlClear) })

		if err := c.ClearPlaylist(ctx); !errors.Is(err, shared.ErrBusy) {
			t.Errorf("expected ErrBusy, got %v", err)
		}
		close(gate)
		<-done

		if api.Count("clear") != 1 {
			t.Errorf("expected one clear call, got %d", api.Count("clear"))
		}
	})
}

func TestStaleResponses(t *testing.T) {
	ctx := context.Background()
	gate := make(chan struct{})
	var calls atomic.Int32

	api := &tu.StubPlaylistAPI{ListFunc: func(context.Context) (models.Snapshot, error) {
		if calls.Add(1) == 1 {
			<-gate
			return snapshotOf("old"), nil
		}
		return snapshotOf("new"), nil
	}}
	c := New(api, nil, quietLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Mount(ctx)
	}()
	waitFor(t, "mount in flight", func() bool { return calls.Load() == 1 })

	if err := c.Refresh(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Loading() {
		t.Error("expected loading while the mount is still in flight")
	}

	close(gate)
	wg.Wait()

	if got := c.Snapshot().Titles(); len(got) != 1 || got[0] != "new" {
		t.Errorf("older response should be discarded, got %v", got)
	}
	if c.Loading() {
		t.Error("expected loading to settle")
	}
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancelled Notice", func(t *testing.T) {
		auth := &tu.FakeAuthenticator{Err: &session.SignInError{Kind: session.SignInCancelled}}
		api := &tu.StubPlaylistAPI{}
		c := New(api, auth, quietLogger())

		if _, err := c.SignIn(ctx); !session.IsCancelled(err) {
			t.Errorf("expected cancellation, got %v", err)
		}

		notice := c.Notice()
		if notice.Kind != NoticeInfo || notice.Message != CancelledNotice {
			t.Errorf("unexpected notice %+v", notice)
		}
		if len(api.Calls()) != 0 {
			t.Error("sign-in should not touch the playlist")
		}

		c.DismissNotice()
		if c.Notice().Kind != NoticeNone {
			t.Error("notice should be dismissed")
		}
	})

	t.Run("Other Failure Notice", func(t *testing.T) {
		auth := &tu.FakeAuthenticator{Err: &session.SignInError{Kind: session.SignInOther, Cause: shared.ErrTimeout}}
		c := New(&tu.StubPlaylistAPI{}, auth, quietLogger())

		c.SignIn(ctx)

		notice := c.Notice()
		if notice.Kind != NoticeError || notice.Message == CancelledNotice {
			t.Errorf("expected distinct error notice, got %+v", notice)
		}
	})

	t.Run("Success Clears Notice", func(t *testing.T) {
		auth := &tu.FakeAuthenticator{Err: &session.SignInError{Kind: session.SignInCancelled}}
		c := New(&tu.StubPlaylistAPI{}, auth, quietLogger())
		c.SignIn(ctx)

		auth.Err = nil
		auth.Credential = "tok"
		cred, err := c.SignIn(ctx)
		if err != nil || cred != "tok" {
			t.Fatalf("expected success, got %q (%v)", cred, err)
		}
		if c.Notice().Kind != NoticeNone {
			t.Errorf("expected no notice, got %+v", c.Notice())
		}
	})

	t.Run("Busy Guard", func(t *testing.T) {
		auth := &tu.FakeAuthenticator{Block: make(chan struct{}), Credential: "tok"}
		c := New(&tu.StubPlaylistAPI{}, auth, quietLogger())

		done := make(chan struct{})
		go func() {
			c.SignIn(ctx)
			close(done)
		}()
		waitFor(t, "sign-in busy", func() bool { return c.Busy(ControlSignIn) })

		if _, err := c.SignIn(ctx); !errors.Is(err, shared.ErrBusy) {
			t.Errorf("expected ErrBusy, got %v", err)
		}
		close(auth.Block)
		<-done
	})

	t.Run("No Authenticator", func(t *testing.T) {
		c := New(&tu.StubPlaylistAPI{}, nil, quietLogger())
		if _, err := c.SignIn(ctx); !errors.Is(err, shared.ErrNotInitialized) {
			t.Errorf("expected ErrNotInitialized, got %v", err)
		}
	})
}

// TestAgainstPlaylistService runs the controller over the real HTTP client and a fake service.
func TestAgainstPlaylistService(t *testing.T) {
	var (
		mu    sync.Mutex
		items    = []string{"Song A"}
		requests []string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		requests = append(requests, r.Method+" "+r.URL.RequestURI())

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/playlist":
			var b strings.Builder
			b.WriteString(`{"items":[`)
			for i, title := range items {
				if i > 0 {
					b.WriteString(",")
				}
				b.WriteString(`{"id":"` + title + `","title":"` + title + `"}`)
			}
			b.WriteString(`]}`)
			w.Write([]byte(b.String()))
		case r.Method == http.MethodPost && r.URL.Path == "/add_song":
			items = append(items, r.URL.Query().Get("song_title"))
			w.Write([]byte(`{}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/clear_playlist":
			items = items[:1]
			w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := services.NewPlaylistClient(services.PlaylistClientOpts{BaseURL: srv.URL, Logger: quietLogger()})
	c := New(client, nil, quietLogger())
	ctx := context.Background()

	if err := c.Mount(ctx); err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	if err := c.AddSong(ctx, "New Song"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if got := c.Snapshot().Titles(); len(got) != 2 || got[1] != "New Song" {
		t.Errorf("unexpected snapshot after add %v", got)
	}
	if err := c.ClearPlaylist(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{
		"GET /playlist",
		"POST /add_song?song_title=New%20Song",
		"GET /playlist",
		"DELETE /clear_playlist",
		"GET /playlist",
	}
	if strings.Join(requests, "\n") != strings.Join(want, "\n") {
		t.Errorf("unexpected request log:\n%s", strings.Join(requests, "\n"))
	}
	if len(items) != 1 {
		t.Errorf("expected server to keep one item, got %v", items)
	}
}
