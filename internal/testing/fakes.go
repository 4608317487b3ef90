package testing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/shared"
)

// FakeProvider is a test double for session.Provider.
type FakeProvider struct {
	mu          sync.Mutex
	InitErr     error
	InitCalls   int
	Credential  models.Credential
	SignInErr   error
	SignInCalls int
}

func (f *FakeProvider) Initialize(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InitCalls++
	return f.InitErr
}

func (f *FakeProvider) SignIn(ctx context.Context) (models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignInCalls++
	if f.SignInErr != nil {
		return "", f.SignInErr
	}
	return f.Credential, nil
}

// MemoryStore is an in-memory session.Store that counts reads.
type MemoryStore struct {
	mu        sync.Mutex
	values    map[string]string
	Gets      int
	GetErr    error
	SetErr    error
	DeleteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetErr != nil {
		return "", m.GetErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrSlotEmpty, key)
	}
	return v, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.values, key)
	return nil
}

// StubPlaylistAPI is a programmable playlist API that records every call.
//
// Calls are logged as "list", "add:<title>" and "clear". Nil funcs succeed with an empty result.
type StubPlaylistAPI struct {
	mu        sync.Mutex
	calls     []string
	ListFunc  func(ctx context.Context) (models.Snapshot, error)
	AddFunc   func(ctx context.Context, title string) error
	ClearFunc func(ctx context.Context) error
}

func (s *StubPlaylistAPI) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *StubPlaylistAPI) ListPlaylist(ctx context.Context) (models.Snapshot, error) {
	s.record("list")
	if s.ListFunc == nil {
		return models.Snapshot{}, nil
	}
	return s.ListFunc(ctx)
}

func (s *StubPlaylistAPI) AddSong(ctx context.Context, title string) error {
	s.record("add:" + title)
	if s.AddFunc == nil {
		return nil
	}
	return s.AddFunc(ctx, title)
}

func (s *StubPlaylistAPI) ClearPlaylist(ctx context.Context) error {
	s.record("clear")
	if s.ClearFunc == nil {
		return nil
	}
	return s.ClearFunc(ctx)
}

// Calls returns a copy of the call log.
func (s *StubPlaylistAPI) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Count returns how many logged calls start with prefix.
func (s *StubPlaylistAPI) Count(prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// FakeAuthenticator is a test double for the controller's sign-in dependency.
type FakeAuthenticator struct {
	mu         sync.Mutex
	Calls      int
	Credential models.Credential
	Err        error
	// Block, when set, is received from before returning.
	Block chan struct{}
}

func (f *FakeAuthenticator) SignIn(ctx context.Context) (models.Credential, error) {
	f.mu.Lock()
	f.Calls++
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Credential, nil
}
