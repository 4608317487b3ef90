package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/shared"
)

// CredentialKey is the storage slot holding the signed-in credential.
const CredentialKey = "ytpm.credential"

// Provider is an identity provider capable of an interactive sign-in.
type Provider interface {
	// Initialize configures the provider. Returning [shared.ErrProviderUnavailable] means
	// "not ready yet"; the caller may try again later.
	Initialize(ctx context.Context) error
	// SignIn runs the interactive flow and returns the issued credential.
	SignIn(ctx context.Context) (models.Credential, error)
}

// Store is a string key/value slot store. Get returns [shared.ErrSlotEmpty] for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Manager orchestrates a [Provider] and persists its credential in a [Store].
type Manager struct {
	provider Provider
	store    Store
	logger   *log.Logger

	mu          sync.Mutex
	initialized bool
}

// NewManager creates a [Manager]. A nil logger falls back to [shared.NewLogger] on stderr.
func NewManager(provider Provider, store Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		provider: provider,
		store:    store,
		logger:   shared.WithLogger(logger, "component", "session"),
	}
}

// Initialize configures the provider once.
//
// Repeated calls after a success are no-ops. When the provider is unavailable the call logs and
// returns nil so that a later call can retry.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	err := m.provider.Initialize(ctx)
	switch {
	case err == nil:
		m.initialized = true
		m.logger.Debug("identity provider initialized")
		return nil
	case errors.Is(err, shared.ErrProviderUnavailable):
		m.logger.Warn("identity provider not available yet", "error", err)
		return nil
	default:
		return fmt.Errorf("failed to initialize identity provider: %w", err)
	}
}

// Initialized reports whether [Manager.Initialize] has completed.
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// SignIn runs the provider's interactive flow and stores the credential.
//
// Every failure is a [*SignInError]. A nil error means the slot has been written.
func (m *Manager) SignIn(ctx context.Context) (models.Credential, error) {
	if !m.Initialized() {
		return "", failed(shared.ErrNotInitialized)
	}

	cred, err := m.provider.SignIn(ctx)
	if err != nil {
		sie := classify(ctx, err)
		m.logger.Warn("sign-in failed", "kind", sie.Kind, "error", sie.Cause)
		return "", sie
	}

	if cred.Empty() {
		return "", failed(fmt.Errorf("%w: provider returned an empty credential", shared.ErrInvalidCredentials))
	}

	if err := m.store.Set(ctx, CredentialKey, cred.String()); err != nil {
		return "", failed(fmt.Errorf("failed to persist credential: %w", err))
	}

	m.logger.Info("signed in")
	return cred, nil
}

// Credential reads the stored credential. An empty slot yields ("", nil).
func (m *Manager) Credential(ctx context.Context) (models.Credential, error) {
	value, err := m.store.Get(ctx, CredentialKey)
	if errors.Is(err, shared.ErrSlotEmpty) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	return models.Credential(value), nil
}

// SignOut clears the stored credential. Signing out twice is not an error.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.store.Delete(ctx, CredentialKey); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	m.logger.Info("signed out")
	return nil
}

// Profile decodes the stored credential's claims for display.
func (m *Manager) Profile(ctx context.Context) (models.Profile, error) {
	cred, err := m.Credential(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	if cred.Empty() {
		return models.Profile{}, shared.ErrNotAuthenticated
	}
	return DecodeProfile(cred)
}

// classify maps a provider error onto a [*SignInError], keeping one the provider already built.
func classify(ctx context.Context, err error) *SignInError {
	var sie *SignInError
	if errors.As(err, &sie) {
		return sie
	}
	if errors.Is(err, shared.ErrSignInCancelled) || errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return cancelled(err)
	}
	return failed(err)
}
