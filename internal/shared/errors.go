package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Session errors
	ErrSignInFailed        = fmt.Errorf("sign-in failed")
	ErrSignInCancelled     = fmt.Errorf("sign-in cancelled")
	ErrNotInitialized      = fmt.Errorf("identity provider not initialized")
	ErrProviderUnavailable = fmt.Errorf("identity provider unavailable")
	ErrNotAuthenticated    = fmt.Errorf("not authenticated")
	ErrTokenExpired        = fmt.Errorf("credential expired")
	ErrTimeout             = fmt.Errorf("operation timed out")
	ErrSlotEmpty           = fmt.Errorf("storage slot empty")

	// Playlist service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrFetchFailed        = fmt.Errorf("fetch playlist failed")
	ErrAddFailed          = fmt.Errorf("add song failed")
	ErrClearFailed        = fmt.Errorf("clear playlist failed")

	// Controller errors
	ErrBusy = fmt.Errorf("control busy")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
