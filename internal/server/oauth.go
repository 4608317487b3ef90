package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// ErrAccessDenied is reported when the provider redirects back with error=access_denied,
// which is what happens when the user closes or declines the consent screen.
var ErrAccessDenied = errors.New("access denied by user")

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

// Error returns the failure, if any. Denials satisfy errors.Is(err, [ErrAccessDenied]).
func (o *OAuthResult) Error() error {
	return o.err
}

// Denied reports whether the user declined the authorization request.
func (o *OAuthResult) Denied() bool {
	return errors.Is(o.err, ErrAccessDenied)
}

// OAuthHandler handles the OAuth2 authorization code callback.
// Implements the [Handler] interface for registration with a [Router].
type OAuthHandler struct {
	config      *oauth2.Config
	state       string
	verifier    string
	resultChan  chan OAuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewOAuthHandler creates a new OAuth handler for one authorization attempt.
//
// state should be cryptographically random for CSRF protection. verifier is the PKCE code verifier
// whose challenge was sent with the authorization URL; pass "" to exchange without PKCE.
func NewOAuthHandler(config *oauth2.Config, state, verifier string) *OAuthHandler {
	return &OAuthHandler{
		config:     config,
		state:      state,
		verifier:   verifier,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the OAuth callback request.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()

	if query.Get("state") != h.state {
		h.Send(OAuthResult{err: fmt.Errorf("invalid state parameter")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	if errParam := query.Get("error"); errParam != "" {
		if errParam == "access_denied" {
			h.Send(OAuthResult{err: ErrAccessDenied})
			writePage(w, http.StatusOK, "Sign-in cancelled", "You can close this window and return to the terminal.")
			return
		}

		h.Send(OAuthResult{err: fmt.Errorf("authorization failed: %s - %s", errParam, query.Get("error_description"))})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		h.Send(OAuthResult{err: fmt.Errorf("authorization failed: missing code")})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	var opts []oauth2.AuthCodeOption
	if h.verifier != "" {
		opts = append(opts, oauth2.VerifierOption(h.verifier))
	}

	token, err := h.config.Exchange(r.Context(), code, opts...)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(OAuthResult{Token: token})
	writePage(w, http.StatusOK, "✓ Signed In", "You can close this window and return to the terminal.")
}

// Send sends the OAuth result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving OAuth flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

func writePage(w http.ResponseWriter, status int, heading, message string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>%[1]s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #FF0000; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%[1]s</h1>
        <p>%[2]s</p>
    </div>
</body>
</html>
`, heading, message)
}
