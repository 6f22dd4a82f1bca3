package server

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// SignInResult contains the outcome of a browser sign-in flow.
type SignInResult struct {
	Token *oauth2.Token
	err   error
}

func (s *SignInResult) Error() error {
	return s.err
}

// SignInHandler receives the redirect back from the mixtape service's
// sign-in page. The service appends the issued API token and the state the
// CLI generated; the handler validates the state and hands the token to the
// waiting command through a channel.
//
// Implements the Handler interface for registration with a Router.
type SignInHandler struct {
	state       string
	resultChan  chan SignInResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewSignInHandler creates a handler expecting the given state token.
// The state token should be cryptographically random for CSRF protection.
func NewSignInHandler(state string) *SignInHandler {
	return &SignInHandler{
		state:      state,
		resultChan: make(chan SignInResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *SignInHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the sign-in callback request.
//
// Validates the state parameter, extracts the API token, and sends the
// result through the result channel.
func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state != h.state {
		err := fmt.Errorf("invalid state parameter")
		h.Send(SignInResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		errParam := r.URL.Query().Get("error")
		err := fmt.Errorf("sign-in failed: %s", errParam)
		h.Send(SignInResult{err: err})
		http.Error(w, "Sign-in failed", http.StatusBadRequest)
		return
	}

	h.Send(SignInResult{Token: &oauth2.Token{AccessToken: token, TokenType: "Bearer"}})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, signInSuccessPage)
}

// Send sends the sign-in result through the channel (only once).
func (h *SignInHandler) Send(result SignInResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving sign-in completion.
//
// Channel will receive exactly one result and then be closed.
func (h *SignInHandler) Result() <-chan SignInResult {
	return h.resultChan
}

const signInSuccessPage = `
<!DOCTYPE html>
<html>
<head>
    <title>Signed In</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #e8590c; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Signed In</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
